package multipart

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry pairs one local file with its repository-relative destination
// path (forward slashes).
type Entry struct {
	LocalPath string
	RelPath   string
	Size      int64
}

// Manifest is the ordered set of files for one component upload. It is
// built once, immutable afterwards, and consumed whole by the encoder.
type Manifest struct {
	Entries []Entry
	Subdir  string
}

// BuildManifest walks sourceDir and collects every regular file. The
// walk order is lexicographic, so when two files map to the same
// destination path the one enumerated last wins deterministically.
// An optional doublestar glob filters files by their relative path.
func BuildManifest(sourceDir, subdir, glob string) (Manifest, error) {
	m := Manifest{Subdir: subdir}
	seen := make(map[string]int)

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if glob != "" {
			ok, err := doublestar.Match(glob, rel)
			if err != nil {
				return fmt.Errorf("invalid glob pattern %q: %w", glob, err)
			}
			if !ok {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entry := Entry{LocalPath: path, RelPath: rel, Size: info.Size()}
		if idx, ok := seen[rel]; ok {
			m.Entries[idx] = entry
			return nil
		}
		seen[rel] = len(m.Entries)
		m.Entries = append(m.Entries, entry)
		return nil
	})
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to walk %s: %w", sourceDir, err)
	}

	return m, nil
}

// TotalSize returns the summed size of all manifest entries
func (m Manifest) TotalSize() int64 {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}
