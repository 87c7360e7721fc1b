package multipart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildManifestWalksLexicographically(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "bb")
	writeFile(t, dir, "a/nested.txt", "nested")
	writeFile(t, dir, "a.txt", "a")

	m, err := BuildManifest(dir, "release1", "")
	require.NoError(t, err)

	require.Len(t, m.Entries, 3)
	assert.Equal(t, "a/nested.txt", m.Entries[0].RelPath)
	assert.Equal(t, "a.txt", m.Entries[1].RelPath)
	assert.Equal(t, "b.txt", m.Entries[2].RelPath)
	assert.Equal(t, "release1", m.Subdir)
	assert.Equal(t, int64(len("a")+len("nested")+len("bb")), m.TotalSize())
}

func TestBuildManifestUsesForwardSlashes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/deeper/file.bin", "data")

	m, err := BuildManifest(dir, "", "")
	require.NoError(t, err)

	require.Len(t, m.Entries, 1)
	assert.Equal(t, "sub/deeper/file.bin", m.Entries[0].RelPath)
}

func TestBuildManifestEmptyDirectory(t *testing.T) {
	m, err := BuildManifest(t.TempDir(), "", "")
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
	assert.Zero(t, m.TotalSize())
}

func TestBuildManifestGlobFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep/notes.txt", "x")
	writeFile(t, dir, "keep/image.png", "x")
	writeFile(t, dir, "drop/other.txt", "x")

	m, err := BuildManifest(dir, "", "keep/**")
	require.NoError(t, err)

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "keep/image.png", m.Entries[0].RelPath)
	assert.Equal(t, "keep/notes.txt", m.Entries[1].RelPath)
}

func TestBuildManifestRejectsBadGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")

	_, err := BuildManifest(dir, "", "[")
	require.Error(t, err)
}

func TestBuildManifestMissingDirectory(t *testing.T) {
	_, err := BuildManifest(filepath.Join(t.TempDir(), "absent"), "", "")
	require.Error(t, err)
}
