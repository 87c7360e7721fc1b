package nexus

import "strings"

// SplitRepositoryPath splits a "repository/some/path" argument into the
// repository name and the repository-relative path. Trailing slashes on
// the path are normalized away. ok is false when no path component is
// present.
func SplitRepositoryPath(arg string) (repository, path string, ok bool) {
	parts := strings.SplitN(arg, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimRight(parts[1], "/"), true
}

// SplitRepositorySubdir splits an upload destination of the form
// "repository" or "repository/subdir..." into repository and optional
// subdirectory.
func SplitRepositorySubdir(arg string) (repository, subdir string, ok bool) {
	if arg == "" {
		return "", "", false
	}
	parts := strings.SplitN(arg, "/", 2)
	if parts[0] == "" {
		return "", "", false
	}
	if len(parts) == 1 {
		return parts[0], "", true
	}
	return parts[0], strings.TrimRight(parts[1], "/"), true
}
