package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRepositoryPath(t *testing.T) {
	tests := []struct {
		arg        string
		repository string
		path       string
		ok         bool
	}{
		{"myrepo/folder", "myrepo", "folder", true},
		{"myrepo/folder/sub", "myrepo", "folder/sub", true},
		{"myrepo/folder/", "myrepo", "folder", true},
		{"myrepo", "", "", false},
		{"/folder", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		repository, path, ok := SplitRepositoryPath(tt.arg)
		assert.Equal(t, tt.ok, ok, "arg %q", tt.arg)
		assert.Equal(t, tt.repository, repository, "arg %q", tt.arg)
		assert.Equal(t, tt.path, path, "arg %q", tt.arg)
	}
}

func TestSplitRepositorySubdir(t *testing.T) {
	tests := []struct {
		arg        string
		repository string
		subdir     string
		ok         bool
	}{
		{"builds", "builds", "", true},
		{"builds/release1", "builds", "release1", true},
		{"builds/release1/nested", "builds", "release1/nested", true},
		{"builds/release1/", "builds", "release1", true},
		{"", "", "", false},
		{"/x", "", "", false},
	}

	for _, tt := range tests {
		repository, subdir, ok := SplitRepositorySubdir(tt.arg)
		assert.Equal(t, tt.ok, ok, "arg %q", tt.arg)
		assert.Equal(t, tt.repository, repository, "arg %q", tt.arg)
		assert.Equal(t, tt.subdir, subdir, "arg %q", tt.arg)
	}
}
