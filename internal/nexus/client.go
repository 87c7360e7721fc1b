package nexus

import (
	"context"
	"io"
)

// Client defines the interface for Nexus raw repository operations
type Client interface {
	// ListAssets returns every asset stored under the given path in the
	// repository, following continuation tokens until the search is
	// exhausted. An empty slice is a valid result.
	ListAssets(ctx context.Context, repository, path string) ([]Asset, error)

	// DownloadAsset opens a streaming reader for the asset body. The
	// returned size is taken from the Content-Length header and is 0 when
	// the server did not declare one. The caller must close the reader.
	DownloadAsset(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)

	// UploadComponent posts a single multipart component body to the
	// repository. Only a 204 response counts as success.
	UploadComponent(ctx context.Context, repository string, body io.Reader, contentType string) error
}

// Asset contains the metadata of one stored file in a raw repository
type Asset struct {
	DownloadURL string `json:"downloadUrl"`
	Path        string `json:"path"`
	ID          string `json:"id"`
	Repository  string `json:"repository"`
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// SearchResponse is one page of the asset search API
type SearchResponse struct {
	Items             []Asset `json:"items"`
	ContinuationToken string  `json:"continuationToken"`
}

// Config contains client configuration
type Config struct {
	BaseURL  string
	Username string
	Password string
}
