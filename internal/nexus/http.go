package nexus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	searchPath     = "/service/rest/v1/search/assets"
	componentsPath = "/service/rest/v1/components"
)

// StatusError is returned when the server answers with an unexpected
// HTTP status. It carries the status code and response body so callers
// can surface both to the user.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// HTTPClient implements the Client interface against the Nexus REST API
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient creates a new Nexus API client
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{},
	}, nil
}

// ListAssets lists all raw assets below path, following continuation
// tokens. A non-2xx response on any page aborts the whole listing and
// no partial result is returned.
func (c *HTTPClient) ListAssets(ctx context.Context, repository, path string) ([]Asset, error) {
	var assets []Asset
	token := ""

	for {
		page, err := c.searchPage(ctx, repository, path, token)
		if err != nil {
			return nil, err
		}

		assets = append(assets, page.Items...)

		if page.ContinuationToken == "" {
			return assets, nil
		}
		token = page.ContinuationToken
	}
}

func (c *HTTPClient) searchPage(ctx context.Context, repository, path, token string) (*SearchResponse, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = searchPath

	query := u.Query()
	query.Set("repository", repository)
	query.Set("format", "raw")
	query.Set("direction", "asc")
	query.Set("sort", "name")
	query.Set("q", fmt.Sprintf("/%s/*", path))
	if token != "" {
		query.Set("continuationToken", token)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Op: "list assets", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &page, nil
}

// DownloadAsset issues a streaming GET for the asset body
func (c *HTTPClient) DownloadAsset(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, 0, &StatusError{Op: "download asset", StatusCode: resp.StatusCode, Body: string(body)}
	}

	size := resp.ContentLength
	if size < 0 {
		size = 0
	}
	return resp.Body, size, nil
}

// UploadComponent posts one multipart component body. The Nexus API
// commits all files of the component atomically and answers 204 with an
// empty body on success.
func (c *HTTPClient) UploadComponent(ctx context.Context, repository string, body io.Reader, contentType string) error {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = componentsPath

	query := u.Query()
	query.Set("repository", repository)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return &StatusError{Op: fmt.Sprintf("upload to repository %q", repository), StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return &StatusError{Op: "upload component", StatusCode: resp.StatusCode, Body: string(respBody)}
}
