package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"nexusraw/internal/nexus"
	"nexusraw/internal/worker"
)

// AssetLister enumerates remote assets for a download batch
type AssetLister struct {
	client nexus.Client
	logger *zap.Logger
}

// List returns every asset under path in the repository, optionally
// filtered by a doublestar glob matched against the path relative to
// the listing prefix.
func (l *AssetLister) List(ctx context.Context, repository, path, glob string) ([]nexus.Asset, error) {
	assets, err := l.client.ListAssets(ctx, repository, path)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Finished listing assets",
		zap.String("repository", repository),
		zap.String("path", path),
		zap.Int("count", len(assets)),
	)

	if glob == "" {
		return assets, nil
	}

	filtered := assets[:0]
	for _, asset := range assets {
		ok, err := doublestar.Match(glob, relativeAssetPath(asset.Path, path))
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", glob, err)
		}
		if ok {
			filtered = append(filtered, asset)
		}
	}
	return filtered, nil
}

// BuildTasks maps assets to download tasks under destDir. The asset
// path keeps its repository-relative layout: "a/b/c.txt" lands at
// destDir/a/b/c.txt on every platform.
func BuildTasks(assets []nexus.Asset, destDir string) []worker.Task {
	tasks := make([]worker.Task, 0, len(assets))
	for _, asset := range assets {
		rel := strings.TrimPrefix(asset.Path, "/")
		tasks = append(tasks, worker.Task{
			Asset:     asset,
			LocalPath: filepath.Join(destDir, filepath.FromSlash(rel)),
		})
	}
	return tasks
}

// relativeAssetPath strips the leading slash and the listing prefix
// from an asset path
func relativeAssetPath(assetPath, basePath string) string {
	rel := strings.TrimPrefix(assetPath, "/")
	if basePath != "" {
		rel = strings.TrimPrefix(rel, basePath+"/")
	}
	return rel
}
