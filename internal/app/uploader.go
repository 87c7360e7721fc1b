package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"nexusraw/internal/config"
	"nexusraw/internal/metrics"
	"nexusraw/internal/multipart"
	"nexusraw/internal/nexus"
	"nexusraw/internal/progress"
)

// Uploader builds and posts a single multipart component for a local
// directory tree
type Uploader struct {
	cfg     *config.Config
	client  nexus.Client
	logger  *zap.Logger
	metrics *metrics.Collector
	out     io.Writer
}

// NewUploader creates an upload coordinator
func NewUploader(cfg *config.Config, client nexus.Client, collector *metrics.Collector, logger *zap.Logger) *Uploader {
	return &Uploader{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		metrics: collector,
		out:     os.Stdout,
	}
}

// Run uploads every regular file under sourceDir to the repository as
// one atomic component. The whole invocation fails when the single
// POST does; there is no per-file recovery.
func (u *Uploader) Run(ctx context.Context, sourceDir, repository, subdir string) error {
	manifest, err := multipart.BuildManifest(sourceDir, subdir, u.cfg.Transfer.Glob)
	if err != nil {
		return err
	}

	if u.cfg.Transfer.DryRun {
		for _, entry := range manifest.Entries {
			u.printf("Would upload: %s\n", entry.RelPath)
		}
		return nil
	}

	u.logger.Debug("Built upload manifest",
		zap.String("source", sourceDir),
		zap.String("repository", repository),
		zap.String("subdir", subdir),
		zap.Int("files", len(manifest.Entries)),
		zap.Int64("bytes", manifest.TotalSize()),
	)

	bar := progress.NewBar(manifest.TotalSize(), "Uploading", u.cfg.Transfer.Quiet, os.Stderr)
	defer bar.Finish()

	encoded, contentType := manifest.Encode(bar)

	// The counting reader observes the body exactly as the HTTP client
	// consumes it. Closing it tears down the pipe, which releases any
	// file handle the encoder still holds, also on transport errors.
	body := progress.NewReader(encoded, progress.Func(func(n int64) {
		if u.metrics != nil {
			u.metrics.AddBytes(n)
		}
	}))
	defer body.Close()

	if err := u.client.UploadComponent(ctx, repository, body, contentType); err != nil {
		if u.metrics != nil {
			u.metrics.IncFailed()
		}
		return err
	}

	if u.metrics != nil {
		for range manifest.Entries {
			u.metrics.IncSuccess()
		}
	}
	u.printf("Uploaded %d files from %s\n", len(manifest.Entries), sourceDir)
	return nil
}

func (u *Uploader) printf(format string, args ...any) {
	if u.cfg.Transfer.Quiet {
		return
	}
	fmt.Fprintf(u.out, format, args...)
}
