package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"nexusraw/internal/metrics"
	"nexusraw/internal/nexus"
	"nexusraw/internal/progress"

	"go.uber.org/zap"
)

// downloadChunkSize is the buffer size for streaming asset bodies to
// disk, so memory use stays independent of file size.
const downloadChunkSize = 8 * 1024

// TaskProcessor handles individual download tasks
type TaskProcessor struct {
	client  nexus.Client
	sink    progress.Sink
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Process downloads one asset to its local path. A failed download
// leaves any partially written file in place; cleaning it up would hide
// the failure from the caller inspecting the destination.
func (p *TaskProcessor) Process(ctx context.Context, task Task) error {
	startTime := time.Now()

	err := p.download(ctx, task)
	if err != nil {
		if p.metrics != nil {
			p.metrics.IncFailed()
		}
		p.logger.Warn("Download failed",
			zap.String("path", task.Asset.Path),
			zap.Error(err),
		)
		return err
	}

	if p.metrics != nil {
		p.metrics.IncSuccess()
		p.metrics.ObserveDuration(time.Since(startTime))
	}
	p.logger.Debug("Download completed",
		zap.String("path", task.Asset.Path),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

func (p *TaskProcessor) download(ctx context.Context, task Task) error {
	// Sibling workers may race on shared parent directories; MkdirAll
	// treats an existing directory as success.
	if err := os.MkdirAll(filepath.Dir(task.LocalPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	body, size, err := p.client.DownloadAsset(ctx, task.Asset.DownloadURL)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(task.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := p.copyChunks(f, body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", task.LocalPath, err)
	}

	if p.metrics != nil {
		p.metrics.AddBytes(written)
	}
	if size > 0 && written != size {
		p.logger.Debug("Content length mismatch",
			zap.String("path", task.Asset.Path),
			zap.Int64("declared", size),
			zap.Int64("written", written),
		)
	}
	return nil
}

func (p *TaskProcessor) copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, downloadChunkSize)
	return io.CopyBuffer(io.MultiWriter(dst, progress.Writer(p.sink)), src, buf)
}
