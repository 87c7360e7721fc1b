package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"nexusraw/internal/config"
	"nexusraw/internal/metrics"
	"nexusraw/internal/nexus"
	"nexusraw/internal/progress"
	"nexusraw/internal/worker"
)

// Summary aggregates the outcome of a download batch. It is the only
// state that survives an invocation.
type Summary struct {
	Succeeded int
	Failed    int
	Total     int
}

// Downloader coordinates fan-out downloads of a remote folder
type Downloader struct {
	cfg     *config.Config
	client  nexus.Client
	logger  *zap.Logger
	metrics *metrics.Collector
	tracker *progress.Tracker
	out     io.Writer
}

// NewDownloader creates a download coordinator
func NewDownloader(cfg *config.Config, client nexus.Client, collector *metrics.Collector, logger *zap.Logger) *Downloader {
	return &Downloader{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		metrics: collector,
		tracker: progress.NewTracker(),
		out:     os.Stdout,
	}
}

// Run downloads every asset under repository/path into destDir. Each
// failed asset is recorded and does not abort the batch; the returned
// error is non-nil if and only if at least one asset failed.
func (d *Downloader) Run(ctx context.Context, repository, path, destDir string) (Summary, error) {
	lister := &AssetLister{client: d.client, logger: d.logger}

	assets, err := lister.List(ctx, repository, path, d.cfg.Transfer.Glob)
	if err != nil {
		return Summary{}, err
	}

	if len(assets) == 0 {
		d.printf("No assets found in folder '%s' in repository '%s'\n", path, repository)
		return Summary{}, nil
	}

	tasks := BuildTasks(assets, destDir)

	if d.cfg.Transfer.DryRun {
		for _, asset := range assets {
			d.printf("Would download: %s\n", relativeAssetPath(asset.Path, path))
		}
		return Summary{Succeeded: len(tasks), Total: len(tasks)}, nil
	}

	summary := d.downloadAll(ctx, tasks)

	if summary.Failed == 0 {
		d.printf("Downloaded %d files from '%s' in repository '%s' to '%s'\n",
			summary.Succeeded, path, repository, destDir)
		return summary, nil
	}

	d.printf("Downloaded %d of %d files from '%s' in repository '%s' to '%s'. %d failed.\n",
		summary.Succeeded, summary.Total, path, repository, destDir, summary.Failed)
	return summary, fmt.Errorf("%d of %d downloads failed", summary.Failed, summary.Total)
}

func (d *Downloader) downloadAll(ctx context.Context, tasks []worker.Task) Summary {
	var totalBytes int64
	for _, t := range tasks {
		totalBytes += t.Asset.FileSize
	}
	d.tracker.SetTotal(int64(len(tasks)), totalBytes)

	bar := progress.NewBar(totalBytes, "Downloading", d.cfg.Transfer.Quiet, os.Stderr)
	defer bar.Finish()

	sink := progress.Func(func(n int64) {
		bar.Add(n)
		d.tracker.AddBytes(n)
	})

	size := worker.PoolSize(d.cfg.Transfer.Concurrency, len(tasks))
	taskCh := make(chan worker.Task, size)
	resultCh := make(chan worker.Result, len(tasks))

	var wg sync.WaitGroup
	pool := worker.NewPool(size, d.client, sink, d.metrics, d.logger)
	pool.Start(ctx, taskCh, resultCh, &wg)

	go func() {
		for _, t := range tasks {
			taskCh <- t
		}
		close(taskCh)
	}()

	// Every submitted task yields exactly one result; join them all
	// before computing the aggregate so one failure never short-circuits
	// the batch.
	summary := Summary{Total: len(tasks)}
	for i := 0; i < len(tasks); i++ {
		r := <-resultCh
		if r.Err != nil {
			summary.Failed++
			d.tracker.AddFailed()
			d.printf("Error downloading asset: %v\n", r.Err)
			continue
		}
		summary.Succeeded++
		d.tracker.AddSuccess()
	}
	wg.Wait()

	status := d.tracker.GetStatus()
	d.logger.Info("Download batch finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.String("transferred", progress.FormatBytes(status.TransferredBytes)),
		zap.String("speed", progress.FormatSpeed(status.AverageSpeed)),
	)

	return summary
}

func (d *Downloader) printf(format string, args ...any) {
	if d.cfg.Transfer.Quiet {
		return
	}
	fmt.Fprintf(d.out, format, args...)
}
