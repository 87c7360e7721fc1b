package worker

import (
	"context"
	"sync"

	"nexusraw/internal/metrics"
	"nexusraw/internal/nexus"
	"nexusraw/internal/progress"

	"go.uber.org/zap"
)

// Pool manages a fixed-size pool of download workers. Every task taken
// from the task channel produces exactly one Result on the results
// channel, success or failure.
type Pool struct {
	size    int
	client  nexus.Client
	sink    progress.Sink
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewPool creates a new worker pool
func NewPool(size int, client nexus.Client, sink progress.Sink, collector *metrics.Collector, logger *zap.Logger) *Pool {
	if sink == nil {
		sink = progress.Discard
	}
	return &Pool{
		size:    size,
		client:  client,
		sink:    sink,
		metrics: collector,
		logger:  logger,
	}
}

// Start starts the worker pool
func (p *Pool) Start(ctx context.Context, tasks <-chan Task, results chan<- Result, wg *sync.WaitGroup) {
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go p.worker(ctx, i, tasks, results, wg)
	}
}

func (p *Pool) worker(ctx context.Context, id int, tasks <-chan Task, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := p.logger.With(zap.Int("worker_id", id))
	logger.Debug("Worker started")

	processor := &TaskProcessor{
		client:  p.client,
		sink:    p.sink,
		metrics: p.metrics,
		logger:  logger,
	}

	for task := range tasks {
		results <- Result{Task: task, Err: processor.Process(ctx, task)}
	}

	logger.Debug("Worker finished - no more tasks")
}
