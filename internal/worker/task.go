package worker

import "nexusraw/internal/nexus"

// Task represents one asset download to a local destination path
type Task struct {
	Asset     nexus.Asset
	LocalPath string
}

// Result is the outcome of one task. Err is nil on success.
type Result struct {
	Task Task
	Err  error
}

// PoolSize returns the worker count for a batch: the configured limit
// capped by the number of tasks, never less than one for a non-empty
// batch.
func PoolSize(limit, taskCount int) int {
	if taskCount < limit {
		limit = taskCount
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
