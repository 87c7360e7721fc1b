package progress

import (
	"fmt"
	"sync"
	"time"
)

// Status represents the aggregate state of a transfer batch
type Status struct {
	TotalFiles       int64
	ProcessedFiles   int64
	SucceededFiles   int64
	FailedFiles      int64
	TotalBytes       int64
	TransferredBytes int64
	StartTime        time.Time
	AverageSpeed     float64 // bytes/second
}

// Tracker tracks transfer progress across concurrent workers
type Tracker struct {
	mu     sync.RWMutex
	status Status
}

// NewTracker creates a new progress tracker
func NewTracker() *Tracker {
	return &Tracker{
		status: Status{StartTime: time.Now()},
	}
}

// SetTotal sets the total number of files and bytes expected
func (t *Tracker) SetTotal(files, bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.TotalFiles = files
	t.status.TotalBytes = bytes
}

// AddBytes records bytes moved by an in-flight transfer
func (t *Tracker) AddBytes(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.TransferredBytes += n
	t.updateSpeed()
}

// AddSuccess records one file transferred completely
func (t *Tracker) AddSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.SucceededFiles++
	t.status.ProcessedFiles++
}

// AddFailed records one file that could not be transferred
func (t *Tracker) AddFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.FailedFiles++
	t.status.ProcessedFiles++
}

func (t *Tracker) updateSpeed() {
	elapsed := time.Since(t.status.StartTime)
	if elapsed > 0 {
		t.status.AverageSpeed = float64(t.status.TransferredBytes) / elapsed.Seconds()
	}
}

// GetStatus returns a snapshot of the current status
func (t *Tracker) GetStatus() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status
}

// FormatBytes formats bytes in human readable format
func FormatBytes(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	} else if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	} else if bytes < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
}

// FormatSpeed formats speed in human readable format
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond < 1024 {
		return fmt.Sprintf("%.1f B/s", bytesPerSecond)
	} else if bytesPerSecond < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSecond/1024)
	} else if bytesPerSecond < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB/s", bytesPerSecond/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB/s", bytesPerSecond/(1024*1024*1024))
}
