package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerConcurrentUpdates(t *testing.T) {
	tracker := NewTracker()
	tracker.SetTotal(100, 100*1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tracker.AddBytes(1024)
				if worker%2 == 0 {
					tracker.AddSuccess()
				} else {
					tracker.AddFailed()
				}
			}
		}(i)
	}
	wg.Wait()

	status := tracker.GetStatus()
	assert.Equal(t, int64(100), status.TotalFiles)
	assert.Equal(t, int64(100*1024), status.TotalBytes)
	assert.Equal(t, int64(80*1024), status.TransferredBytes)
	assert.Equal(t, int64(40), status.SucceededFiles)
	assert.Equal(t, int64(40), status.FailedFiles)
	assert.Equal(t, int64(80), status.ProcessedFiles)
	assert.Greater(t, status.AverageSpeed, 0.0)
}

func TestTrackerSnapshotIsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.AddSuccess()

	before := tracker.GetStatus()
	tracker.AddSuccess()

	assert.Equal(t, int64(1), before.SucceededFiles)
	assert.Equal(t, int64(2), tracker.GetStatus().SucceededFiles)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes))
	}
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "100.0 B/s", FormatSpeed(100))
	assert.Equal(t, "1.5 KB/s", FormatSpeed(1536))
	assert.Equal(t, "2.0 MB/s", FormatSpeed(2*1024*1024))
}
