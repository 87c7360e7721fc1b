package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexusraw/internal/nexus"
	"nexusraw/internal/progress"
)

// fakeClient serves downloads from an in-memory map and records the
// maximum number of concurrent downloads it observed
type fakeClient struct {
	files    map[string]string
	delay    time.Duration
	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeClient) ListAssets(ctx context.Context, repository, path string) ([]nexus.Asset, error) {
	return nil, nil
}

func (f *fakeClient) UploadComponent(ctx context.Context, repository string, body io.Reader, contentType string) error {
	return nil
}

func (f *fakeClient) DownloadAsset(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	current := f.inflight.Add(1)
	for {
		max := f.maxSeen.Load()
		if current <= max || f.maxSeen.CompareAndSwap(max, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	defer f.inflight.Add(-1)

	content, ok := f.files[downloadURL]
	if !ok {
		return nil, 0, fmt.Errorf("no such asset: %s", downloadURL)
	}
	return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
}

func runPool(t *testing.T, client nexus.Client, size int, tasks []Task) []Result {
	t.Helper()

	taskCh := make(chan Task, size)
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	pool := NewPool(size, client, nil, nil, zap.NewNop())
	pool.Start(context.Background(), taskCh, resultCh, &wg)

	go func() {
		for _, task := range tasks {
			taskCh <- task
		}
		close(taskCh)
	}()

	results := make([]Result, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		results = append(results, <-resultCh)
	}
	wg.Wait()
	return results
}

func TestPoolEveryTaskYieldsExactlyOneResult(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{files: map[string]string{}, delay: 10 * time.Millisecond}

	var tasks []Task
	for i := 0; i < 20; i++ {
		url := fmt.Sprintf("http://nexus/asset%d", i)
		client.files[url] = fmt.Sprintf("content %d", i)
		tasks = append(tasks, Task{
			Asset:     nexus.Asset{Path: fmt.Sprintf("folder/%d.txt", i), DownloadURL: url},
			LocalPath: filepath.Join(dir, fmt.Sprintf("%d.txt", i)),
		})
	}

	results := runPool(t, client, 8, tasks)
	require.Len(t, results, 20)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}

	assert.LessOrEqual(t, client.maxSeen.Load(), int32(8))
	assert.GreaterOrEqual(t, client.maxSeen.Load(), int32(2), "expected some parallelism")
}

func TestPoolFailureDoesNotBlockOtherTasks(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{files: map[string]string{
		"http://nexus/ok": "fine",
	}}

	tasks := []Task{
		{Asset: nexus.Asset{Path: "x/1.txt", DownloadURL: "http://nexus/missing"}, LocalPath: filepath.Join(dir, "1.txt")},
		{Asset: nexus.Asset{Path: "x/2.txt", DownloadURL: "http://nexus/ok"}, LocalPath: filepath.Join(dir, "2.txt")},
	}

	results := runPool(t, client, 2, tasks)
	require.Len(t, results, 2)

	var failed, succeeded int
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, succeeded)

	data, err := os.ReadFile(filepath.Join(dir, "2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fine", string(data))
}

func TestProcessorWritesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{files: map[string]string{"http://nexus/deep": "deep content"}}

	processor := &TaskProcessor{client: client, sink: progress.Discard, logger: zap.NewNop()}
	task := Task{
		Asset:     nexus.Asset{Path: "a/b/c.txt", DownloadURL: "http://nexus/deep"},
		LocalPath: filepath.Join(dir, "a", "b", "c.txt"),
	}

	require.NoError(t, processor.Process(context.Background(), task))

	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep content", string(data))
}

func TestPoolSize(t *testing.T) {
	assert.Equal(t, 8, PoolSize(8, 20))
	assert.Equal(t, 3, PoolSize(8, 3))
	assert.Equal(t, 1, PoolSize(8, 1))
	assert.Equal(t, 1, PoolSize(8, 0))
	assert.Equal(t, 2, PoolSize(2, 100))
}
