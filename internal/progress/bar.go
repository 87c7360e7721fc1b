package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// IsTerminal reports whether stdout is attached to a terminal. Progress
// bars are only rendered interactively.
func IsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Bar renders a byte-level progress bar and implements Sink
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a progress bar for total bytes written to out. A total
// of 0 renders a spinner since the size is unknown. When quiet is set
// or out is nil the bar is disabled and updates are dropped.
func NewBar(total int64, description string, quiet bool, out io.Writer) *Bar {
	if quiet || out == nil || !IsTerminal() {
		return &Bar{}
	}
	if total == 0 {
		total = -1
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &Bar{bar: bar}
}

// Add implements Sink
func (b *Bar) Add(n int64) {
	if b.bar != nil {
		_ = b.bar.Add64(n)
	}
}

// Finish completes and clears the bar
func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}
