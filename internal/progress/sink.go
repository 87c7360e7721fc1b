package progress

import "io"

// Sink receives byte-count updates from an in-flight transfer. It is
// the only coupling between the transfer engine and whatever renders
// progress.
type Sink interface {
	Add(n int64)
}

// Func adapts a plain function to the Sink interface
type Func func(n int64)

func (f Func) Add(n int64) { f(n) }

// Discard is a Sink that drops all updates
var Discard Sink = Func(func(int64) {})

// Writer returns an io.Writer that forwards byte counts to the sink.
// Useful as an io.MultiWriter target while streaming to disk.
func Writer(s Sink) io.Writer {
	return sinkWriter{s}
}

type sinkWriter struct {
	sink Sink
}

func (w sinkWriter) Write(p []byte) (int, error) {
	w.sink.Add(int64(len(p)))
	return len(p), nil
}

// Reader wraps r and reports cumulative bytes to the sink as they are
// consumed, typically by an HTTP client reading a request body.
type Reader struct {
	r    io.Reader
	sink Sink
}

// NewReader creates a counting reader around r
func NewReader(r io.Reader, sink Sink) *Reader {
	if sink == nil {
		sink = Discard
	}
	return &Reader{r: r, sink: sink}
}

func (cr *Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.sink.Add(int64(n))
	}
	return n, err
}

// Close closes the underlying reader when it is closeable
func (cr *Reader) Close() error {
	if c, ok := cr.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
