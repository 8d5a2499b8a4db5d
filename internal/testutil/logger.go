// Package testutil provides test utilities for structured logging.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NewRecordingLogger returns a logger like NewTestLogger
// that additionally records all messages in text format
// for assertions with LogRecorder.String.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{t: t}
	return slog.New(slog.NewTextHandler(rec, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})), rec
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// LogRecorder collects log output written by a recording logger.
type LogRecorder struct {
	t   testing.TB
	mtx sync.Mutex
	buf bytes.Buffer
}

func (r *LogRecorder) Write(p []byte) (n int, err error) {
	r.t.Helper()
	r.t.Log(string(p))
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.buf.Write(p)
}

// String returns all recorded log lines.
func (r *LogRecorder) String() string {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.buf.String()
}

// Reset discards all recorded log lines.
func (r *LogRecorder) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.buf.Reset()
}
