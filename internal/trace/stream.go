package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StreamTracer writes events immediately to an io.Writer, one line per event.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	start time.Time
}

// NewStreamTracer creates a new StreamTracer.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{
		w:     w,
		level: level,
		start: time.Now(),
	}
}

// Emit writes an event to the output. Write errors are swallowed so that
// tracing can never disrupt the pipeline.
func (t *StreamTracer) Emit(ev Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := ev.Time.Sub(t.start)
	line := fmt.Sprintf("%10.3fms %-6s %-5s %s", float64(elapsed.Microseconds())/1000.0, ev.Scope, ev.Kind, ev.Name)
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	_, _ = fmt.Fprintln(t.w, line)
}

// Flush ensures all buffered data is written.
// For StreamTracer this is a no-op since we write immediately.
func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
