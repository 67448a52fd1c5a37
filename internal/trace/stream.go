package trace

import (
	"io"
	"sync"
)

// StreamTracer writes every accepted event to w as it happens. The first
// write error disables it; tracing never fails the run.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	owned  io.Closer // set when New opened the output file
	level  Level
	format Format
	broken bool
}

// NewStreamTracer writes to w. The caller keeps ownership of w: Close
// flushes it but never closes it.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.broken {
		return
	}
	if _, err := t.w.Write(data); err != nil {
		t.broken = true
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes, then closes the output only if the tracer opened it.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.owned == nil {
		return nil
	}
	err := t.owned.Close()
	t.owned = nil
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
