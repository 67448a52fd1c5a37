package trace

import (
	"io"
	"sync"
)

// DefaultRingSize is used when a ring is created with a non-positive size.
const DefaultRingSize = 4096

// RingTracer keeps the last events in memory so they can be dumped after a
// panic or a hung run. Heartbeats are always kept.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int // slot of the next write
	count  int // number of valid slots
	level  Level
}

// NewRingTracer creates a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		events: make([]Event, capacity),
		level:  level,
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.events[t.next] = *ev
	t.next = (t.next + 1) % len(t.events)
	t.count = min(t.count+1, len(t.events))
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(-1)
}

// Tail returns at most n of the newest events, oldest first; n < 0 means
// all of them.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 0 || n > t.count {
		n = t.count
	}
	out := make([]Event, n)
	start := t.next - n
	if start < 0 {
		start += len(t.events)
	}
	for i := range out {
		out[i] = t.events[(start+i)%len(t.events)]
	}
	return out
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
