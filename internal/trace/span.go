package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
	// openSpans counts spans begun and not yet ended; heartbeats report it.
	openSpans atomic.Int64
	lastBegun atomic.Pointer[string]
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return globalSeq.Add(1)
}

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return globalSpans.Add(1)
}

// OpenSpans returns the number of live spans and the name of the most
// recently begun one.
func OpenSpans() (int64, string) {
	name := ""
	if p := lastBegun.Load(); p != nil {
		name = *p
	}
	return openSpans.Load(), name
}

// goroutineID parses "goroutine N [...]" from the current stack header.
func goroutineID() uint64 {
	var buf [64]byte
	stack := buf[:runtime.Stack(buf[:], false)]
	stack, ok := bytes.CutPrefix(stack, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(stack, ' '); end >= 0 {
		stack = stack[:end]
	}
	gid, err := strconv.ParseUint(string(stack), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one begin/end pair. A disabled span is a no-op.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
	ended    bool
}

var disabled = &Span{}

// Begin starts a span and emits KindSpanBegin. parent is the parent span
// ID, 0 for a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      goroutineID(),
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	openSpans.Add(1)
	lastBegun.Store(&s.name)
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// End emits KindSpanEnd once and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || s.ended {
		return 0
	}
	s.ended = true
	openSpans.Add(-1)
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
