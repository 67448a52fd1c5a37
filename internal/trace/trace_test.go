package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRingTracerKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(r, ScopeFile, name, "", 0)
	}
	got := r.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Name != "b" || got[2].Name != "d" {
		t.Fatalf("unexpected order: %s..%s", got[0].Name, got[2].Name)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(st, ScopePass, "analyze", 0)
	Point(st, ScopeFile, "file:a.go", "", span.ID())
	span.WithExtra("files", "1").End("")

	out := buf.String()
	if strings.Contains(out, "file:a.go") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
	if strings.Count(out, "analyze") != 2 {
		t.Fatalf("expected begin and end events:\n%s", out)
	}
	if !strings.Contains(out, "{files=1}") {
		t.Fatalf("missing extra fields:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(st, ScopeNode, "rule:S103", "boom", 7)
	line := buf.String()
	for _, want := range []string{`"kind":"point"`, `"scope":"node"`, `"parent_id":7`, `"detail":"boom"`} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %s in %s", want, line)
		}
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
}

func TestParse(t *testing.T) {
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
}

func TestSpanEndOnceAndOpenCount(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	before, _ := OpenSpans()
	span := Begin(r, ScopeNode, "rule:S2925", 0)
	open, last := OpenSpans()
	if open != before+1 || last != "rule:S2925" {
		t.Fatalf("open=%d last=%q", open, last)
	}
	span.End("")
	span.End("again")
	if open, _ := OpenSpans(); open != before {
		t.Fatalf("open after end = %d, want %d", open, before)
	}
	if got := len(r.Snapshot()); got != 2 {
		t.Fatalf("events = %d, want begin and a single end", got)
	}
}

func TestDisabledSpan(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "analyze", 0)
	if span.ID() != 0 || span.WithExtra("k", "v").End("") != 0 {
		t.Fatalf("disabled span must be a no-op")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on Nop tracer")
	}
	var h *Heartbeat
	h.Stop()
}

func TestRingTail(t *testing.T) {
	r := NewRingTracer(4, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		Point(r, ScopeFile, name, "", 0)
	}
	tail := r.Tail(2)
	if len(tail) != 2 || tail[0].Name != "e" || tail[1].Name != "f" {
		t.Fatalf("tail = %+v", tail)
	}
	if got := len(r.Tail(10)); got != 4 {
		t.Fatalf("tail beyond capacity = %d", got)
	}
}

func TestNewPicksTracerByMode(t *testing.T) {
	if tr, err := New(Config{Level: LevelOff, Mode: ModeBoth}); err != nil || tr != Nop {
		t.Fatalf("LevelOff: %v %v", tr, err)
	}
	if tr, err := New(Config{Level: LevelPhase, Mode: ModeRing}); err != nil {
		t.Fatalf("ring: %v", err)
	} else if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("expected *RingTracer, got %T", tr)
	}
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, OutputPath: "run.ndjson"})
	if err != nil {
		t.Fatalf("both: %v", err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected multi tracer, got %T", tr)
	}
	if _, ok := m.Ring(); !ok {
		t.Fatalf("expected multi tracer with ring, got %T", tr)
	}
	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(9)}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if f := (Config{OutputPath: "run.ndjson"}).format(); f != FormatNDJSON {
		t.Fatalf("format: %v", f)
	}
}
