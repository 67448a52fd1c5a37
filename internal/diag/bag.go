package diag

import (
	"sort"

	"lintel/internal/source"
)

// Bag is a bounded in-memory Sink. It is not safe for concurrent use; the
// driver gives every tree its own bag. The limit counts findings only:
// internal diagnostics are always kept.
type Bag struct {
	items    []Diagnostic
	max      int
	findings int
	dropped  int
}

// NewBag creates a bag holding at most max diagnostics (max <= 0: unbounded).
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Internal-диагностики лимитом не ограничиваются.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Internal {
		b.items = append(b.items, d)
		return true
	}
	if b.max > 0 && b.findings >= b.max {
		b.dropped++
		return false
	}
	b.findings++
	b.items = append(b.items, d)
	return true
}

// Emit implements Sink.
func (b *Bag) Emit(d Diagnostic) {
	b.Add(d)
}

// Dropped returns how many diagnostics were refused because of the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.hasAtLeast(SevError)
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.hasAtLeast(SevWarning)
}

func (b *Bag) hasAtLeast(sev Severity) bool {
	for i := range b.items {
		if !b.items[i].Internal && b.items[i].Severity >= sev {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && b.findings+other.findings > b.max {
		b.max = b.findings + other.findings
	}
	b.items = append(b.items, other.items...)
	b.findings += other.findings
	b.dropped += other.dropped
}

// Filter returns a new bag holding the diagnostics accepted by keep.
func (b *Bag) Filter(keep func(*Diagnostic) bool) *Bag {
	out := NewBag(b.max)
	for i := range b.items {
		if keep(&b.items[i]) {
			out.items = append(out.items, b.items[i])
			if !b.items[i].Internal {
				out.findings++
			}
		}
	}
	return out
}

// Sort orders diagnostics by file, start, end, rule ID and message.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return Less(&b.items[i], &b.items[j])
	})
}

// Less is the canonical diagnostic order.
func Less(a, b *Diagnostic) bool {
	if a.Span.File != b.Span.File {
		return a.Span.File < b.Span.File
	}
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.End != b.Span.End {
		return a.Span.End < b.Span.End
	}
	if a.RuleID() != b.RuleID() {
		return a.RuleID() < b.RuleID()
	}
	return a.Message < b.Message
}

type dedupKey struct {
	id    string
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

func keyOf(d *Diagnostic) dedupKey {
	return dedupKey{
		id:    d.RuleID(),
		file:  d.Span.File,
		start: d.Span.Start,
		end:   d.Span.End,
		msg:   d.Message,
	}
}

// DedupSink wraps another Sink and suppresses diagnostics with the same
// rule, span and message.
type DedupSink struct {
	next Sink
	seen map[dedupKey]struct{}
}

// NewDedupSink returns a Sink that forwards only unique diagnostics.
func NewDedupSink(next Sink) *DedupSink {
	return &DedupSink{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (s *DedupSink) Emit(d Diagnostic) {
	key := keyOf(&d)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	if s.next != nil {
		s.next.Emit(d)
	}
}

// MultiSink fans a diagnostic out to every sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(d Diagnostic) {
	for _, s := range m {
		if s != nil {
			s.Emit(d)
		}
	}
}
