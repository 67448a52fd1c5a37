package diag

import (
	"errors"
	"fmt"
	"sync/atomic"

	"lintel/internal/source"
)

var (
	// ErrUnregisteredDescriptor is returned when a rule reports with a
	// descriptor the session does not know.
	ErrUnregisteredDescriptor = errors.New("descriptor is not registered")
	// ErrSpanOutOfRange is returned for spans outside the reporter's file.
	ErrSpanOutOfRange = errors.New("span is outside the analyzed file")
	// ErrReporterClosed is returned after Close (e.g. on cancellation).
	ErrReporterClosed = errors.New("reporter is closed")
)

// DescriptorSet answers whether a descriptor may be reported.
type DescriptorSet interface {
	Registered(d *Descriptor) bool
}

// Descriptors is a DescriptorSet keyed by ID. Membership is by identity:
// a different descriptor value with a registered ID is rejected.
type Descriptors map[string]*Descriptor

// Add registers d; it fails when the ID is already taken.
func (s Descriptors) Add(d *Descriptor) error {
	if d == nil {
		return errors.New("nil descriptor")
	}
	if _, ok := s[d.ID()]; ok {
		return fmt.Errorf("descriptor %s already registered", d.ID())
	}
	s[d.ID()] = d
	return nil
}

func (s Descriptors) Registered(d *Descriptor) bool {
	if d == nil {
		return false
	}
	return s[d.ID()] == d
}

// Reporter converts findings of one file into Diagnostics and forwards them
// to a Sink. It is the only place where findings become Diagnostics.
type Reporter struct {
	file        *source.File
	sink        Sink
	known       DescriptorSet
	suppressors []Suppressor
	onError     func(error)
	closed      atomic.Bool
	emitted     int
	suppressed  int
}

// NewReporter binds a reporter to file. known may be nil to accept any
// descriptor; onError, when set, observes every rejected report.
func NewReporter(file *source.File, sink Sink, known DescriptorSet, suppressors []Suppressor, onError func(error)) *Reporter {
	if sink == nil {
		sink = NopSink
	}
	return &Reporter{
		file:        file,
		sink:        sink,
		known:       known,
		suppressors: suppressors,
		onError:     onError,
	}
}

// File returns the file the reporter is bound to.
func (r *Reporter) File() *source.File {
	return r.file
}

// Report validates and forwards one finding. A rejected report is never
// forwarded; the returned error wraps one of the package sentinels.
func (r *Reporter) Report(desc *Descriptor, span source.Span, args ...any) error {
	if err := r.check(desc, span); err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return err
	}
	start, end := r.file.Position(span.Start), r.file.Position(span.End)
	d := Diagnostic{
		Descriptor: desc,
		Severity:   desc.DefaultSeverity(),
		Path:       r.file.Path,
		Span:       span,
		Start:      start,
		End:        end,
		Args:       args,
		Message:    formatMessage(desc.MessageFormat(), args),
	}
	for _, s := range r.suppressors {
		if s.Suppress(r.file, &d) {
			r.suppressed++
			return nil
		}
	}
	r.emitted++
	r.sink.Emit(d)
	return nil
}

func (r *Reporter) check(desc *Descriptor, span source.Span) error {
	if r.closed.Load() {
		return ErrReporterClosed
	}
	if desc == nil {
		return fmt.Errorf("nil descriptor: %w", ErrUnregisteredDescriptor)
	}
	if r.known != nil && !r.known.Registered(desc) {
		return fmt.Errorf("%s: %w", desc.ID(), ErrUnregisteredDescriptor)
	}
	if r.file == nil || !r.file.Span().Contains(span) {
		return fmt.Errorf("%s at %s: %w", desc.ID(), span, ErrSpanOutOfRange)
	}
	return nil
}

// Close stops the reporter; later reports fail with ErrReporterClosed.
func (r *Reporter) Close() {
	r.closed.Store(true)
}

// Emitted returns the number of diagnostics forwarded to the sink.
func (r *Reporter) Emitted() int { return r.emitted }

// Suppressed returns the number of diagnostics dropped by suppressors.
func (r *Reporter) Suppressed() int { return r.suppressed }

func formatMessage(format string, args []any) string {
	return fmt.Sprintf(format, args...)
}
