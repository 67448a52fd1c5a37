package lint

import (
	"errors"
	"fmt"
	"strings"

	"lintel/internal/diag"
	"lintel/internal/source"
)

// ErrorKind classifies engine errors.
type ErrorKind uint8

const (
	ConfigurationError ErrorKind = iota + 1
	RuleExecutionError
	ReportingError
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration"
	case RuleExecutionError:
		return "rule execution"
	case ReportingError:
		return "reporting"
	default:
		return "unknown"
	}
}

var (
	ErrNoInterest             = errors.New("no interest declared")
	ErrNilDescriptor          = errors.New("rule has no descriptor")
	ErrDuplicateRule          = errors.New("duplicate rule id")
	ErrUnknownKind            = errors.New("unknown syntax kind")
	ErrVisitorMismatch        = errors.New("interest does not match implemented visitors")
	ErrRulePanic              = errors.New("rule panicked")
	ErrUnknownLanguage        = errors.New("no facade for language")
	ErrSpanOutOfRange         = diag.ErrSpanOutOfRange
	ErrUnregisteredDescriptor = diag.ErrUnregisteredDescriptor
	ErrReporterClosed         = diag.ErrReporterClosed
)

// EngineError is one entry of the session error log.
type EngineError struct {
	Kind   ErrorKind
	RuleID string
	Lang   string
	Path   string
	Span   source.Span
	HasPos bool
	Err    error
}

func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.RuleID != "" {
		b.WriteString(" in rule ")
		b.WriteString(e.RuleID)
	}
	if e.Lang != "" {
		fmt.Fprintf(&b, " [%s]", e.Lang)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

// Descriptors of engine-internal diagnostics.
var (
	DescConfiguration = diag.MustDescriptor("LINT0001", "Rule configuration error", "%s", diag.CategoryInternal, diag.SevError)
	DescExecution     = diag.MustDescriptor("LINT0002", "Rule execution error", "%s", diag.CategoryInternal, diag.SevError)
	DescReporting     = diag.MustDescriptor("LINT0003", "Diagnostic reporting error", "%s", diag.CategoryInternal, diag.SevError)
)

// Diagnostic converts the error into an Internal diagnostic. file, when
// non-nil, resolves line and column of the error span.
func (e *EngineError) Diagnostic(file *source.File) diag.Diagnostic {
	desc := DescConfiguration
	switch e.Kind {
	case RuleExecutionError:
		desc = DescExecution
	case ReportingError:
		desc = DescReporting
	}
	d := diag.Diagnostic{
		Descriptor: desc,
		Severity:   desc.DefaultSeverity(),
		Path:       e.Path,
		Span:       e.Span,
		Args:       []any{e.Error()},
		Message:    e.Error(),
		Internal:   true,
	}
	if file != nil && e.HasPos && file.Span().Contains(e.Span) {
		d.Start, d.End = file.Position(e.Span.Start), file.Position(e.Span.End)
	}
	return d
}

// ConfigError lists every problem found while binding rule parameters.
type ConfigError struct {
	RuleID   string
	Problems []string
}

func (e *ConfigError) Error() string {
	prefix := "invalid parameters"
	if e.RuleID != "" {
		prefix = "rule " + e.RuleID + ": invalid parameters"
	}
	return prefix + ": " + strings.Join(e.Problems, "; ")
}
