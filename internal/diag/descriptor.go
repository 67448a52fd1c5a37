package diag

import (
	"errors"
	"strings"
)

// Category groups descriptors for listings.
type Category string

const (
	CategoryStyle       Category = "style"
	CategoryDesign      Category = "design"
	CategoryPerformance Category = "performance"
	CategoryReliability Category = "reliability"
	CategoryInternal    Category = "internal"
)

// Descriptor is the immutable identity of a rule's findings.
type Descriptor struct {
	id       string
	title    string
	format   string
	category Category
	severity Severity
	helpURI  string
}

// DescriptorOption configures optional descriptor metadata.
type DescriptorOption func(*Descriptor)

// WithHelpURI attaches a documentation link.
func WithHelpURI(uri string) DescriptorOption {
	return func(d *Descriptor) { d.helpURI = uri }
}

var (
	errEmptyID     = errors.New("descriptor id is empty")
	errEmptyFormat = errors.New("descriptor message format is empty")
)

// NewDescriptor builds a descriptor; id and messageFormat must be non-empty.
// messageFormat is a fmt format string expanded with the report arguments.
func NewDescriptor(id, title, messageFormat string, category Category, sev Severity, opts ...DescriptorOption) (*Descriptor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errEmptyID
	}
	if messageFormat == "" {
		return nil, errEmptyFormat
	}
	d := &Descriptor{
		id:       id,
		title:    title,
		format:   messageFormat,
		category: category,
		severity: sev,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// MustDescriptor is NewDescriptor for constant inputs; it panics on error.
func MustDescriptor(id, title, messageFormat string, category Category, sev Severity, opts ...DescriptorOption) *Descriptor {
	d, err := NewDescriptor(id, title, messageFormat, category, sev, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor) ID() string                { return d.id }
func (d *Descriptor) Title() string             { return d.title }
func (d *Descriptor) MessageFormat() string     { return d.format }
func (d *Descriptor) Category() Category        { return d.category }
func (d *Descriptor) DefaultSeverity() Severity { return d.severity }
func (d *Descriptor) HelpURI() string           { return d.helpURI }

func (d *Descriptor) String() string {
	if d == nil {
		return "<nil descriptor>"
	}
	return d.id
}
