package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// Empty reports whether the span is zero-width.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Len returns the span length in bytes.
func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End && other.Start <= other.End
}

// At returns a zero-width span at the given offset.
func At(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}
