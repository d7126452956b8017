package source

import "fmt"

// Location is a display position inside a real or virtual source.
// Line and Column are 1-based; zero means unknown. SpanSize is the number
// of characters the underline decoration covers: 0 marks a point location
// with no range.
type Location struct {
	Line     int
	Column   int
	SpanSize int
	Ref      Ref // nil when the origin is unknown
}

// New returns a Location inside the given source.
func New(ref Ref, line, column, spanSize int) *Location {
	return &Location{Line: line, Column: column, SpanSize: spanSize, Ref: ref}
}

// IsEmpty reports whether the location carries no usable position: no line
// and no source identity. Callers treat empty locations as "locationless"
// and degrade to message-only output.
func (l *Location) IsEmpty() bool {
	return l == nil || (l.Line == 0 && l.Ref == nil)
}

// WithSpan returns a copy of the location with a different column and span.
func (l *Location) WithSpan(column, spanSize int) *Location {
	if l == nil {
		return nil
	}
	c := *l
	c.Column = column
	c.SpanSize = spanSize
	return &c
}

func (l *Location) String() string {
	if l.IsEmpty() {
		return "?"
	}
	if l.Ref == nil {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.Ref.DisplayName(), l.Line, l.Column)
}
