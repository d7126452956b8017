package ast

import "lumen/internal/source"

// Node is a syntax node as the diagnostic layer sees it: a position plus,
// for named nodes, the column and character length of the name part. The
// name span drives underline placement; nodes without a distinct name
// report zero and renderers fall back to the node's own column.
type Node interface {
	Loc() *source.Location

	// NameColumn returns the 1-based column of the node's name, 0 when the
	// node has no named part.
	NameColumn() int

	// NameSize returns the character length of the node's name, 0 when the
	// node has no named part.
	NameSize() int
}

type base struct {
	loc *source.Location
}

func (n *base) Loc() *source.Location { return n.loc }
func (n *base) NameColumn() int       { return 0 }
func (n *base) NameSize() int         { return 0 }

type named struct {
	base
	Name string
}

func (n *named) NameColumn() int {
	if n.loc == nil {
		return 0
	}
	return n.loc.Column
}

func (n *named) NameSize() int { return len([]rune(n.Name)) }
