package diag

import (
	"lumen/internal/ast"
	"lumen/internal/source"
)

// Resolve derives the display location for a syntax node. A node with a
// named sub-span gets that column and the name's character length as the
// underline span; otherwise the node's own starting column with a bare
// point span. A node without any location resolves to an empty Location,
// which callers treat as locationless.
func Resolve(node ast.Node) *source.Location {
	if node == nil {
		return &source.Location{}
	}
	loc := node.Loc()
	if loc == nil {
		return &source.Location{}
	}
	if col := node.NameColumn(); col > 0 {
		return loc.WithSpan(col, node.NameSize())
	}
	return loc.WithSpan(loc.Column, 0)
}

// NewFromNode builds a diagnostic anchored at node's resolved location.
func NewFromNode(message string, node ast.Node) *Diagnostic {
	return NewAt(message, Resolve(node))
}

// WrapNode builds a diagnostic at node's resolved location framing inner.
func WrapNode(message string, node ast.Node, inner *Diagnostic) *Diagnostic {
	return Wrap(message, Resolve(node), inner)
}
