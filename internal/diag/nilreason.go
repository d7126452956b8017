package diag

import (
	"fmt"

	"lumen/internal/ast"
	"lumen/internal/source"
)

// TraceNode is a display-only reference to a syntax occurrence: the node
// plus its resolved location. It never owns the node.
type TraceNode struct {
	Node ast.Node
	Loc  *source.Location
}

// NewTraceNode captures node's resolved location for later display.
func NewTraceNode(node ast.Node) TraceNode {
	return TraceNode{Node: node, Loc: Resolve(node)}
}

// NilReasonKind categorizes why inference concluded a variable is nilable.
type NilReasonKind uint8

const (
	// UsedBeforeInitialized: the variable was read before any initializer
	// assigned it.
	UsedBeforeInitialized NilReasonKind = iota
	// UsedSelfBeforeInitialized: 'self' escaped an initializer before the
	// variable was assigned.
	UsedSelfBeforeInitialized
)

// NilReason explains a nilable conclusion: the kind, the variable, and the
// ordered occurrences that led to it.
type NilReason struct {
	Kind         NilReasonKind
	VariableName string
	Occurrences  []TraceNode
}

// Headline returns the user-facing explanation selected by the kind.
func (r *NilReason) Headline() string {
	switch r.Kind {
	case UsedBeforeInitialized:
		return fmt.Sprintf("instance variable '%s' was used before it was initialized in one of the initializer methods, rendering it nilable", r.VariableName)
	case UsedSelfBeforeInitialized:
		return fmt.Sprintf("'self' was used before initializing instance variable '%s', rendering it nilable", r.VariableName)
	}
	return fmt.Sprintf("instance variable '%s' is nilable", r.VariableName)
}

// NilableTrace reports why a variable's type includes nil: the ordered
// source occurrences of the variable in its owner, plus an optional
// categorized reason. It is a separate diagnostic family: it never nests
// inside a Diagnostic chain and never wraps further causes.
type NilableTrace struct {
	Owner  string // display name of the owning type
	Trace  []TraceNode
	Reason *NilReason
}

// Error makes NilableTrace a Go error for propagation out of the analysis.
func (t *NilableTrace) Error() string {
	if t.Reason != nil {
		return t.Reason.Headline()
	}
	return fmt.Sprintf("%s trace", t.Owner)
}
