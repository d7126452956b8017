package diag

import (
	"lumen/internal/source"
)

// Kind tags a diagnostic. The closed set exists for callers that need to
// pattern-match a failure class; rendering treats all kinds identically.
type Kind uint8

const (
	// Generic is an ordinary semantic diagnostic.
	Generic Kind = iota
	// FrozenTypeViolation marks re-assignment that would change a pinned type.
	FrozenTypeViolation
	// UndefinedMacroMethod marks an unknown method inside a macro expansion.
	UndefinedMacroMethod
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case FrozenTypeViolation:
		return "frozen type violation"
	case UndefinedMacroMethod:
		return "undefined macro method"
	}
	return "unknown"
}

// Diagnostic is one link of a semantic failure chain. Each link optionally
// owns a single inner diagnostic: the outer link frames the inner as its
// root cause. Chains are built strictly top-down at raise time and never
// mutated afterwards, except for the cascading styled flag.
type Diagnostic struct {
	Kind    Kind
	Message string
	Loc     *source.Location
	Inner   *Diagnostic

	styled bool
}

// New builds a locationless diagnostic.
func New(message string) *Diagnostic {
	return &Diagnostic{Message: message, styled: true}
}

// NewAt builds a diagnostic anchored at loc.
func NewAt(message string, loc *source.Location) *Diagnostic {
	return &Diagnostic{Message: message, Loc: loc, styled: true}
}

// Wrap builds a diagnostic at loc that frames inner as its cause.
func Wrap(message string, loc *source.Location, inner *Diagnostic) *Diagnostic {
	return &Diagnostic{Message: message, Loc: loc, Inner: inner, styled: true}
}

// WithKind returns the diagnostic tagged with k.
func (d *Diagnostic) WithKind(k Kind) *Diagnostic {
	d.Kind = k
	return d
}

// Error makes Diagnostic a Go error, so the raise site is a plain return.
func (d *Diagnostic) Error() string { return d.Message }

// HasLocation reports whether this diagnostic, or any diagnostic below it,
// carries a usable location. Render time uses it to decide whether a link
// is worth surfacing on its own or only via DeepestMessage.
func (d *Diagnostic) HasLocation() bool {
	if d == nil {
		return false
	}
	if !d.Loc.IsEmpty() {
		return true
	}
	return d.Inner.HasLocation()
}

// DeepestMessage returns the message of the innermost diagnostic. When an
// immediate inner link is locationless it is almost certainly synthetic
// plumbing (a macro-synthesized node), so its deepest message is surfaced
// at the nearest link that does have a location.
func (d *Diagnostic) DeepestMessage() string {
	if d.Inner != nil {
		return d.Inner.DeepestMessage()
	}
	return d.Message
}

// Depth returns the number of links in the chain, this one included.
func (d *Diagnostic) Depth() int {
	if d == nil {
		return 0
	}
	return 1 + d.Inner.Depth()
}

// SetStyled toggles styling for the whole chain. This is the only mutation
// allowed after construction; it cascades into the owned inner links.
func (d *Diagnostic) SetStyled(styled bool) {
	if d == nil {
		return
	}
	d.styled = styled
	d.Inner.SetStyled(styled)
}

// Styled reports whether this link may emit styled output.
func (d *Diagnostic) Styled() bool { return d.styled }
