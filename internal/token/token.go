package token

import "fmt"

// Token is a lexed unit together with its 1-based position inside its
// source. Positions are line/column based: the diagnostic layer addresses
// virtual (macro-expanded) sources the same way as files, so byte offsets
// into a global file set would not compose.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
