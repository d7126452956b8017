package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline separates statements.
	Newline

	// Ident represents a lowercase identifier (locals, method names).
	Ident
	// Const represents a capitalized identifier (types).
	Const
	// InstanceVar represents an '@name' variable.
	InstanceVar
	// ClassVar represents an '@@name' variable.
	ClassVar
	// GlobalVar represents a '$name' variable.
	GlobalVar
	// Int represents an integer literal.
	Int
	// String represents a string literal.
	String

	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwEnd represents the 'end' keyword.
	KwEnd // end
	// KwMacro represents the 'macro' keyword.
	KwMacro // macro
	// KwSelf represents the 'self' keyword.
	KwSelf // self

	// Assign represents '='.
	Assign // =
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// Comma represents ','.
	Comma // ,
	// Dot represents '.'.
	Dot // .
	// Colon represents ':'.
	Colon // :
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	EOF:         "eof",
	Newline:     "newline",
	Ident:       "identifier",
	Const:       "constant",
	InstanceVar: "instance variable",
	ClassVar:    "class variable",
	GlobalVar:   "global variable",
	Int:         "integer literal",
	String:      "string literal",
	KwClass:     "'class'",
	KwDef:       "'def'",
	KwEnd:       "'end'",
	KwMacro:     "'macro'",
	KwSelf:      "'self'",
	Assign:      "'='",
	LParen:      "'('",
	RParen:      "')'",
	Comma:       "','",
	Dot:         "'.'",
	Colon:       "':'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

var keywords = map[string]Kind{
	"class": KwClass,
	"def":   KwDef,
	"end":   KwEnd,
	"macro": KwMacro,
	"self":  KwSelf,
}

// LookupKeyword maps an identifier lexeme to its keyword kind, or Ident.
func LookupKeyword(lexeme string) Kind {
	if kw, ok := keywords[lexeme]; ok {
		return kw
	}
	return Ident
}
