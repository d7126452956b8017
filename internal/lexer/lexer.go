package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"lumen/internal/token"
)

// Lexer scans Lumen source text into tokens, tracking 1-based line and
// column positions. The input is expected to be BOM-free with \n line
// endings (source.Reader and the driver normalize before lexing).
type Lexer struct {
	src    string
	offset int
	line   int
	column int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

// Scan lexes the whole input. The returned slice always ends with an EOF
// token. Unknown characters become Invalid tokens; the parser reports them.
func Scan(src string) []token.Token {
	lx := New(src)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	lx.skipBlanksAndComments()

	startLine, startColumn := lx.line, lx.column

	r, size := lx.peek()
	if size == 0 {
		return lx.make(token.EOF, "", startLine, startColumn)
	}

	switch {
	case r == '\n':
		lx.advance(size)
		lx.line++
		lx.column = 1
		return lx.make(token.Newline, "\n", startLine, startColumn)
	case r == '@':
		return lx.scanAtVar(startLine, startColumn)
	case r == '$':
		lx.advance(size)
		name := lx.scanIdentTail()
		return lx.make(token.GlobalVar, "$"+name, startLine, startColumn)
	case r == '"':
		return lx.scanString(startLine, startColumn)
	case unicode.IsDigit(r):
		return lx.make(token.Int, lx.scanWhile(unicode.IsDigit), startLine, startColumn)
	case unicode.IsUpper(r):
		return lx.make(token.Const, lx.scanIdentTail(), startLine, startColumn)
	case r == '_' || unicode.IsLetter(r):
		name := lx.scanIdentTail()
		return lx.make(token.LookupKeyword(name), name, startLine, startColumn)
	}

	lx.advance(size)
	switch r {
	case '=':
		return lx.make(token.Assign, "=", startLine, startColumn)
	case '(':
		return lx.make(token.LParen, "(", startLine, startColumn)
	case ')':
		return lx.make(token.RParen, ")", startLine, startColumn)
	case ',':
		return lx.make(token.Comma, ",", startLine, startColumn)
	case '.':
		return lx.make(token.Dot, ".", startLine, startColumn)
	case ':':
		return lx.make(token.Colon, ":", startLine, startColumn)
	}
	return lx.make(token.Invalid, string(r), startLine, startColumn)
}

func (lx *Lexer) make(kind token.Kind, lexeme string, line, column int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column}
}

func (lx *Lexer) peek() (rune, int) {
	if lx.offset >= len(lx.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(lx.src[lx.offset:])
}

func (lx *Lexer) advance(size int) {
	lx.offset += size
	lx.column++
}

func (lx *Lexer) skipBlanksAndComments() {
	for {
		r, size := lx.peek()
		switch {
		case r == ' ' || r == '\t':
			lx.advance(size)
		case r == '#':
			for {
				r, size = lx.peek()
				if size == 0 || r == '\n' {
					break
				}
				lx.advance(size)
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanWhile(pred func(rune) bool) string {
	start := lx.offset
	for {
		r, size := lx.peek()
		if size == 0 || !pred(r) {
			break
		}
		lx.advance(size)
	}
	return lx.src[start:lx.offset]
}

func (lx *Lexer) scanIdentTail() string {
	return lx.scanWhile(func(r rune) bool {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

func (lx *Lexer) scanAtVar(line, column int) token.Token {
	lx.advance(1) // '@'
	kind := token.InstanceVar
	prefix := "@"
	if r, _ := lx.peek(); r == '@' {
		lx.advance(1)
		kind = token.ClassVar
		prefix = "@@"
	}
	name := lx.scanIdentTail()
	if name == "" {
		return lx.make(token.Invalid, prefix, line, column)
	}
	return lx.make(kind, prefix+name, line, column)
}

func (lx *Lexer) scanString(line, column int) token.Token {
	lx.advance(1) // opening quote
	var sb strings.Builder
	for {
		r, size := lx.peek()
		if size == 0 || r == '\n' {
			return lx.make(token.Invalid, `"`+sb.String(), line, column)
		}
		lx.advance(size)
		if r == '"' {
			return lx.make(token.String, sb.String(), line, column)
		}
		sb.WriteRune(r)
	}
}
