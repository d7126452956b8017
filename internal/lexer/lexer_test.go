package lexer

import (
	"testing"

	"lumen/internal/token"
)

func TestScanPositions(t *testing.T) {
	src := "x = 1\n@name = \"hi\"\n"
	toks := Scan(src)

	want := []struct {
		kind   token.Kind
		lexeme string
		line   int
		column int
	}{
		{token.Ident, "x", 1, 1},
		{token.Assign, "=", 1, 3},
		{token.Int, "1", 1, 5},
		{token.Newline, "\n", 1, 6},
		{token.InstanceVar, "@name", 2, 1},
		{token.Assign, "=", 2, 7},
		{token.String, "hi", 2, 9},
		{token.Newline, "\n", 2, 13},
		{token.EOF, "", 3, 1},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		got := toks[i]
		if got.Kind != w.kind || got.Lexeme != w.lexeme || got.Line != w.line || got.Column != w.column {
			t.Errorf("token %d = %v, want %s %q @%d:%d", i, got, w.kind, w.lexeme, w.line, w.column)
		}
	}
}

func TestScanKeywordsAndVars(t *testing.T) {
	toks := Scan("class Foo\ndef initialize\n@@count = 0\n$debug = self\nend\nend\n")

	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind != token.Newline {
			kinds = append(kinds, tok.Kind)
		}
	}
	want := []token.Kind{
		token.KwClass, token.Const,
		token.KwDef, token.Ident,
		token.ClassVar, token.Assign, token.Int,
		token.GlobalVar, token.Assign, token.KwSelf,
		token.KwEnd,
		token.KwEnd,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestScanCommentsSkipped(t *testing.T) {
	toks := Scan("# leading comment\nx = 2 # trailing\n")
	var idents int
	for _, tok := range toks {
		if tok.Kind == token.Ident {
			idents++
		}
		if tok.Kind == token.Invalid {
			t.Fatalf("unexpected invalid token %v", tok)
		}
	}
	if idents != 1 {
		t.Errorf("got %d identifiers, want 1", idents)
	}
}

func TestScanInvalid(t *testing.T) {
	toks := Scan("x ? y\n")
	found := false
	for _, tok := range toks {
		if tok.Kind == token.Invalid && tok.Lexeme == "?" {
			found = true
			if tok.Column != 3 {
				t.Errorf("invalid token at column %d, want 3", tok.Column)
			}
		}
	}
	if !found {
		t.Error("no invalid token produced for '?'")
	}
}
