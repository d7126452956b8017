package parser

import (
	"strings"
	"testing"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := ParseFile("test.lum", src)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	return file
}

func TestParseClassWithMethods(t *testing.T) {
	file := mustParse(t, `
class Point
  def initialize(x : Int32, y = 0)
    @x = x
    @y = y
  end

  def sum
    @x
  end
end
`)

	if len(file.Stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(file.Stmts))
	}
	cls, ok := file.Stmts[0].(*ast.ClassDef)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ClassDef", file.Stmts[0])
	}
	if cls.Name != "Point" || len(cls.Methods) != 2 {
		t.Fatalf("class %s has %d methods", cls.Name, len(cls.Methods))
	}

	init := cls.Methods[0]
	if init.Name != "initialize" || len(init.Params) != 2 {
		t.Fatalf("initialize has %d params", len(init.Params))
	}
	if init.Params[0].Restriction != "Int32" {
		t.Errorf("param restriction = %q, want Int32", init.Params[0].Restriction)
	}
	if init.Params[1].Default == nil {
		t.Error("second param lost its default value")
	}
	if len(init.Body) != 2 {
		t.Errorf("initialize body has %d statements, want 2", len(init.Body))
	}
}

func TestParseAssignLocations(t *testing.T) {
	file := mustParse(t, "count = incr(1, 2)\n")
	assign, ok := file.Stmts[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Assign", file.Stmts[0])
	}
	loc := assign.Target.Loc()
	if loc.Line != 1 || loc.Column != 1 {
		t.Errorf("target at %d:%d, want 1:1", loc.Line, loc.Column)
	}
	if ref, ok := loc.Ref.(*source.RealFile); !ok || ref.Path != "test.lum" {
		t.Errorf("target ref = %#v", loc.Ref)
	}
	call, ok := assign.Value.(*ast.Call)
	if !ok || call.Name != "incr" || len(call.Args) != 2 {
		t.Fatalf("value = %#v", assign.Value)
	}
}

func TestParseMacroExpansion(t *testing.T) {
	file := mustParse(t, `macro setup
  x = 1
  y = x
end

setup
`)

	if len(file.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(file.Stmts))
	}
	call, ok := file.Stmts[1].(*ast.MacroCall)
	if !ok {
		t.Fatalf("statement is %T, want *ast.MacroCall", file.Stmts[1])
	}
	if len(call.Expansion) != 2 {
		t.Fatalf("expansion has %d statements, want 2", len(call.Expansion))
	}

	// Expanded nodes live in a virtual source pointing back at the macro.
	loc := call.Expansion[0].Loc()
	ref, ok := loc.Ref.(*source.VirtualFile)
	if !ok {
		t.Fatalf("expansion ref = %#v, want *source.VirtualFile", loc.Ref)
	}
	if ref.MacroName != "setup" || ref.MacroPath != "test.lum" || ref.MacroLine != 1 {
		t.Errorf("macro back-reference = %+v", ref)
	}
	if !strings.Contains(ref.Text, "x = 1") {
		t.Errorf("virtual text = %q", ref.Text)
	}
	if loc.Line != 1 {
		t.Errorf("first expanded statement at virtual line %d, want 1", loc.Line)
	}
}

func TestParseMacroBodyWithNestedBlock(t *testing.T) {
	file := mustParse(t, `macro helpers
  def util
    1
  end
end

helpers
`)

	call, ok := file.Stmts[1].(*ast.MacroCall)
	if !ok {
		t.Fatalf("statement is %T, want *ast.MacroCall", file.Stmts[1])
	}
	// The nested 'end' belongs to the body; only the outer one closes the macro.
	if strings.Count(call.Def.Body, "end") != 1 {
		t.Fatalf("captured body = %q", call.Def.Body)
	}
	if len(call.Expansion) != 1 {
		t.Fatalf("expansion has %d statements, want 1", len(call.Expansion))
	}
	m, ok := call.Expansion[0].(*ast.MethodDef)
	if !ok || m.Name != "util" {
		t.Fatalf("expanded node = %#v, want method util", call.Expansion[0])
	}
}

func TestParseMacroEndWithTrailingComment(t *testing.T) {
	file := mustParse(t, "macro dup\n  x = 1\nend # closes dup\n\ndup\n")

	call, ok := file.Stmts[1].(*ast.MacroCall)
	if !ok {
		t.Fatalf("statement is %T, want *ast.MacroCall", file.Stmts[1])
	}
	if call.Def.Body != "  x = 1\n" {
		t.Errorf("captured body = %q", call.Def.Body)
	}
	if len(call.Expansion) != 1 {
		t.Errorf("expansion has %d statements, want 1", len(call.Expansion))
	}
}

func TestParseMacroExpansionErrorWrapped(t *testing.T) {
	_, err := ParseFile("test.lum", `macro bad
  x = = 1
end

bad
`)
	if err == nil {
		t.Fatal("expected a parse error inside the expansion")
	}
	d, ok := err.(*diag.Diagnostic)
	if !ok {
		t.Fatalf("error is %T, want *diag.Diagnostic", err)
	}
	if d.Message != "expanding macro" {
		t.Errorf("outer message = %q, want %q", d.Message, "expanding macro")
	}
	if d.Inner == nil {
		t.Fatal("expansion failure lost its inner diagnostic")
	}
	if _, ok := d.Inner.Loc.Ref.(*source.VirtualFile); !ok {
		t.Errorf("inner location ref = %#v, want virtual", d.Inner.Loc.Ref)
	}
	// The outer link points at the invocation in the real file.
	if ref, ok := d.Loc.Ref.(*source.RealFile); !ok || ref.Path != "test.lum" {
		t.Errorf("outer location ref = %#v", d.Loc.Ref)
	}
	if d.Loc.Line != 5 {
		t.Errorf("outer location line = %d, want 5", d.Loc.Line)
	}
}

func TestParseErrorPositions(t *testing.T) {
	_, err := ParseFile("test.lum", "class lower\n")
	d, ok := err.(*diag.Diagnostic)
	if !ok {
		t.Fatalf("error is %T, want *diag.Diagnostic", err)
	}
	if !strings.Contains(d.Message, "expecting constant") {
		t.Errorf("message = %q", d.Message)
	}
	if d.Loc.Line != 1 || d.Loc.Column != 7 {
		t.Errorf("error at %d:%d, want 1:7", d.Loc.Line, d.Loc.Column)
	}
}

func TestParseUnexpectedCharacter(t *testing.T) {
	_, err := ParseFile("test.lum", "x = 1 ?\n")
	if err == nil || !strings.Contains(err.Error(), `unexpected character "?"`) {
		t.Errorf("err = %v", err)
	}
}
