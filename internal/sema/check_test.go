package sema

import (
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/parser"
	"lumen/internal/source"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	file, err := parser.ParseFile("test.lum", src)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	return Check(file)
}

func mustDiagnostic(t *testing.T, err error) *diag.Diagnostic {
	t.Helper()
	if err == nil {
		t.Fatal("expected a diagnostic, got nil")
	}
	d, ok := err.(*diag.Diagnostic)
	if !ok {
		t.Fatalf("error is %T, want *diag.Diagnostic", err)
	}
	return d
}

func TestCheckValidProgram(t *testing.T) {
	err := checkSource(t, `
class Point
  def initialize(x : Int32)
    @x = x
  end

  def get
    @x
  end
end

p = Point.new
q = p.get
`)
	if err != nil {
		t.Fatalf("valid program rejected: %v", err)
	}
}

func TestCheckUndefinedLocalWithSuggestion(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, "count = 1\ncont\n"))
	want := "undefined local variable or method 'cont' (did you mean 'count'?)"
	if d.Message != want {
		t.Errorf("message = %q, want %q", d.Message, want)
	}
	if d.Kind != diag.Generic {
		t.Errorf("kind = %v, want generic", d.Kind)
	}
	if d.Loc.Line != 2 || d.Loc.Column != 1 || d.Loc.SpanSize != 4 {
		t.Errorf("location = %d:%d span %d", d.Loc.Line, d.Loc.Column, d.Loc.SpanSize)
	}
}

func TestCheckFrozenTypeViolation(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, "x = 1\nx = \"s\"\n"))
	if d.Kind != diag.FrozenTypeViolation {
		t.Errorf("kind = %v, want frozen type violation", d.Kind)
	}
	if d.Message != "type must be Int32, not String" {
		t.Errorf("message = %q", d.Message)
	}
	if d.Loc.Line != 2 {
		t.Errorf("reported at line %d, want 2", d.Loc.Line)
	}
}

func TestCheckUndefinedMacroMethod(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, `macro go_wild
  frobnicate(1)
end

go_wild
`))
	// The failure is framed at the invocation in the real file.
	if d.Message != "expanding macro" {
		t.Errorf("outer message = %q, want %q", d.Message, "expanding macro")
	}
	if ref, ok := d.Loc.Ref.(*source.RealFile); !ok || ref.Path != "test.lum" {
		t.Errorf("outer location ref = %#v, want real file", d.Loc.Ref)
	}
	if d.Loc.Line != 5 {
		t.Errorf("invocation at line %d, want 5", d.Loc.Line)
	}
	if d.Inner == nil {
		t.Fatal("expansion failure lost its inner diagnostic")
	}
	if d.Inner.Kind != diag.UndefinedMacroMethod {
		t.Errorf("inner kind = %v, want undefined macro method", d.Inner.Kind)
	}
	if d.Inner.Message != "undefined macro method 'frobnicate'" {
		t.Errorf("inner message = %q", d.Inner.Message)
	}
	if _, ok := d.Inner.Loc.Ref.(*source.VirtualFile); !ok {
		t.Errorf("inner location ref = %#v, want virtual", d.Inner.Loc.Ref)
	}
}

func TestCheckInstantiationChain(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, `def broken
  boom
end

broken
`))
	if d.Message != "instantiating 'broken()'" {
		t.Errorf("outer message = %q", d.Message)
	}
	if d.Loc.Line != 5 {
		t.Errorf("call site at line %d, want 5", d.Loc.Line)
	}
	if d.Inner == nil {
		t.Fatal("missing inner diagnostic")
	}
	if d.Inner.Message != "undefined local variable or method 'boom'" {
		t.Errorf("inner message = %q", d.Inner.Message)
	}
	if d.Inner.Loc.Line != 2 {
		t.Errorf("cause at line %d, want 2", d.Inner.Loc.Line)
	}
}

func TestCheckCantInferInstanceVar(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, `
class Foo
  def initialize
    @baz = 1
  end

  def get
    @bar
  end
end
`))
	if !strings.HasPrefix(d.Message, "Can't infer the type of instance variable '@bar' of Foo (did you mean @baz?)") {
		t.Errorf("message = %q", d.Message)
	}
	if d.Loc.Line != 8 {
		t.Errorf("reported at line %d, want 8", d.Loc.Line)
	}
}

func TestCheckCantInferGlobal(t *testing.T) {
	err := checkSource(t, `def compute
end

$flag = compute()
$flag
`)
	d := mustDiagnostic(t, err)
	first, _, _ := strings.Cut(d.Message, "\n")
	if first != "Can't infer the type of global variable '$flag'" {
		t.Errorf("summary = %q", first)
	}
}

func TestCheckUsedBeforeInitialized(t *testing.T) {
	err := checkSource(t, `
class Foo
  def initialize
    record(@x)
    @x = 1
  end
end

def record(v)
end
`)
	if err == nil {
		t.Fatal("expected a nilable trace")
	}
	trace, ok := err.(*diag.NilableTrace)
	if !ok {
		t.Fatalf("error is %T, want *diag.NilableTrace", err)
	}
	if trace.Owner != "Foo" {
		t.Errorf("owner = %q, want Foo", trace.Owner)
	}
	if len(trace.Trace) != 2 {
		t.Errorf("trace has %d occurrences, want 2", len(trace.Trace))
	}
	if trace.Reason == nil || trace.Reason.Kind != diag.UsedBeforeInitialized {
		t.Fatalf("reason = %+v", trace.Reason)
	}
	if trace.Reason.VariableName != "@x" {
		t.Errorf("variable = %q, want @x", trace.Reason.VariableName)
	}
	if len(trace.Reason.Occurrences) != 1 || trace.Reason.Occurrences[0].Loc.Line != 4 {
		t.Errorf("reason occurrences = %+v", trace.Reason.Occurrences)
	}
}

func TestCheckSelfBeforeInitialized(t *testing.T) {
	err := checkSource(t, `
class Foo
  def initialize
    self.prep
    @x = 1
  end

  def prep
  end
end
`)
	trace, ok := err.(*diag.NilableTrace)
	if !ok {
		t.Fatalf("error is %T, want *diag.NilableTrace", err)
	}
	if trace.Reason == nil || trace.Reason.Kind != diag.UsedSelfBeforeInitialized {
		t.Fatalf("reason = %+v", trace.Reason)
	}
	if trace.Reason.VariableName != "@x" {
		t.Errorf("variable = %q, want @x", trace.Reason.VariableName)
	}
}

func TestCheckUndefinedConstant(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, "w = Widget.new\n"))
	if d.Message != "undefined constant Widget" {
		t.Errorf("message = %q", d.Message)
	}
}

func TestCheckInstanceVarAtTopLevel(t *testing.T) {
	d := mustDiagnostic(t, checkSource(t, "@oops = 1\n"))
	if d.Message != "can't use instance variables at the top level" {
		t.Errorf("message = %q", d.Message)
	}
}
