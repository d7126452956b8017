package diagfmt

import (
	"strings"
	"testing"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
)

func TestTraceTextUsedBeforeInitialized(t *testing.T) {
	reader := mapReader{"foo.lum": {
		"class Foo",
		"  def initialize",
		"    @x + 1",
		"    @x = 1",
		"  end",
		"end",
	}}

	loc := func(line, col int) *source.Location {
		return source.New(&source.RealFile{Path: "foo.lum"}, line, col, 0)
	}
	read := diag.NewTraceNode(ast.NewInstanceVar(loc(3, 5), "@x"))
	write := diag.NewTraceNode(ast.NewInstanceVar(loc(4, 5), "@x"))

	trace := &diag.NilableTrace{
		Owner: "Foo",
		Trace: []diag.TraceNode{read, write},
		Reason: &diag.NilReason{
			Kind:         diag.UsedBeforeInitialized,
			VariableName: "@x",
			Occurrences:  []diag.TraceNode{read},
		},
	}

	var sb strings.Builder
	TraceText(&sb, trace, reader, plain)
	got := sb.String()

	if !strings.Contains(got, "Foo trace:") {
		t.Errorf("missing owner trace header:\n%s", got)
	}
	want := "instance variable '@x' was used before it was initialized in one of the initializer methods, rendering it nilable"
	if !strings.Contains(got, "Error: "+want) {
		t.Errorf("missing reason headline:\n%s", got)
	}
	// Two separators: one before the trace, one before the reason.
	if n := strings.Count(got, strings.Repeat("=", separatorWidth)); n != 2 {
		t.Errorf("got %d separators, want 2:\n%s", n, got)
	}
	// The trace shows both occurrences, the reason exactly one.
	if n := strings.Count(got, "foo.lum:3"); n != 2 {
		t.Errorf("read occurrence shown %d times, want 2 (trace + reason):\n%s", n, got)
	}
	if n := strings.Count(got, "foo.lum:4"); n != 1 {
		t.Errorf("write occurrence shown %d times, want 1:\n%s", n, got)
	}
	// Named nodes get an underline matching the name length.
	if !strings.Contains(got, "^~") {
		t.Errorf("missing name underline:\n%s", got)
	}
}

func TestTraceTextSelfBeforeInitialized(t *testing.T) {
	reader := mapReader{"foo.lum": {"self.report", "@x = 1"}}
	self := diag.NewTraceNode(ast.NewSelf(source.New(&source.RealFile{Path: "foo.lum"}, 1, 1, 0)))

	trace := &diag.NilableTrace{
		Owner: "Foo",
		Trace: []diag.TraceNode{self},
		Reason: &diag.NilReason{
			Kind:         diag.UsedSelfBeforeInitialized,
			VariableName: "@x",
			Occurrences:  []diag.TraceNode{self},
		},
	}

	var sb strings.Builder
	TraceText(&sb, trace, reader, plain)
	got := sb.String()

	if !strings.Contains(got, "'self' was used before initializing instance variable '@x', rendering it nilable") {
		t.Errorf("missing self headline:\n%s", got)
	}
	// 'self' has no name span, so no underline is drawn.
	if strings.Contains(got, "^") {
		t.Errorf("unexpected underline for unnamed node:\n%s", got)
	}
}

func TestTraceTextVirtualSourceOccurrence(t *testing.T) {
	ref := &source.VirtualFile{
		MacroName: "twice",
		MacroPath: "main.lum",
		MacroLine: 1,
		Text:      "@x = @x\n",
	}
	node := diag.NewTraceNode(ast.NewInstanceVar(source.New(ref, 1, 6, 0), "@x"))

	var sb strings.Builder
	TraceText(&sb, &diag.NilableTrace{Owner: "Foo", Trace: []diag.TraceNode{node}}, mapReader{}, plain)
	got := sb.String()

	if !strings.Contains(got, "macro twice (in main.lum:1):1") {
		t.Errorf("missing virtual descriptor header:\n%s", got)
	}
	// The snippet comes from the synthesized text, not the reader.
	if !strings.Contains(got, snippetIndent+"@x = @x") {
		t.Errorf("missing virtual-source snippet:\n%s", got)
	}
	if !strings.Contains(got, "^~") {
		t.Errorf("missing name underline:\n%s", got)
	}
}

func TestTraceTextNoReasonStopsAfterTrace(t *testing.T) {
	reader := mapReader{"foo.lum": {"@x = 1"}}
	node := diag.NewTraceNode(ast.NewInstanceVar(source.New(&source.RealFile{Path: "foo.lum"}, 1, 1, 0), "@x"))

	var sb strings.Builder
	TraceText(&sb, &diag.NilableTrace{Owner: "Foo", Trace: []diag.TraceNode{node}}, reader, plain)
	got := sb.String()

	if strings.Contains(got, "Error:") {
		t.Errorf("reasonless trace printed an error headline:\n%s", got)
	}
	if n := strings.Count(got, strings.Repeat("=", separatorWidth)); n != 1 {
		t.Errorf("got %d separators, want 1:\n%s", n, got)
	}
}

func TestTraceTextAllNodesLocationless(t *testing.T) {
	var sb strings.Builder
	node := diag.NewTraceNode(ast.NewInstanceVar(nil, "@x"))
	TraceText(&sb, &diag.NilableTrace{Owner: "Foo", Trace: []diag.TraceNode{node}}, mapReader{}, plain)
	if sb.Len() != 0 {
		t.Errorf("locationless trace produced output: %q", sb.String())
	}
}
