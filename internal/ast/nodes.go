package ast

import "lumen/internal/source"

// File is a parsed source file.
type File struct {
	base
	Stmts []Node
}

// Ident is a lowercase identifier: a local variable read or a bare call.
type Ident struct{ named }

// InstanceVar is an '@name' reference.
type InstanceVar struct{ named }

// ClassVar is an '@@name' reference.
type ClassVar struct{ named }

// GlobalVar is a '$name' reference.
type GlobalVar struct{ named }

// ConstRef is a capitalized type reference.
type ConstRef struct{ named }

// SelfExpr is the 'self' keyword.
type SelfExpr struct{ base }

// IntLit is an integer literal.
type IntLit struct {
	base
	Value string
}

// StringLit is a string literal.
type StringLit struct {
	base
	Value string
}

// Call is a method call: 'foo(...)', 'recv.foo(...)' or 'Const.new'.
type Call struct {
	named
	Receiver Node // nil for receiverless calls
	Args     []Node
}

// Assign is 'target = value'. Its name span is the target's.
type Assign struct {
	base
	Target Node
	Value  Node
}

func (a *Assign) NameColumn() int {
	if a.Target == nil {
		return 0
	}
	return a.Target.NameColumn()
}

func (a *Assign) NameSize() int {
	if a.Target == nil {
		return 0
	}
	return a.Target.NameSize()
}

// Param is a method parameter, optionally with a type restriction
// ('x : Int32') or a default value ('x = 1').
type Param struct {
	named
	Restriction string // type name, "" when absent
	Default     Node   // nil when absent
}

// MethodDef is 'def name(params) body end'.
type MethodDef struct {
	named
	Params []*Param
	Body   []Node
}

// ClassDef is 'class Name methods end'.
type ClassDef struct {
	named
	Methods []*MethodDef
}

// MacroDef is 'macro name body end'. The body is kept as raw text: it is
// re-lexed on every expansion against a virtual source, so expansion-site
// diagnostics can point into the synthesized text.
type MacroDef struct {
	named
	Body string
}

// MacroCall is a receiverless invocation that resolved to a macro. Expansion
// holds the statements parsed from the synthesized virtual source.
type MacroCall struct {
	named
	Def       *MacroDef
	Expansion []Node
}

// NewIdent builds an identifier node at loc.
func NewIdent(loc *source.Location, name string) *Ident {
	return &Ident{named{base{loc}, name}}
}

// NewInstanceVar builds an '@name' node at loc.
func NewInstanceVar(loc *source.Location, name string) *InstanceVar {
	return &InstanceVar{named{base{loc}, name}}
}

// NewClassVar builds an '@@name' node at loc.
func NewClassVar(loc *source.Location, name string) *ClassVar {
	return &ClassVar{named{base{loc}, name}}
}

// NewGlobalVar builds a '$name' node at loc.
func NewGlobalVar(loc *source.Location, name string) *GlobalVar {
	return &GlobalVar{named{base{loc}, name}}
}

// NewConstRef builds a type reference node at loc.
func NewConstRef(loc *source.Location, name string) *ConstRef {
	return &ConstRef{named{base{loc}, name}}
}

// NewSelf builds a 'self' node at loc.
func NewSelf(loc *source.Location) *SelfExpr {
	return &SelfExpr{base{loc}}
}

// NewIntLit builds an integer literal node at loc.
func NewIntLit(loc *source.Location, value string) *IntLit {
	return &IntLit{base{loc}, value}
}

// NewStringLit builds a string literal node at loc.
func NewStringLit(loc *source.Location, value string) *StringLit {
	return &StringLit{base{loc}, value}
}

// NewCall builds a call node at loc.
func NewCall(loc *source.Location, receiver Node, name string, args []Node) *Call {
	return &Call{named: named{base{loc}, name}, Receiver: receiver, Args: args}
}

// NewAssign builds an assignment node located at its target.
func NewAssign(target, value Node) *Assign {
	return &Assign{base: base{target.Loc()}, Target: target, Value: value}
}

// NewParam builds a parameter node at loc.
func NewParam(loc *source.Location, name, restriction string, def Node) *Param {
	return &Param{named: named{base{loc}, name}, Restriction: restriction, Default: def}
}

// NewMethodDef builds a method definition node located at its name.
func NewMethodDef(loc *source.Location, name string, params []*Param, body []Node) *MethodDef {
	return &MethodDef{named: named{base{loc}, name}, Params: params, Body: body}
}

// NewClassDef builds a class definition node located at its name.
func NewClassDef(loc *source.Location, name string, methods []*MethodDef) *ClassDef {
	return &ClassDef{named: named{base{loc}, name}, Methods: methods}
}

// NewMacroDef builds a macro definition node located at its name.
func NewMacroDef(loc *source.Location, name, body string) *MacroDef {
	return &MacroDef{named: named{base{loc}, name}, Body: body}
}

// NewMacroCall builds an expanded macro invocation node.
func NewMacroCall(loc *source.Location, def *MacroDef, expansion []Node) *MacroCall {
	return &MacroCall{named: named{base{loc}, def.Name}, Def: def, Expansion: expansion}
}
