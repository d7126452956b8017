package sema

import (
	"fmt"
	"sort"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/text"
)

// builtinTypes are always-known type names.
var builtinTypes = map[string]bool{
	"Int32":  true,
	"String": true,
	"Nil":    true,
}

type classInfo struct {
	def       *ast.ClassDef
	ivars     map[string]string // inferred type, "" when assigned but not inferable
	ivarOrder []string
	cvars     map[string]string
	cvarOrder []string
}

// Checker runs the semantic checks that raise diagnostics: undefined names,
// uninferable variable types, frozen-type violations, and nilable
// instance-variable analysis. The first failure aborts the file; the
// returned error is a *diag.Diagnostic or *diag.NilableTrace payload.
type Checker struct {
	classes     map[string]*classInfo
	classOrder  []string
	methods     map[string]*ast.MethodDef
	globals     map[string]string
	globalOrder []string
	inProgress  map[*ast.MethodDef]bool
}

// Check analyzes a parsed file and returns the first semantic failure.
func Check(file *ast.File) error {
	c := &Checker{
		classes:    make(map[string]*classInfo),
		methods:    make(map[string]*ast.MethodDef),
		globals:    make(map[string]string),
		inProgress: make(map[*ast.MethodDef]bool),
	}
	c.collect(file.Stmts)

	if _, err := c.checkStmts(file.Stmts, newScope(), nil); err != nil {
		return err
	}
	for _, name := range c.classOrder {
		if err := c.checkClass(c.classes[name]); err != nil {
			return err
		}
	}
	return nil
}

// collect registers classes, top-level methods, global assignments and the
// types inferable from them. Macro expansions contribute like inline code.
func (c *Checker) collect(stmts []ast.Node) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.ClassDef:
			if _, ok := c.classes[n.Name]; !ok {
				c.classes[n.Name] = c.newClassInfo(n)
				c.classOrder = append(c.classOrder, n.Name)
			}
		case *ast.MethodDef:
			c.methods[n.Name] = n
		case *ast.Assign:
			if g, ok := n.Target.(*ast.GlobalVar); ok {
				c.recordGlobal(g.Name, c.inferType(n.Value, nil))
			}
		case *ast.MacroCall:
			c.collect(n.Expansion)
		}
	}
}

func (c *Checker) recordGlobal(name, typ string) {
	if _, ok := c.globals[name]; !ok {
		c.globalOrder = append(c.globalOrder, name)
		c.globals[name] = typ
	} else if c.globals[name] == "" {
		c.globals[name] = typ
	}
}

func (c *Checker) newClassInfo(def *ast.ClassDef) *classInfo {
	info := &classInfo{
		def:   def,
		ivars: make(map[string]string),
		cvars: make(map[string]string),
	}
	for _, m := range def.Methods {
		params := paramScope(m)
		for _, stmt := range m.Body {
			assign, ok := stmt.(*ast.Assign)
			if !ok {
				continue
			}
			typ := c.inferType(assign.Value, params)
			switch v := assign.Target.(type) {
			case *ast.InstanceVar:
				if _, ok := info.ivars[v.Name]; !ok {
					info.ivarOrder = append(info.ivarOrder, v.Name)
					info.ivars[v.Name] = typ
				} else if info.ivars[v.Name] == "" {
					info.ivars[v.Name] = typ
				}
			case *ast.ClassVar:
				if _, ok := info.cvars[v.Name]; !ok {
					info.cvarOrder = append(info.cvarOrder, v.Name)
					info.cvars[v.Name] = typ
				} else if info.cvars[v.Name] == "" {
					info.cvars[v.Name] = typ
				}
			}
		}
	}
	return info
}

// paramScope seeds a method scope with the types its parameters contribute:
// a type restriction directly, a default value via literal inference.
func paramScope(m *ast.MethodDef) *scope {
	sc := newScope()
	for _, p := range m.Params {
		switch {
		case p.Restriction != "":
			sc.set(p.Name, p.Restriction)
		case p.Default != nil:
			sc.set(p.Name, literalType(p.Default))
		default:
			sc.set(p.Name, "")
		}
	}
	return sc
}

func literalType(n ast.Node) string {
	switch n.(type) {
	case *ast.IntLit:
		return "Int32"
	case *ast.StringLit:
		return "String"
	}
	return ""
}

// inferType derives a type from an expression using only the inference
// rules the explanation templates enumerate. "" means not inferable.
func (c *Checker) inferType(n ast.Node, sc *scope) string {
	switch n := n.(type) {
	case *ast.IntLit:
		return "Int32"
	case *ast.StringLit:
		return "String"
	case *ast.Call:
		if recv, ok := n.Receiver.(*ast.ConstRef); ok && n.Name == "new" {
			return recv.Name
		}
	case *ast.Ident:
		if sc != nil {
			if typ, ok := sc.lookup(n.Name); ok {
				return typ
			}
		}
	}
	return ""
}

func (c *Checker) checkStmts(stmts []ast.Node, sc *scope, cls *classInfo) (string, error) {
	lastType := ""
	for _, stmt := range stmts {
		typ, err := c.checkExpr(stmt, sc, cls)
		if err != nil {
			return "", err
		}
		lastType = typ
	}
	return lastType, nil
}

func (c *Checker) checkExpr(n ast.Node, sc *scope, cls *classInfo) (string, error) {
	switch n := n.(type) {
	case *ast.IntLit:
		return "Int32", nil
	case *ast.StringLit:
		return "String", nil
	case *ast.MacroDef, *ast.MethodDef:
		// Method bodies are checked when instantiated at a call site.
		return "", nil
	case *ast.ClassDef:
		return "", nil
	case *ast.MacroCall:
		typ, err := c.checkStmts(n.Expansion, sc, cls)
		if err != nil {
			// Failures in expanded code are framed at the invocation, the
			// same way parse failures inside an expansion are.
			if inner, ok := err.(*diag.Diagnostic); ok {
				return "", diag.WrapNode("expanding macro", n, inner)
			}
			return "", err
		}
		return typ, nil
	case *ast.Assign:
		return c.checkAssign(n, sc, cls)
	case *ast.Ident:
		return c.checkIdent(n, sc, cls)
	case *ast.Call:
		return c.checkCall(n, sc, cls)
	case *ast.ConstRef:
		if builtinTypes[n.Name] || c.classes[n.Name] != nil {
			return n.Name, nil
		}
		return "", diag.NewFromNode(fmt.Sprintf("undefined constant %s", n.Name), n)
	case *ast.SelfExpr:
		if cls == nil {
			return "", diag.NewFromNode("there's no self in this scope", n)
		}
		return cls.def.Name, nil
	case *ast.InstanceVar:
		return c.checkInstanceVar(n, cls)
	case *ast.ClassVar:
		return c.checkClassVar(n, cls)
	case *ast.GlobalVar:
		return c.checkGlobalVar(n)
	}
	return "", nil
}

func (c *Checker) checkAssign(n *ast.Assign, sc *scope, cls *classInfo) (string, error) {
	typ, err := c.checkExpr(n.Value, sc, cls)
	if err != nil {
		return "", err
	}

	switch target := n.Target.(type) {
	case *ast.Ident:
		if prev, ok := sc.lookup(target.Name); ok && prev != "" && typ != "" && prev != typ {
			return "", diag.NewFromNode(fmt.Sprintf("type must be %s, not %s", prev, typ), n).
				WithKind(diag.FrozenTypeViolation)
		}
		sc.set(target.Name, typ)
	case *ast.InstanceVar:
		if cls == nil {
			return "", diag.NewFromNode("can't use instance variables at the top level", target)
		}
	case *ast.ClassVar:
		if cls == nil {
			return "", diag.NewFromNode("can't use class variables at the top level", target)
		}
	}
	return typ, nil
}

func (c *Checker) checkIdent(n *ast.Ident, sc *scope, cls *classInfo) (string, error) {
	if typ, ok := sc.lookup(n.Name); ok {
		return typ, nil
	}
	if def, ok := c.methods[n.Name]; ok {
		return c.checkMethodCall(n, def, nil, sc, cls)
	}
	return "", c.undefinedName(n, n.Name, sc)
}

func (c *Checker) checkCall(n *ast.Call, sc *scope, cls *classInfo) (string, error) {
	for _, arg := range n.Args {
		if _, err := c.checkExpr(arg, sc, cls); err != nil {
			return "", err
		}
	}

	if n.Receiver == nil {
		if def, ok := c.methods[n.Name]; ok {
			return c.checkMethodCall(n, def, n.Args, sc, cls)
		}
		return "", c.undefinedName(n, n.Name, sc)
	}

	recvType, err := c.checkExpr(n.Receiver, sc, cls)
	if err != nil {
		return "", err
	}
	if recvType == "" {
		return "", nil
	}
	if n.Name == "new" {
		if c.classes[recvType] != nil {
			return recvType, nil
		}
		return "", nil
	}
	if info := c.classes[recvType]; info != nil {
		for _, m := range info.def.Methods {
			if m.Name == n.Name {
				return c.checkMethodCall(n, m, n.Args, sc, info)
			}
		}
		return "", diag.NewFromNode(fmt.Sprintf("undefined method '%s' for %s", n.Name, recvType), n)
	}
	return "", nil
}

// checkMethodCall analyzes the callee's body with its parameter types in
// scope. A failure inside the body is wrapped at the call site, forming the
// causation chain the renderer walks.
func (c *Checker) checkMethodCall(site ast.Node, def *ast.MethodDef, args []ast.Node, sc *scope, cls *classInfo) (string, error) {
	if c.inProgress[def] {
		return "", nil
	}
	c.inProgress[def] = true
	defer delete(c.inProgress, def)

	bodyScope := paramScope(def)
	for i, p := range def.Params {
		if i < len(args) {
			if typ := c.inferType(args[i], sc); typ != "" {
				bodyScope.set(p.Name, typ)
			}
		}
	}

	typ, err := c.checkStmts(def.Body, bodyScope, cls)
	if err != nil {
		if inner, ok := err.(*diag.Diagnostic); ok {
			return "", diag.WrapNode(fmt.Sprintf("instantiating '%s()'", def.Name), site, inner)
		}
		return "", err
	}
	return typ, nil
}

func (c *Checker) checkInstanceVar(n *ast.InstanceVar, cls *classInfo) (string, error) {
	if cls == nil {
		return "", diag.NewFromNode("can't use instance variables at the top level", n)
	}
	if typ, ok := cls.ivars[n.Name]; ok && typ != "" {
		return typ, nil
	}
	similar := text.SimilarName(n.Name, cls.ivarOrder)
	return "", diag.NewFromNode(UndefinedInstanceVariable(n.Name, cls.def.Name, similar), n)
}

func (c *Checker) checkClassVar(n *ast.ClassVar, cls *classInfo) (string, error) {
	if cls == nil {
		return "", diag.NewFromNode("can't use class variables at the top level", n)
	}
	if typ, ok := cls.cvars[n.Name]; ok && typ != "" {
		return typ, nil
	}
	similar := text.SimilarName(n.Name, cls.cvarOrder)
	return "", diag.NewFromNode(UndefinedClassVariable(n.Name, cls.def.Name, similar), n)
}

func (c *Checker) checkGlobalVar(n *ast.GlobalVar) (string, error) {
	if typ, ok := c.globals[n.Name]; ok && typ != "" {
		return typ, nil
	}
	similar := text.SimilarName(n.Name, c.globalOrder)
	return "", diag.NewFromNode(UndefinedGlobalVariable(n.Name, similar), n)
}

// undefinedName reports an unknown receiverless name. Inside a macro
// expansion the failure is tagged as an undefined macro method so callers
// can pattern-match expansion failures.
func (c *Checker) undefinedName(node ast.Node, name string, sc *scope) error {
	if loc := node.Loc(); loc != nil {
		if _, virtual := loc.Ref.(*source.VirtualFile); virtual {
			return diag.NewFromNode(fmt.Sprintf("undefined macro method '%s'", name), node).
				WithKind(diag.UndefinedMacroMethod)
		}
	}

	candidates := append(sc.names(), methodNames(c.methods)...)
	msg := fmt.Sprintf("undefined local variable or method '%s'", name)
	if similar := text.SimilarName(name, candidates); similar != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", similar)
	}
	return diag.NewFromNode(msg, node)
}

func methodNames(methods map[string]*ast.MethodDef) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkClass type-checks every method body and runs the nilable
// instance-variable analysis over the initializer.
func (c *Checker) checkClass(info *classInfo) error {
	for _, m := range info.def.Methods {
		if m.Name == "initialize" {
			if err := c.checkNilability(info, m); err != nil {
				return err
			}
		}
	}
	for _, m := range info.def.Methods {
		if _, err := c.checkStmts(m.Body, paramScope(m), info); err != nil {
			return err
		}
	}
	return nil
}
