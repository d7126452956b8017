package sema

import "lumen/internal/ast"

// walk visits node and everything below it in source order. The visitor
// returns false to skip a subtree.
func walk(node ast.Node, visit func(ast.Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *ast.File:
		walkAll(n.Stmts, visit)
	case *ast.Assign:
		walk(n.Target, visit)
		walk(n.Value, visit)
	case *ast.Call:
		walk(n.Receiver, visit)
		walkAll(n.Args, visit)
	case *ast.MacroCall:
		walkAll(n.Expansion, visit)
	case *ast.MethodDef:
		for _, p := range n.Params {
			walk(p, visit)
		}
		walkAll(n.Body, visit)
	case *ast.ClassDef:
		for _, m := range n.Methods {
			walk(m, visit)
		}
	case *ast.Param:
		walk(n.Default, visit)
	}
}

func walkAll(nodes []ast.Node, visit func(ast.Node) bool) {
	for _, n := range nodes {
		walk(n, visit)
	}
}
