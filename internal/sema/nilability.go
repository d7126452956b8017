package sema

import (
	"lumen/internal/ast"
	"lumen/internal/diag"
)

// checkNilability replays the initializer in source order and reports the
// first instance variable that is observed before its assignment: a direct
// read, or any use of 'self' while some variable is still unassigned. The
// report carries every occurrence of the variable in the owner as a trace.
func (c *Checker) checkNilability(info *classInfo, init *ast.MethodDef) error {
	assigned := make(map[string]bool)

	var failure *diag.NilableTrace
	for _, stmt := range init.Body {
		walkInitOrder(stmt, func(n ast.Node, isAssignTarget bool) bool {
			if failure != nil {
				return false
			}
			switch n := n.(type) {
			case *ast.InstanceVar:
				if isAssignTarget {
					assigned[n.Name] = true
					return true
				}
				// Reads of variables with no assignment anywhere are the
				// can't-infer case, reported by the type check instead.
				if _, declared := info.ivars[n.Name]; declared && !assigned[n.Name] {
					failure = &diag.NilableTrace{
						Owner: info.def.Name,
						Trace: c.occurrencesOf(info, n.Name),
						Reason: &diag.NilReason{
							Kind:         diag.UsedBeforeInitialized,
							VariableName: n.Name,
							Occurrences:  []diag.TraceNode{diag.NewTraceNode(n)},
						},
					}
				}
			case *ast.SelfExpr:
				for _, name := range info.ivarOrder {
					if !assigned[name] {
						failure = &diag.NilableTrace{
							Owner: info.def.Name,
							Trace: c.occurrencesOf(info, name),
							Reason: &diag.NilReason{
								Kind:         diag.UsedSelfBeforeInitialized,
								VariableName: name,
								Occurrences:  []diag.TraceNode{diag.NewTraceNode(n)},
							},
						}
						break
					}
				}
			}
			return failure == nil
		})
		if failure != nil {
			return failure
		}
	}
	return nil
}

// walkInitOrder visits nodes in evaluation order: an assignment evaluates
// its value before the target counts as assigned.
func walkInitOrder(node ast.Node, visit func(n ast.Node, isAssignTarget bool) bool) {
	if node == nil {
		return
	}
	if assign, ok := node.(*ast.Assign); ok {
		walkInitOrder(assign.Value, visit)
		visit(assign.Target, true)
		return
	}
	walk(node, func(n ast.Node) bool {
		if assign, ok := n.(*ast.Assign); ok {
			walkInitOrder(assign, visit)
			return false
		}
		return visit(n, false)
	})
}

// occurrencesOf collects every appearance of the instance variable across
// the owner's methods, in source order.
func (c *Checker) occurrencesOf(info *classInfo, name string) []diag.TraceNode {
	var nodes []diag.TraceNode
	for _, m := range info.def.Methods {
		walk(m, func(n ast.Node) bool {
			if v, ok := n.(*ast.InstanceVar); ok && v.Name == name {
				nodes = append(nodes, diag.NewTraceNode(v))
			}
			return true
		})
	}
	return nodes
}
