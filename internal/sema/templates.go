package sema

import (
	"fmt"
	"strings"
)

// VarKind is the flavor of variable whose type could not be inferred.
type VarKind uint8

const (
	// GlobalVarKind is a '$name' variable.
	GlobalVarKind VarKind = iota
	// ClassVarKind is an '@@name' variable.
	ClassVarKind
	// InstanceVarKind is an '@name' variable.
	InstanceVarKind
)

func (k VarKind) String() string {
	switch k {
	case GlobalVarKind:
		return "global"
	case ClassVarKind:
		return "class"
	case InstanceVarKind:
		return "instance"
	}
	return "unknown"
}

// inferenceRules enumerates, in order, every assignment form the inference
// engine can draw a type from. Diagnostic text quotes it verbatim, so tests
// can assert exact wording.
const inferenceRules = `The type of a variable that has no explicit type annotation is inferred
from the assignments made to it across the whole program.

An assignment contributes a type only when it has one of these forms:

  1. ` + "`x = 1`" + ` (or another literal), the type is the literal's type
  2. ` + "`x = Type.new`" + `, the type is Type
  3. ` + "`x = arg`" + `, where 'arg' is a method argument with a type
     restriction 'Type', the type is Type
  4. ` + "`x = arg`" + `, where 'arg' is a method argument with a default
     value, the type is inferred from the default value
  5. ` + "`x = uninitialized Type`" + `, the type is Type
  6. ` + "`x = LibExternal.fun_call`" + `, the type is the external
     function's return type
  7. ` + "`LibExternal.fun_call(out x)`" + `, the type is taken from the
     external function's 'out' argument`

// CantInferMessage assembles the full explanation for a variable whose type
// could not be inferred: a one-line summary, the inference rules, and the
// summary restated. owner qualifies class and instance variables; similar
// adds a did-you-mean hint. The result becomes a Diagnostic message raised
// at the offending node.
func CantInferMessage(kind VarKind, name, owner, similar string) string {
	summary := cantInferSummary(kind, name, owner, similar)
	var sb strings.Builder
	sb.WriteString(summary)
	sb.WriteString("\n\n")
	sb.WriteString(inferenceRules)
	sb.WriteString("\n\n")
	sb.WriteString(summary)
	return sb.String()
}

func cantInferSummary(kind VarKind, name, owner, similar string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Can't infer the type of %s variable '%s'", kind, name)
	if owner != "" && kind != GlobalVarKind {
		fmt.Fprintf(&sb, " of %s", owner)
	}
	if similar != "" {
		fmt.Fprintf(&sb, " (did you mean %s?)", similar)
	}
	return sb.String()
}

// UndefinedGlobalVariable builds the message for a '$name' inference failure.
func UndefinedGlobalVariable(name, similar string) string {
	return CantInferMessage(GlobalVarKind, name, "", similar)
}

// UndefinedClassVariable builds the message for an '@@name' inference failure.
func UndefinedClassVariable(name, owner, similar string) string {
	return CantInferMessage(ClassVarKind, name, owner, similar)
}

// UndefinedInstanceVariable builds the message for an '@name' inference failure.
func UndefinedInstanceVariable(name, owner, similar string) string {
	return CantInferMessage(InstanceVarKind, name, owner, similar)
}
