package compiler

import (
	"fmt"
	"strings"

	"github.com/nilq/oelscript/ast"
)

type jsBackend struct{}

func (jsBackend) Target() Target     { return JS }
func (jsBackend) Indent() string     { return "  " }
func (jsBackend) Terminator() string { return ";" }

func (jsBackend) Operator(op ast.Operator) string {
	switch op {
	case ast.And:
		return "&&"
	case ast.Or:
		return "||"
	case ast.Concat:
		return "+"
	case ast.Pow:
		return "**"
	}
	return op.String()
}

func (jsBackend) Not(operand string) string { return "!" + operand }
func (jsBackend) Nil() string               { return "null" }

func (jsBackend) Array(elems []string) string {
	return "[" + strings.Join(elems, ", ") + "]"
}

func (jsBackend) Table(keys, values []string) string {
	if len(keys) == 0 {
		return "{}"
	}
	pairs := make([]string, len(keys))
	for i := range keys {
		pairs[i] = keys[i] + ": " + values[i]
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (jsBackend) Field(object, name string, _ bool) string {
	return object + "." + name
}

func (jsBackend) Variable(name, value string, isConst bool) string {
	if isConst {
		return fmt.Sprintf("const %s = %s", name, value)
	}
	return fmt.Sprintf("var %s = %s", name, value)
}

func (jsBackend) EarlyReturn(ret string) string { return ret }

func (jsBackend) FuncOpen(name FuncName, params []string) string {
	fn := "function(" + strings.Join(params, ", ") + ") {"
	switch name.Kind {
	case FuncLocal:
		return "let " + name.Name + " = " + fn
	case FuncField, FuncMethod:
		return name.Object + "." + name.Name + " = " + fn
	}
	return name.Name + " = " + fn
}

func (jsBackend) FuncClose() string { return "};" }

func (jsBackend) IfOpen(cond string) string { return "if " + jsCondition(cond) + " {" }
func (jsBackend) ElseIf(cond string) string { return "} else if " + jsCondition(cond) + " {" }
func (jsBackend) Else() string              { return "} else {" }
func (jsBackend) IfClose() string           { return "}" }

func (jsBackend) Break() string { return "break" }
func (jsBackend) Skip() string  { return "continue" }

// jsCondition wraps cond in the parentheses an if needs, unless it is
// already a single parenthesized group such as a rendered binary
// expression.
func jsCondition(cond string) string {
	if isGrouped(cond) {
		return cond
	}
	return "(" + cond + ")"
}

// isGrouped reports whether s is wrapped in one pair of matching
// parentheses. String literals inside s are skipped.
func isGrouped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
