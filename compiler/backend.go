package compiler

import (
	"fmt"
	"strings"

	"github.com/nilq/oelscript/ast"
)

// Target selects the output dialect.
type Target int

const (
	JS Target = iota
	Lua
)

func (t Target) String() string {
	switch t {
	case JS:
		return "js"
	case Lua:
		return "lua"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget accepts a target name as used on the command line and in
// query strings.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "js", "javascript":
		return JS, nil
	case "lua":
		return Lua, nil
	}
	return 0, fmt.Errorf("unknown target %q (want js or lua)", s)
}

// Backend returns the emission rules for t.
func (t Target) Backend() Backend {
	if t == Lua {
		return luaBackend{}
	}
	return jsBackend{}
}

// FuncKind tells a backend how a function definition binds its name.
type FuncKind int

const (
	FuncLocal  FuncKind = iota // øl f(...)
	FuncField                  // øl o.f(...)
	FuncMethod                 // øl o\f(...)
	FuncAssign                 // any other target, such as øl t[k](...)
)

// FuncName is the rendered name of a function definition. Object is set
// for FuncField and FuncMethod; for FuncAssign Name holds the whole
// rendered target. Dotted marks an Object that is a plain name path such
// as a.b.
type FuncName struct {
	Kind   FuncKind
	Object string
	Name   string
	Dotted bool
}

// Backend supplies the dialect-specific pieces of output. The generator
// owns statement layout, indentation and expression structure; a backend
// only spells things.
type Backend interface {
	Target() Target
	// Indent is one level of block indentation.
	Indent() string
	// Terminator ends a simple statement.
	Terminator() string

	Operator(op ast.Operator) string
	Not(operand string) string
	Nil() string

	Array(elems []string) string
	Table(keys, values []string) string
	// Field renders o.name, or with method set the accessor o\name in
	// callee position.
	Field(object, name string, method bool) string

	Variable(name, value string, isConst bool) string
	// EarlyReturn renders a return that has statements after it in the
	// same block.
	EarlyReturn(ret string) string

	FuncOpen(name FuncName, params []string) string
	FuncClose() string

	IfOpen(cond string) string
	ElseIf(cond string) string
	Else() string
	IfClose() string

	Break() string
	Skip() string
}
