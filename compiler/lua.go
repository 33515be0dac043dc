package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nilq/oelscript/ast"
)

// luaBackend targets Lua 5.4: arrays become 1-based table constructors,
// fields are string-keyed and constants use the <const> attribute.
type luaBackend struct{}

func (luaBackend) Target() Target     { return Lua }
func (luaBackend) Indent() string     { return "  " }
func (luaBackend) Terminator() string { return "" }

func (luaBackend) Operator(op ast.Operator) string {
	switch op {
	case ast.Concat:
		return ".."
	case ast.NotEq:
		return "~="
	}
	return op.String()
}

func (luaBackend) Not(operand string) string { return "not " + operand }
func (luaBackend) Nil() string               { return "nil" }

func (luaBackend) Array(elems []string) string {
	if len(elems) == 0 {
		return "{}"
	}
	entries := make([]string, len(elems))
	for i, e := range elems {
		entries[i] = "[" + strconv.Itoa(i+1) + "] = " + e
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (luaBackend) Table(keys, values []string) string {
	if len(keys) == 0 {
		return "{}"
	}
	pairs := make([]string, len(keys))
	for i := range keys {
		pairs[i] = keys[i] + " = " + values[i]
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (luaBackend) Field(object, name string, method bool) string {
	if method {
		return object + ":" + name
	}
	return object + "[" + quote(name) + "]"
}

func (luaBackend) Variable(name, value string, isConst bool) string {
	if isConst {
		return fmt.Sprintf("local %s <const> = %s", name, value)
	}
	return fmt.Sprintf("local %s = %s", name, value)
}

// EarlyReturn wraps ret in its own block: Lua only allows return as the
// last statement of a block.
func (luaBackend) EarlyReturn(ret string) string { return "do " + ret + " end" }

// FuncOpen uses the function statement where Lua's funcname grammar
// allows it (Name{.Name}[:Name]) and an assignment otherwise.
func (luaBackend) FuncOpen(name FuncName, params []string) string {
	list := func(params []string) string { return "(" + strings.Join(params, ", ") + ")" }
	switch name.Kind {
	case FuncLocal:
		return "local function " + name.Name + list(params)
	case FuncField, FuncMethod:
		if name.Dotted {
			sep := "."
			if name.Kind == FuncMethod {
				sep = ":"
			}
			return "function " + name.Object + sep + name.Name + list(params)
		}
		if name.Kind == FuncMethod {
			params = append([]string{"self"}, params...)
		}
		return name.Object + "[" + quote(name.Name) + "] = function" + list(params)
	}
	return name.Name + " = function" + list(params)
}

func (luaBackend) FuncClose() string { return "end" }

func (luaBackend) IfOpen(cond string) string { return "if " + cond + " then" }
func (luaBackend) ElseIf(cond string) string { return "elseif " + cond + " then" }
func (luaBackend) Else() string              { return "else" }
func (luaBackend) IfClose() string           { return "end" }

func (luaBackend) Break() string { return "break" }

// Skip renders nothing: Lua has no continue statement.
func (luaBackend) Skip() string { return "" }
