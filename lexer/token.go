package lexer

import (
	"fmt"

	"github.com/nilq/oelscript/source"
)

// Kind identifies the category of a token.
type Kind int

const (
	Identifier Kind = iota
	Keyword
	Int
	Float
	Str
	Bool
	Operator
	Symbol
	EOL
	Whitespace
	EOF
)

var kindNames = [...]string{
	Identifier: "identifier",
	Keyword:    "keyword",
	Int:        "int",
	Float:      "float",
	Str:        "string",
	Bool:       "bool",
	Operator:   "operator",
	Symbol:     "symbol",
	EOL:        "new line",
	Whitespace: "whitespace",
	EOF:        "end of input",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is an immutable lexical item with its source span.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   source.Span
}

// Is reports whether t has the given kind and lexeme.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

func (t Token) String() string {
	switch t.Kind {
	case EOL:
		return fmt.Sprintf("%s %s", t.Span, t.Kind)
	case EOF:
		return fmt.Sprintf("%s %s", t.Span, t.Kind)
	}
	return fmt.Sprintf("%s %s %q", t.Span, t.Kind, t.Lexeme)
}

// Language vocabulary. The keyword øl is polymorphic: it introduces
// functions, variables, conditionals and implicit returns.
var (
	Keywords      = []string{"øl", "iskold", "ølturn", "ølport", "ølse", "break", "skip"}
	Bools         = []string{"true", "false"}
	WordOperators = []string{"and", "or", "not"}
	Operators     = []string{"|>", "<|", "==", "!=", "<=", ">=", "++", "+", "-", "*", "/", "%", "^", "<", ">"}
	Symbols       = []string{"(", ")", "[", "]", "{", "}", ",", ":", ".", "\\", "="}
)
