package ast

import "fmt"

// Operator is a binary operator.
type Operator int

const (
	PipeRight Operator = iota // |>
	PipeLeft                  // <|
	Or
	And
	Eq
	Lt
	Gt
	NotEq
	LtEq
	GtEq
	Add
	Sub
	Concat // ++
	Mul
	Div
	Mod
	Pow // ^
)

var operators = [...]struct {
	text string
	prec int
}{
	PipeRight: {"|>", 0},
	PipeLeft:  {"<|", 0},
	Or:        {"or", 0},
	And:       {"and", 0},
	Eq:        {"==", 1},
	Lt:        {"<", 1},
	Gt:        {">", 1},
	NotEq:     {"!=", 1},
	LtEq:      {"<=", 1},
	GtEq:      {">=", 1},
	Add:       {"+", 2},
	Sub:       {"-", 2},
	Concat:    {"++", 2},
	Mul:       {"*", 3},
	Div:       {"/", 3},
	Mod:       {"%", 3},
	Pow:       {"^", 4},
}

// LookupOperator maps source text to its operator.
func LookupOperator(text string) (Operator, bool) {
	for op, o := range operators {
		if o.text == text {
			return Operator(op), true
		}
	}
	return 0, false
}

// Precedence returns the binding level: higher binds tighter. All levels
// associate to the left.
func (o Operator) Precedence() int {
	if o < 0 || int(o) >= len(operators) {
		return -1
	}
	return operators[o].prec
}

// String returns the source spelling of the operator.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operators) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operators[o].text
}
