// Package ast defines the øl syntax tree. Every node records the source
// span it was parsed from; children are owned by exactly one parent.
package ast

import "github.com/nilq/oelscript/source"

// Node is the interface for all AST nodes.
type Node interface {
	node()
	Pos() source.Span
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Base provides the span shared by all nodes.
type Base struct {
	Span source.Span
}

func (b Base) Pos() source.Span { return b.Span }

// Program is the root node.
type Program struct {
	Statements []Statement
	SourceFile string
}

// --- Statements ---

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Base
	Expression Expr
}

func (s *ExprStmt) node() {}
func (s *ExprStmt) stmt() {}

// VarStmt represents `øl name = value`, or `iskold øl name = value` when
// Const is set.
type VarStmt struct {
	Base
	Name  string
	Value Expr
	Const bool
}

func (s *VarStmt) node() {}
func (s *VarStmt) stmt() {}

// AssignStmt represents target = value. Target is an identifier or an
// index expression.
type AssignStmt struct {
	Base
	Target Expr
	Value  Expr
}

func (s *AssignStmt) node() {}
func (s *AssignStmt) stmt() {}

// FuncDef represents `øl name(params) =` followed by a body. Name is an
// identifier or a field access such as `obj.method`.
type FuncDef struct {
	Base
	Name   Expr
	Params []string
	Body   []Statement
}

func (s *FuncDef) node() {}
func (s *FuncDef) stmt() {}

// ReturnStmt represents `ølturn [value]` or the implicit `øl value`.
// Value is nil for an empty return.
type ReturnStmt struct {
	Base
	Value Expr
}

func (s *ReturnStmt) node() {}
func (s *ReturnStmt) stmt() {}

// ImportStmt represents `ølport "path"`.
type ImportStmt struct {
	Base
	Path string
}

func (s *ImportStmt) node() {}
func (s *ImportStmt) stmt() {}

type BreakStmt struct{ Base }

func (s *BreakStmt) node() {}
func (s *BreakStmt) stmt() {}

// SkipStmt jumps to the next loop iteration.
type SkipStmt struct{ Base }

func (s *SkipStmt) node() {}
func (s *SkipStmt) stmt() {}

// --- Expressions ---

type IntLiteral struct {
	Base
	Value int64
}

func (e *IntLiteral) node() {}
func (e *IntLiteral) expr() {}

type FloatLiteral struct {
	Base
	Value float64
}

func (e *FloatLiteral) node() {}
func (e *FloatLiteral) expr() {}

// StringLiteral holds the unescaped string contents.
type StringLiteral struct {
	Base
	Value string
}

func (e *StringLiteral) node() {}
func (e *StringLiteral) expr() {}

type BoolLiteral struct {
	Base
	Value bool
}

func (e *BoolLiteral) node() {}
func (e *BoolLiteral) expr() {}

type IdentExpr struct {
	Base
	Name string
}

func (e *IdentExpr) node() {}
func (e *IdentExpr) expr() {}

// NegExpr represents -operand.
type NegExpr struct {
	Base
	Operand Expr
}

func (e *NegExpr) node() {}
func (e *NegExpr) expr() {}

// NotExpr represents not operand.
type NotExpr struct {
	Base
	Operand Expr
}

func (e *NotExpr) node() {}
func (e *NotExpr) expr() {}

// BinaryExpr represents left op right.
type BinaryExpr struct {
	Base
	Left  Expr
	Op    Operator
	Right Expr
}

func (e *BinaryExpr) node() {}
func (e *BinaryExpr) expr() {}

// ArrayLiteral represents [a, b, c].
type ArrayLiteral struct {
	Base
	Elements []Expr
}

func (e *ArrayLiteral) node() {}
func (e *ArrayLiteral) expr() {}

// TablePair is one key: value entry of a table literal.
type TablePair struct {
	Key   string
	Value Expr
}

// TableLiteral represents {k: v, ...}. Pairs keep source order and may
// repeat a key.
type TableLiteral struct {
	Base
	Pairs []TablePair
}

func (e *TableLiteral) node() {}
func (e *TableLiteral) expr() {}

// CallExpr represents fn(args).
type CallExpr struct {
	Base
	Func Expr
	Args []Expr
}

func (e *CallExpr) node() {}
func (e *CallExpr) expr() {}

// IndexExpr covers obj[index], obj.field and the method form obj\field.
// For the dotted forms Index is an *IdentExpr naming the field.
type IndexExpr struct {
	Base
	Object  Expr
	Index   Expr
	Method  bool // obj\field
	Bracket bool // obj[index]
}

func (e *IndexExpr) node() {}
func (e *IndexExpr) expr() {}

// IfExpr represents `øl cond:` with an optional `ølse:` branch. An else-if
// chain is an Else holding a single ExprStmt wrapping another IfExpr.
type IfExpr struct {
	Base
	Condition Expr
	Body      []Statement
	Else      []Statement
}

func (e *IfExpr) node() {}
func (e *IfExpr) expr() {}

// EmptyExpr is the unit value written ().
type EmptyExpr struct{ Base }

func (e *EmptyExpr) node() {}
func (e *EmptyExpr) expr() {}

// EOFExpr marks the end of input where an expression was optional.
type EOFExpr struct{ Base }

func (e *EOFExpr) node() {}
func (e *EOFExpr) expr() {}
