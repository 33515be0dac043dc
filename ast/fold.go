package ast

import "math"

// ConstantFolding returns a Transform that evaluates arithmetic on literal
// operands at compile time. Int op Int and Float op Float for + - * / are
// replaced by a single literal spanning the whole expression; integer
// division truncates. Mixed operand kinds, other operators, division by
// zero and results that overflow int64 or float64 are left alone. Folding
// an already folded program is a no-op.
func ConstantFolding() Transform {
	return TransformFunc{
		N: "constant-folding",
		F: func(prog *Program) *Program {
			r := &Rewriter{Expr: foldExpr}
			return r.Program(prog)
		},
	}
}

// Fold is shorthand for ConstantFolding().Transform(prog).
func Fold(prog *Program) *Program {
	return ConstantFolding().Transform(prog)
}

func foldExpr(e Expr) Expr {
	bin, ok := e.(*BinaryExpr)
	if !ok {
		return e
	}
	switch l := bin.Left.(type) {
	case *IntLiteral:
		r, ok := bin.Right.(*IntLiteral)
		if !ok {
			return e
		}
		if v, ok := foldInt(l.Value, bin.Op, r.Value); ok {
			return &IntLiteral{Base: bin.Base, Value: v}
		}
	case *FloatLiteral:
		r, ok := bin.Right.(*FloatLiteral)
		if !ok {
			return e
		}
		if v, ok := foldFloat(l.Value, bin.Op, r.Value); ok {
			return &FloatLiteral{Base: bin.Base, Value: v}
		}
	}
	return e
}

// foldInt refuses results that wrap around int64; the targets would
// compute them without wrapping.
func foldInt(a int64, op Operator, b int64) (int64, bool) {
	switch op {
	case Add:
		c := a + b
		if (b > 0 && c < a) || (b < 0 && c > a) {
			return 0, false
		}
		return c, true
	case Sub:
		c := a - b
		if (b > 0 && c > a) || (b < 0 && c < a) {
			return 0, false
		}
		return c, true
	case Mul:
		if a == 0 || b == 0 {
			return 0, true
		}
		c := a * b
		if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, false
		}
		return c, true
	case Div:
		if b == 0 || (a == math.MinInt64 && b == -1) {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

// foldFloat refuses results the targets cannot spell as a literal.
func foldFloat(a float64, op Operator, b float64) (float64, bool) {
	var v float64
	switch op {
	case Add:
		v = a + b
	case Sub:
		v = a - b
	case Mul:
		v = a * b
	case Div:
		v = a / b
	default:
		return 0, false
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
