package ast

// Transform rewrites an AST. Implementations must not mutate the input program.
type Transform interface {
	Name() string
	Transform(prog *Program) *Program
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*Program) *Program
}

func (t TransformFunc) Name() string                     { return t.N }
func (t TransformFunc) Transform(prog *Program) *Program { return t.F(prog) }

// Chain composes transforms left-to-right into a single Transform.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(prog *Program) *Program {
			for _, t := range transforms {
				prog = t.Transform(prog)
			}
			return prog
		},
	}
}

// Rewriter drives a copy-on-write rewrite of a whole program. Expr is
// called bottom-up on every expression after its children have been
// rewritten; returning the argument unchanged keeps the original node.
type Rewriter struct {
	Expr func(Expr) Expr
}

// Program rewrites prog, returning prog itself when nothing changed.
func (r *Rewriter) Program(prog *Program) *Program {
	stmts, changed := r.stmts(prog.Statements)
	if !changed {
		return prog
	}
	return &Program{Statements: stmts, SourceFile: prog.SourceFile}
}

func (r *Rewriter) stmts(stmts []Statement) ([]Statement, bool) {
	return mapSlice(stmts, r.stmt)
}

func (r *Rewriter) exprs(exprs []Expr) ([]Expr, bool) {
	return mapSlice(exprs, r.expr)
}

func (r *Rewriter) stmt(s Statement) Statement {
	switch st := s.(type) {
	case *ExprStmt:
		expr := r.expr(st.Expression)
		if expr == st.Expression {
			return s
		}
		return &ExprStmt{Base: st.Base, Expression: expr}

	case *VarStmt:
		val := r.expr(st.Value)
		if val == st.Value {
			return s
		}
		cp := *st
		cp.Value = val
		return &cp

	case *AssignStmt:
		target := r.expr(st.Target)
		val := r.expr(st.Value)
		if target == st.Target && val == st.Value {
			return s
		}
		return &AssignStmt{Base: st.Base, Target: target, Value: val}

	case *FuncDef:
		body, changed := r.stmts(st.Body)
		if !changed {
			return s
		}
		cp := *st
		cp.Body = body
		return &cp

	case *ReturnStmt:
		if st.Value == nil {
			return s
		}
		val := r.expr(st.Value)
		if val == st.Value {
			return s
		}
		return &ReturnStmt{Base: st.Base, Value: val}

	default:
		return s
	}
}

func (r *Rewriter) expr(e Expr) Expr {
	if e == nil {
		return nil
	}
	out := e
	switch ex := e.(type) {
	case *NegExpr:
		if operand := r.expr(ex.Operand); operand != ex.Operand {
			out = &NegExpr{Base: ex.Base, Operand: operand}
		}

	case *NotExpr:
		if operand := r.expr(ex.Operand); operand != ex.Operand {
			out = &NotExpr{Base: ex.Base, Operand: operand}
		}

	case *BinaryExpr:
		left := r.expr(ex.Left)
		right := r.expr(ex.Right)
		if left != ex.Left || right != ex.Right {
			out = &BinaryExpr{Base: ex.Base, Left: left, Op: ex.Op, Right: right}
		}

	case *ArrayLiteral:
		if elems, changed := r.exprs(ex.Elements); changed {
			out = &ArrayLiteral{Base: ex.Base, Elements: elems}
		}

	case *TableLiteral:
		pairs, changed := mapSlice(ex.Pairs, func(p TablePair) TablePair {
			if v := r.expr(p.Value); v != p.Value {
				return TablePair{Key: p.Key, Value: v}
			}
			return p
		})
		if changed {
			out = &TableLiteral{Base: ex.Base, Pairs: pairs}
		}

	case *CallExpr:
		fn := r.expr(ex.Func)
		args, changed := r.exprs(ex.Args)
		if fn != ex.Func || changed {
			out = &CallExpr{Base: ex.Base, Func: fn, Args: args}
		}

	case *IndexExpr:
		obj := r.expr(ex.Object)
		idx := r.expr(ex.Index)
		if obj != ex.Object || idx != ex.Index {
			cp := *ex
			cp.Object = obj
			cp.Index = idx
			out = &cp
		}

	case *IfExpr:
		cond := r.expr(ex.Condition)
		body, bc := r.stmts(ex.Body)
		els, ec := r.stmts(ex.Else)
		if cond != ex.Condition || bc || ec {
			out = &IfExpr{Base: ex.Base, Condition: cond, Body: body, Else: els}
		}
	}
	if r.Expr == nil {
		return out
	}
	return r.Expr(out)
}

// --- Copy-on-write traversal helpers ---

// mapSlice applies fn to each element. Returns (newSlice, true) if any
// element changed, or (original, false) if all elements are identical.
func mapSlice[T comparable](items []T, fn func(T) T) ([]T, bool) {
	var out []T
	modified := false
	for i, item := range items {
		newItem := fn(item)
		if newItem != item {
			if !modified {
				out = make([]T, len(items))
				copy(out[:i], items[:i])
				modified = true
			}
		}
		if modified {
			out[i] = newItem
		}
	}
	if !modified {
		return items, false
	}
	return out, true
}
