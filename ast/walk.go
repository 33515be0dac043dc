package ast

// Inspect calls fn on every node of prog in depth-first order, statements
// before the expressions they contain. It stops as soon as fn returns true
// and reports whether it did.
func Inspect(prog *Program, fn func(Node) bool) bool {
	return inspectStmts(prog.Statements, fn)
}

func inspectStmts(stmts []Statement, fn func(Node) bool) bool {
	for _, s := range stmts {
		if inspectStmt(s, fn) {
			return true
		}
	}
	return false
}

func inspectStmt(s Statement, fn func(Node) bool) bool {
	if fn(s) {
		return true
	}
	switch st := s.(type) {
	case *ExprStmt:
		return inspectExpr(st.Expression, fn)
	case *VarStmt:
		return inspectExpr(st.Value, fn)
	case *AssignStmt:
		return inspectExpr(st.Target, fn) || inspectExpr(st.Value, fn)
	case *FuncDef:
		return inspectExpr(st.Name, fn) || inspectStmts(st.Body, fn)
	case *ReturnStmt:
		return inspectExpr(st.Value, fn)
	}
	return false
}

func inspectExpr(e Expr, fn func(Node) bool) bool {
	if e == nil {
		return false
	}
	if fn(e) {
		return true
	}
	switch ex := e.(type) {
	case *NegExpr:
		return inspectExpr(ex.Operand, fn)
	case *NotExpr:
		return inspectExpr(ex.Operand, fn)
	case *BinaryExpr:
		return inspectExpr(ex.Left, fn) || inspectExpr(ex.Right, fn)
	case *ArrayLiteral:
		for _, el := range ex.Elements {
			if inspectExpr(el, fn) {
				return true
			}
		}
	case *TableLiteral:
		for _, p := range ex.Pairs {
			if inspectExpr(p.Value, fn) {
				return true
			}
		}
	case *CallExpr:
		if inspectExpr(ex.Func, fn) {
			return true
		}
		for _, a := range ex.Args {
			if inspectExpr(a, fn) {
				return true
			}
		}
	case *IndexExpr:
		return inspectExpr(ex.Object, fn) || inspectExpr(ex.Index, fn)
	case *IfExpr:
		return inspectExpr(ex.Condition, fn) || inspectStmts(ex.Body, fn) || inspectStmts(ex.Else, fn)
	}
	return false
}

// Imports returns the paths of every ølport statement in source order,
// including those nested in bodies.
func Imports(prog *Program) []string {
	var paths []string
	Inspect(prog, func(n Node) bool {
		if imp, ok := n.(*ImportStmt); ok {
			paths = append(paths, imp.Path)
		}
		return false
	})
	return paths
}
