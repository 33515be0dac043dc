package compiler

import (
	"math"
	"strconv"
	"strings"

	"github.com/nilq/oelscript/ast"
)

// Generate renders prog for target. Generation cannot fail: shapes a
// backend has no spelling for render as empty text.
func Generate(prog *ast.Program, target Target) string {
	b := target.Backend()
	g := &codeGen{b: b, w: newCodeWriter(b.Indent())}
	g.stmts(prog.Statements)
	return g.w.String()
}

type codeGen struct {
	b Backend
	w *codeWriter
}

// stmts writes a block. A return that is not the block's last statement
// goes through Backend.EarlyReturn.
func (g *codeGen) stmts(stmts []ast.Statement) {
	for i, s := range stmts {
		if ret, ok := s.(*ast.ReturnStmt); ok && i < len(stmts)-1 {
			g.simple(g.b.EarlyReturn(g.ret(ret)))
			continue
		}
		g.stmt(s)
	}
}

func (g *codeGen) body(stmts []ast.Statement) {
	g.w.Indent()
	g.stmts(stmts)
	g.w.Dedent()
}

// simple writes a one-line statement with the backend's terminator.
func (g *codeGen) simple(s string) {
	if s == "" {
		return
	}
	g.w.Line(s + g.b.Terminator())
}

func (g *codeGen) stmt(s ast.Statement) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		if ifx, ok := st.Expression.(*ast.IfExpr); ok {
			g.ifStmt(ifx)
			return
		}
		g.simple(g.expr(st.Expression))

	case *ast.VarStmt:
		g.simple(g.b.Variable(mangle(st.Name), g.expr(st.Value), st.Const))

	case *ast.AssignStmt:
		g.simple(g.expr(st.Target) + " = " + g.expr(st.Value))

	case *ast.FuncDef:
		params := make([]string, len(st.Params))
		for i, p := range st.Params {
			params[i] = mangle(p)
		}
		g.w.Line(g.b.FuncOpen(g.funcName(st.Name), params))
		g.body(st.Body)
		g.w.Line(g.b.FuncClose())

	case *ast.ReturnStmt:
		g.simple(g.ret(st))

	case *ast.BreakStmt:
		g.simple(g.b.Break())

	case *ast.SkipStmt:
		g.simple(g.b.Skip())

	case *ast.ImportStmt:
		// Imports are reported in Result.Imports, never emitted.
	}
}

func (g *codeGen) ret(st *ast.ReturnStmt) string {
	if st.Value == nil {
		return "return"
	}
	return "return " + g.expr(st.Value)
}

// ifStmt writes an if with its else branch. An else branch holding only
// another if is flattened into an else-if.
func (g *codeGen) ifStmt(ifx *ast.IfExpr) {
	g.w.Line(g.b.IfOpen(g.expr(ifx.Condition)))
	for {
		g.body(ifx.Body)
		if len(ifx.Else) == 0 {
			break
		}
		if next := elseIf(ifx.Else); next != nil {
			g.w.Line(g.b.ElseIf(g.expr(next.Condition)))
			ifx = next
			continue
		}
		g.w.Line(g.b.Else())
		g.body(ifx.Else)
		break
	}
	g.w.Line(g.b.IfClose())
}

func elseIf(stmts []ast.Statement) *ast.IfExpr {
	if len(stmts) != 1 {
		return nil
	}
	es, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		return nil
	}
	ifx, _ := es.Expression.(*ast.IfExpr)
	return ifx
}

func (g *codeGen) funcName(e ast.Expr) FuncName {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return FuncName{Kind: FuncLocal, Name: mangle(n.Name)}
	case *ast.IndexExpr:
		if key, ok := n.Index.(*ast.IdentExpr); ok && !n.Bracket {
			kind := FuncField
			if n.Method {
				kind = FuncMethod
			}
			name := FuncName{Kind: kind, Name: mangle(key.Name)}
			if path, ok := dottedPath(n.Object); ok {
				name.Object, name.Dotted = path, true
			} else {
				name.Object = g.expr(n.Object)
			}
			return name
		}
	}
	return FuncName{Kind: FuncAssign, Name: g.expr(e)}
}

// dottedPath renders a chain of plain field accesses such as a.b.c.
func dottedPath(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return mangle(n.Name), true
	case *ast.IndexExpr:
		key, ok := n.Index.(*ast.IdentExpr)
		if !ok || n.Bracket || n.Method {
			return "", false
		}
		obj, ok := dottedPath(n.Object)
		if !ok {
			return "", false
		}
		return obj + "." + mangle(key.Name), true
	}
	return "", false
}

func (g *codeGen) expr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(ex.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(ex.Value, 'f', -1, 64)
	case *ast.StringLiteral:
		return quote(ex.Value)
	case *ast.BoolLiteral:
		return strconv.FormatBool(ex.Value)
	case *ast.IdentExpr:
		return mangle(ex.Name)
	case *ast.EmptyExpr:
		return g.b.Nil()

	case *ast.NegExpr:
		operand := g.expr(ex.Operand)
		if signed(ex.Operand) {
			return "-(" + operand + ")"
		}
		return "-" + operand

	case *ast.NotExpr:
		return g.b.Not(g.expr(ex.Operand))

	case *ast.BinaryExpr:
		switch ex.Op {
		case ast.PipeRight:
			return g.pipe(ex.Left, ex.Right)
		case ast.PipeLeft:
			return g.pipe(ex.Right, ex.Left)
		}
		left := g.expr(ex.Left)
		if ex.Op == ast.Pow && prefixed(ex.Left) {
			// JS rejects a unary operator before **, and Lua binds ^
			// tighter than unary minus.
			left = "(" + left + ")"
		}
		return "(" + left + " " + g.b.Operator(ex.Op) + " " + g.expr(ex.Right) + ")"

	case *ast.ArrayLiteral:
		return g.b.Array(g.exprs(ex.Elements))

	case *ast.TableLiteral:
		keys := make([]string, len(ex.Pairs))
		values := make([]string, len(ex.Pairs))
		for i, p := range ex.Pairs {
			keys[i] = mangle(p.Key)
			values[i] = g.expr(p.Value)
		}
		return g.b.Table(keys, values)

	case *ast.CallExpr:
		return g.callee(ex.Func) + "(" + strings.Join(g.exprs(ex.Args), ", ") + ")"

	case *ast.IndexExpr:
		obj := g.expr(ex.Object)
		if key, ok := ex.Index.(*ast.IdentExpr); ok && !ex.Bracket {
			return g.b.Field(obj, mangle(key.Name), false)
		}
		return obj + "[" + g.expr(ex.Index) + "]"
	}
	return ""
}

// callee renders the function side of a call. A method accessor keeps its
// method form only here; elsewhere it is a plain field read.
func (g *codeGen) callee(e ast.Expr) string {
	if ix, ok := e.(*ast.IndexExpr); ok && ix.Method && !ix.Bracket {
		if key, ok := ix.Index.(*ast.IdentExpr); ok {
			return g.b.Field(g.expr(ix.Object), mangle(key.Name), true)
		}
	}
	return g.expr(e)
}

// signed reports whether e renders with a leading minus sign.
func signed(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.NegExpr:
		return true
	case *ast.IntLiteral:
		return n.Value < 0
	case *ast.FloatLiteral:
		return math.Signbit(n.Value)
	}
	return false
}

// prefixed reports whether e renders as a unary operator applied to an
// operand.
func prefixed(e ast.Expr) bool {
	if _, ok := e.(*ast.NotExpr); ok {
		return true
	}
	return signed(e)
}

func (g *codeGen) exprs(exprs []ast.Expr) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = g.expr(e)
	}
	return out
}

// pipe renders arg piped into fn as a call. When fn is already a call the
// piped value becomes its last argument.
func (g *codeGen) pipe(arg, fn ast.Expr) string {
	if call, ok := fn.(*ast.CallExpr); ok {
		args := append(g.exprs(call.Args), g.expr(arg))
		return g.callee(call.Func) + "(" + strings.Join(args, ", ") + ")"
	}
	return g.callee(fn) + "(" + g.expr(arg) + ")"
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a double-quoted literal valid in both targets.
func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

var identMangler = strings.NewReplacer("-", "_", "?", "_p", "!", "_b")

// mangle maps an øl identifier onto the identifier alphabet shared by the
// targets: kebab-case becomes snake_case, and ? and ! get letter suffixes.
func mangle(name string) string {
	return identMangler.Replace(name)
}
