package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of prog to w, one node per line with
// its span. It is meant for debugging, not as a stable format.
func Dump(w io.Writer, prog *Program) error {
	d := &dumper{}
	for _, s := range prog.Statements {
		d.stmt(s)
	}
	_, err := io.WriteString(w, d.sb.String())
	return err
}

type dumper struct {
	sb    strings.Builder
	depth int
}

func (d *dumper) line(n Node, format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.sb, format, args...)
	fmt.Fprintf(&d.sb, " @%s\n", n.Pos())
}

func (d *dumper) nested(fn func()) {
	d.depth++
	fn()
	d.depth--
}

func (d *dumper) body(label string, stmts []Statement) {
	if stmts == nil {
		return
	}
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	d.sb.WriteString(label + ":\n")
	d.nested(func() {
		for _, s := range stmts {
			d.stmt(s)
		}
	})
}

func (d *dumper) stmt(s Statement) {
	switch st := s.(type) {
	case *ExprStmt:
		d.line(st, "Expression")
		d.nested(func() { d.expr(st.Expression) })
	case *VarStmt:
		kind := "Variable"
		if st.Const {
			kind = "Const"
		}
		d.line(st, "%s %s", kind, st.Name)
		d.nested(func() { d.expr(st.Value) })
	case *AssignStmt:
		d.line(st, "Assignment")
		d.nested(func() {
			d.expr(st.Target)
			d.expr(st.Value)
		})
	case *FuncDef:
		d.line(st, "Function (%s)", strings.Join(st.Params, ", "))
		d.nested(func() {
			d.expr(st.Name)
			d.body("body", st.Body)
		})
	case *ReturnStmt:
		d.line(st, "Return")
		if st.Value != nil {
			d.nested(func() { d.expr(st.Value) })
		}
	case *ImportStmt:
		d.line(st, "Import %q", st.Path)
	case *BreakStmt:
		d.line(st, "Break")
	case *SkipStmt:
		d.line(st, "Skip")
	}
}

func (d *dumper) expr(e Expr) {
	switch ex := e.(type) {
	case *IntLiteral:
		d.line(ex, "Int %d", ex.Value)
	case *FloatLiteral:
		d.line(ex, "Float %s", strconv.FormatFloat(ex.Value, 'f', -1, 64))
	case *StringLiteral:
		d.line(ex, "Str %q", ex.Value)
	case *BoolLiteral:
		d.line(ex, "Bool %t", ex.Value)
	case *IdentExpr:
		d.line(ex, "Identifier %s", ex.Name)
	case *NegExpr:
		d.line(ex, "Neg")
		d.nested(func() { d.expr(ex.Operand) })
	case *NotExpr:
		d.line(ex, "Not")
		d.nested(func() { d.expr(ex.Operand) })
	case *BinaryExpr:
		d.line(ex, "Binary %s", ex.Op)
		d.nested(func() {
			d.expr(ex.Left)
			d.expr(ex.Right)
		})
	case *ArrayLiteral:
		d.line(ex, "Array")
		d.nested(func() {
			for _, el := range ex.Elements {
				d.expr(el)
			}
		})
	case *TableLiteral:
		d.line(ex, "Table")
		d.nested(func() {
			for _, p := range ex.Pairs {
				d.sb.WriteString(strings.Repeat("  ", d.depth))
				d.sb.WriteString(p.Key + ":\n")
				d.nested(func() { d.expr(p.Value) })
			}
		})
	case *CallExpr:
		d.line(ex, "Call")
		d.nested(func() {
			d.expr(ex.Func)
			for _, a := range ex.Args {
				d.expr(a)
			}
		})
	case *IndexExpr:
		label := "Index"
		switch {
		case ex.Method:
			label = "Method"
		case !ex.Bracket:
			label = "Field"
		}
		d.line(ex, label)
		d.nested(func() {
			d.expr(ex.Object)
			d.expr(ex.Index)
		})
	case *IfExpr:
		d.line(ex, "If")
		d.nested(func() {
			d.expr(ex.Condition)
			d.body("then", ex.Body)
			d.body("else", ex.Else)
		})
	case *EmptyExpr:
		d.line(ex, "Empty")
	case *EOFExpr:
		d.line(ex, "EOF")
	}
}
