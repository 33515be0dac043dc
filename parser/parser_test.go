package parser

import (
	"errors"
	"testing"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	prog, err := Parse(source.New("test.øl", src))
	require.NoError(t, err)
	return prog.Statements
}

func parseErr(t *testing.T, src string) *diag.Diagnostic {
	t.Helper()
	_, err := Parse(source.New("test.øl", src))
	require.Error(t, err)
	var d *diag.Diagnostic
	require.True(t, errors.As(err, &d), "expected a diagnostic, got %T", err)
	return d
}

// expr parses a single expression statement.
func expr(t *testing.T, src string) ast.Expr {
	t.Helper()
	stmts := parse(t, src)
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", stmts[0])
	return es.Expression
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, parse(t, ""))
	assert.Empty(t, parse(t, "\n\n// only a comment\n"))
}

func TestParseAssignments(t *testing.T) {
	stmts := parse(t, "a = 1\nb = 2\n")
	require.Len(t, stmts, 2)

	a, ok := stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "a", a.Target.(*ast.IdentExpr).Name)
	assert.Equal(t, int64(1), a.Value.(*ast.IntLiteral).Value)
	assert.Equal(t, source.Span{Line: 1, Start: 1, End: 5}, a.Pos())

	b, ok := stmts[1].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "b", b.Target.(*ast.IdentExpr).Name)
	assert.Equal(t, source.Span{Line: 2, Start: 1, End: 5}, b.Pos())
}

func TestParseFieldAssignment(t *testing.T) {
	stmts := parse(t, "a.b = 3")
	as := stmts[0].(*ast.AssignStmt)
	idx := as.Target.(*ast.IndexExpr)
	assert.False(t, idx.Bracket)
	assert.Equal(t, "b", idx.Index.(*ast.IdentExpr).Name)
}

func TestParsePrecedence(t *testing.T) {
	e := expr(t, "1 + 2 * 3")
	add, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Add, add.Op)
	assert.Equal(t, int64(1), add.Left.(*ast.IntLiteral).Value)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, mul.Op)
	assert.Equal(t, int64(2), mul.Left.(*ast.IntLiteral).Value)
	assert.Equal(t, int64(3), mul.Right.(*ast.IntLiteral).Value)
	assert.Equal(t, source.Span{Line: 1, Start: 1, End: 9}, add.Pos())
	assert.Equal(t, source.Span{Line: 1, Start: 5, End: 9}, mul.Pos())
}

func TestParseLeftAssociative(t *testing.T) {
	for _, src := range []string{"a - b - c", "a ^ b ^ c", "a |> b |> c"} {
		t.Run(src, func(t *testing.T) {
			outer := expr(t, src).(*ast.BinaryExpr)
			inner, ok := outer.Left.(*ast.BinaryExpr)
			require.True(t, ok, "left operand should be the inner chain")
			assert.Equal(t, "a", inner.Left.(*ast.IdentExpr).Name)
			assert.Equal(t, "c", outer.Right.(*ast.IdentExpr).Name)
		})
	}
}

func TestParseMixedLevels(t *testing.T) {
	e := expr(t, "a == b + c * d ^ e or f").(*ast.BinaryExpr)
	assert.Equal(t, ast.Or, e.Op)
	eq := e.Left.(*ast.BinaryExpr)
	assert.Equal(t, ast.Eq, eq.Op)
	add := eq.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.Add, add.Op)
	mul := add.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.Mul, mul.Op)
	pow := mul.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.Pow, pow.Op)
}

func TestParseUnary(t *testing.T) {
	neg, ok := expr(t, "-a + b").(*ast.NegExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.BinaryExpr{}, neg.Operand)

	not, ok := expr(t, "not done").(*ast.NotExpr)
	require.True(t, ok)
	assert.Equal(t, "done", not.Operand.(*ast.IdentExpr).Name)

	lit, ok := expr(t, "x - -2").(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, int64(-2), lit.Right.(*ast.IntLiteral).Value)
}

func TestParseLiterals(t *testing.T) {
	assert.Equal(t, 1.5, expr(t, "1.5").(*ast.FloatLiteral).Value)
	assert.Equal(t, "hi", expr(t, `"hi"`).(*ast.StringLiteral).Value)
	assert.True(t, expr(t, "true").(*ast.BoolLiteral).Value)
	assert.False(t, expr(t, "false").(*ast.BoolLiteral).Value)
	assert.IsType(t, &ast.EmptyExpr{}, expr(t, "()"))
	assert.Equal(t, "x", expr(t, "(x)").(*ast.IdentExpr).Name)
}

func TestParseFunction(t *testing.T) {
	stmts := parse(t, "øl add(a, b) =\n  ølturn a + b\n")
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*ast.FuncDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.(*ast.IdentExpr).Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body, 1)
	ret := fn.Body[0].(*ast.ReturnStmt)
	assert.IsType(t, &ast.BinaryExpr{}, ret.Value)
}

func TestParseFunctionSingleLine(t *testing.T) {
	fn := parse(t, "øl twice(x) = øl x * 2")[0].(*ast.FuncDef)
	require.Len(t, fn.Body, 1)
	assert.IsType(t, &ast.ReturnStmt{}, fn.Body[0])
}

func TestParseFunctionNoParams(t *testing.T) {
	fn := parse(t, "øl main() =\n  print(1)\n")[0].(*ast.FuncDef)
	assert.Empty(t, fn.Params)
	assert.Len(t, fn.Body, 1)
}

func TestParseMethodDefinition(t *testing.T) {
	fn := parse(t, "øl vec\\len(v) =\n  øl v.x\n")[0].(*ast.FuncDef)
	idx := fn.Name.(*ast.IndexExpr)
	assert.True(t, idx.Method)
	assert.Equal(t, "len", idx.Index.(*ast.IdentExpr).Name)
}

func TestParseFunctionLiteralParam(t *testing.T) {
	d := parseErr(t, "øl f(1) =\n  ølturn 1\n")
	assert.Equal(t, diag.ParseError, d.Kind)
	assert.Contains(t, d.Message, "parameter name")
	assert.Equal(t, source.Span{Line: 1, Start: 7, End: 7}, d.Span) // ø is two bytes
}

func TestParseCallIsNotDeclarationWithoutEquals(t *testing.T) {
	for _, src := range []string{"øl f(1)\n", "øl f(x)\n"} {
		stmts := parse(t, src)
		ret, ok := stmts[0].(*ast.ReturnStmt)
		require.True(t, ok, src)
		assert.IsType(t, &ast.CallExpr{}, ret.Value, src)
	}
}

func TestParseVariable(t *testing.T) {
	stmts := parse(t, "øl x = 10\niskold øl y = x\n")
	require.Len(t, stmts, 2)
	x := stmts[0].(*ast.VarStmt)
	assert.Equal(t, "x", x.Name)
	assert.False(t, x.Const)
	assert.Equal(t, source.Span{Line: 1, Start: 1, End: 10}, x.Pos())

	y := stmts[1].(*ast.VarStmt)
	assert.Equal(t, "y", y.Name)
	assert.True(t, y.Const)
}

func TestParseConstRequiresVariable(t *testing.T) {
	d := parseErr(t, "iskold x = 1\n")
	assert.Contains(t, d.Message, "iskold")
	assert.Equal(t, 8, d.Span.Start)
}

func TestParseReturn(t *testing.T) {
	stmts := parse(t, "ølturn\nølturn 1 + 2\nøl x\n")
	require.Len(t, stmts, 3)
	assert.Nil(t, stmts[0].(*ast.ReturnStmt).Value)
	assert.IsType(t, &ast.BinaryExpr{}, stmts[1].(*ast.ReturnStmt).Value)
	assert.Equal(t, "x", stmts[2].(*ast.ReturnStmt).Value.(*ast.IdentExpr).Name)
}

func TestParseImportBreakSkip(t *testing.T) {
	stmts := parse(t, "ølport \"math\"\nbreak\nskip\n")
	require.Len(t, stmts, 3)
	assert.Equal(t, "math", stmts[0].(*ast.ImportStmt).Path)
	assert.IsType(t, &ast.BreakStmt{}, stmts[1])
	assert.IsType(t, &ast.SkipStmt{}, stmts[2])

	d := parseErr(t, "ølport math\n")
	assert.Equal(t, "expected string, found identifier `math`", d.Message)
}

func TestParseIfElse(t *testing.T) {
	src := "øl x > 1:\n  y = 1\n  z = 2\nølse:\n  y = 2\n"
	ifx, ok := expr(t, src).(*ast.IfExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.BinaryExpr{}, ifx.Condition)
	assert.Len(t, ifx.Body, 2)
	assert.Len(t, ifx.Else, 1)
}

func TestParseIfSingleLine(t *testing.T) {
	ifx := expr(t, "øl ok: print(1)\nølse: print(2)\n").(*ast.IfExpr)
	assert.Len(t, ifx.Body, 1)
	assert.Len(t, ifx.Else, 1)
}

func TestParseElseAfterBlankLines(t *testing.T) {
	for _, src := range []string{
		"øl a: x()\n\nølse: y()\n",
		"øl a:\n  x()\n\nølse:\n  y()\n",
		"øl a: x()\n\n\nølse:\n  y()\n",
	} {
		ifx, ok := expr(t, src).(*ast.IfExpr)
		require.True(t, ok, src)
		assert.Len(t, ifx.Body, 1, src)
		assert.Len(t, ifx.Else, 1, src)
	}
}

func TestParseNoElseKeepsFollowingStatement(t *testing.T) {
	stmts := parse(t, "øl a: x()\n\ny()\n")
	require.Len(t, stmts, 2)
	assert.Nil(t, stmts[0].(*ast.ExprStmt).Expression.(*ast.IfExpr).Else)
}

func TestParseElseIfChain(t *testing.T) {
	ifx := expr(t, "øl a: x = 1\nølse: øl b: x = 2\nølse: x = 3\n").(*ast.IfExpr)
	require.Len(t, ifx.Else, 1)
	inner, ok := ifx.Else[0].(*ast.ExprStmt).Expression.(*ast.IfExpr)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Condition.(*ast.IdentExpr).Name)
	assert.Len(t, inner.Else, 1)
}

func TestParseElseBindsToOuterIf(t *testing.T) {
	src := "øl a:\n  øl b:\n    x\nølse:\n  y\n"
	outer := expr(t, src).(*ast.IfExpr)
	require.Len(t, outer.Body, 1)
	inner := outer.Body[0].(*ast.ExprStmt).Expression.(*ast.IfExpr)
	assert.Nil(t, inner.Else)
	require.Len(t, outer.Else, 1)
}

func TestParseNestedBodies(t *testing.T) {
	src := `øl f(n) =
  øl n > 0:
    ølturn n
  ølturn 0

øl g() =
  ølturn f(1)
`
	stmts := parse(t, src)
	require.Len(t, stmts, 2)
	f := stmts[0].(*ast.FuncDef)
	assert.Len(t, f.Body, 2)
	g := stmts[1].(*ast.FuncDef)
	assert.Len(t, g.Body, 1)
}

func TestParseInconsistentIndentation(t *testing.T) {
	src := "øl f(a) =\n  øl g(b) =\n     ølturn b\n"
	d := parseErr(t, src)
	assert.Contains(t, d.Message, "inconsistently indented")
	assert.Equal(t, 3, d.Span.Line)
}

func TestParseMissingIndentedBlock(t *testing.T) {
	d := parseErr(t, "øl f() =\nx\n")
	assert.Equal(t, "expected an indented block", d.Message)

	d = parseErr(t, "øl f() =\n")
	assert.Equal(t, "expected an indented block, found end of input", d.Message)
}

func TestParseNestedArrays(t *testing.T) {
	arr, ok := expr(t, "[[1, 2], [3, [4, 5]]]").(*ast.ArrayLiteral)
	require.True(t, ok)
	require.Len(t, arr.Elements, 2)

	first := arr.Elements[0].(*ast.ArrayLiteral)
	assert.Len(t, first.Elements, 2)

	second := arr.Elements[1].(*ast.ArrayLiteral)
	require.Len(t, second.Elements, 2)
	deepest := second.Elements[1].(*ast.ArrayLiteral)
	assert.Equal(t, int64(4), deepest.Elements[0].(*ast.IntLiteral).Value)
	assert.Equal(t, int64(5), deepest.Elements[1].(*ast.IntLiteral).Value)
}

func TestParseMultilineArrayTrailingComma(t *testing.T) {
	arr := expr(t, "[\n  1,\n  2,\n]").(*ast.ArrayLiteral)
	assert.Len(t, arr.Elements, 2)
}

func TestParseTable(t *testing.T) {
	tbl := expr(t, "{name: \"øl\", size: 2, name: 3}").(*ast.TableLiteral)
	require.Len(t, tbl.Pairs, 3)
	assert.Equal(t, []string{"name", "size", "name"}, []string{tbl.Pairs[0].Key, tbl.Pairs[1].Key, tbl.Pairs[2].Key})

	multi := expr(t, "{\n  a: 1\n  b: {c: [1]}\n}").(*ast.TableLiteral)
	require.Len(t, multi.Pairs, 2)
	assert.IsType(t, &ast.TableLiteral{}, multi.Pairs[1].Value)

	d := parseErr(t, "{a: 1 b: 2}")
	assert.Equal(t, "expected `,` or new line, found identifier `b`", d.Message)
}

func TestParsePostfix(t *testing.T) {
	call := expr(t, `o\m(1, f(2))[k].z`).(*ast.IndexExpr)
	assert.False(t, call.Bracket)
	assert.Equal(t, "z", call.Index.(*ast.IdentExpr).Name)

	bracket := call.Object.(*ast.IndexExpr)
	assert.True(t, bracket.Bracket)

	c := bracket.Object.(*ast.CallExpr)
	require.Len(t, c.Args, 2)
	assert.IsType(t, &ast.CallExpr{}, c.Args[1])

	method := c.Func.(*ast.IndexExpr)
	assert.True(t, method.Method)
	assert.Equal(t, "o", method.Object.(*ast.IdentExpr).Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated call", "f(1, 2\n", "expected `)`, found end of input"},
		{"unterminated group", "x = (1 + 2", "expected `)`, found end of input"},
		{"operator at end", "x = 1 +", "reached end of input in operation"},
		{"missing value", "x =", "unexpected end of input, expected an expression"},
		{"trailing token", "x = 1 2", "expected new line, found int `2`"},
		{"stray else", "ølse: x", "unexpected keyword `ølse`"},
		{"bad symbol", "x = ]", "unexpected symbol `]`"},
		{"word operator in chain", "a not b", "unexpected operator `not`"},
		{"field needs a name", "a.1", "expected identifier, found int `1`"},
		{"int out of range", "x = 99999999999999999999", "integer literal `100000000000000000000` out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseErr(t, tt.src)
			assert.Equal(t, tt.msg, d.Message)
		})
	}
}

func TestParseLexErrorPropagates(t *testing.T) {
	d := parseErr(t, "x = \"open")
	assert.Equal(t, diag.LexError, d.Kind)
}

func TestParseDiagnosticPosition(t *testing.T) {
	d := parseErr(t, "a = 1\nb = ]\n")
	assert.Equal(t, 2, d.Pos.Line)
	assert.Equal(t, 5, d.Pos.Column)
	assert.Equal(t, "b = ]", d.LineText)
	assert.Equal(t, "test.øl:2:5", d.Pos.String())
}
