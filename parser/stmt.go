package parser

import (
	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/lexer"
	"github.com/nilq/oelscript/source"
)

func (p *Parser) statement() (ast.Statement, error) {
	p.skipNewlines()
	if p.done() {
		return nil, p.errorf(p.end, "expected a statement, found end of input")
	}
	if tok := p.cur(); tok.Kind == lexer.Keyword {
		switch tok.Lexeme {
		case "øl":
			return p.olStatement()
		case "iskold":
			return p.constStatement()
		case "ølturn":
			return p.returnStatement()
		case "ølport":
			return p.importStatement()
		case "break":
			p.advance()
			return &ast.BreakStmt{Base: ast.Base{Span: tok.Span}}, p.newLine()
		case "skip":
			p.advance()
			return &ast.SkipStmt{Base: ast.Base{Span: tok.Span}}, p.newLine()
		}
	}
	return p.expressionStatement()
}

// expressionStatement parses `expr` or `target = value`.
func (p *Parser) expressionStatement() (ast.Statement, error) {
	start := p.cur().Span
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	var s ast.Statement
	if p.atSymbol("=") {
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		s = &ast.AssignStmt{Base: ast.Base{Span: p.spanFrom(start)}, Target: expr, Value: value}
	} else {
		s = &ast.ExprStmt{Base: ast.Base{Span: p.spanFrom(start)}, Expression: expr}
	}
	return s, p.newLine()
}

// olStatement handles the polymorphic øl keyword. What follows decides
// the statement:
//
//	øl f(a, b) = body    function
//	øl x = value         variable
//	øl cond: body        conditional
//	øl value             return
func (p *Parser) olStatement() (ast.Statement, error) {
	start := p.advance().Span
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case *ast.CallExpr:
		if p.atSymbol("=") {
			return p.function(start, e)
		}
	case *ast.IdentExpr:
		if p.atSymbol("=") {
			p.advance()
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			v := &ast.VarStmt{Base: ast.Base{Span: p.spanFrom(start)}, Name: e.Name, Value: value}
			return v, p.newLine()
		}
	}

	if p.atSymbol(":") {
		return p.conditional(expr)
	}
	ret := &ast.ReturnStmt{Base: ast.Base{Span: p.spanFrom(start)}, Value: expr}
	return ret, p.newLine()
}

func (p *Parser) function(start source.Span, call *ast.CallExpr) (ast.Statement, error) {
	params := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		id, ok := arg.(*ast.IdentExpr)
		if !ok {
			return nil, p.errorf(arg.Pos(), "expected a parameter name, found an expression")
		}
		params = append(params, id.Name)
	}
	p.advance() // =
	span := p.spanFrom(start)
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Base: ast.Base{Span: span}, Name: call.Func, Params: params, Body: body}, nil
}

// conditional parses the `: body [ølse: body]` tail of an if. An ølse
// less indented than the enclosing body belongs to an outer if.
func (p *Parser) conditional(cond ast.Expr) (ast.Statement, error) {
	p.advance() // :
	span := p.spanFrom(cond.Pos())
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	ifx := &ast.IfExpr{Base: ast.Base{Span: span}, Condition: cond, Body: body}
	if p.elseAhead() {
		p.advance()
		if _, err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		if ifx.Else, err = p.block(); err != nil {
			return nil, err
		}
	}
	return &ast.ExprStmt{Base: ast.Base{Span: span}, Expression: ifx}, nil
}

// elseAhead reports whether the next token past any blank lines is an
// ølse belonging to the current if, and moves onto it if so.
func (p *Parser) elseAhead() bool {
	i := p.index
	for i < len(p.tokens) && p.tokens[i].Kind == lexer.EOL {
		i++
	}
	if i >= len(p.tokens) || !p.tokens[i].Is(lexer.Keyword, "ølse") || p.tokens[i].Span.Indent() < p.indent {
		return false
	}
	p.index = i
	return true
}

func (p *Parser) constStatement() (ast.Statement, error) {
	p.advance()
	at := p.cur().Span
	s, err := p.statement()
	if err != nil {
		return nil, err
	}
	v, ok := s.(*ast.VarStmt)
	if !ok {
		return nil, p.errorf(at, "expected a variable declaration after `iskold`")
	}
	v.Const = true
	return v, nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	start := p.advance().Span
	if p.done() || p.atEOL() {
		return &ast.ReturnStmt{Base: ast.Base{Span: start}}, p.newLine()
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	ret := &ast.ReturnStmt{Base: ast.Base{Span: p.spanFrom(start)}, Value: value}
	return ret, p.newLine()
}

func (p *Parser) importStatement() (ast.Statement, error) {
	start := p.advance().Span
	path, err := p.expectKind(lexer.Str)
	if err != nil {
		return nil, err
	}
	imp := &ast.ImportStmt{Base: ast.Base{Span: p.spanFrom(start)}, Path: path.Lexeme}
	return imp, p.newLine()
}

// block parses what follows `=` or `:`: either an indented body starting
// on the next line, or a single statement on the same line.
func (p *Parser) block() ([]ast.Statement, error) {
	if !p.atEOL() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		return []ast.Statement{s}, nil
	}
	p.skipNewlines()
	return p.body()
}

// body parses statements until the indentation drops below that of the
// body's first token. The first body of a file fixes the indentation
// unit; every later body must be indented by a multiple of it.
func (p *Parser) body() ([]ast.Statement, error) {
	if p.done() {
		return nil, p.errorf(p.end, "expected an indented block, found end of input")
	}
	outer := p.indent
	defer func() { p.indent = outer }()

	indent := p.cur().Span.Indent()
	if indent <= outer {
		return nil, p.errorf(p.cur().Span, "expected an indented block")
	}
	if p.indentUnit == 0 {
		p.indentUnit = indent
	} else if indent%p.indentUnit != 0 {
		return nil, p.errorf(p.cur().Span,
			"found inconsistently indented token, expected a multiple of %d, found %d", p.indentUnit, indent)
	}
	p.indent = indent

	var stmts []ast.Statement
	for !p.done() && !p.dedent() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.skipNewlines()
	}
	return stmts, nil
}

func (p *Parser) dedent() bool {
	return p.cur().Kind != lexer.EOL && p.cur().Span.Indent() < p.indent
}
