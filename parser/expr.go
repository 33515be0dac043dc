package parser

import (
	"strconv"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/lexer"
)

func (p *Parser) expression() (ast.Expr, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	if !p.done() && p.cur().Kind == lexer.Operator {
		return p.binary(left)
	}
	return left, nil
}

// binary folds an operator chain starting after left. Before an operator
// is shifted, pending operators binding at least as tightly are reduced,
// which makes every level left-associative.
func (p *Parser) binary(left ast.Expr) (ast.Expr, error) {
	operands := []ast.Expr{left}
	var ops []ast.Operator

	reduce := func() {
		n := len(operands)
		l, r := operands[n-2], operands[n-1]
		op := ops[len(ops)-1]
		operands = operands[:n-2]
		ops = ops[:len(ops)-1]
		span := p.file.Extend(l.Pos(), r.Pos())
		operands = append(operands, &ast.BinaryExpr{Base: ast.Base{Span: span}, Left: l, Op: op, Right: r})
	}

	for !p.done() && p.cur().Kind == lexer.Operator {
		tok := p.advance()
		op, ok := ast.LookupOperator(tok.Lexeme)
		if !ok {
			return nil, p.errorf(tok.Span, "unexpected operator `%s`", tok.Lexeme)
		}
		for len(ops) > 0 && ops[len(ops)-1].Precedence() >= op.Precedence() {
			reduce()
		}
		if p.done() {
			return nil, p.errorf(tok.Span, "reached end of input in operation")
		}
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
		ops = append(ops, op)
	}
	for len(ops) > 0 {
		reduce()
	}
	return operands[0], nil
}

// atom parses a primary expression followed by any postfix calls,
// indexes and field accesses.
func (p *Parser) atom() (ast.Expr, error) {
	if p.done() {
		return nil, p.errorf(p.end, "unexpected end of input, expected an expression")
	}
	tok := p.cur()
	base := ast.Base{Span: tok.Span}
	var expr ast.Expr

	switch tok.Kind {
	case lexer.Int:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Span, "integer literal `%s` out of range", tok.Lexeme)
		}
		expr = &ast.IntLiteral{Base: base, Value: v}

	case lexer.Float:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf(tok.Span, "float literal `%s` out of range", tok.Lexeme)
		}
		expr = &ast.FloatLiteral{Base: base, Value: v}

	case lexer.Str:
		p.advance()
		expr = &ast.StringLiteral{Base: base, Value: tok.Lexeme}

	case lexer.Bool:
		p.advance()
		expr = &ast.BoolLiteral{Base: base, Value: tok.Lexeme == "true"}

	case lexer.Identifier:
		p.advance()
		expr = &ast.IdentExpr{Base: base, Name: tok.Lexeme}

	case lexer.Operator:
		return p.unary()

	case lexer.Symbol:
		var err error
		switch tok.Lexeme {
		case "{":
			expr, err = p.table()
		case "[":
			expr, err = p.array()
		case "(":
			expr, err = p.group()
		default:
			return nil, p.errorf(tok.Span, "unexpected symbol `%s`", tok.Lexeme)
		}
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.errorf(tok.Span, "unexpected %s", describe(tok))
	}
	return p.postfix(expr)
}

// unary parses `-x` and `not x`. The operand is a full expression, so
// `-a + b` negates the sum.
func (p *Parser) unary() (ast.Expr, error) {
	tok := p.advance()
	if tok.Lexeme != "-" && tok.Lexeme != "not" {
		return nil, p.errorf(tok.Span, "unexpected operator `%s`", tok.Lexeme)
	}
	operand, err := p.expression()
	if err != nil {
		return nil, err
	}
	base := ast.Base{Span: p.spanFrom(tok.Span)}
	if tok.Lexeme == "-" {
		return &ast.NegExpr{Base: base, Operand: operand}, nil
	}
	return &ast.NotExpr{Base: base, Operand: operand}, nil
}

// group parses `(expr)` or the empty value `()`.
func (p *Parser) group() (ast.Expr, error) {
	open := p.advance()
	p.skipNewlines()
	if p.atSymbol(")") {
		p.advance()
		return &ast.EmptyExpr{Base: ast.Base{Span: p.spanFrom(open.Span)}}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) array() (ast.Expr, error) {
	start := p.cur().Span
	elems, err := blockOf(p, "[", "]", expressionComma)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Base: ast.Base{Span: p.spanFrom(start)}, Elements: elems}, nil
}

func (p *Parser) table() (ast.Expr, error) {
	start := p.cur().Span
	pairs, err := blockOf(p, "{", "}", definitionComma)
	if err != nil {
		return nil, err
	}
	return &ast.TableLiteral{Base: ast.Base{Span: p.spanFrom(start)}, Pairs: pairs}, nil
}

func (p *Parser) postfix(expr ast.Expr) (ast.Expr, error) {
	for p.cur().Kind == lexer.Symbol {
		start := expr.Pos()
		switch p.cur().Lexeme {
		case "(":
			args, err := blockOf(p, "(", ")", expressionComma)
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Base: ast.Base{Span: p.spanFrom(start)}, Func: expr, Args: args}

		case "[":
			p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSymbol("]"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Base: ast.Base{Span: p.spanFrom(start)}, Object: expr, Index: index, Bracket: true}

		case ".", "\\":
			marker := p.advance()
			name, err := p.expectKind(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{
				Base:   ast.Base{Span: p.spanFrom(start)},
				Object: expr,
				Index:  &ast.IdentExpr{Base: ast.Base{Span: name.Span}, Name: name.Lexeme},
				Method: marker.Lexeme == "\\",
			}

		default:
			return expr, nil
		}
	}
	return expr, nil
}

// blockOf consumes a delimited list. The tokens between open and its
// matching close are parsed by a sub-parser, calling element until it
// reports no more elements.
func blockOf[T any](p *Parser, open, close string, element func(*Parser) (T, bool, error)) ([]T, error) {
	if _, err := p.expectSymbol(open); err != nil {
		return nil, err
	}
	start := p.index
	for depth := 1; ; p.advance() {
		if p.done() {
			return nil, p.errorf(p.end, "expected `%s`, found end of input", close)
		}
		if tok := p.cur(); tok.Kind == lexer.Symbol {
			switch tok.Lexeme {
			case open:
				depth++
			case close:
				depth--
			}
		}
		if depth == 0 {
			break
		}
	}
	sub := p.sub(p.tokens[start:p.index], p.cur().Span)
	p.advance()

	var out []T
	for {
		el, ok, err := element(sub)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, el)
	}
}

// element returns the next expression of a list, or an EOFExpr once the
// list is used up.
func (p *Parser) element() (ast.Expr, error) {
	p.skipNewlines()
	if p.done() {
		return &ast.EOFExpr{Base: ast.Base{Span: p.end}}, nil
	}
	return p.expression()
}

// expressionComma parses `expr [,]` with optional surrounding newlines,
// as in call arguments and array elements.
func expressionComma(p *Parser) (ast.Expr, bool, error) {
	expr, err := p.element()
	if err != nil {
		return nil, false, err
	}
	if _, eof := expr.(*ast.EOFExpr); eof {
		return nil, false, nil
	}
	p.skipNewlines()
	if !p.done() {
		if _, err := p.expectSymbol(","); err != nil {
			return nil, false, err
		}
		p.skipNewlines()
	}
	return expr, true, nil
}

// definitionComma parses one `key: expr` table entry, separated from the
// next by a comma or a newline.
func definitionComma(p *Parser) (ast.TablePair, bool, error) {
	p.skipNewlines()
	if p.done() {
		return ast.TablePair{}, false, nil
	}
	key, err := p.expectKind(lexer.Identifier)
	if err != nil {
		return ast.TablePair{}, false, err
	}
	if _, err := p.expectSymbol(":"); err != nil {
		return ast.TablePair{}, false, err
	}
	value, err := p.expression()
	if err != nil {
		return ast.TablePair{}, false, err
	}
	if !p.done() {
		if !p.atSymbol(",") && !p.atEOL() {
			return ast.TablePair{}, false, p.errorf(p.cur().Span, "expected `,` or new line, found %s", describe(p.cur()))
		}
		p.advance()
		p.skipNewlines()
	}
	return ast.TablePair{Key: key.Lexeme, Value: value}, true, nil
}
