// Package parser builds the øl syntax tree from tokens.
//
// Statements are parsed by recursive descent and bodies are delimited by
// indentation. Binary expressions use an operand stack and an operator
// stack. Bracketed lists are cut out of the token stream as a balanced
// span and handed to a fresh sub-parser, so each nesting level parses in
// isolation.
package parser

import (
	"fmt"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/lexer"
	"github.com/nilq/oelscript/source"
)

// Parser consumes a token slice. The zero value is not usable; use New.
type Parser struct {
	file   *source.File
	tokens []lexer.Token
	index  int
	end    source.Span // reported for errors at end of input

	indentUnit int // width of the first body seen, 0 until then
	indent     int // indentation of the body being parsed
}

// New returns a parser over tokens lexed from f. Whitespace and EOF
// tokens are expected to have been dropped, as lexer.Tokenize does.
func New(f *source.File, tokens []lexer.Token) *Parser {
	end := source.Span{Line: 1, Start: 1, End: 1}
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span
		if tokens[n-1].Kind != lexer.EOL {
			end.Start = end.End + 1
			end.End = end.Start
		}
	}
	return &Parser{file: f, tokens: tokens, end: end}
}

// Parse lexes and parses f.
func Parse(f *source.File) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(f)
	if err != nil {
		return nil, err
	}
	return New(f, tokens).Parse()
}

// Parse parses the whole token slice into a program. It stops at the
// first error, which is a *diag.Diagnostic.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{SourceFile: p.file.Name()}
	for {
		p.skipNewlines()
		if p.done() {
			return prog, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, s)
	}
}

// sub returns an independent parser over a bracketed token span. end is
// the span of the closing delimiter.
func (p *Parser) sub(tokens []lexer.Token, end source.Span) *Parser {
	return &Parser{file: p.file, tokens: tokens, end: end}
}

// --- cursor ---

func (p *Parser) done() bool { return p.index >= len(p.tokens) }

// cur returns the current token, or an EOF token past the end.
func (p *Parser) cur() lexer.Token {
	if p.done() {
		return lexer.Token{Kind: lexer.EOF, Span: p.end}
	}
	return p.tokens[p.index]
}

// last returns the most recently consumed token.
func (p *Parser) last() lexer.Token {
	if p.index == 0 || len(p.tokens) == 0 {
		return p.cur()
	}
	return p.tokens[min(p.index, len(p.tokens))-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if !p.done() {
		p.index++
	}
	return tok
}

func (p *Parser) atSymbol(s string) bool { return !p.done() && p.cur().Is(lexer.Symbol, s) }

func (p *Parser) atKeyword(k string) bool { return !p.done() && p.cur().Is(lexer.Keyword, k) }

func (p *Parser) atEOL() bool { return !p.done() && p.cur().Kind == lexer.EOL }

func (p *Parser) skipNewlines() {
	for p.atEOL() {
		p.index++
	}
}

// spanFrom extends left through the last consumed token.
func (p *Parser) spanFrom(left source.Span) source.Span {
	return p.file.Extend(left, p.last().Span)
}

func (p *Parser) expectSymbol(s string) (lexer.Token, error) {
	if !p.atSymbol(s) {
		return lexer.Token{}, p.errorf(p.cur().Span, "expected `%s`, found %s", s, describe(p.cur()))
	}
	return p.advance(), nil
}

func (p *Parser) expectKind(kind lexer.Kind) (lexer.Token, error) {
	if p.done() || p.cur().Kind != kind {
		return lexer.Token{}, p.errorf(p.cur().Span, "expected %s, found %s", kind, describe(p.cur()))
	}
	return p.advance(), nil
}

// newLine requires the current statement to end here.
func (p *Parser) newLine() error {
	switch {
	case p.done():
		return nil
	case p.atEOL():
		p.index++
		return nil
	}
	return p.errorf(p.cur().Span, "expected new line, found %s", describe(p.cur()))
}

func (p *Parser) errorf(span source.Span, format string, args ...any) error {
	return diag.New(diag.ParseError, p.file, span, format, args...)
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.EOF, lexer.EOL:
		return tok.Kind.String()
	}
	return fmt.Sprintf("%s `%s`", tok.Kind, tok.Lexeme)
}
