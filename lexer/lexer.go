// Package lexer turns øl source text into tokens. Lexing is driven by an
// ordered chain of matchers; at every position the first matcher that
// recognizes a prefix produces the token.
package lexer

import (
	"iter"

	"github.com/nilq/oelscript/source"
)

// Lexer produces tokens for one source file.
type Lexer struct {
	file     *source.File
	matchers []Matcher
}

// New returns a lexer over f. Without matchers the default øl chain is
// used.
func New(f *source.File, matchers ...Matcher) *Lexer {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Lexer{file: f, matchers: matchers}
}

// All returns the token sequence, whitespace included, ending with an EOF
// token. Lexing stops after the first error, which is yielded with a zero
// token. Every call starts over from the beginning of the file.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		c := newCursor(l.file)
		for !c.Done() {
			tok, err := l.next(c)
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
		yield(Token{Kind: EOF, Span: l.file.Span(c.pos, c.pos)}, nil)
	}
}

// Tokenize collects the significant tokens: whitespace and the trailing
// EOF marker are dropped.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for tok, err := range l.All() {
		if err != nil {
			return nil, err
		}
		if tok.Kind == Whitespace || tok.Kind == EOF {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tokenize lexes f with the default matcher chain.
func Tokenize(f *source.File) ([]Token, error) {
	return New(f).Tokenize()
}

func (l *Lexer) next(c *Cursor) (Token, error) {
	for _, m := range l.matchers {
		mark := c.pos
		tok, ok, err := m.Match(c)
		if err != nil {
			return Token{}, err
		}
		if ok {
			if tok.Kind != Whitespace {
				c.prev = tok
			}
			return tok, nil
		}
		c.pos = mark
	}
	r, size := c.Rune()
	return Token{}, c.Errorf(c.pos, c.pos+size, "unexpected character `%c`", r)
}
