package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/source"
)

// Cursor walks the source text for the matchers. Offsets are byte offsets;
// rune-aware helpers decode UTF-8 so identifiers like øl work.
//
// A matcher that declines must not care where it leaves the cursor: the
// lexer rewinds it before trying the next matcher.
type Cursor struct {
	file *source.File
	src  string
	pos  int
	prev Token // last non-whitespace token, for context-sensitive matchers
}

func newCursor(f *source.File) *Cursor {
	return &Cursor{file: f, src: f.Text(), prev: Token{Kind: EOF}}
}

// Pos returns the offset of the next unread byte.
func (c *Cursor) Pos() int { return c.pos }

// Done reports whether the whole input has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.src) }

// Byte returns the byte at the cursor, or (0, false) at end of input.
func (c *Cursor) Byte() (byte, bool) { return c.ByteAt(0) }

// ByteAt returns the byte n bytes past the cursor.
func (c *Cursor) ByteAt(n int) (byte, bool) {
	if c.pos+n >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos+n], true
}

// Rune decodes the rune at the cursor.
func (c *Cursor) Rune() (rune, int) { return c.RuneAt(0) }

// RuneAt decodes the rune starting n bytes past the cursor. It returns
// (utf8.RuneError, 0) past the end of input.
func (c *Cursor) RuneAt(n int) (rune, int) {
	if c.pos+n >= len(c.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.src[c.pos+n:])
}

// LookingAt checks if the unread input starts with prefix.
func (c *Cursor) LookingAt(prefix string) bool {
	return strings.HasPrefix(c.src[c.pos:], prefix)
}

// Skip advances past n bytes, stopping at end of input.
func (c *Cursor) Skip(n int) {
	c.pos = min(c.pos+n, len(c.src))
}

// SkipWhile advances while pred accepts the rune at the cursor and returns
// the consumed text.
func (c *Cursor) SkipWhile(pred func(rune) bool) string {
	start := c.pos
	for !c.Done() {
		r, size := c.Rune()
		if !pred(r) {
			break
		}
		c.pos += size
	}
	return c.src[start:c.pos]
}

// Prev returns the last significant token produced before the cursor.
func (c *Cursor) Prev() Token { return c.prev }

// Token builds a token of kind whose text started at offset start and ends
// at the cursor.
func (c *Cursor) Token(kind Kind, lexeme string, start int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Span: c.file.Span(start, c.pos)}
}

// Errorf reports a lexical error covering the byte range [start, end).
func (c *Cursor) Errorf(start, end int, format string, args ...any) error {
	return diag.New(diag.LexError, c.file, c.file.Span(start, end), format, args...)
}
