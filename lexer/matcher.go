package lexer

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Matcher tries to recognize one token at the cursor. It returns ok=false
// to let the next matcher in the chain try, or an error to abort lexing.
type Matcher interface {
	Match(c *Cursor) (tok Token, ok bool, err error)
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(c *Cursor) (Token, bool, error)

func (f MatcherFunc) Match(c *Cursor) (Token, bool, error) { return f(c) }

// DefaultMatchers returns the øl matcher chain in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		MatcherFunc(matchComment),
		MatcherFunc(matchEOL),
		MatcherFunc(matchWhitespace),
		MatcherFunc(matchString),
		NewKeywordMatcher(Keyword, Keywords),
		NewKeywordMatcher(Bool, Bools),
		NewKeywordMatcher(Operator, WordOperators),
		MatcherFunc(matchNumber),
		MatcherFunc(matchIdentifier),
		NewConstantMatcher(Operator, Operators),
		NewConstantMatcher(Symbol, Symbols),
	}
}

// isIdentContinue reports whether r may appear after the first rune of an
// identifier.
func isIdentContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-!?", r)
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// matchComment consumes `//` through the end of the line, newline included,
// and stands in for that newline with a single EOL token.
func matchComment(c *Cursor) (Token, bool, error) {
	if !c.LookingAt("//") {
		return Token{}, false, nil
	}
	start := c.Pos()
	c.SkipWhile(func(r rune) bool { return r != '\n' })
	c.Skip(1)
	return c.Token(EOL, "\n", start), true, nil
}

func matchEOL(c *Cursor) (Token, bool, error) {
	if b, ok := c.Byte(); !ok || b != '\n' {
		return Token{}, false, nil
	}
	start := c.Pos()
	c.Skip(1)
	return c.Token(EOL, "\n", start), true, nil
}

func matchWhitespace(c *Cursor) (Token, bool, error) {
	start := c.Pos()
	ws := c.SkipWhile(func(r rune) bool { return r != '\n' && unicode.IsSpace(r) })
	if ws == "" {
		return Token{}, false, nil
	}
	return c.Token(Whitespace, ws, start), true, nil
}

func matchString(c *Cursor) (Token, bool, error) {
	start := c.Pos()
	raw := false
	var delim byte
	switch b, _ := c.Byte(); {
	case c.LookingAt(`r"`):
		raw, delim = true, '"'
		c.Skip(2)
	case c.LookingAt("r'"):
		return Token{}, false, c.Errorf(start, start+2, "no such thing as a raw character literal")
	case b == '"' || b == '\'':
		delim = b
		c.Skip(1)
	default:
		return Token{}, false, nil
	}

	var sb strings.Builder
	for {
		b, ok := c.Byte()
		if !ok {
			return Token{}, false, c.Errorf(start, start+1, "unterminated delimiter `%c`", delim)
		}
		switch {
		case raw && b == '"':
			if c.LookingAt(`""`) {
				sb.WriteByte('"')
				c.Skip(2)
				continue
			}
			c.Skip(1)
			return c.Token(Str, sb.String(), start), true, nil
		case raw:
			sb.WriteByte(b)
			c.Skip(1)
		case b == '\\':
			esc := c.Pos()
			c.Skip(1)
			r, size := c.Rune()
			if size == 0 {
				return Token{}, false, c.Errorf(start, start+1, "unterminated delimiter `%c`", delim)
			}
			switch r {
			case '\\', '\'', '"':
				sb.WriteRune(r)
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return Token{}, false, c.Errorf(esc, esc+1+size, "unexpected escape character: %c", r)
			}
			c.Skip(size)
		case b == delim:
			c.Skip(1)
			return c.Token(Str, sb.String(), start), true, nil
		default:
			sb.WriteByte(b)
			c.Skip(1)
		}
	}
}

// KeywordMatcher recognizes reserved words, but only when they are not
// the prefix of a longer identifier: `ølse` is a keyword, `ølsen` is not.
type KeywordMatcher struct {
	kind  Kind
	words []string
}

// NewKeywordMatcher returns a matcher emitting tokens of kind for words.
func NewKeywordMatcher(kind Kind, words []string) *KeywordMatcher {
	return &KeywordMatcher{kind: kind, words: longestFirst(words)}
}

func (m *KeywordMatcher) Match(c *Cursor) (Token, bool, error) {
	for _, w := range m.words {
		if !c.LookingAt(w) {
			continue
		}
		if r, size := c.RuneAt(len(w)); size > 0 && isIdentContinue(r) {
			continue
		}
		start := c.Pos()
		c.Skip(len(w))
		return c.Token(m.kind, w, start), true, nil
	}
	return Token{}, false, nil
}

// endsOperand reports whether t can close an operand, in which case a
// following `-` is a binary minus rather than the sign of a literal.
func endsOperand(t Token) bool {
	switch t.Kind {
	case Identifier, Int, Float, Str, Bool:
		return true
	case Symbol:
		return t.Lexeme == ")" || t.Lexeme == "]" || t.Lexeme == "}"
	}
	return false
}

// matchNumber reads `-?digits(.digits)?` and normalizes it through float
// parsing, so `007` becomes `7` and `1.50` becomes `1.5`.
func matchNumber(c *Cursor) (Token, bool, error) {
	start := c.Pos()
	b, ok := c.Byte()
	if !ok {
		return Token{}, false, nil
	}
	n := 0
	if b == '-' {
		next, ok := c.ByteAt(1)
		if !ok || !isDigit(next) || endsOperand(c.Prev()) {
			return Token{}, false, nil
		}
		n = 1
	} else if !isDigit(b) {
		return Token{}, false, nil
	}

	dot := false
	for {
		ch, ok := c.ByteAt(n)
		if !ok {
			break
		}
		if ch == '.' {
			if dot {
				return Token{}, false, c.Errorf(start+n, start+n+1, "unexpected extra decimal point")
			}
			dot = true
		} else if !isDigit(ch) {
			break
		}
		n++
	}

	text := c.src[start : start+n]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, false, c.Errorf(start, start+n, "number literal `%s` out of range", text)
	}
	kind := Int
	if dot {
		kind = Float
	}
	c.Skip(n)
	return c.Token(kind, strconv.FormatFloat(f, 'f', -1, 64), start), true, nil
}

func matchIdentifier(c *Cursor) (Token, bool, error) {
	r, _ := c.Rune()
	if !unicode.IsLetter(r) {
		return Token{}, false, nil
	}
	start := c.Pos()
	name := c.SkipWhile(isIdentContinue)
	return c.Token(Identifier, name, start), true, nil
}

// ConstantMatcher recognizes a fixed set of operator or symbol spellings,
// trying longer spellings first so `==` wins over `=`.
type ConstantMatcher struct {
	kind      Kind
	constants []string
}

// NewConstantMatcher returns a matcher emitting tokens of kind.
func NewConstantMatcher(kind Kind, constants []string) *ConstantMatcher {
	return &ConstantMatcher{kind: kind, constants: longestFirst(constants)}
}

func (m *ConstantMatcher) Match(c *Cursor) (Token, bool, error) {
	for _, s := range m.constants {
		if c.LookingAt(s) {
			start := c.Pos()
			c.Skip(len(s))
			return c.Token(m.kind, s, start), true, nil
		}
	}
	return Token{}, false, nil
}

func longestFirst(words []string) []string {
	out := slices.Clone(words)
	slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	return out
}
