package source

import "fmt"

// Span locates a token or node: a 1-based line and an inclusive range of
// 1-based byte columns on that line.
type Span struct {
	Line  int
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.Line, s.Start, s.End)
}

// Indent is the number of bytes in front of Start on the span's line.
func (s Span) Indent() int { return s.Start - 1 }

// Len returns the number of columns covered by the span.
func (s Span) Len() int { return s.End - s.Start + 1 }
