// Package source holds the original program text of a compile run and the
// span model attached to every token and AST node. Spans store only a line
// number and a column range; line text is resolved through the File when a
// diagnostic needs it.
package source

import (
	"strings"

	"modernc.org/token"
)

// File is the immutable source registry for one compile call.
type File struct {
	name  string
	text  string
	lines []string
	tf    *token.File
}

// New builds a File from raw text. Lines are split on '\n'; a trailing
// newline does not produce an extra empty line.
func New(name, text string) *File {
	tf := token.NewFile(name, len(text))
	if len(text) > 0 {
		tf.SetLinesForContent([]byte(text))
	}
	return &File{
		name:  name,
		text:  text,
		lines: strings.Split(strings.TrimSuffix(text, "\n"), "\n"),
		tf:    tf,
	}
}

// Name returns the display name of the file.
func (f *File) Name() string { return f.name }

// Text returns the full source text.
func (f *File) Text() string { return f.text }

// Size returns the length of the source in bytes.
func (f *File) Size() int { return len(f.text) }

// LineCount returns the number of lines.
func (f *File) LineCount() int { return len(f.lines) }

// Line returns the text of the 1-based line n without its newline.
// Requests past either end are clamped to the first or last line.
func (f *File) Line(n int) string {
	switch {
	case n < 1:
		return f.lines[0]
	case n > len(f.lines):
		return f.lines[len(f.lines)-1]
	}
	return f.lines[n-1]
}

// Span returns the span covering the byte range [start, end) of the text.
// The span lives on the line of start; if the range crosses a newline the
// end column is clipped to that line.
func (f *File) Span(start, end int) Span {
	if start > len(f.text) {
		start = len(f.text)
	}
	if end <= start {
		end = start + 1
	}
	pos := f.tf.Position(f.tf.Pos(start))
	line := pos.Line
	if line == 0 {
		line = 1
	}
	col := pos.Column
	if col == 0 {
		col = 1
	}
	last := col + (end - start) - 1
	if ll := len(f.Line(line)); last > ll+1 {
		last = max(ll, col)
	}
	return Span{Line: line, Start: col, End: last}
}

// Position converts a span into a modernc token.Position pointing at its
// first column.
func (f *File) Position(s Span) token.Position {
	pos := token.Position{Filename: f.name, Line: s.Line, Column: s.Start}
	if s.Line >= 1 && s.Line <= f.tf.LineCount() {
		pos.Offset = f.tf.Offset(f.tf.LineStart(s.Line)) + s.Start - 1
	}
	return pos
}

// Extend merges left with right, the span of the last token consumed by
// the construct that started at left. The result stays on left's line and
// is clipped to that line's length.
func (f *File) Extend(left, right Span) Span {
	ll := len(f.Line(left.Line))
	end := right.End
	if right.Line != left.Line || end > ll {
		end = ll
	}
	if end < left.Start {
		end = left.Start
	}
	return Span{Line: left.Line, Start: left.Start, End: end}
}
