package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nilq/oelscript/source"
)

// Render writes each diagnostic followed by its source line and a caret
// underline. With color set the header is wrapped in ANSI escapes.
func Render(w io.Writer, l List, color bool) {
	red, bold, reset := "\033[31m", "\033[1m", "\033[0m"
	if !color {
		red, bold, reset = "", "", ""
	}
	for _, d := range l {
		fmt.Fprintf(w, "%s%s%s: %s%s:%s %s\n", bold, d.Pos, reset, red, d.Kind, reset, d.Message)
		if d.LineText == "" {
			continue
		}
		gutter := fmt.Sprintf("%d", d.Span.Line)
		fmt.Fprintf(w, " %s | %s\n", gutter, d.LineText)
		fmt.Fprintf(w, " %s | %s%s%s%s\n", strings.Repeat(" ", len(gutter)), caretPad(d.LineText, d.Span.Start), red, carets(d.LineText, d.Span), reset)
	}
}

// caretPad reproduces the leading part of line up to byte column col,
// keeping tabs so the underline lines up with the echoed source. Columns
// count bytes, so each rune is padded once.
func caretPad(line string, col int) string {
	var sb strings.Builder
	for _, r := range line[:clamp(col-1, len(line))] {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// carets underlines the runes covered by span.
func carets(line string, span source.Span) string {
	from := clamp(span.Start-1, len(line))
	to := clamp(span.End, len(line))
	n := utf8.RuneCountInString(line[from:max(from, to)])
	return strings.Repeat("^", max(n, 1))
}

func clamp(n, hi int) int {
	return max(0, min(n, hi))
}
