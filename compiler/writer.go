package compiler

import "strings"

// codeWriter manages indented target source output for the code
// generator. Blank lines are dropped so statements that render to nothing
// leave no trace.
type codeWriter struct {
	sb     strings.Builder
	indent int
	unit   string
}

func newCodeWriter(unit string) *codeWriter {
	return &codeWriter{unit: unit}
}

// Line writes s as one indented line. Empty lines are skipped.
func (w *codeWriter) Line(s string) {
	if s == "" {
		return
	}
	w.sb.WriteString(strings.Repeat(w.unit, w.indent))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// Indent increases the indentation level.
func (w *codeWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *codeWriter) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// String returns the accumulated output.
func (w *codeWriter) String() string { return w.sb.String() }
