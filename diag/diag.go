// Package diag describes compile failures: what went wrong, where, and the
// source line it happened on.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nilq/oelscript/source"
	"modernc.org/scanner"
	"modernc.org/token"
)

// Kind classifies a diagnostic.
type Kind int

const (
	LexError Kind = iota
	ParseError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	}
	return "error"
}

// Diagnostic is a single failure with a precise source position.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Pos      token.Position
	Span     source.Span
	LineText string
}

// New builds a diagnostic for span in f, resolving the position and line
// text through the source registry.
func New(kind Kind, f *source.File, span source.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      f.Position(span),
		Span:     span,
		LineText: f.Line(span.Line),
	}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// List is the ordered, non-empty set of diagnostics returned by a failed
// compile. The pipeline is fail-fast, so it currently holds one entry.
type List []*Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// ErrList converts l to a scanner.ErrList. Each entry wraps the
// *Diagnostic itself, so Kind and Span survive the round trip through
// FromErrList.
func (l List) ErrList() scanner.ErrList {
	out := make(scanner.ErrList, len(l))
	for i, d := range l {
		out[i] = scanner.ErrWithPosition{Pos: d.Pos, Err: d}
	}
	return out
}

// FromErrList converts a positioned error list. Entries that do not wrap a
// *Diagnostic become parse errors at the entry's position.
func FromErrList(el scanner.ErrList) List {
	if len(el) == 0 {
		return nil
	}
	out := make(List, len(el))
	for i, e := range el {
		var d *Diagnostic
		if e.Err != nil && errors.As(e.Err, &d) {
			out[i] = d
			continue
		}
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		out[i] = &Diagnostic{
			Kind:    ParseError,
			Message: msg,
			Pos:     e.Pos,
			Span:    source.Span{Line: e.Pos.Line, Start: e.Pos.Column, End: e.Pos.Column},
		}
	}
	return out
}

// From extracts the diagnostics carried by err, which may be a List, a
// *Diagnostic or a scanner.ErrList. Other errors yield nil.
func From(err error) List {
	var l List
	if errors.As(err, &l) {
		return l
	}
	var el scanner.ErrList
	if errors.As(err, &el) {
		return FromErrList(el)
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return List{d}
	}
	return nil
}
