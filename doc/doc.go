// Package doc extracts documentation from øl source files.
//
// The parser drops comments, so doc comments are collected from the raw
// lines and attached to the declarations the parser finds. The rule is
// simple: consecutive // lines immediately before a top-level function or
// iskold constant (no blank line gap) are its doc comment.
package doc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/scanner"
	"modernc.org/token"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/parser"
	"github.com/nilq/oelscript/source"
)

// Ext is the øl source file extension.
const Ext = ".øl"

// FileDoc holds all extracted documentation for a single øl file.
type FileDoc struct {
	Path   string
	Doc    string // file-level doc (first // block before any code)
	Funcs  []FuncDoc
	Consts []ConstDoc

	// Skipped lists the files ExtractDir could not read or parse.
	Skipped scanner.ErrList
}

// FuncDoc describes a documented function.
type FuncDoc struct {
	Name   string   // e.g. "area", "vec.scale" or "vec\len"
	Params []string // parameter names
	Doc    string
	Line   int // 1-based line number of the øl keyword
}

// ConstDoc describes a documented iskold constant.
type ConstDoc struct {
	Name string
	Doc  string
	Line int
}

// ExtractFile reads an øl file and extracts all documentation.
func ExtractFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Extract(string(data), path)
}

// ExtractDir reads all øl files in a directory (non-recursive) and returns
// aggregated documentation. The entry file's doc becomes the top-level doc.
// Files that fail to parse are skipped and recorded in Skipped.
func ExtractDir(dir, entryFile string) (*FileDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := &FileDoc{Path: dir}
	merge := func(fd *FileDoc) {
		result.Funcs = append(result.Funcs, fd.Funcs...)
		result.Consts = append(result.Consts, fd.Consts...)
	}

	skip := func(path string, err error) {
		if l := diag.From(err); l != nil {
			result.Skipped = append(result.Skipped, l.ErrList()...)
			return
		}
		result.Skipped = append(result.Skipped, scanner.ErrWithPosition{Pos: token.Position{Filename: path}, Err: err})
	}

	entryBase := ""
	if entryFile != "" {
		entryBase = filepath.Base(entryFile)
		fd, err := ExtractFile(entryFile)
		if err != nil {
			skip(entryFile, err)
		} else {
			result.Doc = fd.Doc
			merge(fd)
		}
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) || e.Name() == entryBase {
			continue
		}
		path := filepath.Join(dir, e.Name())
		fd, err := ExtractFile(path)
		if err != nil {
			skip(path, err)
			continue
		}
		merge(fd)
	}

	return result, nil
}

// Extract parses øl source and returns structured documentation. It fails
// only when the source does not parse.
func Extract(src, path string) (*FileDoc, error) {
	prog, err := parser.Parse(source.New(path, src))
	if err != nil {
		return nil, err
	}

	fd := &FileDoc{Path: path}
	var blocks map[int]string
	fd.Doc, blocks = comments(src)

	for _, s := range prog.Statements {
		switch st := s.(type) {
		case *ast.FuncDef:
			name := declName(st.Name)
			if name == "" {
				continue
			}
			line := st.Pos().Line
			fd.Funcs = append(fd.Funcs, FuncDoc{Name: name, Params: st.Params, Doc: blocks[line], Line: line})
		case *ast.VarStmt:
			if !st.Const {
				continue
			}
			line := st.Pos().Line
			fd.Consts = append(fd.Consts, ConstDoc{Name: st.Name, Doc: blocks[line], Line: line})
		}
	}
	return fd, nil
}

// comments returns the file-level doc and, for every code line directly
// preceded by a // block, that block keyed by the code line's number.
func comments(src string) (string, map[int]string) {
	var (
		fileDoc  string
		block    []string
		seenCode bool
	)
	blocks := make(map[int]string)

	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if text, ok := strings.CutPrefix(trimmed, "//"); ok {
			block = append(block, strings.TrimPrefix(text, " "))
			continue
		}

		if trimmed == "" {
			if len(block) > 0 && !seenCode {
				fileDoc = strings.Join(block, "\n")
				seenCode = true
			}
			// Blank line breaks attachment
			block = nil
			continue
		}

		if !seenCode && len(block) > 0 {
			fileDoc = strings.Join(block, "\n")
		}
		seenCode = true
		if len(block) > 0 {
			blocks[i+1] = strings.Join(block, "\n")
		}
		block = nil
	}
	return fileDoc, blocks
}

// declName renders a function target as written: f, o.f or o\f. Other
// targets, such as t[1], have no documentable name.
func declName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return n.Name
	case *ast.IndexExpr:
		key, ok := n.Index.(*ast.IdentExpr)
		if !ok || n.Bracket {
			return ""
		}
		obj := declName(n.Object)
		if obj == "" {
			return ""
		}
		if n.Method {
			return obj + `\` + key.Name
		}
		return obj + "." + key.Name
	}
	return ""
}

// LookupSymbol finds a specific function or constant by name in a FileDoc.
func LookupSymbol(fd *FileDoc, name string) (doc string, signature string, found bool) {
	for _, f := range fd.Funcs {
		if f.Name == name {
			return f.Doc, funcSignature(f), true
		}
	}
	for _, c := range fd.Consts {
		if c.Name == name {
			return c.Doc, constSignature(c), true
		}
	}
	return "", "", false
}

func funcSignature(f FuncDoc) string {
	return "øl " + f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

func constSignature(c ConstDoc) string {
	return "iskold øl " + c.Name
}
