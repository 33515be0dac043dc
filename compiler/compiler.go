package compiler

import (
	"fmt"
	"os"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/parser"
	"github.com/nilq/oelscript/source"
)

// Result holds the output of a compilation.
type Result struct {
	Output  string
	Program *ast.Program
	// Imports lists the import paths in source order. They are never
	// resolved; the caller decides what to do with them.
	Imports []string
	Target  Target
}

type options struct {
	target Target
	fold   bool
}

// Option configures a single Compile call.
type Option func(*options)

// WithTarget selects the output dialect. The default is JS.
func WithTarget(t Target) Option {
	return func(o *options) { o.target = t }
}

// WithFold enables constant folding before code generation.
func WithFold(fold bool) Option {
	return func(o *options) { o.fold = fold }
}

// Compile runs the whole pipeline over text. name is only used in
// diagnostics. A failed compile returns a diag.List.
func Compile(name, text string, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f := source.New(name, text)
	prog, err := parser.Parse(f)
	if err != nil {
		if l := diag.From(err); l != nil {
			return nil, l
		}
		return nil, err
	}

	var passes []ast.Transform
	if o.fold {
		passes = append(passes, ast.ConstantFolding())
	}
	prog = ast.Chain(passes...).Transform(prog)

	return &Result{
		Output:  Generate(prog, o.target),
		Program: prog,
		Imports: ast.Imports(prog),
		Target:  o.target,
	}, nil
}

// Compiler is the value form of Compile. It holds no state beyond its
// settings, so one Compiler can serve concurrent callers.
type Compiler struct {
	Target Target
	Fold   bool
}

// Compile compiles text under c's settings.
func (c Compiler) Compile(name, text string) (*Result, error) {
	return Compile(name, text, WithTarget(c.Target), WithFold(c.Fold))
}

// CompileFile reads and compiles the file at path.
func (c Compiler) CompileFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return c.Compile(path, string(data))
}
