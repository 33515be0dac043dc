package compiler

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/diag"
)

// seedCorpus loads all .øl files from examples/ as seed inputs for
// coverage-guided fuzzing.
func seedCorpus(f *testing.F) {
	paths, _ := filepath.Glob(filepath.Join("..", "examples", "*.øl"))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(string(data))
	}

	// Hand-crafted seeds targeting known fragile areas
	seeds := []string{
		// Empty/minimal
		"",
		"\n\n",
		"x",
		// Indentation
		"øl f() =\n  øl a:\n    x\n  ølse:\n    y\n",
		"øl f() =\n   x\n  y\n",
		"øl a:\n  øl b:\n    x\nølse:\n  y\n",
		// Single-line bodies
		"øl a: øl b: x\nølse: y",
		"øl f(x) = øl g(y) = øl x",
		// Brackets
		"[[1, [2]], {a: [3]}]",
		"[\n  1,\n  2,\n]",
		"f(\n  a,\n  b\n)",
		"(((",
		"}",
		// Operators
		"x = - -1",
		"x = not not a",
		"x = a |> f(1) <| b",
		"x = 1 + 2 * 3 ^ 4 - 5 / 6 % 7",
		// Literals
		"x = 1.2.3",
		"x = 99999999999999999999",
		`x = r"raw ""quoted"""`,
		`x = "\q"`,
		"x = 'unterminated",
		// Keywords
		"iskold øl x = 1",
		"iskold x",
		"ølport \"a\"\nølturn",
		"ølse: x",
		"øl o\\m(a) = øl a",
	}
	for _, s := range seeds {
		f.Add(s)
	}
}

// FuzzCompile checks that every input either compiles or fails with a
// diagnostic. Anything else, panics included, is a bug.
func FuzzCompile(f *testing.F) {
	seedCorpus(f)

	f.Fuzz(func(t *testing.T, src string) {
		for _, target := range []Target{JS, Lua} {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("panic on input:\n%s\npanic: %v", src, r)
					}
				}()
				_, err := Compile("fuzz.øl", src, WithTarget(target))
				if err != nil && diag.From(err) == nil {
					t.Errorf("non-diagnostic error on input:\n%s\nerror: %v", src, err)
				}
			}()
		}
	})
}

// FuzzFold checks that regenerating a folded program is stable and that
// folding never leaves a literal the targets cannot spell.
func FuzzFold(f *testing.F) {
	seedCorpus(f)

	f.Fuzz(func(t *testing.T, src string) {
		res, err := Compile("fuzz.øl", src, WithFold(true))
		if err != nil {
			return
		}
		again := Generate(res.Program, JS)
		if again != res.Output {
			t.Errorf("generation not stable on input:\n%s", src)
		}
		ast.Inspect(res.Program, func(n ast.Node) bool {
			if lit, ok := n.(*ast.FloatLiteral); ok && (math.IsInf(lit.Value, 0) || math.IsNaN(lit.Value)) {
				t.Errorf("folding produced a non-finite literal on input:\n%s", src)
				return true
			}
			return false
		})
	})
}
