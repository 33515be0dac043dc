package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/nilq/oelscript/ast"
	"github.com/nilq/oelscript/compiler"
	"github.com/nilq/oelscript/diag"
	"github.com/nilq/oelscript/doc"
	"github.com/nilq/oelscript/lexer"
	"github.com/nilq/oelscript/parser"
	"github.com/nilq/oelscript/server"
	"github.com/nilq/oelscript/source"
)

// errReported means the failure was already written to stderr.
var errReported = errors.New("reported")

// Execute runs the øl CLI with the given version string.
func Execute(version string) {
	cmd := NewCommand(version)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// NewCommand builds the command tree. Output goes to the command's Writer
// and ErrWriter, which default to stdout and stderr.
func NewCommand(version string) *cli.Command {
	return &cli.Command{
		Name:                   "oel",
		Usage:                  "Compile øl to JavaScript or Lua",
		Version:                version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compile a .øl file",
				ArgsUsage: "<file.øl>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Output language: js or lua",
						Value:   compiler.JS.String(),
						Sources: cli.EnvVars("OEL_TARGET"),
					},
					&cli.BoolFlag{
						Name:  "fold",
						Usage: "Fold constant arithmetic before emitting",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result to this file instead of stdout",
					},
				},
				Action: compileAction,
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream of a .øl file",
				ArgsUsage: "<file.øl>",
				Action:    tokensAction,
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a .øl file",
				ArgsUsage: "<file.øl>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fold",
						Usage: "Fold constant arithmetic before printing",
					},
				},
				Action: astAction,
			},
			{
				Name:      "doc",
				Usage:     "Show doc comments of a .øl file or directory",
				ArgsUsage: "<file.øl | dir> [symbol]",
				Action:    docAction,
			},
			{
				Name:  "serve",
				Usage: "Serve POST /compile over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Sources: cli.EnvVars("OEL_ADDR"),
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML config file",
						Sources: cli.EnvVars("OEL_CONFIG"),
					},
					&cli.BoolFlag{
						Name:  "lenient",
						Usage: "Answer failed compiles with 200 and an empty body",
					},
				},
				Action: serveAction,
			},
		},
	}
}

func compileAction(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd, "compile [-t js|lua] [--fold] [-o out] <file.øl>")
	if err != nil {
		return err
	}
	target, err := compiler.ParseTarget(cmd.String("target"))
	if err != nil {
		return err
	}
	c := compiler.Compiler{Target: target, Fold: cmd.Bool("fold")}
	res, err := c.CompileFile(path)
	if err != nil {
		return report(cmd, err)
	}

	if out := cmd.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return nil
	}
	_, err = io.WriteString(cmd.Root().Writer, res.Output)
	return err
}

func tokensAction(ctx context.Context, cmd *cli.Command) error {
	f, err := readSource(cmd, "tokens <file.øl>")
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(f)
	if err != nil {
		return report(cmd, err)
	}
	w := cmd.Root().Writer
	for _, tok := range tokens {
		fmt.Fprintf(w, "%-10s %-12s %q\n", tok.Span, tok.Kind, tok.Lexeme)
	}
	return nil
}

func astAction(ctx context.Context, cmd *cli.Command) error {
	f, err := readSource(cmd, "ast [--fold] <file.øl>")
	if err != nil {
		return err
	}
	prog, err := parser.Parse(f)
	if err != nil {
		return report(cmd, err)
	}
	if cmd.Bool("fold") {
		prog = ast.Fold(prog)
	}
	return ast.Dump(cmd.Root().Writer, prog)
}

func docAction(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd, "doc <file.øl | dir> [symbol]")
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	var fd *doc.FileDoc
	if info.IsDir() {
		fd, err = doc.ExtractDir(path, "")
	} else {
		fd, err = doc.ExtractFile(path)
	}
	if err != nil {
		return report(cmd, err)
	}

	if l := diag.FromErrList(fd.Skipped); l != nil {
		ew := cmd.Root().ErrWriter
		diag.Render(ew, l, useColor(ew))
	}

	w := cmd.Root().Writer
	if cmd.NArg() > 1 {
		name := cmd.Args().Get(1)
		docStr, sig, ok := doc.LookupSymbol(fd, name)
		if !ok {
			return fmt.Errorf("no symbol %q in %s", name, path)
		}
		_, err = io.WriteString(w, doc.FormatSymbol(docStr, sig))
		return err
	}
	_, err = io.WriteString(w, doc.FormatFile(fd))
	return err
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg := server.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = server.LoadConfig(path); err != nil {
			return err
		}
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cmd.Bool("lenient") {
		cfg.Lenient = true
	}

	s, err := server.New(cfg, nil)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}

func fileArg(cmd *cli.Command, usage string) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("usage: oel %s", usage)
	}
	return cmd.Args().First(), nil
}

func readSource(cmd *cli.Command, usage string) (*source.File, error) {
	path, err := fileArg(cmd, usage)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return source.New(path, string(data)), nil
}

// report renders diagnostics carried by err to the error writer. Other
// errors are returned for Execute to print.
func report(cmd *cli.Command, err error) error {
	l := diag.From(err)
	if l == nil {
		return err
	}
	w := cmd.Root().ErrWriter
	diag.Render(w, l, useColor(w))
	return errReported
}

// useColor enables ANSI color only for a terminal, and never when NO_COLOR
// is set.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
