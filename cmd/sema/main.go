package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/malphas-lang/sema/internal/ast"
	"github.com/malphas-lang/sema/internal/astyaml"
	"github.com/malphas-lang/sema/internal/config"
	"github.com/malphas-lang/sema/internal/diag"
	"github.com/malphas-lang/sema/internal/types"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: sema <command> [options]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  check <tree.yaml>...   Type check syntax trees\n")
	fmt.Fprintf(w, "  types <tree.yaml>      Print resolved signatures and expression types\n")
}

// run executes one command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "sema: ", 0)
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	command, args := args[0], args[1:]
	switch command {
	case "check":
		return runCheck(args, stdout, stderr, logger)
	case "types":
		return runTypes(args, stdout, stderr, logger)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		logger.Printf("unknown command: %s", command)
		usage(stderr)
		return 1
	}
}

// commandFlags holds the settings both commands accept.
type commandFlags struct {
	fs           *flag.FlagSet
	configPath   string
	warnShadow   bool
	strictPrefix bool
	trace        bool
	maxErrors    int
	stats        bool
}

func newCommandFlags(name string, stderr io.Writer) *commandFlags {
	f := &commandFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(stderr)
	f.fs.StringVar(&f.configPath, "config", "", "load settings from a YAML file")
	f.fs.BoolVar(&f.warnShadow, "warn-shadow", false, "warn when a declaration shadows an outer one")
	f.fs.BoolVar(&f.strictPrefix, "strict-prefix", false, "treat prefix expressions as non-lvalues")
	f.fs.BoolVar(&f.trace, "trace", false, "trace scopes and function checks to stderr")
	f.fs.IntVar(&f.maxErrors, "max-errors", 0, "stop printing after this many errors (0 = unlimited)")
	f.fs.BoolVar(&f.stats, "stats", false, "print type table statistics")
	return f
}

// settings loads the config file, if any, and applies the flags that were
// given explicitly on top of it.
func (f *commandFlags) settings() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "warn-shadow":
			cfg.WarnShadowing = f.warnShadow
		case "strict-prefix":
			cfg.StrictPrefixLvalue = f.strictPrefix
		case "trace":
			cfg.Trace = f.trace
		case "max-errors":
			cfg.MaxErrors = f.maxErrors
		}
	})
	return cfg, nil
}

// unit is one checked syntax tree.
type unit struct {
	file    *ast.File
	checker *types.Checker
	result  *types.Result
}

// checkFile parses and checks path, printing diagnostics to stderr. It
// returns nil when the tree could not be checked at all.
func checkFile(path string, cfg *config.Config, stderr io.Writer, logger *log.Logger) *unit {
	file, parseErrs, err := astyaml.ParseFile(path)
	if err != nil {
		logger.Printf("%v", err)
		return nil
	}

	formatter := diag.NewFormatter(stderr)
	if len(parseErrs) > 0 {
		ds := make([]diag.Diagnostic, 0, len(parseErrs))
		for _, e := range parseErrs {
			ds = append(ds, e.Diagnostic())
		}
		formatter.FormatAll(ds, cfg.MaxErrors)
		return nil
	}

	checker := types.NewChecker()
	checker.Options = cfg.Options()
	if cfg.Trace {
		checker.Trace = log.New(stderr, "trace: ", 0)
	}
	res, err := checker.Check(file)
	if err != nil {
		logger.Printf("%s: %+v", path, err)
		return nil
	}

	diag.Sort(res.Diagnostics)
	formatter.FormatAll(res.Diagnostics, cfg.MaxErrors)
	return &unit{file: file, checker: checker, result: res}
}

func runCheck(args []string, stdout, stderr io.Writer, logger *log.Logger) int {
	f := newCommandFlags("check", stderr)
	if err := f.fs.Parse(args); err != nil {
		return 1
	}
	if f.fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Usage: sema check [options] <tree.yaml>...\n")
		return 1
	}
	cfg, err := f.settings()
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}

	status := 0
	for _, path := range f.fs.Args() {
		u := checkFile(path, cfg, stderr, logger)
		if u == nil || !u.result.OK {
			status = 1
		}
		if u == nil {
			continue
		}
		errs, warns := diag.Count(u.result.Diagnostics)
		fmt.Fprintf(stdout, "%s: %d error(s), %d warning(s)\n", path, errs, warns)
		if f.stats {
			printStats(stdout, path, u.checker.Table.Stats())
		}
	}
	return status
}

func runTypes(args []string, stdout, stderr io.Writer, logger *log.Logger) int {
	f := newCommandFlags("types", stderr)
	if err := f.fs.Parse(args); err != nil {
		return 1
	}
	if f.fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: sema types [options] <tree.yaml>\n")
		return 1
	}
	cfg, err := f.settings()
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}

	path := f.fs.Arg(0)
	u := checkFile(path, cfg, stderr, logger)
	if u == nil {
		return 1
	}
	tb := u.checker.Table
	info := u.result.Info

	for _, fn := range u.file.Funcs() {
		if d := info.Funcs[fn]; d != nil {
			fmt.Fprintf(stdout, "fn %s: %s\n", fn.Name.Name, tb.String(d.Type))
		}
	}

	// annotations in source order
	ast.Inspect(u.file, func(e ast.Expr) {
		tv, ok := info.Types[e]
		if !ok {
			return
		}
		lv := ""
		if tv.Lvalue {
			lv = " (lvalue)"
		}
		fmt.Fprintf(stdout, "%d:%d %s: %s%s\n", e.Span().Line, e.Span().Column, describe(e), tb.String(tv.Type), lv)
	})

	if f.stats {
		printStats(stdout, path, tb.Stats())
	}
	if !u.result.OK {
		return 1
	}
	return 0
}

func describe(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name.String()
	case *ast.IntegerLit:
		return e.Text
	case *ast.FloatLit:
		return e.Text
	case *ast.BoolLit:
		return fmt.Sprintf("%t", e.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", e.Value)
	case *ast.PrefixExpr:
		return string(e.Op) + describe(e.Expr)
	case *ast.PostfixExpr:
		return describe(e.Expr) + string(e.Op)
	case *ast.InfixExpr:
		return describe(e.Left) + " " + string(e.Op) + " " + describe(e.Right)
	case *ast.CallExpr:
		return describe(e.Callee) + "(...)"
	case *ast.TupleExpr:
		return "(...)"
	default:
		return "_"
	}
}

func printStats(w io.Writer, path string, s types.Stats) {
	fmt.Fprintf(w, "%s: %d nodes, %d canonical, %d variables, %d traits\n",
		path, s.Nodes, s.Canonical, s.Vars, s.Traits)
}
