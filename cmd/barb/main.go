// Command barb is a thin demonstration shell around the reducer: it builds
// a fixed expression tree, loads optional on-disk Settings, reduces the
// tree, and prints the result. The surrounding lexer/parser/compiler that
// would normally produce the expression tree from source text is out of
// scope (see DESIGN.md) — this binary exists to show
// the reducer wired end-to-end against a real host, the way cmd/funxy
// wires the teacher's evaluator to a real terminal.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/barblang/barb/internal/config"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
	"github.com/barblang/barb/internal/reduce"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	st := reduce.DefaultSettings()
	if len(args) > 0 && args[0] == "--settings" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "barb: --settings requires a path")
			return 2
		}
		loaded, err := config.LoadSettings(args[1])
		if err != nil {
			printErr(err)
			return 1
		}
		st = loaded
		args = args[2:]
	}

	if len(args) > 0 && args[0] == "--version" {
		fmt.Println(config.Version)
		return 0
	}

	h := host.NewReflect()
	tree := demoExpression()
	env := reduce.SeedEnv(nil, st)

	out, _, err := reduce.Reduce(tree, env, st, true, h)
	if err != nil {
		printErr(err)
		return 1
	}

	v, err := reduce.Extract(out, st)
	if err != nil {
		printErr(err)
		return 1
	}

	fmt.Println(v)
	return 0
}

// demoExpression builds `1 + 2 * 3` directly as the flat node list the walker
// consumes, in source order — a stand-in for what a compiler front end would
// hand the reducer, since one isn't part of this repository.
func demoExpression() []expr.Node {
	one := expr.Resolved(0, 1, expr.Obj{Value: int64(1)})
	// Lower Prec binds tighter (see expr.Infix): '*' must out-bind '+'.
	plus := expr.Resolved(1, 1, expr.Infix{Prec: 2, Fn: func(a, b any) (any, error) {
		return a.(int64) + b.(int64), nil
	}})
	two := expr.Resolved(2, 1, expr.Obj{Value: int64(2)})
	star := expr.Resolved(3, 1, expr.Infix{Prec: 1, Fn: func(a, b any) (any, error) {
		return a.(int64) * b.(int64), nil
	}})
	three := expr.Resolved(4, 1, expr.Obj{Value: int64(3)})
	return []expr.Node{one, plus, two, star, three}
}

func printErr(err error) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if color {
		fmt.Fprintf(os.Stderr, "\x1b[31mbarb: %v\x1b[0m\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "barb: %v\n", err)
}
