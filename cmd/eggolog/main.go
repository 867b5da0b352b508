// Command eggolog drives the desugaring and type-resolution pipeline
// over a command stream and prints the normalized, sort-annotated
// result. It has no parser of its own — spec.md places the surface
// parser out of scope as an external collaborator — so it runs a small
// built-in demo program built through the ast.Command API directly.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/config"
	"github.com/sunholo/eggolog/internal/elaborate"
	"github.com/sunholo/eggolog/internal/errors"
	"github.com/sunholo/eggolog/internal/types"
)

var (
	Version = "dev"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		demoFlag    = flag.Bool("demo", false, "desugar and typecheck a small built-in example program")
		configPath  = flag.String("config", "", "path to a pipeline config YAML file")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("eggolog %s\n", bold(Version))
		return
	}

	if !*demoFlag {
		printHelp()
		return
	}

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		opts = loaded
	}

	ti := types.NewTypeInfo()
	d := elaborate.NewDesugar(opts, ti.IsPrimitive)

	cmds, err := d.DesugarProgram(demoProgram())
	if err != nil {
		var report *errors.Report
		if bad, ok := err.(*elaborate.BadIncludeError); ok {
			report = errors.FromBadInclude(bad)
		} else {
			report = errors.NewGeneric("desugar", err)
		}
		printReport(report)
		os.Exit(1)
	}

	if err := ti.TypecheckProgram(cmds); err != nil {
		if te, ok := err.(*types.TypeError); ok {
			printReport(errors.FromTypeError(te))
		} else {
			printReport(errors.NewGeneric("typecheck", err))
		}
		os.Exit(1)
	}

	fmt.Printf("%s desugared and typechecked %d commands\n", green("✓"), len(cmds))
	for i := range cmds {
		fmt.Printf("  %s %s\n", cyan(cmds[i].Kind), cmds[i].String())
	}
}

func printReport(r *errors.Report) {
	fmt.Fprintf(os.Stderr, "%s [%s] (%s) %s\n", red("Error"), r.Code, r.Phase, r.Message)
}

func printHelp() {
	fmt.Println(bold("eggolog - equality-reasoning rule engine front end"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        print version information")
	fmt.Println("  --demo           desugar and typecheck a small built-in example")
	fmt.Println("  --config <file>  load pipeline configuration from YAML")
	fmt.Println()
	fmt.Printf("There is no bundled parser: %s is a library consumed by an\n", bold("eggolog"))
	fmt.Println("external surface-syntax parser and rule-execution engine; --demo")
	fmt.Println("exercises the pipeline against a hand-built command stream.")
}

// demoProgram builds a small hand-constructed program exercising a
// datatype declaration, a base-case rewrite, and a recursive rule with
// a Set action — the textbook Peano-arithmetic `plus` definition,
// standing in for what an external parser would otherwise hand the
// pipeline (spec.md §6 places the parser out of scope).
func demoProgram() []ast.Command {
	natSort := ast.Symbol("Nat")
	zero := ast.Symbol("Zero")
	succ := ast.Symbol("Succ")
	plus := ast.Symbol("plus")

	n := &ast.Var{Name: "n"}
	m := &ast.Var{Name: "m"}

	return []ast.Command{
		&ast.Datatype{
			Sort: natSort,
			Variants: []ast.Variant{
				{Name: zero},
				{Name: succ, Types: []ast.Symbol{natSort}},
			},
		},
		&ast.FunctionDecl{
			Name:   plus,
			Input:  []ast.Symbol{natSort, natSort},
			Output: natSort,
		},
		// (rewrite (plus Zero m) m)
		&ast.RewriteCommand{
			Rewrite: ast.Rewrite{
				Lhs: &ast.Call{Head: plus, Children: []ast.Expr{
					&ast.Call{Head: zero},
					m,
				}},
				Rhs: m,
			},
		},
		// (rule ((plus n m)) ((set (plus (Succ n) m) (Succ (plus n m)))))
		&ast.RuleCommand{
			Rule: ast.Rule{
				Body: []ast.Fact{
					&ast.AtomFact{Expr: &ast.Call{Head: plus, Children: []ast.Expr{n, m}}},
				},
				Head: []ast.Action{
					&ast.SetAction{
						Func: plus,
						Args: []ast.Expr{
							&ast.Call{Head: succ, Children: []ast.Expr{n}},
							m,
						},
						Rhs: &ast.Call{Head: succ, Children: []ast.Expr{
							&ast.Call{Head: plus, Children: []ast.Expr{n, m}},
						}},
					},
				},
			},
		},
	}
}
