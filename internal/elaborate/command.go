package elaborate

import (
	"fmt"
	"strconv"

	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// BadIncludeError reports an Include command reaching DesugarCommand
// directly: a caller must resolve and recursively desugar the included
// file's contents itself before handing the result back in, since this
// package has no file-loading capability of its own.
type BadIncludeError struct {
	Path string
}

func (e *BadIncludeError) Error() string {
	return fmt.Sprintf("elaborate: Include must be resolved by the caller before DesugarCommand (path %q)", e.Path)
}

// DesugarCommand implements spec.md §4.7: it expands one surface
// Command into zero or more fully normalized core.NormCommand values,
// assigning each a fresh monotonic id. An Include is not expanded: it
// is returned as a *BadIncludeError, since this package has no parser
// or file loader. A Fail returns one "fail" command whose
// NormCommand.Include holds every command its inner command desugars to.
func (d *Desugar) DesugarCommand(c ast.Command) ([]core.NormCommand, error) {
	switch n := c.(type) {
	case *ast.FunctionDecl:
		return d.desugarFunction(n), nil
	case *ast.Datatype:
		return d.desugarDatatype(n), nil
	case *ast.Sort:
		return []core.NormCommand{{
			Kind: "sort",
			Meta: d.getNewID(),
			Sort: &core.NormSort{Name: n.Name, Presort: n.Presort, PresortArgs: d.flattenExprList(n.PresortArgs)},
		}}, nil
	case *ast.RewriteCommand:
		return d.desugarRewrite(n.Ruleset, n.Rewrite), nil
	case *ast.BiRewriteCommand:
		return d.desugarBiRewrite(n.Ruleset, n.Rewrite), nil
	case *ast.RuleCommand:
		name := n.Name
		if name == "" {
			name = ast.Symbol(n.Rule.String())
		}
		rule := d.FlattenRule(n.Rule)
		return d.desugarSeminaiveRule(n.Ruleset, name, rule), nil
	case *ast.Declare:
		return d.desugarDeclare(n), nil
	case *ast.Define:
		// The cost annotation is accepted but dropped (spec.md §9.4).
		d.GlobalVariables[n.Name] = true
		action := d.FlattenHead([]ast.Action{&ast.LetAction{Name: n.Name, Expr: n.Expr, Pos: n.Pos}})
		return d.wrapActions("define", action), nil
	case *ast.ActionCommand:
		action := d.FlattenHead([]ast.Action{n.Action})
		return d.wrapActions("action", action), nil
	case *ast.RunSchedule:
		return []core.NormCommand{{
			Kind:     "run-schedule",
			Meta:     d.getNewID(),
			RunSched: d.desugarSchedule(n.Schedule),
		}}, nil
	case *ast.Run:
		sched := &core.NormSchedule{Kind: "run", Ruleset: n.Config.Ruleset, Limit: n.Config.Limit, Until: d.FlattenBody(n.Config.Until)}
		return []core.NormCommand{{Kind: "run-schedule", Meta: d.getNewID(), RunSched: sched}}, nil
	case *ast.Simplify:
		return d.desugarSimplify(n), nil
	case *ast.Calc:
		return d.desugarCalc(n), nil
	case *ast.Extract:
		action := d.FlattenHead([]ast.Action{&ast.ExprAction{Expr: n.Expr, Pos: n.Pos}})
		cmds := d.wrapActions("extract-eval", action)
		cmds = append(cmds, core.NormCommand{Kind: "extract", Meta: d.getNewID()})
		return cmds, nil
	case *ast.Check:
		return []core.NormCommand{{
			Kind:  "check",
			Meta:  d.getNewID(),
			Check: &core.NormCheck{Facts: d.FlattenBody(n.Facts), Proof: n.Proof},
		}}, nil
	case *ast.Include:
		return nil, &BadIncludeError{Path: n.Path}
	case *ast.Fail:
		inner, err := d.DesugarCommand(n.Command)
		if err != nil {
			return nil, fmt.Errorf("elaborate: fail: %w", err)
		}
		return []core.NormCommand{{Kind: "fail", Meta: d.getNewID(), Include: inner}}, nil
	case *ast.AddRuleset:
		return []core.NormCommand{{Kind: "ruleset", Meta: d.getNewID()}}, nil
	case *ast.SetOption:
		args := []string{string(n.Name)}
		if n.Value != nil {
			args = append(args, n.Value.String())
		}
		pt := &ast.Passthrough{Kind: "set-option", Args: args, Pos: n.Pos}
		return []core.NormCommand{{Kind: "set-option", Meta: d.getNewID(), Passthrough: pt}}, nil
	case *ast.Passthrough:
		// (push n) / (pop n): Args[0], when present, is the count; it
		// defaults to 1.
		lim := 1
		if len(n.Args) > 0 {
			if v, err := strconv.Atoi(n.Args[0]); err == nil {
				lim = v
			}
		}
		switch n.Kind {
		case "push":
			return []core.NormCommand{{Kind: "push", Meta: d.getNewID(), Push: &lim}}, nil
		case "pop":
			return []core.NormCommand{{Kind: "pop", Meta: d.getNewID(), Pop: &lim}}, nil
		case "input":
			// Surface form is (input <func> <path>); Args[0] names the
			// function whose rows are populated from the file at Args[1].
			var funcName ast.Symbol
			var path string
			if len(n.Args) > 0 {
				funcName = ast.Symbol(n.Args[0])
			}
			if len(n.Args) > 1 {
				path = n.Args[1]
			}
			return []core.NormCommand{{Kind: "input", Meta: d.getNewID(), Input: &core.NormInput{Func: funcName, Path: path}}}, nil
		default:
			return []core.NormCommand{{Kind: n.Kind, Meta: d.getNewID(), Passthrough: n}}, nil
		}
	default:
		return nil, fmt.Errorf("elaborate: unsupported command %T", c)
	}
}

func (d *Desugar) flattenExprList(exprs []ast.Expr) []core.NormExpr {
	out := make([]core.NormExpr, len(exprs))
	for i, e := range exprs {
		out[i] = flattenStandalone(d, e)
	}
	return out
}

// flattenStandalone flattens a single expression outside of any
// fact/action context (used for presort arguments, which are type-level
// and never participate in matching).
func flattenStandalone(d *Desugar, e ast.Expr) core.NormExpr {
	switch n := e.(type) {
	case *ast.Lit:
		return core.NormExpr{Head: ast.Symbol(n.Value.String()), Lit: &n.Value}
	case *ast.Var:
		return core.NormExpr{Head: n.Name, Var: n.Name}
	case *ast.Call:
		args := make([]ast.Symbol, len(n.Children))
		for i, c := range n.Children {
			sub := flattenStandalone(d, c)
			args[i] = sub.Head
		}
		return core.NormExpr{Head: n.Head, Args: args}
	default:
		return core.NormExpr{}
	}
}

func (d *Desugar) wrapActions(kind string, actions []core.NormAction) []core.NormCommand {
	cmds := make([]core.NormCommand, len(actions))
	for i, a := range actions {
		cmds[i] = core.NormCommand{Kind: kind, Meta: d.getNewID(), Action: a}
	}
	return cmds
}

func (d *Desugar) desugarFunction(f *ast.FunctionDecl) []core.NormCommand {
	decl := &core.FunctionDecl{
		Name:   f.Name,
		Schema: core.Schema{Input: f.Input, Output: f.Output},
		Cost:   f.Cost,
	}
	if f.Default != nil {
		ne := flattenStandalone(d, f.Default)
		decl.Default = &ne
	}
	if f.Merge != nil {
		ne := flattenStandalone(d, f.Merge)
		decl.Merge = &ne
	}
	return []core.NormCommand{{Kind: "function", Meta: d.getNewID(), Function: decl}}
}

// desugarDatatype expands a datatype declaration into one sort
// declaration plus one function declaration per variant, carrying the
// variant's optional cost,
// matching original_source/src/ast/desugar.rs's desugar_datatype.
func (d *Desugar) desugarDatatype(dt *ast.Datatype) []core.NormCommand {
	cmds := []core.NormCommand{{
		Kind: "sort",
		Meta: d.getNewID(),
		Sort: &core.NormSort{Name: dt.Sort},
	}}
	for _, v := range dt.Variants {
		cmds = append(cmds, core.NormCommand{
			Kind: "function",
			Meta: d.getNewID(),
			Function: &core.FunctionDecl{
				Name:       v.Name,
				Schema:     core.Schema{Input: v.Types, Output: dt.Sort},
				Cost:       v.Cost,
				IsDatatype: true,
			},
		})
	}
	return cmds
}

// desugarDeclare expands `(declare name sort)` into a zero-arity
// function declaration with a HIGH_COST sentinel plus a Let action
// binding name to a call of that function, per
// original_source/src/ast/desugar.rs's Desugar::declare.
func (d *Desugar) desugarDeclare(decl *ast.Declare) []core.NormCommand {
	cost := d.Options.DeclareCost
	fn := &core.FunctionDecl{
		Name:   decl.Name,
		Schema: core.Schema{Output: decl.Sort},
		Cost:   &cost,
	}
	d.GlobalVariables[decl.Name] = true
	letAction := &core.Let{Name: decl.Name, Head: decl.Name}
	return []core.NormCommand{
		{Kind: "function", Meta: d.getNewID(), Function: fn},
		{Kind: "action", Meta: d.getNewID(), Action: letAction},
	}
}

func (d *Desugar) desugarRewrite(ruleset ast.Symbol, r ast.Rewrite) []core.NormCommand {
	rule := d.FlattenRewrite(r)
	name := rewriteName(r)
	return d.desugarSeminaiveRule(ruleset, name, rule)
}

// desugarBiRewrite expands a birewrite into two rewrites: lhs=>rhs named
// "<name>=>" and rhs=>lhs named "<name><=", per
// original_source/src/ast/desugar.rs's desugar_birewrite.
func (d *Desugar) desugarBiRewrite(ruleset ast.Symbol, r ast.Rewrite) []core.NormCommand {
	forward := d.FlattenRewrite(r)
	backward := d.FlattenRewrite(ast.Rewrite{Lhs: r.Rhs, Rhs: r.Lhs, Conditions: r.Conditions, Pos: r.Pos})

	base := string(rewriteName(r))
	cmds := d.desugarSeminaiveRule(ruleset, ast.Symbol(base+"=>"), forward)
	cmds = append(cmds, d.desugarSeminaiveRule(ruleset, ast.Symbol(base+"<="), backward)...)
	return cmds
}

func (d *Desugar) desugarSchedule(s ast.Schedule) *core.NormSchedule {
	switch n := s.(type) {
	case *ast.RunSched:
		return &core.NormSchedule{Kind: "run", Ruleset: n.Config.Ruleset, Limit: n.Config.Limit, Until: d.FlattenBody(n.Config.Until)}
	case *ast.RepeatSched:
		return &core.NormSchedule{Kind: "repeat", N: n.N, Children: []core.NormSchedule{*d.desugarSchedule(n.Schedule)}}
	case *ast.SaturateSched:
		return &core.NormSchedule{Kind: "saturate", Children: []core.NormSchedule{*d.desugarSchedule(n.Schedule)}}
	case *ast.SequenceSched:
		children := make([]core.NormSchedule, len(n.Schedules))
		for i, c := range n.Schedules {
			children[i] = *d.desugarSchedule(c)
		}
		return &core.NormSchedule{Kind: "seq", Children: children}
	default:
		return &core.NormSchedule{Kind: "seq"}
	}
}

func (d *Desugar) desugarSimplify(s *ast.Simplify) []core.NormCommand {
	var cmds []core.NormCommand
	letAction := d.FlattenHead([]ast.Action{&ast.LetAction{Name: "$simplify_target", Expr: s.Expr, Pos: s.Pos}})
	cmds = append(cmds, d.wrapActions("action", letAction)...)
	cmds = append(cmds, core.NormCommand{
		Kind:     "run-schedule",
		Meta:     d.getNewID(),
		RunSched: &core.NormSchedule{Kind: "run", Ruleset: s.Config.Ruleset, Limit: s.Config.Limit},
	})
	cmds = append(cmds, core.NormCommand{Kind: "extract", Meta: d.getNewID()})
	return cmds
}

// desugarCalc expands a Calc into exactly the command sequence
// original_source/src/ast/desugar.rs's desugar_calc produces: first
// declare every bound ident, then, once per consecutive pair of
// expressions in the chain: push, bind both expressions of the pair to
// fresh names, run the empty ruleset to saturation bounded by limit 1
// and an until condition that is the flattened equality of the pair,
// check the final equality holds, then pop.
func (d *Desugar) desugarCalc(c *ast.Calc) []core.NormCommand {
	var cmds []core.NormCommand
	for _, is := range c.Idents {
		cmds = append(cmds, d.desugarDeclare(&ast.Declare{Name: is.Ident, Sort: is.Sort})...)
	}
	for i := 0; i+1 < len(c.Exprs); i++ {
		push := 1
		cmds = append(cmds, core.NormCommand{Kind: "push", Meta: d.getNewID(), Push: &push})

		lhsName := d.Fresh.Fresh()
		rhsName := d.Fresh.Fresh()
		lhsAction := d.FlattenHead([]ast.Action{&ast.LetAction{Name: lhsName, Expr: c.Exprs[i]}})
		rhsAction := d.FlattenHead([]ast.Action{&ast.LetAction{Name: rhsName, Expr: c.Exprs[i+1]}})
		cmds = append(cmds, d.wrapActions("action", lhsAction)...)
		cmds = append(cmds, d.wrapActions("action", rhsAction)...)

		until := d.FlattenBody([]ast.Fact{&ast.Eq{Args: []ast.Expr{c.Exprs[i], c.Exprs[i+1]}}})
		cmds = append(cmds, core.NormCommand{
			Kind: "run-schedule",
			Meta: d.getNewID(),
			RunSched: &core.NormSchedule{Kind: "saturate", Children: []core.NormSchedule{
				{Kind: "run", Ruleset: "", Limit: 1, Until: until},
			}},
		})
		cmds = append(cmds, core.NormCommand{
			Kind: "check",
			Meta: d.getNewID(),
			Check: &core.NormCheck{Facts: []core.NormFact{&core.ConstrainEq{Lhs: lhsName, Rhs: rhsName}}},
		})
		pop := 1
		cmds = append(cmds, core.NormCommand{Kind: "pop", Meta: d.getNewID(), Pop: &pop})
	}
	return cmds
}
