package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// FlattenHead implements the head-flattening half of the pipeline
// (spec.md §4.5): surface Action values become SSA-form core.NormAction
// values. Unlike the body flattener, there is no unique-name pass here
// — actions reference names already bound by the body (or by an earlier
// action in the same head) freely; rebinding a name is simply not
// possible in valid input, so nothing needs deferred-equality rewriting.
// One exprFlattener (and its memo) is shared across every action and
// argument in the head, so an identical subterm appearing twice — even
// across two different actions — hash-conses to a single Let (spec.md
// §4.5, "one shared memo and action buffer for all actions in the
// head").
func (d *Desugar) FlattenHead(actions []ast.Action) []core.NormAction {
	hf := &headFlattener{d: d, ef: newExprFlattener(d)}
	for _, a := range actions {
		hf.flattenAction(a)
	}
	return hf.out
}

type headFlattener struct {
	d   *Desugar
	ef  *exprFlattener
	out []core.NormAction
}

func (hf *headFlattener) emitSteps(steps []flatStep) ast.Symbol {
	var last ast.Symbol
	for _, s := range steps {
		last = s.Name
		switch {
		case s.Lit != nil:
			hf.out = append(hf.out, &core.LetLit{Name: s.Name, Lit: *s.Lit})
		default:
			hf.out = append(hf.out, &core.Let{Name: s.Name, Head: s.Head, Args: s.Args})
		}
	}
	return last
}

func (hf *headFlattener) flattenExpr(e ast.Expr) ast.Symbol {
	if v, ok := ast.IsVar(e); ok {
		return v
	}
	before := len(hf.ef.steps)
	sym := hf.ef.flatten(e)
	hf.emitSteps(hf.ef.steps[before:])
	return sym
}

func (hf *headFlattener) flattenAction(a ast.Action) {
	switch n := a.(type) {
	case *ast.LetAction:
		sym := hf.flattenExpr(n.Expr)
		if sym != n.Name {
			hf.out = append(hf.out, &core.LetVar{Name: n.Name, Of: sym})
		}
	case *ast.SetAction:
		args := make([]ast.Symbol, len(n.Args))
		for i, arg := range n.Args {
			args[i] = hf.flattenExpr(arg)
		}
		rhs := hf.flattenExpr(n.Rhs)
		hf.out = append(hf.out, &core.Set{Func: n.Func, Args: args, Rhs: rhs, NoTrack: n.NoTrack})
	case *ast.DeleteAction:
		args := make([]ast.Symbol, len(n.Args))
		for i, arg := range n.Args {
			args[i] = hf.flattenExpr(arg)
		}
		hf.out = append(hf.out, &core.Delete{Func: n.Func, Args: args})
	case *ast.UnionAction:
		lhs := hf.flattenExpr(n.Lhs)
		rhs := hf.flattenExpr(n.Rhs)
		hf.out = append(hf.out, &core.Union{Lhs: lhs, Rhs: rhs})
	case *ast.PanicAction:
		hf.out = append(hf.out, &core.Panic{Msg: n.Msg})
	case *ast.ExprAction:
		hf.flattenExpr(n.Expr)
	}
}
