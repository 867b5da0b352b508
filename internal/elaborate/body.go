package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// FlattenBody implements the body flattener (spec.md §4.3): Stage A
// gathers (target, expr) equalities from the surface facts, Stage B
// converts each into SSA-form core.NormFact values via expr_to_ssa.
//
// Unlike the general expression flattener (§4.2, used for head/action
// positions), the body pass never hash-conses repeated subterms: each
// occurrence in a pattern is its own match against the function table.
// What it does do is enforce that every defining position binds a name
// at most once. A surface variable used a second time as an argument to
// a non-primitive call does not rebind that argument in place — it
// allocates a fresh alias and defers a ConstrainEq back to the original
// name (spec.md §4.3's expr_to_ssa, non-primitive-call-child case).
// That alias is exactly as expressive as reusing the name outright
// (the deferred equality ties them back together) and keeps the
// invariant that a name is bound at one fact only. A primitive call's
// variable arguments are never renamed or marked bound this way — they
// are read, not re-matched (spec.md §9.1's primitive/non-primitive
// bound-set asymmetry).
func (d *Desugar) FlattenBody(facts []ast.Fact) []core.NormFact {
	bf := newBodyFlattener(d)
	for _, f := range facts {
		bf.flattenFact(f)
	}
	bf.out = append(bf.out, bf.deferred...)
	return bf.out
}

type bodyFlattener struct {
	d        *Desugar
	bound    map[ast.Symbol]bool
	out      []core.NormFact
	deferred []core.NormFact
}

func newBodyFlattener(d *Desugar) *bodyFlattener {
	return &bodyFlattener{d: d, bound: map[ast.Symbol]bool{}}
}

// flattenRoot flattens e as a body term under a fresh target and
// returns that target's name, for callers (FlattenRewrite) that need
// the exact symbol the pattern binds rather than the full fact list.
func (bf *bodyFlattener) flattenRoot(e ast.Expr) ast.Symbol {
	return bf.flattenInto(bf.d.Fresh.Fresh(), e)
}

// flattenFact runs Stage A on one surface fact, producing the
// (target, expr) equalities the table in spec.md §4.3 describes, then
// feeds each through flattenInto (Stage B).
func (bf *bodyFlattener) flattenFact(f ast.Fact) {
	switch n := f.(type) {
	case *ast.Eq:
		bf.flattenEq(n.Args)
	case *ast.AtomFact:
		bf.flattenInto(bf.d.Fresh.Fresh(), n.Expr)
	}
}

func (bf *bodyFlattener) flattenEq(args []ast.Expr) {
	if len(args) < 2 {
		return
	}
	if len(args) == 2 {
		v0, ok0 := args[0].(*ast.Var)
		v1, ok1 := args[1].(*ast.Var)
		switch {
		case ok0 && !ok1:
			bf.flattenInto(v0.Name, args[1])
			return
		case ok1 && !ok0:
			bf.flattenInto(v1.Name, args[0])
			return
		case ok0 && ok1:
			bf.flattenInto(v0.Name, args[1])
			return
		}
	}
	// Neither side is a plain variable (or this is an n-ary equality,
	// generalizing the same rule pairwise): allocate one fresh target
	// and flatten every side into it; the wrapper logic in flattenInto
	// ties each subsequent side back to the first with a deferred
	// ConstrainEq.
	fresh := bf.d.Fresh.Fresh()
	for _, a := range args {
		bf.flattenInto(fresh, a)
	}
}

// flattenInto is the Stage B top-level wrapper: if target is already
// bound and expr is not a plain variable, rebinding it in place would
// silently merge two distinct defining positions, so a fresh
// intermediate is allocated instead and tied back with a deferred
// equality constraint. Otherwise expr binds target directly.
func (bf *bodyFlattener) flattenInto(target ast.Symbol, expr ast.Expr) ast.Symbol {
	if _, isVar := expr.(*ast.Var); isVar {
		return bf.bindDirect(target, expr)
	}
	if bf.bound[target] {
		fresh := bf.d.Fresh.Fresh()
		bf.deferred = append(bf.deferred, &core.ConstrainEq{Lhs: fresh, Rhs: target})
		return bf.bindDirect(fresh, expr)
	}
	return bf.bindDirect(target, expr)
}

// bindDirect is expr_to_ssa proper: it always binds expr's value under
// lhs, with no indirection check (that belongs to flattenInto's
// caller, which has already decided lhs is fit to bind directly).
func (bf *bodyFlattener) bindDirect(lhs ast.Symbol, expr ast.Expr) ast.Symbol {
	switch n := expr.(type) {
	case *ast.Var:
		bf.deferred = append(bf.deferred, &core.ConstrainEq{Lhs: lhs, Rhs: n.Name})
		return lhs
	case *ast.Lit:
		bf.bound[lhs] = true
		bf.out = append(bf.out, &core.AssignLit{Name: lhs, Lit: n.Value})
		return lhs
	case *ast.Call:
		bf.bound[lhs] = true
		primitive := bf.d.IsPrimitive(n.Head)
		args := make([]ast.Symbol, len(n.Children))
		for i, c := range n.Children {
			args[i] = bf.flattenChild(c, primitive)
		}
		if primitive {
			bf.out = append(bf.out, &core.Compute{Name: lhs, Head: n.Head, Args: args})
		} else {
			bf.out = append(bf.out, &core.Assign{Name: lhs, Head: n.Head, Args: args})
			for _, a := range args {
				bf.bound[a] = true
			}
		}
		return lhs
	default:
		panic("elaborate: unknown Expr shape")
	}
}

// flattenChild names one argument of a Call. A bare variable is the
// interesting case: a primitive's argument is read as-is no matter
// what (never renamed, never marks the variable bound); a
// non-primitive's argument is used as-is the first time it is seen and
// renamed-with-a-deferred-constraint every time after, so that the
// Assign it feeds never repeats a bound name in argument position. A
// non-variable child has no name of its own yet, so it gets a fresh
// one, pre-marked bound before recursing (it cannot possibly collide).
func (bf *bodyFlattener) flattenChild(e ast.Expr, parentPrimitive bool) ast.Symbol {
	if v, ok := e.(*ast.Var); ok {
		if parentPrimitive {
			return v.Name
		}
		if bf.bound[v.Name] {
			fresh := bf.d.Fresh.Fresh()
			bf.deferred = append(bf.deferred, &core.ConstrainEq{Lhs: fresh, Rhs: v.Name})
			return fresh
		}
		bf.bound[v.Name] = true
		return v.Name
	}
	fresh := bf.d.Fresh.Fresh()
	bf.bound[fresh] = true
	return bf.bindDirect(fresh, e)
}
