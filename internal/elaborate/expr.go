package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
)

// flatStep is one binding produced while flattening a surface Expr into
// ANF for a head/action position (spec.md §4.2). actions.go translates
// each flatStep into the NormAction shape appropriate to its context (a
// Let for a call, a LetLit for a literal).
type flatStep struct {
	Name ast.Symbol
	// exactly one of the following describes the binding:
	Lit  *ast.Literal
	Head ast.Symbol // non-empty together with Args: a call binding
	Args []ast.Symbol
}

// exprFlattener implements expr_to_flat_actions (the body flattener's
// expr_to_ssa lives in body.go): a
// post-order walk of a surface Expr that names every subterm exactly
// once, reusing a name when the identical subterm (by structural
// equality) has already been named in this flattening pass. Hash-consing
// here is what gives the normalized IR its "equal subterms share a
// binding" property (spec.md §4.2).
type exprFlattener struct {
	d     *Desugar
	memo  map[string]ast.Symbol
	steps []flatStep
}

func newExprFlattener(d *Desugar) *exprFlattener {
	return &exprFlattener{d: d, memo: map[string]ast.Symbol{}}
}

// flatten returns the symbol naming e's value, appending whatever fresh
// bindings were needed to f.steps. A bare variable reference never gets
// a fresh binding — it already names a value — so flatten can return an
// existing Symbol directly for *ast.Var.
func (f *exprFlattener) flatten(e ast.Expr) ast.Symbol {
	switch n := e.(type) {
	case *ast.Var:
		return n.Name
	case *ast.Lit:
		if sym, ok := f.memo[e.Key()]; ok {
			return sym
		}
		sym := f.d.Fresh.Fresh()
		f.memo[e.Key()] = sym
		f.steps = append(f.steps, flatStep{Name: sym, Lit: &n.Value})
		return sym
	case *ast.Call:
		if sym, ok := f.memo[e.Key()]; ok {
			return sym
		}
		args := make([]ast.Symbol, len(n.Children))
		for i, c := range n.Children {
			args[i] = f.flatten(c)
		}
		sym := f.d.Fresh.Fresh()
		f.memo[e.Key()] = sym
		f.steps = append(f.steps, flatStep{Name: sym, Head: n.Head, Args: args})
		return sym
	default:
		panic("elaborate: unknown Expr shape")
	}
}
