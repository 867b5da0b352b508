package elaborate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/config"
	"github.com/sunholo/eggolog/internal/core"
	"github.com/sunholo/eggolog/internal/elaborate"
)

func newDesugar() *elaborate.Desugar {
	return elaborate.NewDesugar(config.Default(), elaborate.DefaultPrimitives)
}

func TestFlattenBodyEqualityOfTwoCallsSharesOneTargetViaConstraint(t *testing.T) {
	d := newDesugar()
	// (= (f x) (f x)): Stage A binds both sides to one fresh target, so
	// each side still gets its own Assign (a body pattern re-matches the
	// function table on every occurrence, it does not memoize) — but a
	// deferred ConstrainEq ties the two Assigns' names together. The
	// second occurrence of x is an already-bound argument of a
	// non-primitive call, so it is aliased by a second deferred
	// ConstrainEq back to x.
	sub := func() ast.Expr { return &ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "x"}}} }
	facts := d.FlattenBody([]ast.Fact{&ast.Eq{Args: []ast.Expr{sub(), sub()}}})

	var assigns []*core.Assign
	var constraints []*core.ConstrainEq
	for _, f := range facts {
		switch n := f.(type) {
		case *core.Assign:
			assigns = append(assigns, n)
		case *core.ConstrainEq:
			constraints = append(constraints, n)
		}
	}
	require.Len(t, assigns, 2, "each occurrence of (f x) re-matches the table independently")
	require.Len(t, constraints, 2, "one equality ties the two occurrences, one aliases the reused x")
	assert.ElementsMatch(t, []ast.Symbol{assigns[0].Name, assigns[1].Name},
		[]ast.Symbol{constraints[0].Lhs, constraints[0].Rhs})
	assert.Equal(t, assigns[1].Args[0], constraints[1].Lhs)
	assert.Equal(t, ast.Symbol("x"), constraints[1].Rhs)
}

func TestFlattenBodyReusedVariableGetsAliasedWithDeferredConstraint(t *testing.T) {
	d := newDesugar()
	// (foo x) (bar x): the second occurrence of x as a non-primitive
	// call's argument cannot rebind x in place (it is already a defining
	// position from the first fact), so it is aliased to a fresh name
	// tied back to x by a deferred ConstrainEq appended at the end — the
	// same join `x` would have expressed directly, just indirected.
	facts := d.FlattenBody([]ast.Fact{
		&ast.AtomFact{Expr: &ast.Call{Head: "foo", Children: []ast.Expr{&ast.Var{Name: "x"}}}},
		&ast.AtomFact{Expr: &ast.Call{Head: "bar", Children: []ast.Expr{&ast.Var{Name: "x"}}}},
	})
	require.Len(t, facts, 3)
	a1 := facts[0].(*core.Assign)
	a2 := facts[1].(*core.Assign)
	constraint := facts[2].(*core.ConstrainEq)

	assert.Equal(t, ast.Symbol("x"), a1.Args[0])
	assert.NotEqual(t, ast.Symbol("x"), a2.Args[0], "the reused argument must be aliased, not rebound")
	assert.Equal(t, a2.Args[0], constraint.Lhs)
	assert.Equal(t, ast.Symbol("x"), constraint.Rhs)
}

func TestFlattenBodyPrimitiveBoundAsymmetry(t *testing.T) {
	d := newDesugar()
	// (= 1 (+ x x)): x appears twice as an argument to a primitive;
	// both occurrences resolve to the same plain reference, and the
	// primitive's Compute must not add x to the bound set the way a
	// non-primitive Assign's arguments would.
	facts := d.FlattenBody([]ast.Fact{
		&ast.Eq{Args: []ast.Expr{
			&ast.Lit{Value: ast.IntLiteral(1)},
			&ast.Call{Head: "+", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "x"}}},
		}},
	})
	var compute *core.Compute
	for _, f := range facts {
		if c, ok := f.(*core.Compute); ok {
			compute = c
		}
	}
	require.NotNil(t, compute)
	assert.Equal(t, []ast.Symbol{"x", "x"}, compute.Args)
}

func TestFlattenBodyIsDeterministicAcrossRuns(t *testing.T) {
	// Two independently flattened bodies over the same fresh-name state
	// must produce structurally identical NormFact slices; go-cmp
	// catches a field-level divergence that Equal-by-pointer would miss.
	build := func() []core.NormFact {
		d := newDesugar()
		return d.FlattenBody([]ast.Fact{
			&ast.AtomFact{Expr: &ast.Call{Head: "even", Children: []ast.Expr{&ast.Var{Name: "x"}}}},
		})
	}
	a, b := build(), build()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("identical inputs produced divergent NormFact trees (-want +got):\n%s", diff)
	}
}

func TestFlattenRewriteProducesUnion(t *testing.T) {
	d := newDesugar()
	rule := d.FlattenRewrite(ast.Rewrite{
		Lhs: &ast.Call{Head: "double", Children: []ast.Expr{&ast.Var{Name: "x"}}},
		Rhs: &ast.Call{Head: "+", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "x"}}},
	})
	require.NotEmpty(t, rule.Body)
	last := rule.Head[len(rule.Head)-1]
	union, ok := last.(*core.Union)
	require.True(t, ok)
	assert.NotEmpty(t, union.Lhs)
	assert.NotEmpty(t, union.Rhs)
}

func TestFlattenRewriteKeepsDeferredConstraintFromRepeatedLhsVariable(t *testing.T) {
	d := newDesugar()
	// (rewrite (add a a) (add a a)): the second `a` in the lhs pattern
	// is aliased to a fresh name with a deferred ConstrainEq back to the
	// first; that constraint must survive into the rule's body, or the
	// rewrite would match (add x y) for any x, y instead of requiring
	// x == y.
	rule := d.FlattenRewrite(ast.Rewrite{
		Lhs: &ast.Call{Head: "add", Children: []ast.Expr{&ast.Var{Name: "a"}, &ast.Var{Name: "a"}}},
		Rhs: &ast.Call{Head: "add", Children: []ast.Expr{&ast.Var{Name: "a"}, &ast.Var{Name: "a"}}},
	})

	var assign *core.Assign
	var constraint *core.ConstrainEq
	for _, f := range rule.Body {
		switch n := f.(type) {
		case *core.Assign:
			assign = n
		case *core.ConstrainEq:
			constraint = n
		}
	}
	require.NotNil(t, assign, "lhs must still bind a pattern for (add a a)")
	require.NotNil(t, constraint, "the aliased second `a` must carry its constraint into the body")
	assert.Equal(t, ast.Symbol("a"), constraint.Rhs)
	assert.Contains(t, assign.Args, constraint.Lhs)
}

func TestFlattenHeadSharesMemoAcrossArguments(t *testing.T) {
	d := newDesugar()
	// ((union (f a) (g (f a)))): (f a) appears once directly and once
	// nested inside (g ...). One shared memo across the whole head must
	// bind it to a single Let, not one per occurrence.
	actions := d.FlattenHead([]ast.Action{
		&ast.UnionAction{
			Lhs: &ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "a"}}},
			Rhs: &ast.Call{Head: "g", Children: []ast.Expr{
				&ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "a"}}},
			}},
		},
	})

	var fLets int
	for _, a := range actions {
		if l, ok := a.(*core.Let); ok && l.Head == "f" {
			fLets++
		}
	}
	assert.Equal(t, 1, fLets, "(f a) must hash-cons to a single Let across the whole head")
}

func TestDesugarDatatypeExpandsToSortAndFunctions(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Datatype{
		Sort: "Nat",
		Variants: []ast.Variant{
			{Name: "Zero"},
			{Name: "Succ", Types: []ast.Symbol{"Nat"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "sort", cmds[0].Kind)
	assert.Equal(t, "function", cmds[1].Kind)
	assert.True(t, cmds[1].Function.IsDatatype)
	assert.Equal(t, "function", cmds[2].Kind)
	assert.Equal(t, []ast.Symbol{"Nat"}, cmds[2].Function.Schema.Input)
}

func TestDesugarDeclareExpandsToFunctionAndLet(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Declare{Name: "origin", Sort: "Point"})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "function", cmds[0].Kind)
	assert.Equal(t, config.DefaultHighCost, *cmds[0].Function.Cost)
	assert.Equal(t, "action", cmds[1].Kind)
	letAction, ok := cmds[1].Action.(*core.Let)
	require.True(t, ok)
	assert.Equal(t, ast.Symbol("origin"), letAction.Name)
}

func TestSeminaiveLiftsLetWhenSetIsRewritten(t *testing.T) {
	d := newDesugar()
	// The Set's rhs is a call, so the Set is eligible for the rewrite.
	cmds, err := d.DesugarCommand(&ast.RuleCommand{
		Name: "succ-rule",
		Rule: ast.Rule{
			Body: []ast.Fact{
				&ast.AtomFact{Expr: &ast.Call{Head: "plus", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "y"}}}},
			},
			Head: []ast.Action{
				&ast.LetAction{Name: "next", Expr: &ast.Call{Head: "succ", Children: []ast.Expr{&ast.Var{Name: "x"}}}},
				&ast.SetAction{
					Func: "plus",
					Args: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "y"}},
					Rhs:  &ast.Call{Head: "succ", Children: []ast.Expr{&ast.Var{Name: "x"}}},
				},
			},
		},
	})
	require.NoError(t, err)
	// The original rule is always kept; the seminaive companion is
	// emitted alongside it, never in place of it.
	require.Len(t, cmds, 2)

	original := cmds[0].Rule.Rule
	var sawOriginalLet bool
	for _, a := range original.Head {
		if _, ok := a.(*core.Let); ok {
			sawOriginalLet = true
		}
	}
	assert.True(t, sawOriginalLet, "the original rule's head is untouched")

	companion := cmds[1].Rule.Rule
	var sawLiftedAssign bool
	for _, f := range companion.Body {
		if a, ok := f.(*core.Assign); ok && a.Head == "succ" {
			sawLiftedAssign = true
		}
	}
	assert.True(t, sawLiftedAssign, "the succ computation must be lifted into the companion's body")

	for _, a := range companion.Head {
		_, isLet := a.(*core.Let)
		assert.False(t, isLet, "no bare Let should remain in the companion's head")
	}
}

func TestSeminaiveDisabledKeepsLetInHead(t *testing.T) {
	opts := config.Default()
	opts.SeminaiveEnabled = false
	d := elaborate.NewDesugar(opts, elaborate.DefaultPrimitives)

	cmds, err := d.DesugarCommand(&ast.RuleCommand{
		Name: "succ-rule",
		Rule: ast.Rule{
			Body: []ast.Fact{
				&ast.AtomFact{Expr: &ast.Call{Head: "plus", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "y"}}}},
			},
			Head: []ast.Action{
				&ast.LetAction{Name: "next", Expr: &ast.Call{Head: "succ", Children: []ast.Expr{&ast.Var{Name: "x"}}}},
				&ast.SetAction{
					Func: "plus",
					Args: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "y"}},
					Rhs:  &ast.Var{Name: "next"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	var sawLet bool
	for _, a := range cmds[0].Rule.Rule.Head {
		if _, ok := a.(*core.Let); ok {
			sawLet = true
		}
	}
	assert.True(t, sawLet, "with seminaive disabled the Let must stay in the head")
}

func TestBiRewriteGeneratesTwoDirections(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.BiRewriteCommand{
		Rewrite: ast.Rewrite{
			Lhs: &ast.Call{Head: "not", Children: []ast.Expr{&ast.Call{Head: "not", Children: []ast.Expr{&ast.Var{Name: "x"}}}}},
			Rhs: &ast.Var{Name: "x"},
		},
	})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Contains(t, string(cmds[0].Rule.Name), "=>")
	assert.Contains(t, string(cmds[1].Rule.Name), "<=")
}

func TestCalcProducesPushBindRunCheckPopSequence(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Calc{
		Idents: []ast.IdentSort{{Ident: "x", Sort: "i64"}},
		Exprs: []ast.Expr{
			&ast.Call{Head: "+", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Lit{Value: ast.IntLiteral(0)}}},
			&ast.Var{Name: "x"},
		},
	})
	require.NoError(t, err)

	var kinds []string
	for _, c := range cmds {
		kinds = append(kinds, c.Kind)
	}
	// declare expands to function+action, then push, the binding actions
	// for both sides, run-schedule, check and pop for the one
	// consecutive pair.
	assert.Contains(t, kinds, "push")
	assert.Contains(t, kinds, "run-schedule")
	assert.Contains(t, kinds, "check")
	assert.Contains(t, kinds, "pop")

	var sched *core.NormSchedule
	for i := range cmds {
		if cmds[i].Kind == "run-schedule" {
			sched = cmds[i].RunSched
		}
	}
	require.NotNil(t, sched)
	require.Len(t, sched.Children, 1)
	inner := sched.Children[0]
	assert.Equal(t, 1, inner.Limit, "a calc step must saturate bounded by limit 1")
	assert.NotEmpty(t, inner.Until, "a calc step must run until the pair's equality holds")
}

func TestIncludeIsRejectedByDesugarCommand(t *testing.T) {
	d := newDesugar()
	_, err := d.DesugarCommand(&ast.Include{Path: "lib.egg"})
	assert.Error(t, err)
}

func TestDesugarPassthroughInputParsesFuncAndPath(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Passthrough{Kind: "input", Args: []string{"edges", "edges.csv"}})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "input", cmds[0].Kind)
	require.NotNil(t, cmds[0].Input)
	assert.Equal(t, ast.Symbol("edges"), cmds[0].Input.Func)
	assert.Equal(t, "edges.csv", cmds[0].Input.Path)
}

func TestDesugarPassthroughUnknownKindForwardsVerbatim(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Passthrough{Kind: "print-size", Args: []string{"plus"}})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "print-size", cmds[0].Kind)
	require.NotNil(t, cmds[0].Passthrough)
}

func TestDesugarFailWrapsInnerCommand(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Fail{Command: &ast.Sort{Name: "Nat"}})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "fail", cmds[0].Kind)
	require.Len(t, cmds[0].Include, 1)
	assert.Equal(t, "sort", cmds[0].Include[0].Kind)
}

func TestDesugarCheckFlattensFacts(t *testing.T) {
	d := newDesugar()
	cmds, err := d.DesugarCommand(&ast.Check{
		Facts: []ast.Fact{&ast.AtomFact{Expr: &ast.Call{Head: "even", Children: []ast.Expr{&ast.Var{Name: "x"}}}}},
	})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "check", cmds[0].Kind)
	assert.NotEmpty(t, cmds[0].Check.Facts)
}
