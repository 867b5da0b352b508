package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// desugarSeminaiveRule implements spec.md §4.8 / original_source's
// add_semi_naive_rule: a Set action whose right-hand side is a plain
// call (Func args... -> (head args...)) gets rewritten so the call is
// evaluated once up front and asserted as a body equality, turning a
// rule that would otherwise have to re-derive its own right-hand side
// from scratch on every iteration into one that only needs the already
// materialized value. The original rule is always emitted; when at
// least one Set action was actually rewritten, a seminaive companion
// rule is emitted alongside it, per original_source/src/ast/desugar.rs
// (add_semi_naive_rule keeps the base rule and adds a companion, it
// never replaces one with the other).
func (d *Desugar) desugarSeminaiveRule(ruleset, name ast.Symbol, rule core.NormRule) []core.NormCommand {
	original := core.NormCommand{
		Kind: "rule",
		Meta: d.getNewID(),
		Rule: &core.NamedRule{Ruleset: ruleset, Name: name, Rule: rule},
	}
	if !d.Options.SeminaiveEnabled {
		return []core.NormCommand{original}
	}

	rewrote := false
	var extraBody []core.NormFact
	var newHead []core.NormAction

	for _, act := range rule.Head {
		a, isSet := act.(*core.Set)
		if !isSet {
			newHead = append(newHead, act)
			continue
		}
		// Only a Set whose rhs was itself produced by a call step (i.e.
		// it names a Let binding earlier in this same head, not a bare
		// surface variable or literal) is eligible for the rewrite;
		// find that binding. The binding itself is lifted into the body
		// by the loop below, together with every other Let.
		if _, found := findLet(rule.Head, a.Rhs); found {
			rewrote = true
		}
		newHead = append(newHead, a)
	}

	if !rewrote {
		return []core.NormCommand{original}
	}

	// Lift every Let to a body equality and drop it from the head.
	var finalHead []core.NormAction
	for _, act := range newHead {
		if l, ok := act.(*core.Let); ok {
			extraBody = append(extraBody, &core.Assign{Name: l.Name, Head: l.Head, Args: l.Args})
			continue
		}
		finalHead = append(finalHead, act)
	}

	seminaiveRule := core.NormRule{
		Body: append(append([]core.NormFact{}, rule.Body...), extraBody...),
		Head: finalHead,
	}
	companionName := ast.Symbol(string(name) + "-seminaive")
	companion := core.NormCommand{
		Kind: "rule",
		Meta: d.getNewID(),
		Rule: &core.NamedRule{Ruleset: ruleset, Name: companionName, Rule: seminaiveRule},
	}
	return []core.NormCommand{original, companion}
}

func findLet(head []core.NormAction, name ast.Symbol) (*core.Let, bool) {
	for _, act := range head {
		if l, ok := act.(*core.Let); ok && l.Name == name {
			return l, true
		}
	}
	return nil, false
}
