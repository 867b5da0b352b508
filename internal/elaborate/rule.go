package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// FlattenRule implements spec.md §4.6: flatten a rule's body and head
// together, so that head actions can reference names the body bound.
func (d *Desugar) FlattenRule(r ast.Rule) core.NormRule {
	body := d.FlattenBody(r.Body)
	head := d.FlattenHead(r.Head)
	return core.NormRule{Body: body, Head: head}
}

// FlattenRewrite turns a one-directional rewrite into an equivalent
// rule: the lhs (plus any :when conditions) forms the body, a single
// Union between the lhs's bound name and the freshly flattened rhs
// forms the head. See original_source/src/ast/desugar.rs's
// desugar_rewrite.
func (d *Desugar) FlattenRewrite(r ast.Rewrite) core.NormRule {
	bf := newBodyFlattener(d)

	lhsSym := bf.flattenRoot(r.Lhs)
	for _, c := range r.Conditions {
		bf.flattenFact(c)
	}

	hf := &headFlattener{d: d, ef: newExprFlattener(d)}
	rhsSym := hf.flattenExpr(r.Rhs)
	head := append(hf.out, &core.Union{Lhs: lhsSym, Rhs: rhsSym})

	body := append(bf.out, bf.deferred...)
	return core.NormRule{Body: body, Head: head}
}
