// Package elaborate implements the desugaring pipeline: fresh-name
// generation, expression flattening into hash-consed ANF, body/head
// flattening into SSA form with a unique-name pass, command desugaring
// (datatype/rewrite/birewrite/declare/calc expansion; an include is
// rejected with a BadIncludeError rather than expanded), and the
// seminaive rewrite of Set-bearing rules. It is grounded on the
// teacher's internal/elaborate package (the Elaborator struct and its
// normalizeToAtomic/wrapWithBindings pair) and ported in spirit from
// original_source/src/ast/desugar.rs for exact ordering and naming.
package elaborate

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/config"
	"github.com/sunholo/eggolog/internal/core"
)

// Desugar holds the mutable state threaded through an entire program's
// desugaring: the fresh-name counter, a monotonic command id counter,
// the set of global variables declared so far (by `declare` or
// `define`), and the options controlling underscore count and the
// declare-cost sentinel.
type Desugar struct {
	Fresh           *FreshGen
	nextCommandID   int
	GlobalVariables map[ast.Symbol]bool
	Options         config.Options

	// IsPrimitive decides whether a call head is a primitive (as
	// opposed to a user function or datatype constructor). The real
	// pipeline this is ported from interleaves desugaring with
	// typechecking so that every prior declaration is already known to
	// TypeInfo by the time a later command is desugared; this front end
	// instead takes a caller-supplied predicate so internal/elaborate
	// does not need to import internal/types. cmd/eggolog wires this to
	// a types.TypeInfo lookup; tests wire it to a fixed set.
	IsPrimitive func(ast.Symbol) bool
}

// NewDesugar creates a Desugar ready to process a program from scratch.
func NewDesugar(opts config.Options, isPrimitive func(ast.Symbol) bool) *Desugar {
	if isPrimitive == nil {
		isPrimitive = DefaultPrimitives
	}
	return &Desugar{
		Fresh:           NewFreshGen(opts.NumberUnderscores),
		GlobalVariables: map[ast.Symbol]bool{},
		Options:         opts,
		IsPrimitive:     isPrimitive,
	}
}

// DefaultPrimitives recognizes the built-in arithmetic, comparison, and
// boolean operators as primitives; everything else is treated as a
// user-declared function or datatype constructor.
func DefaultPrimitives(head ast.Symbol) bool {
	switch head {
	case "+", "-", "*", "/", "%", "<", ">", "<=", ">=", "=",
		"not", "and", "or", "not-equal", "min", "max", "value-eq":
		return true
	default:
		return false
	}
}

func (d *Desugar) getNewID() core.Metadata {
	id := d.nextCommandID
	d.nextCommandID++
	return core.Metadata{ID: id}
}

// DesugarProgram desugars an entire command stream in order, threading
// Desugar's state (fresh counter, global variables, command ids) across
// every command. It stops at the first error; an Include command is not
// expanded and yields a *BadIncludeError.
func (d *Desugar) DesugarProgram(cmds []ast.Command) ([]core.NormCommand, error) {
	var out []core.NormCommand
	for _, c := range cmds {
		nc, err := d.DesugarCommand(c)
		if err != nil {
			return nil, err
		}
		out = append(out, nc...)
	}
	return out, nil
}

// rewriteName stringifies a rewrite (lhs, rhs and any :when conditions)
// as its generated rule name, replacing `"` with `'` so the name remains
// a valid bare identifier for backends that don't quote rule names.
// See original_source/src/ast/desugar.rs's rewrite_name.
func rewriteName(r ast.Rewrite) ast.Symbol {
	s := r.String()
	return ast.Symbol(replaceAll(s, `"`, `'`))
}

func replaceAll(s, old, new string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if i+len(old) <= len(s) && s[i:i+len(old)] == old {
			out = append(out, new...)
			i += len(old) - 1
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
