// Package core defines the normalized intermediate representation that
// the elaborate pipeline produces: flat, single-call-per-node terms
// (NormExpr), SSA-form facts and actions (NormFact/NormAction), and the
// fully desugared command stream (NormCommand) the type resolver
// consumes. Nothing in this package performs a transformation; internal/
// elaborate and internal/types are the only packages that build or
// inspect these values.
package core

import (
	"fmt"
	"strings"

	"github.com/sunholo/eggolog/internal/ast"
)

// NormExpr is the normalized shape of an expression: a single call of a
// head symbol over already-bound variable names. There is no nesting;
// every subterm has already been named by the expression flattener.
// A bare literal or variable reference from the surface syntax is
// represented as a zero-argument Call whose Head is the literal's
// printed form or the variable's name respectively — callers that need
// to distinguish should consult the Lit/Var fields instead of Head.
type NormExpr struct {
	Head     ast.Symbol
	Args     []ast.Symbol
	Lit      *ast.Literal // non-nil iff this call denotes a literal constant
	Var      ast.Symbol   // non-empty iff this call denotes a bare variable reference
	Pos      ast.Pos
}

// IsLit reports whether e is a literal leaf.
func (e *NormExpr) IsLit() bool { return e.Lit != nil }

// IsVar reports whether e is a bare variable leaf.
func (e *NormExpr) IsVar() bool { return e.Var != "" }

func (e *NormExpr) String() string {
	if e.IsLit() {
		return e.Lit.String()
	}
	if e.IsVar() {
		return string(e.Var)
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = string(a)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("(%s)", e.Head)
	}
	return fmt.Sprintf("(%s %s)", e.Head, strings.Join(parts, " "))
}

// NormFact is one SSA-form body constraint.
type NormFact interface {
	normFactNode()
	String() string
}

// Assign binds Name to the result of applying Head to Args — the
// normalized form of a non-primitive call appearing in a rule body.
type Assign struct {
	Name ast.Symbol
	Head ast.Symbol
	Args []ast.Symbol
}

func (a *Assign) normFactNode() {}
func (a *Assign) String() string {
	return fmt.Sprintf("(= %s (%s %s))", a.Name, a.Head, strings.Join(symStrs(a.Args), " "))
}

// Compute binds Name to the result of applying a primitive Head to
// Args. Distinguished from Assign because the unique-name pass treats
// primitive and non-primitive calls asymmetrically (spec.md §9.1): a
// primitive's argument symbols are not themselves added to the bound
// set by this fact, since a primitive cannot be the target of a
// congruence lookup the way a function call can.
type Compute struct {
	Name ast.Symbol
	Head ast.Symbol
	Args []ast.Symbol
}

func (c *Compute) normFactNode() {}
func (c *Compute) String() string {
	return fmt.Sprintf("(= %s (%s %s))", c.Name, c.Head, strings.Join(symStrs(c.Args), " "))
}

// AssignLit binds Name to a literal constant.
type AssignLit struct {
	Name ast.Symbol
	Lit  ast.Literal
}

func (a *AssignLit) normFactNode() {}
func (a *AssignLit) String() string {
	return fmt.Sprintf("(= %s %s)", a.Name, a.Lit.String())
}

// ConstrainEq asserts that two already-bound names denote the same
// value. This is the only fact shape produced directly from a surface
// Eq between two variables (no fresh name needed).
type ConstrainEq struct {
	Lhs, Rhs ast.Symbol
}

func (c *ConstrainEq) normFactNode() {}
func (c *ConstrainEq) String() string {
	return fmt.Sprintf("(= %s %s)", c.Lhs, c.Rhs)
}

func symStrs(syms []ast.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}

// NormAction is one SSA-form head effect.
type NormAction interface {
	normActionNode()
	String() string
}

// Let binds Name to the result of a (possibly primitive) call.
type Let struct {
	Name ast.Symbol
	Head ast.Symbol
	Args []ast.Symbol
}

func (l *Let) normActionNode() {}
func (l *Let) String() string {
	return fmt.Sprintf("(let %s (%s %s))", l.Name, l.Head, strings.Join(symStrs(l.Args), " "))
}

// LetLit binds Name to a literal constant.
type LetLit struct {
	Name ast.Symbol
	Lit  ast.Literal
}

func (l *LetLit) normActionNode() {}
func (l *LetLit) String() string {
	return fmt.Sprintf("(let %s %s)", l.Name, l.Lit.String())
}

// LetVar binds Name as an alias of an already-bound variable.
type LetVar struct {
	Name ast.Symbol
	Of   ast.Symbol
}

func (l *LetVar) normActionNode() {}
func (l *LetVar) String() string {
	return fmt.Sprintf("(let %s %s)", l.Name, l.Of)
}

// Set writes Rhs as the row of Func applied to Args. NoTrack preserves
// the surface `set`/`set-no-track` distinction (spec.md §9.5); the front
// end itself treats the two identically.
type Set struct {
	Func    ast.Symbol
	Args    []ast.Symbol
	Rhs     ast.Symbol
	NoTrack bool
}

func (s *Set) normActionNode() {}
func (s *Set) String() string {
	return fmt.Sprintf("(set (%s %s) %s)", s.Func, strings.Join(symStrs(s.Args), " "), s.Rhs)
}

// Delete removes the row of Func applied to Args.
type Delete struct {
	Func ast.Symbol
	Args []ast.Symbol
}

func (d *Delete) normActionNode() {}
func (d *Delete) String() string {
	return fmt.Sprintf("(delete (%s %s))", d.Func, strings.Join(symStrs(d.Args), " "))
}

// Union merges the e-classes of two already-bound names.
type Union struct {
	Lhs, Rhs ast.Symbol
}

func (u *Union) normActionNode() {}
func (u *Union) String() string {
	return fmt.Sprintf("(union %s %s)", u.Lhs, u.Rhs)
}

// Panic aborts with a message.
type Panic struct {
	Msg string
}

func (p *Panic) normActionNode() {}
func (p *Panic) String() string  { return fmt.Sprintf("(panic %q)", p.Msg) }

// NormRule is a fully flattened rule: SSA-form body facts, each naming
// its subterms via fresh symbols, and SSA-form head actions referencing
// only names bound in the body (or by an earlier head action).
type NormRule struct {
	Body []NormFact
	Head []NormAction
}

func (r *NormRule) String() string {
	body := make([]string, len(r.Body))
	for i, f := range r.Body {
		body[i] = f.String()
	}
	head := make([]string, len(r.Head))
	for i, a := range r.Head {
		head[i] = a.String()
	}
	return fmt.Sprintf("(rule (%s) (%s))", strings.Join(body, " "), strings.Join(head, " "))
}

// Schema is the input/output sort signature of a declared function.
type Schema struct {
	Input  []ast.Symbol
	Output ast.Symbol
}

// FunctionDecl is a desugared function declaration: every datatype
// variant, every `declare`d global, and every explicit `function` all
// normalize down to one of these.
type FunctionDecl struct {
	Name       ast.Symbol
	Schema     Schema
	Cost       *int
	Default    *NormExpr
	Merge      *NormExpr
	IsDatatype bool
}

// Metadata carries a monotonically increasing id assigned by the
// desugarer to each NormCommand, used to give generated rule/ruleset
// names a stable ordering independent of their string form.
type Metadata struct {
	ID int
}

// NormCommand is one fully desugared top-level command. At most one of
// the variant fields below Meta is set; Kind names the command. Some
// kinds (ruleset, extract) carry no variant field at all.
type NormCommand struct {
	Kind     string
	Meta     Metadata
	Function *FunctionDecl
	Sort     *NormSort
	Rule     *NamedRule
	Action   NormAction
	RunSched *NormSchedule
	Check    *NormCheck
	Push     *int
	Pop      *int
	Passthrough *ast.Passthrough
	Input    *NormInput
	Include  []NormCommand // desugared inner commands of a "fail" command
}

// String renders a one-line summary of whichever variant c carries,
// keyed off Kind.
func (c *NormCommand) String() string {
	switch c.Kind {
	case "function":
		if c.Function != nil {
			return fmt.Sprintf("(function %s)", c.Function.Name)
		}
	case "sort":
		if c.Sort != nil {
			return fmt.Sprintf("(sort %s)", c.Sort.Name)
		}
	case "rule":
		if c.Rule != nil {
			return fmt.Sprintf("(rule %s %s)", c.Rule.Ruleset, c.Rule.Name)
		}
	case "action", "define", "extract-eval":
		if c.Action != nil {
			return c.Action.String()
		}
	case "run-schedule":
		if c.RunSched != nil {
			return fmt.Sprintf("(run-schedule %s)", c.RunSched.Kind)
		}
	case "check":
		if c.Check != nil {
			return fmt.Sprintf("(check %d facts)", len(c.Check.Facts))
		}
	}
	return fmt.Sprintf("(%s)", c.Kind)
}

type NormSort struct {
	Name        ast.Symbol
	Presort     ast.Symbol
	PresortArgs []NormExpr
}

// NamedRule pairs a generated or explicit name and ruleset with the
// flattened rule it identifies.
type NamedRule struct {
	Ruleset ast.Symbol
	Name    ast.Symbol
	Rule    NormRule
}

type NormSchedule struct {
	Kind     string // "run" | "repeat" | "saturate" | "seq"
	Ruleset  ast.Symbol
	Limit    int
	Until    []NormFact
	N        int
	Children []NormSchedule
}

type NormCheck struct {
	Facts []NormFact
	Proof *ast.ProofConfig
}

type NormInput struct {
	Func ast.Symbol
	Path string
}
