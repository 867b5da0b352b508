// Package ast defines the surface syntax consumed by the desugaring
// pipeline: symbols, literals, expressions, facts, actions, rules,
// rewrites, schedules, and top-level commands. Nothing in this package
// performs any transformation; it is pure data plus the small amount of
// printing needed to name generated rules and render diagnostics.
package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface implemented by every surface AST node.
type Node interface {
	String() string
	Position() Pos
}

// Pos is a position in a source file, set by the (external) parser.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a range in a source file.
type Span struct {
	Start Pos
	End   Pos
}

// Symbol is an interned-by-value identifier: a sort name, function name,
// ruleset name, or variable name. Comparisons and map lookups on Symbol
// are just string comparisons; the core never needs a separate interning
// table because Go string comparison is already cheap.
type Symbol string

// LitKind tags the variant carried by a Literal.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

func (k LitKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case BoolLit:
		return "bool"
	case UnitLit:
		return "unit"
	default:
		return "unknown"
	}
}

// Literal is a tagged constant value. Key gives the form used as a map
// key and inside expression equality/hash-consing, so that floats
// (NaN included) compare by their exact binary value.
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func IntLiteral(v int64) Literal    { return Literal{Kind: IntLit, Int: v} }
func FloatLiteral(v float64) Literal { return Literal{Kind: FloatLit, Float: v} }
func StringLiteral(v string) Literal { return Literal{Kind: StringLit, Str: v} }
func BoolLiteral(v bool) Literal     { return Literal{Kind: BoolLit, Bool: v} }
func UnitLiteral() Literal           { return Literal{Kind: UnitLit} }

// Key returns a value suitable for use as a map key that distinguishes
// literals by kind and value (unlike Literal itself, whose Float field
// makes NaN comparisons with == unreliable).
func (l Literal) Key() any {
	switch l.Kind {
	case IntLit:
		return [2]any{l.Kind, l.Int}
	case FloatLit:
		return [2]any{l.Kind, fmt.Sprintf("%b", l.Float)}
	case StringLit:
		return [2]any{l.Kind, l.Str}
	case BoolLit:
		return [2]any{l.Kind, l.Bool}
	default:
		return l.Kind
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case IntLit:
		return fmt.Sprintf("%d", l.Int)
	case FloatLit:
		s := fmt.Sprintf("%v", l.Float)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case StringLit:
		return fmt.Sprintf("%q", l.Str)
	case BoolLit:
		return fmt.Sprintf("%v", l.Bool)
	case UnitLit:
		return "()"
	default:
		return "<bad-literal>"
	}
}

// Expr is a surface tree expression: a literal, a variable reference, or
// a call. There is no separate statement layer; everything that appears
// inside a fact or action body is an Expr.
type Expr interface {
	Node
	exprNode()
	// Equal reports structural equality, used by the expression
	// flattener's hash-consing memo.
	Equal(Expr) bool
	// Key returns a string uniquely identifying this expression up to
	// structural equality, used as a hash-consing map key by the
	// expression flattener.
	Key() string
}

// Lit is a literal expression.
type Lit struct {
	Value Literal
	Pos   Pos
}

func (l *Lit) exprNode()        {}
func (l *Lit) Position() Pos    { return l.Pos }
func (l *Lit) String() string   { return l.Value.String() }
func (l *Lit) Key() string      { return "lit:" + fmt.Sprint(l.Value.Key()) }
func (l *Lit) Equal(o Expr) bool {
	ol, ok := o.(*Lit)
	return ok && l.Value.Key() == ol.Value.Key()
}

// Var is a reference to a bound or global name.
type Var struct {
	Name Symbol
	Pos  Pos
}

func (v *Var) exprNode()      {}
func (v *Var) Position() Pos  { return v.Pos }
func (v *Var) String() string { return string(v.Name) }
func (v *Var) Key() string    { return "var:" + string(v.Name) }
func (v *Var) Equal(o Expr) bool {
	ov, ok := o.(*Var)
	return ok && v.Name == ov.Name
}

// Call applies a function or primitive symbol to a fixed-order list of
// child expressions.
type Call struct {
	Head     Symbol
	Children []Expr
	Pos      Pos
}

func (c *Call) exprNode()     {}
func (c *Call) Position() Pos { return c.Pos }
func (c *Call) String() string {
	parts := make([]string, len(c.Children))
	for i, ch := range c.Children {
		parts[i] = ch.String()
	}
	if len(parts) == 0 {
		return fmt.Sprintf("(%s)", c.Head)
	}
	return fmt.Sprintf("(%s %s)", c.Head, strings.Join(parts, " "))
}
func (c *Call) Key() string {
	parts := make([]string, len(c.Children))
	for i, ch := range c.Children {
		parts[i] = ch.Key()
	}
	return fmt.Sprintf("call:%s(%s)", c.Head, strings.Join(parts, ","))
}
func (c *Call) Equal(o Expr) bool {
	oc, ok := o.(*Call)
	if !ok || oc.Head != c.Head || len(oc.Children) != len(c.Children) {
		return false
	}
	for i := range c.Children {
		if !c.Children[i].Equal(oc.Children[i]) {
			return false
		}
	}
	return true
}

// IsVar reports whether e is a plain variable reference.
func IsVar(e Expr) (Symbol, bool) {
	if v, ok := e.(*Var); ok {
		return v.Name, true
	}
	return "", false
}

// Fact is a surface-level body element: an equality between terms, or a
// bare existence assertion.
type Fact interface {
	Node
	factNode()
}

// Eq asserts that all of Args denote the same value. Any arity of two or
// more is accepted; the body flattener handles arity above two itself by
// flattening every side into one shared fresh target.
type Eq struct {
	Args []Expr
	Pos  Pos
}

func (e *Eq) factNode()    {}
func (e *Eq) Position() Pos { return e.Pos }
func (e *Eq) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(= %s)", strings.Join(parts, " "))
}

// AtomFact asserts that a term exists (is present in the database).
type AtomFact struct {
	Expr Expr
	Pos  Pos
}

func (a *AtomFact) factNode()     {}
func (a *AtomFact) Position() Pos { return a.Pos }
func (a *AtomFact) String() string { return a.Expr.String() }

// Action is a surface-level head element (rule consequence, or top-level
// effect).
type Action interface {
	Node
	actionNode()
}

// LetAction binds Name to the value of Expr.
type LetAction struct {
	Name Symbol
	Expr Expr
	Pos  Pos
}

func (l *LetAction) actionNode()   {}
func (l *LetAction) Position() Pos { return l.Pos }
func (l *LetAction) String() string {
	return fmt.Sprintf("(let %s %s)", l.Name, l.Expr)
}

// SetAction writes Rhs as the value of a function applied to Args.
// NoTrack records whether the surface spelling was `set` or
// `set-no-track`; the two are equivalent for every purpose this front
// end cares about (spec.md §9.5), but the flag survives into
// core.NormAction so a back end that does distinguish them has
// somewhere to read it from.
type SetAction struct {
	Func    Symbol
	Args    []Expr
	Rhs     Expr
	NoTrack bool
	Pos     Pos
}

func (s *SetAction) actionNode()   {}
func (s *SetAction) Position() Pos { return s.Pos }
func (s *SetAction) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(set (%s %s) %s)", s.Func, strings.Join(parts, " "), s.Rhs)
}

// DeleteAction removes a row of Func at Args.
type DeleteAction struct {
	Func Symbol
	Args []Expr
	Pos  Pos
}

func (d *DeleteAction) actionNode()   {}
func (d *DeleteAction) Position() Pos { return d.Pos }
func (d *DeleteAction) String() string {
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(delete (%s %s))", d.Func, strings.Join(parts, " "))
}

// UnionAction merges the e-classes of Lhs and Rhs.
type UnionAction struct {
	Lhs, Rhs Expr
	Pos      Pos
}

func (u *UnionAction) actionNode()   {}
func (u *UnionAction) Position() Pos { return u.Pos }
func (u *UnionAction) String() string {
	return fmt.Sprintf("(union %s %s)", u.Lhs, u.Rhs)
}

// PanicAction aborts rule execution with a message.
type PanicAction struct {
	Msg string
	Pos Pos
}

func (p *PanicAction) actionNode()   {}
func (p *PanicAction) Position() Pos { return p.Pos }
func (p *PanicAction) String() string {
	return fmt.Sprintf("(panic %q)", p.Msg)
}

// ExprAction evaluates an expression for its side effect of creating the
// term; the resulting name is discarded.
type ExprAction struct {
	Expr Expr
	Pos  Pos
}

func (e *ExprAction) actionNode()   {}
func (e *ExprAction) Position() Pos { return e.Pos }
func (e *ExprAction) String() string { return e.Expr.String() }

// Rule is a match-act pair: body facts matched against the database,
// head actions run once per match.
type Rule struct {
	Body []Fact
	Head []Action
	Pos  Pos
}

func (r *Rule) Position() Pos { return r.Pos }
func (r *Rule) String() string {
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

// Rewrite is a one-directional rewrite lhs -> rhs, guarded by conditions.
type Rewrite struct {
	Lhs, Rhs   Expr
	Conditions []Fact
	Pos        Pos
}

func (r *Rewrite) Position() Pos { return r.Pos }
func (r *Rewrite) String() string {
	if len(r.Conditions) == 0 {
		return fmt.Sprintf("(rewrite %s %s)", r.Lhs, r.Rhs)
	}
	conds := make([]string, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = c.String()
	}
	return fmt.Sprintf("(rewrite %s %s :when (%s))", r.Lhs, r.Rhs, strings.Join(conds, " "))
}

// Variant is one constructor of a Datatype command.
type Variant struct {
	Name  Symbol
	Types []Symbol
	Cost  *int
	Pos   Pos
}

// IdentSort is a (name, sort) pair used by Calc to declare fresh
// identifiers before proving expressions equal.
type IdentSort struct {
	Ident Symbol
	Sort  Symbol
}

// RunConfig describes one schedule step: run ruleset up to limit times,
// optionally stopping early once Until holds.
type RunConfig struct {
	Ruleset Symbol
	Limit   int
	Until   []Fact
}

// Schedule is a recursive description of how to run rulesets.
type Schedule interface {
	Node
	scheduleNode()
}

type RunSched struct {
	Config RunConfig
	Pos    Pos
}

func (r *RunSched) scheduleNode()  {}
func (r *RunSched) Position() Pos  { return r.Pos }
func (r *RunSched) String() string { return fmt.Sprintf("(run %s)", r.Config.Ruleset) }

type RepeatSched struct {
	N        int
	Schedule Schedule
	Pos      Pos
}

func (r *RepeatSched) scheduleNode()  {}
func (r *RepeatSched) Position() Pos  { return r.Pos }
func (r *RepeatSched) String() string { return fmt.Sprintf("(repeat %d %s)", r.N, r.Schedule) }

type SaturateSched struct {
	Schedule Schedule
	Pos      Pos
}

func (s *SaturateSched) scheduleNode()  {}
func (s *SaturateSched) Position() Pos  { return s.Pos }
func (s *SaturateSched) String() string { return fmt.Sprintf("(saturate %s)", s.Schedule) }

type SequenceSched struct {
	Schedules []Schedule
	Pos       Pos
}

func (s *SequenceSched) scheduleNode() {}
func (s *SequenceSched) Position() Pos { return s.Pos }
func (s *SequenceSched) String() string {
	parts := make([]string, len(s.Schedules))
	for i, sc := range s.Schedules {
		parts[i] = sc.String()
	}
	return fmt.Sprintf("(seq %s)", strings.Join(parts, " "))
}

// SimplifyConfig carries the run configuration a `simplify` command uses
// to normalize its expression before extraction.
type SimplifyConfig struct {
	Config RunConfig
}

// ProofConfig is a stub for the historical proof-generation branch of
// Check. It is never populated by any command constructor in this build;
// it exists so a future extension has a field to hang off of, matching
// the disabled branch in original_source/src/typechecking.rs.
type ProofConfig struct {
	Enabled bool
}

// Command is one top-level declaration or directive in a program.
type Command interface {
	Node
	commandNode()
}

type FunctionDecl struct {
	Name    Symbol
	Input   []Symbol
	Output  Symbol
	Cost    *int
	Default Expr
	Merge   Expr
	Pos     Pos
}

func (f *FunctionDecl) commandNode()  {}
func (f *FunctionDecl) Position() Pos { return f.Pos }
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("(function %s)", f.Name)
}

// Datatype declares a sort together with its variant constructors.
type Datatype struct {
	Sort     Symbol
	Variants []Variant
	Pos      Pos
}

func (d *Datatype) commandNode()  {}
func (d *Datatype) Position() Pos { return d.Pos }
func (d *Datatype) String() string {
	return fmt.Sprintf("(datatype %s)", d.Sort)
}

// Sort declares a bare sort, optionally instantiated from a presort with
// arguments (e.g. `(sort IntVec (Vec i64))`).
type Sort struct {
	Name      Symbol
	Presort   Symbol
	PresortArgs []Expr
	Pos       Pos
}

func (s *Sort) commandNode()  {}
func (s *Sort) Position() Pos { return s.Pos }
func (s *Sort) String() string {
	return fmt.Sprintf("(sort %s)", s.Name)
}

type RewriteCommand struct {
	Ruleset Symbol
	Rewrite Rewrite
	Pos     Pos
}

func (r *RewriteCommand) commandNode()  {}
func (r *RewriteCommand) Position() Pos { return r.Pos }
func (r *RewriteCommand) String() string {
	return r.Rewrite.String()
}

type BiRewriteCommand struct {
	Ruleset Symbol
	Rewrite Rewrite
	Pos     Pos
}

func (b *BiRewriteCommand) commandNode()  {}
func (b *BiRewriteCommand) Position() Pos { return b.Pos }
func (b *BiRewriteCommand) String() string {
	return fmt.Sprintf("(birewrite %s %s)", b.Rewrite.Lhs, b.Rewrite.Rhs)
}

type RuleCommand struct {
	Ruleset Symbol
	Name    Symbol
	Rule    Rule
	Pos     Pos
}

func (r *RuleCommand) commandNode()  {}
func (r *RuleCommand) Position() Pos { return r.Pos }
func (r *RuleCommand) String() string {
	return r.Rule.String()
}

// Declare expands, at desugar time, into a zero-arity FunctionDecl plus a
// Let action binding Name to a call of that function (see SPEC_FULL.md §4).
type Declare struct {
	Name Symbol
	Sort Symbol
	Pos  Pos
}

func (d *Declare) commandNode()  {}
func (d *Declare) Position() Pos { return d.Pos }
func (d *Declare) String() string {
	return fmt.Sprintf("(declare %s %s)", d.Name, d.Sort)
}

// Define is `(define name expr [:cost n])`; the cost annotation is
// accepted but dropped during desugaring (spec.md §9.4).
type Define struct {
	Name Symbol
	Expr Expr
	Cost *int
	Pos  Pos
}

func (d *Define) commandNode()  {}
func (d *Define) Position() Pos { return d.Pos }
func (d *Define) String() string {
	return fmt.Sprintf("(define %s %s)", d.Name, d.Expr)
}

type ActionCommand struct {
	Action Action
	Pos    Pos
}

func (a *ActionCommand) commandNode()  {}
func (a *ActionCommand) Position() Pos { return a.Pos }
func (a *ActionCommand) String() string { return a.Action.String() }

type RunSchedule struct {
	Schedule Schedule
	Pos      Pos
}

func (r *RunSchedule) commandNode()  {}
func (r *RunSchedule) Position() Pos { return r.Pos }
func (r *RunSchedule) String() string { return r.Schedule.String() }

type Run struct {
	Config RunConfig
	Pos    Pos
}

func (r *Run) commandNode()  {}
func (r *Run) Position() Pos { return r.Pos }
func (r *Run) String() string {
	return fmt.Sprintf("(run %s %d)", r.Config.Ruleset, r.Config.Limit)
}

// Simplify normalizes Expr under Config and extracts its representative.
type Simplify struct {
	Expr   Expr
	Config RunConfig
	Pos    Pos
}

func (s *Simplify) commandNode()  {}
func (s *Simplify) Position() Pos { return s.Pos }
func (s *Simplify) String() string {
	return fmt.Sprintf("(simplify %s)", s.Expr)
}

// Calc proves a chain of expressions equal under a shared set of bound
// identifiers, running the empty ruleset to saturation between steps.
type Calc struct {
	Idents  []IdentSort
	Exprs   []Expr
	Pos     Pos
}

func (c *Calc) commandNode()  {}
func (c *Calc) Position() Pos { return c.Pos }
func (c *Calc) String() string {
	return fmt.Sprintf("(calc (...) %d exprs)", len(c.Exprs))
}

// Extract requests a representative term for Expr, optionally the
// Variants-best N representatives.
type Extract struct {
	Expr     Expr
	Variants int
	Pos      Pos
}

func (e *Extract) commandNode()  {}
func (e *Extract) Position() Pos { return e.Pos }
func (e *Extract) String() string {
	return fmt.Sprintf("(extract %s)", e.Expr)
}

// Check asserts that every Fact holds in the current database.
// Proof carries the (always-nil in this build) disabled proof-generation
// stub; see ProofConfig.
type Check struct {
	Facts []Fact
	Proof *ProofConfig
	Pos   Pos
}

func (c *Check) commandNode()  {}
func (c *Check) Position() Pos { return c.Pos }
func (c *Check) String() string {
	return fmt.Sprintf("(check %d facts)", len(c.Facts))
}

// Include names a file whose commands belong in place of this one. The
// desugarer does not load or parse it: DesugarCommand returns a
// BadIncludeError for every Include.
type Include struct {
	Path string
	Pos  Pos
}

func (i *Include) commandNode()  {}
func (i *Include) Position() Pos { return i.Pos }
func (i *Include) String() string { return fmt.Sprintf("(include %q)", i.Path) }

type Fail struct {
	Command Command
	Pos     Pos
}

func (f *Fail) commandNode()  {}
func (f *Fail) Position() Pos { return f.Pos }
func (f *Fail) String() string { return fmt.Sprintf("(fail %s)", f.Command) }

type AddRuleset struct {
	Name Symbol
	Pos  Pos
}

func (a *AddRuleset) commandNode()  {}
func (a *AddRuleset) Position() Pos { return a.Pos }
func (a *AddRuleset) String() string { return fmt.Sprintf("(ruleset %s)", a.Name) }

// SetOption sets a named interpreter option to a literal value; this
// front end passes the pair through as the printed name and value in
// the normalized command's Passthrough (spec.md places option
// semantics out of scope).
type SetOption struct {
	Name  Symbol
	Value Expr
	Pos   Pos
}

func (s *SetOption) commandNode()  {}
func (s *SetOption) Position() Pos { return s.Pos }
func (s *SetOption) String() string { return fmt.Sprintf("(set-option %s %s)", s.Name, s.Value) }

// Passthrough covers the remaining directive commands (Push, Pop, Print,
// PrintSize, Output, Input, Visualize), tagged by Kind. The desugarer
// turns push and pop into a count (Args[0], default 1) and input into a
// function name and path (Args[0], Args[1]); every other kind is
// forwarded to the normalized command stream untouched.
type Passthrough struct {
	Kind string
	Args []string
	Pos  Pos
}

func (p *Passthrough) commandNode()  {}
func (p *Passthrough) Position() Pos { return p.Pos }
func (p *Passthrough) String() string {
	return fmt.Sprintf("(%s %s)", p.Kind, strings.Join(p.Args, " "))
}
