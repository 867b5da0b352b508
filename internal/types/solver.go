package types

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/core"
)

// Substitution maps a symbol to the sort resolved for it so far. This is
// the Go-idiom analogue of the teacher's unification.go Substitution
// map[string]Type, simplified: sorts have no internal structure to
// unify (no rows, no kinds, no type-class dictionaries), so unifying two
// sorts is just a name-equality check rather than a recursive walk.
type Substitution map[ast.Symbol]ast.Symbol

// Solver resolves sorts for every symbol bound in a normalized rule
// against a TypeInfo registry, using a plain substitution map plus
// backtracking search over primitive overload candidates — the
// simplified version of the constraint-satisfaction problem spec.md §7
// describes, appropriate since this domain has no structural sorts to
// unify, only overload choice.
type Solver struct {
	ti   *TypeInfo
	subs Substitution
}

func NewSolver(ti *TypeInfo) *Solver {
	return &Solver{ti: ti, subs: Substitution{}}
}

// sortOf returns the currently known sort for name, if any.
func (s *Solver) sortOf(name ast.Symbol) (ast.Symbol, bool) {
	if sort, ok := s.ti.GlobalTypes[name]; ok {
		return sort, true
	}
	sort, ok := s.subs[name]
	return sort, ok
}

// bind records that name has sort. If name already has a different sort
// bound, returns a Mismatch error.
func (s *Solver) bind(name, sort ast.Symbol) error {
	if existing, ok := s.sortOf(name); ok {
		if existing != sort {
			return &TypeError{Kind: Mismatch, Name: name, Sorts: []ast.Symbol{existing, sort}}
		}
		return nil
	}
	s.subs[name] = sort
	return nil
}

// unify requires two names to end up with the same sort, propagating
// whichever side is already known to the other.
func (s *Solver) unify(a, b ast.Symbol) error {
	sa, oka := s.sortOf(a)
	sb, okb := s.sortOf(b)
	switch {
	case oka && okb:
		if sa != sb {
			return &TypeError{Kind: Mismatch, Name: a, Sorts: []ast.Symbol{sa, sb}}
		}
		return nil
	case oka:
		return s.bind(b, sa)
	case okb:
		return s.bind(a, sb)
	default:
		// Neither side is known yet. The pair is not recorded: no link
		// is kept between the two names, so a sort found for one later
		// is not propagated to the other, and TypecheckRule reports no
		// error (InferenceFailure included) for a pair that stays
		// unresolved.
		return nil
	}
}

func litSort(lit ast.Literal) ast.Symbol {
	switch lit.Kind {
	case ast.IntLit:
		return "i64"
	case ast.FloatLit:
		return "f64"
	case ast.StringLit:
		return "String"
	case ast.BoolLit:
		return "bool"
	default:
		return "Unit"
	}
}

// TypecheckRule resolves sorts for every name bound by rule's body and
// head, returning the final substitution or the first error encountered
// (aggregated into AllAlternativeFailed when a primitive call's overload
// search exhausts every candidate).
func (ti *TypeInfo) TypecheckRule(rule core.NormRule) (Substitution, error) {
	s := NewSolver(ti)
	for _, f := range rule.Body {
		if err := s.checkFact(f); err != nil {
			return nil, err
		}
	}
	for _, a := range rule.Head {
		if err := s.checkAction(a); err != nil {
			return nil, err
		}
	}
	for name, sort := range s.subs {
		if sort == "Unit" {
			return nil, &TypeError{Kind: UnitVar, Name: name}
		}
	}
	return s.subs, nil
}

func (s *Solver) checkFact(f core.NormFact) error {
	switch n := f.(type) {
	case *core.AssignLit:
		return s.bind(n.Name, litSort(n.Lit))
	case *core.ConstrainEq:
		return s.unify(n.Lhs, n.Rhs)
	case *core.Assign:
		ft, ok := s.ti.FuncTypes[n.Head]
		if !ok {
			return &TypeError{Kind: UnboundFunction, Name: n.Head}
		}
		if len(ft.Input) != len(n.Args) {
			return &TypeError{Kind: Arity, Name: n.Head, Expected: len(ft.Input), Got: len(n.Args)}
		}
		for i, arg := range n.Args {
			if err := s.bind(arg, ft.Input[i]); err != nil {
				return err
			}
		}
		return s.bind(n.Name, ft.Output)
	case *core.Compute:
		return s.checkPrimitive(n.Name, n.Head, n.Args)
	default:
		return nil
	}
}

// checkPrimitive implements the backtracking overload search: try each
// registered overload of head in order, checking it against the already
// known sorts of args; the first overload with no conflict wins. If none
// match, aggregate every overload's rejection reason into a single
// AllAlternativeFailed error, per spec.md §7.
func (s *Solver) checkPrimitive(name, head ast.Symbol, args []ast.Symbol) error {
	overloads, ok := s.ti.Primitives[head]
	if !ok {
		return &TypeError{Kind: UnboundFunction, Name: head}
	}
	var alternatives []error
	for _, ov := range overloads {
		if len(ov.Input) != len(args) {
			alternatives = append(alternatives, &TypeError{Kind: Arity, Name: head, Expected: len(ov.Input), Got: len(args)})
			continue
		}
		trial := NewSolver(s.ti)
		for k, v := range s.subs {
			trial.subs[k] = v
		}
		ok := true
		for i, arg := range args {
			if err := trial.bind(arg, ov.Input[i]); err != nil {
				alternatives = append(alternatives, err)
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if err := trial.bind(name, ov.Output); err != nil {
			alternatives = append(alternatives, err)
			continue
		}
		s.subs = trial.subs
		return nil
	}
	if len(alternatives) == 0 {
		return &TypeError{Kind: NoMatchingPrimitive, Name: head}
	}
	return &TypeError{Kind: AllAlternativeFailed, Name: head, Alternatives: alternatives}
}

func (s *Solver) checkAction(a core.NormAction) error {
	switch n := a.(type) {
	case *core.LetLit:
		return s.bind(n.Name, litSort(n.Lit))
	case *core.LetVar:
		return s.unify(n.Name, n.Of)
	case *core.Let:
		if ft, ok := s.ti.FuncTypes[n.Head]; ok {
			if len(ft.Input) != len(n.Args) {
				return &TypeError{Kind: Arity, Name: n.Head, Expected: len(ft.Input), Got: len(n.Args)}
			}
			for i, arg := range n.Args {
				if err := s.bind(arg, ft.Input[i]); err != nil {
					return err
				}
			}
			return s.bind(n.Name, ft.Output)
		}
		return s.checkPrimitive(n.Name, n.Head, n.Args)
	case *core.Set:
		ft, ok := s.ti.FuncTypes[n.Func]
		if !ok {
			return &TypeError{Kind: UnboundFunction, Name: n.Func}
		}
		if ft.IsDatatype {
			return &TypeError{Kind: SetDatatype, Name: n.Func}
		}
		if len(ft.Input) != len(n.Args) {
			return &TypeError{Kind: Arity, Name: n.Func, Expected: len(ft.Input), Got: len(n.Args)}
		}
		for i, arg := range n.Args {
			if err := s.bind(arg, ft.Input[i]); err != nil {
				return err
			}
		}
		return s.bind(n.Rhs, ft.Output)
	case *core.Delete:
		ft, ok := s.ti.FuncTypes[n.Func]
		if !ok {
			return &TypeError{Kind: UnboundFunction, Name: n.Func}
		}
		for i, arg := range n.Args {
			if i < len(ft.Input) {
				if err := s.bind(arg, ft.Input[i]); err != nil {
					return err
				}
			}
		}
		return nil
	case *core.Union:
		return s.unify(n.Lhs, n.Rhs)
	case *core.Panic:
		return nil
	default:
		return nil
	}
}
