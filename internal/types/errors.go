package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/eggolog/internal/ast"
)

// Kind discriminates the TypeError taxonomy of spec.md §7, ported
// variant-for-variant from original_source/src/typechecking.rs's
// TypeError enum.
type Kind int

const (
	Arity Kind = iota
	Mismatch
	TooManyLiterals
	Unbound
	UndefinedSort
	UnboundFunction
	FunctionAlreadyBound
	FunctionAfterPush
	SetDatatype
	SortAfterPush
	GlobalAlreadyBound
	LocalAlreadyBound
	SortAlreadyBound
	PrimitiveAlreadyBound
	TypeMismatch
	PresortNotFound
	UnitVar
	InferenceFailure
	NoMatchingPrimitive
	AlreadyDefined
	AllAlternativeFailed
)

var kindNames = map[Kind]string{
	Arity:                 "Arity",
	Mismatch:              "Mismatch",
	TooManyLiterals:       "TooManyLiterals",
	Unbound:               "Unbound",
	UndefinedSort:         "UndefinedSort",
	UnboundFunction:       "UnboundFunction",
	FunctionAlreadyBound:  "FunctionAlreadyBound",
	FunctionAfterPush:     "FunctionAfterPush",
	SetDatatype:           "SetDatatype",
	SortAfterPush:         "SortAfterPush",
	GlobalAlreadyBound:    "GlobalAlreadyBound",
	LocalAlreadyBound:     "LocalAlreadyBound",
	SortAlreadyBound:      "SortAlreadyBound",
	PrimitiveAlreadyBound: "PrimitiveAlreadyBound",
	TypeMismatch:          "TypeMismatch",
	PresortNotFound:       "PresortNotFound",
	UnitVar:               "UnitVar",
	InferenceFailure:      "InferenceFailure",
	NoMatchingPrimitive:   "NoMatchingPrimitive",
	AlreadyDefined:        "AlreadyDefined",
	AllAlternativeFailed:  "AllAlternativeFailed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// TypeError is the single error type every failure in this package
// returns, discriminated by Kind. Name/Expected/Got/Sorts are populated
// as relevant to the Kind; Alternatives carries the per-candidate
// failures an AllAlternativeFailed aggregates.
type TypeError struct {
	Kind         Kind
	Name         ast.Symbol
	Expected     int
	Got          int
	Sorts        []ast.Symbol
	Pos          ast.Pos
	Alternatives []error
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case Arity:
		return fmt.Sprintf("%s: expected %d arguments, got %d", e.Name, e.Expected, e.Got)
	case Mismatch:
		return fmt.Sprintf("%s: sort mismatch among %v", e.Name, e.Sorts)
	case TooManyLiterals:
		return fmt.Sprintf("%s: too many literal arguments", e.Name)
	case Unbound:
		return fmt.Sprintf("unbound variable %s", e.Name)
	case UndefinedSort:
		return fmt.Sprintf("undefined sort %s", e.Name)
	case UnboundFunction:
		return fmt.Sprintf("unbound function %s", e.Name)
	case FunctionAlreadyBound:
		return fmt.Sprintf("function %s already declared", e.Name)
	case FunctionAfterPush:
		return fmt.Sprintf("function %s declared after push", e.Name)
	case SetDatatype:
		return fmt.Sprintf("cannot set a datatype constructor %s", e.Name)
	case SortAfterPush:
		return fmt.Sprintf("sort %s declared after push", e.Name)
	case GlobalAlreadyBound:
		return fmt.Sprintf("global %s already declared", e.Name)
	case LocalAlreadyBound:
		return fmt.Sprintf("local %s already bound", e.Name)
	case SortAlreadyBound:
		return fmt.Sprintf("sort %s already declared", e.Name)
	case PrimitiveAlreadyBound:
		return fmt.Sprintf("primitive %s already declared", e.Name)
	case TypeMismatch:
		return fmt.Sprintf("%s: expected sort %v, inferred %v", e.Name, e.Sorts, e.Sorts)
	case PresortNotFound:
		return fmt.Sprintf("presort %s not found", e.Name)
	case UnitVar:
		return fmt.Sprintf("variable %s has Unit sort", e.Name)
	case InferenceFailure:
		return fmt.Sprintf("could not infer a sort for %s", e.Name)
	case NoMatchingPrimitive:
		return fmt.Sprintf("no overload of %s matches argument sorts %v", e.Name, e.Sorts)
	case AlreadyDefined:
		return fmt.Sprintf("%s already defined", e.Name)
	case AllAlternativeFailed:
		msgs := make([]string, len(e.Alternatives))
		for i, alt := range e.Alternatives {
			msgs[i] = alt.Error()
		}
		return fmt.Sprintf("%s: every overload failed: [%s]", e.Name, strings.Join(msgs, "; "))
	default:
		return "type error"
	}
}
