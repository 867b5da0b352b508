// Package types implements the type-resolution pass: sort registration,
// function/primitive signature bookkeeping, and the constraint-solving
// overload resolver that assigns a sort to every symbol bound in a
// normalized rule, rejecting programs with unresolvable or ambiguous
// sort assignments. Grounded on original_source/src/typechecking.rs's
// TypeInfo/FuncType/TypeError triad, restructured into the teacher's
// one-file-per-concern package layout.
package types

import "github.com/sunholo/eggolog/internal/ast"

// Sort is a registered type name a value can belong to.
type Sort struct {
	Name ast.Symbol
}

// PreSort is a parametric sort family (Map, Set, Vec) whose concrete
// instantiations are declared with a `sort` command. This front end
// only tracks presort registration metadata — it never needs to reason
// about the container's runtime behavior (spec.md §1).
type PreSort struct {
	Name ast.Symbol
}

// Overload is one signature a primitive or function can be called with.
type Overload struct {
	Input  []ast.Symbol
	Output ast.Symbol
}

// FuncType is the full signature of a declared function or datatype
// variant: the teacher's FuncType analogue, ported from
// original_source/src/typechecking.rs's FuncType.
type FuncType struct {
	Name       ast.Symbol
	Input      []ast.Symbol
	Output     ast.Symbol
	IsDatatype bool
	HasDefault bool
}

// TypeInfo is the registry consulted while resolving sorts: every
// registered sort, presort, primitive overload set, function signature,
// and global variable's sort.
type TypeInfo struct {
	Sorts       map[ast.Symbol]Sort
	PreSorts    map[ast.Symbol]PreSort
	Primitives  map[ast.Symbol][]Overload
	FuncTypes   map[ast.Symbol]FuncType
	GlobalTypes map[ast.Symbol]ast.Symbol
}

// NewTypeInfo builds a TypeInfo pre-populated with the built-in scalar
// sorts and presort names original_source/src/typechecking.rs registers
// in TypeInfo's Default impl: Unit, String, bool, i64, f64, Rational as
// sorts, and Map/Set/Vec as presort names, plus overloads for the
// arithmetic/comparison/boolean primitives DefaultPrimitives recognizes.
func NewTypeInfo() *TypeInfo {
	ti := &TypeInfo{
		Sorts:       map[ast.Symbol]Sort{},
		PreSorts:    map[ast.Symbol]PreSort{},
		Primitives:  map[ast.Symbol][]Overload{},
		FuncTypes:   map[ast.Symbol]FuncType{},
		GlobalTypes: map[ast.Symbol]ast.Symbol{},
	}
	for _, s := range []ast.Symbol{"Unit", "String", "bool", "i64", "f64", "Rational"} {
		ti.Sorts[s] = Sort{Name: s}
	}
	for _, p := range []ast.Symbol{"Map", "Set", "Vec"} {
		ti.PreSorts[p] = PreSort{Name: p}
	}

	numeric := []ast.Symbol{"i64", "f64"}
	for _, n := range numeric {
		for _, op := range []ast.Symbol{"+", "-", "*", "/", "%"} {
			ti.Primitives[op] = append(ti.Primitives[op], Overload{Input: []ast.Symbol{n, n}, Output: n})
		}
		for _, op := range []ast.Symbol{"<", ">", "<=", ">="} {
			ti.Primitives[op] = append(ti.Primitives[op], Overload{Input: []ast.Symbol{n, n}, Output: "bool"})
		}
	}
	ti.Primitives["="] = []Overload{{Input: []ast.Symbol{"i64", "i64"}, Output: "bool"}}
	ti.Primitives["not-equal"] = []Overload{{Input: []ast.Symbol{"i64", "i64"}, Output: "bool"}}
	ti.Primitives["not"] = []Overload{{Input: []ast.Symbol{"bool"}, Output: "bool"}}
	ti.Primitives["and"] = []Overload{{Input: []ast.Symbol{"bool", "bool"}, Output: "bool"}}
	ti.Primitives["or"] = []Overload{{Input: []ast.Symbol{"bool", "bool"}, Output: "bool"}}
	ti.Primitives["min"] = []Overload{{Input: []ast.Symbol{"i64", "i64"}, Output: "i64"}}
	ti.Primitives["max"] = []Overload{{Input: []ast.Symbol{"i64", "i64"}, Output: "i64"}}
	ti.Primitives["value-eq"] = []Overload{{Input: []ast.Symbol{"i64", "i64"}, Output: "bool"}}
	return ti
}

// IsPrimitive reports whether name has at least one registered
// primitive overload. internal/elaborate's Desugar.IsPrimitive is wired
// to this by cmd/eggolog.
func (ti *TypeInfo) IsPrimitive(name ast.Symbol) bool {
	_, ok := ti.Primitives[name]
	return ok
}

// DeclareSort registers a concrete sort, either bare (no presort) or
// instantiated from a presort (the presort itself is not re-validated
// beyond existing, per spec.md §1's "core only consults registration
// metadata").
func (ti *TypeInfo) DeclareSort(name, presort ast.Symbol) error {
	if _, exists := ti.Sorts[name]; exists {
		return &TypeError{Kind: SortAlreadyBound, Name: name}
	}
	if presort != "" {
		if _, ok := ti.PreSorts[presort]; !ok {
			return &TypeError{Kind: PresortNotFound, Name: presort}
		}
	}
	ti.Sorts[name] = Sort{Name: name}
	return nil
}

// DeclareFunction registers a function or datatype variant's signature.
func (ti *TypeInfo) DeclareFunction(ft FuncType) error {
	if _, exists := ti.FuncTypes[ft.Name]; exists {
		return &TypeError{Kind: FunctionAlreadyBound, Name: ft.Name}
	}
	if _, exists := ti.Primitives[ft.Name]; exists {
		return &TypeError{Kind: PrimitiveAlreadyBound, Name: ft.Name}
	}
	ti.FuncTypes[ft.Name] = ft
	return nil
}

// DeclareGlobal registers a top-level variable's sort (from `declare` or
// `define`).
func (ti *TypeInfo) DeclareGlobal(name, sort ast.Symbol) error {
	if _, exists := ti.GlobalTypes[name]; exists {
		return &TypeError{Kind: GlobalAlreadyBound, Name: name}
	}
	ti.GlobalTypes[name] = sort
	return nil
}

// ReservedType resolves the reserved `rule-proof` identifier to the
// Proof__ sort (spec.md §6), but only when that sort has actually been
// registered — it is not registered by default, matching the fact that
// proof generation is disabled in this build (SPEC_FULL.md §4).
func (ti *TypeInfo) ReservedType(name ast.Symbol) (ast.Symbol, bool) {
	if name != "rule-proof" {
		return "", false
	}
	if _, ok := ti.Sorts["Proof__"]; ok {
		return "Proof__", true
	}
	return "", false
}
