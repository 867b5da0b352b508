package errors

import (
	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/elaborate"
	"github.com/sunholo/eggolog/internal/types"
)

// Stable diagnostic codes for the type-resolution taxonomy (spec.md
// §7), one per types.Kind, following the teacher's codes.go convention
// of a flat constant block keyed by phase prefix (TYP for every
// TypeError; DSG for desugar-time structural errors that never reach
// the type resolver, such as an Include the desugarer does not expand).
const (
	CodeArity                 = "TYP001"
	CodeMismatch              = "TYP002"
	CodeTooManyLiterals       = "TYP003"
	CodeUnbound               = "TYP004"
	CodeUndefinedSort         = "TYP005"
	CodeUnboundFunction       = "TYP006"
	CodeFunctionAlreadyBound  = "TYP007"
	CodeFunctionAfterPush     = "TYP008"
	CodeSetDatatype           = "TYP009"
	CodeSortAfterPush         = "TYP010"
	CodeGlobalAlreadyBound    = "TYP011"
	CodeLocalAlreadyBound     = "TYP012"
	CodeSortAlreadyBound      = "TYP013"
	CodePrimitiveAlreadyBound = "TYP014"
	CodeTypeMismatch          = "TYP015"
	CodePresortNotFound       = "TYP016"
	CodeUnitVar               = "TYP017"
	CodeInferenceFailure      = "TYP018"
	CodeNoMatchingPrimitive   = "TYP019"
	CodeAlreadyDefined        = "TYP020"
	CodeAllAlternativeFailed  = "TYP021"

	CodeBadInclude = "DSG001"
)

var kindCodes = map[types.Kind]string{
	types.Arity:                 CodeArity,
	types.Mismatch:              CodeMismatch,
	types.TooManyLiterals:       CodeTooManyLiterals,
	types.Unbound:               CodeUnbound,
	types.UndefinedSort:         CodeUndefinedSort,
	types.UnboundFunction:       CodeUnboundFunction,
	types.FunctionAlreadyBound:  CodeFunctionAlreadyBound,
	types.FunctionAfterPush:     CodeFunctionAfterPush,
	types.SetDatatype:           CodeSetDatatype,
	types.SortAfterPush:         CodeSortAfterPush,
	types.GlobalAlreadyBound:    CodeGlobalAlreadyBound,
	types.LocalAlreadyBound:     CodeLocalAlreadyBound,
	types.SortAlreadyBound:      CodeSortAlreadyBound,
	types.PrimitiveAlreadyBound: CodePrimitiveAlreadyBound,
	types.TypeMismatch:          CodeTypeMismatch,
	types.PresortNotFound:       CodePresortNotFound,
	types.UnitVar:               CodeUnitVar,
	types.InferenceFailure:      CodeInferenceFailure,
	types.NoMatchingPrimitive:   CodeNoMatchingPrimitive,
	types.AlreadyDefined:        CodeAlreadyDefined,
	types.AllAlternativeFailed:  CodeAllAlternativeFailed,
}

// FromBadInclude renders an *elaborate.BadIncludeError as a Report.
func FromBadInclude(err *elaborate.BadIncludeError) *Report {
	return &Report{
		Schema:  "eggolog.error/v1",
		Code:    CodeBadInclude,
		Phase:   "desugar",
		Message: err.Error(),
		Data:    map[string]any{"path": err.Path},
	}
}

// FromTypeError renders a *types.TypeError as a Report, assigning its
// stable code from kindCodes.
func FromTypeError(err *types.TypeError) *Report {
	code, ok := kindCodes[err.Kind]
	if !ok {
		code = "TYP000"
	}
	data := map[string]any{"kind": err.Kind.String()}
	if err.Name != "" {
		data["name"] = string(err.Name)
	}
	span := ast.Span{Start: err.Pos, End: err.Pos}
	return &Report{
		Schema:  "eggolog.error/v1",
		Code:    code,
		Phase:   "typecheck",
		Message: err.Error(),
		Span:    &span,
		Data:    data,
	}
}
