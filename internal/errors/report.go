// Package errors provides a structured, JSON-serializable error report
// format plus the stable diagnostic codes assigned to this module's
// TypeError taxonomy, adapted from the teacher's internal/errors
// package to this domain's TYP/DSG code space.
package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/eggolog/internal/ast"
)

// Report is the canonical structured error shape. Every error builder
// in this package returns one as a *Report; WrapReport wraps it as a
// ReportError so it survives errors.As() unwrapping.
type Report struct {
	Schema  string         `json:"schema"` // always "eggolog.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"` // "desugar" or "typecheck"
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is an optional suggested remediation attached to a Report.
type Fix struct {
	Message string `json:"message"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r as JSON, indented unless compact is set.
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// NewGeneric builds a Report for an error with no more specific code.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "eggolog.error/v1",
		Code:    "GEN001",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
