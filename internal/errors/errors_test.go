package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/eggolog/internal/ast"
	"github.com/sunholo/eggolog/internal/config"
	"github.com/sunholo/eggolog/internal/elaborate"
	ierrors "github.com/sunholo/eggolog/internal/errors"
	"github.com/sunholo/eggolog/internal/types"
)

func TestReportToJSON(t *testing.T) {
	r := &ierrors.Report{Schema: "eggolog.error/v1", Code: "TYP001", Phase: "typecheck", Message: "boom"}
	compact, err := r.ToJSON(true)
	require.NoError(t, err)
	assert.Contains(t, compact, `"code":"TYP001"`)
	assert.NotContains(t, compact, "\n")

	pretty, err := r.ToJSON(false)
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n")
}

func TestWrapReportAndAsReport(t *testing.T) {
	r := &ierrors.Report{Code: "TYP001", Message: "boom"}
	err := ierrors.WrapReport(r)
	require.Error(t, err)
	assert.Equal(t, "TYP001: boom", err.Error())

	got, ok := ierrors.AsReport(err)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = ierrors.AsReport(fmt.Errorf("plain error"))
	assert.False(t, ok)

	assert.Nil(t, ierrors.WrapReport(nil))
}

func TestNewGeneric(t *testing.T) {
	r := ierrors.NewGeneric("desugar", fmt.Errorf("bad include"))
	assert.Equal(t, "GEN001", r.Code)
	assert.Equal(t, "desugar", r.Phase)
	assert.Equal(t, "bad include", r.Message)
}

func TestFromBadInclude(t *testing.T) {
	d := elaborate.NewDesugar(config.Default(), elaborate.DefaultPrimitives)
	_, err := d.DesugarCommand(&ast.Include{Path: "lib.egg"})
	require.Error(t, err)
	bad, ok := err.(*elaborate.BadIncludeError)
	require.True(t, ok)

	r := ierrors.FromBadInclude(bad)
	assert.Equal(t, "DSG001", r.Code)
	assert.Equal(t, "desugar", r.Phase)
	assert.Equal(t, "lib.egg", r.Data["path"])
}

func TestFromTypeErrorMapsStableCodes(t *testing.T) {
	cases := []struct {
		kind types.Kind
		code string
	}{
		{types.Arity, "TYP001"},
		{types.Mismatch, "TYP002"},
		{types.AllAlternativeFailed, "TYP021"},
	}
	for _, c := range cases {
		r := ierrors.FromTypeError(&types.TypeError{Kind: c.kind, Name: "x"})
		assert.Equal(t, c.code, r.Code, "kind %s", c.kind)
		assert.Equal(t, "typecheck", r.Phase)
		require.NotNil(t, r.Span)
		assert.Equal(t, "x", r.Data["name"])
	}
}
