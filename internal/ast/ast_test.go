package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/eggolog/internal/ast"
)

func TestLiteralString(t *testing.T) {
	assert.Equal(t, "3", ast.IntLiteral(3).String())
	assert.Equal(t, `"hi"`, ast.StringLiteral("hi").String())
	assert.Equal(t, "true", ast.BoolLiteral(true).String())
	assert.Equal(t, "()", ast.UnitLiteral().String())
}

func TestCallEqual(t *testing.T) {
	a := &ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Lit{Value: ast.IntLiteral(1)}}}
	b := &ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Lit{Value: ast.IntLiteral(1)}}}
	c := &ast.Call{Head: "f", Children: []ast.Expr{&ast.Var{Name: "y"}, &ast.Lit{Value: ast.IntLiteral(1)}}}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestExprString(t *testing.T) {
	e := &ast.Call{Head: "plus", Children: []ast.Expr{&ast.Var{Name: "x"}, &ast.Var{Name: "y"}}}
	assert.Equal(t, "(plus x y)", e.String())
}

func TestIsVar(t *testing.T) {
	name, ok := ast.IsVar(&ast.Var{Name: "x"})
	assert.True(t, ok)
	assert.Equal(t, ast.Symbol("x"), name)

	_, ok = ast.IsVar(&ast.Lit{Value: ast.IntLiteral(1)})
	assert.False(t, ok)
}
