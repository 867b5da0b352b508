package elaborate

import (
	"fmt"
	"strings"

	"github.com/sunholo/eggolog/internal/ast"
)

// FreshGen hands out strictly increasing fresh variable names of the
// form v<digits><underscores>, e.g. v0___, v1___, v2___. The underscore
// suffix (configurable, default three) keeps generated names from ever
// colliding with a user-written identifier, mirroring
// original_source/src/ast/desugar.rs's get_fresh.
type FreshGen struct {
	next        int
	underscores int
}

// NewFreshGen creates a generator whose names are suffixed with
// underscores copies of "_".
func NewFreshGen(underscores int) *FreshGen {
	return &FreshGen{underscores: underscores}
}

// Fresh returns the next fresh symbol.
func (g *FreshGen) Fresh() ast.Symbol {
	n := g.next
	g.next++
	return ast.Symbol(fmt.Sprintf("v%d%s", n, strings.Repeat("_", g.underscores)))
}

// Peek reports the counter value the next Fresh call will use, without
// consuming it.
func (g *FreshGen) Peek() int { return g.next }
