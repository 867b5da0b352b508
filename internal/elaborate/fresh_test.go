package elaborate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/eggolog/internal/elaborate"
)

func TestFreshGenMonotonic(t *testing.T) {
	g := elaborate.NewFreshGen(3)
	first := g.Fresh()
	second := g.Fresh()

	assert.Equal(t, "v0___", string(first))
	assert.Equal(t, "v1___", string(second))
	assert.NotEqual(t, first, second)
}

func TestFreshGenUnderscoreCount(t *testing.T) {
	g := elaborate.NewFreshGen(1)
	assert.Equal(t, "v0_", string(g.Fresh()))
}
