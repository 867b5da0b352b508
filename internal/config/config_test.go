package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/eggolog/internal/config"
)

func TestDefault(t *testing.T) {
	opts := config.Default()
	assert.Equal(t, 3, opts.NumberUnderscores)
	assert.Equal(t, config.DefaultHighCost, opts.DeclareCost)
	assert.True(t, opts.SeminaiveEnabled)
}

func TestLoadOverridesDefaultsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("number_underscores: 1\nseminaive_enabled: false\n"), 0o644))

	opts, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.NumberUnderscores)
	assert.False(t, opts.SeminaiveEnabled)
	// declare_cost was omitted, so it keeps the default.
	assert.Equal(t, config.DefaultHighCost, opts.DeclareCost)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
