package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig(newViper(), "")
		require.NoError(t, err)
		assert.Equal(t, "model.yaml", cfg.Model)
		assert.Equal(t, "gen", cfg.Target)
		assert.Equal(t, gen.DefaultPackage, cfg.Package)
		assert.Equal(t, gen.DefaultHeader, cfg.Header)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("MODELGEN_TARGET", "out")
		t.Setenv("MODELGEN_FEATURES", "jpa,golang")
		t.Setenv("MODELGEN_DATABASE_DSN", "file:x.db")
		cfg, err := LoadConfig(newViper(), "")
		require.NoError(t, err)
		assert.Equal(t, "out", cfg.Target)
		assert.Equal(t, []string{"jpa", "golang"}, splitList(cfg.Features))
		assert.Equal(t, "file:x.db", cfg.Database.DSN)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "modelgen.yaml")
		require.NoError(t, os.WriteFile(path, []byte("target: build\nworkers: 2\ndatabase:\n  dialect: postgres\n"), 0o644))
		cfg, err := LoadConfig(newViper(), path)
		require.NoError(t, err)
		assert.Equal(t, "build", cfg.Target)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, "postgres", cfg.Database.Dialect)
	})
}

func TestGenOptions(t *testing.T) {
	cfg := &Config{Target: "out", Package: "model", Features: []string{"golang, snapshot"}, Mixins: []string{"id"}, Workers: 3}
	opts, err := cfg.GenOptions(zap.NewNop())
	require.NoError(t, err)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	var names []string
	for _, f := range c.Features {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"golang", "snapshot"}, names)
	assert.Equal(t, 3, c.Workers)
	assert.Len(t, c.ModelVisitors, 1)

	c, err = gen.NewConfig(mustOptions(t, &Config{Target: "out"})...)
	require.NoError(t, err)
	enabled, err := c.FeatureEnabled("jpa")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func mustOptions(t *testing.T, cfg *Config) []gen.Option {
	t.Helper()
	opts, err := cfg.GenOptions(zap.NewNop())
	require.NoError(t, err)
	return opts
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", " c "}))
	assert.Nil(t, splitList(nil))
}
