package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/relation"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultPackage, c.Package)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.Equal(t, relation.DefaultEnumMaxLength, c.EnumMaxLength)
		assert.NotNil(t, c.Logger)
		assert.IsType(t, &TemplateRenderer{}, c.Renderer)
		require.Len(t, c.Features, 1)
		assert.Equal(t, FeatureJPA.Name, c.Features[0].Name)
	})

	t.Run("first failing option aborts", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(0), WithTarget(""))
		require.Error(t, err)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Workers", cerr.Option)
	})

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithLogger(nil)) })
	})
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{"header", WithHeader("// custom"), false, func(t *testing.T, c *Config) { assert.Equal(t, "// custom", c.Header) }},
		{"empty header", WithHeader(""), false, func(t *testing.T, c *Config) { assert.Empty(t, c.Header) }},
		{"package", WithPackage("domain.model"), false, func(t *testing.T, c *Config) { assert.Equal(t, "domain.model", c.Package) }},
		{"empty package", WithPackage(""), false, func(t *testing.T, c *Config) { assert.Empty(t, c.Package) }},
		{"leading dot", WithPackage(".model"), true, nil},
		{"trailing dot", WithPackage("model."), true, nil},
		{"path", WithPackage("model/sub"), true, nil},
		{"target", WithTarget("out"), false, func(t *testing.T, c *Config) { assert.Equal(t, "out", c.Target) }},
		{"empty target", WithTarget(""), true, nil},
		{"workers", WithWorkers(3), false, func(t *testing.T, c *Config) { assert.Equal(t, 3, c.Workers) }},
		{"negative workers", WithWorkers(-1), true, nil},
		{"logger", WithLogger(zap.NewExample()), false, func(t *testing.T, c *Config) { assert.NotNil(t, c.Logger) }},
		{"nil logger", WithLogger(nil), true, nil},
		{"nil renderer", WithRenderer(nil), true, nil},
		{"enum length", WithEnumMaxLength(32), false, func(t *testing.T, c *Config) {
			assert.Equal(t, 32, c.EnumMaxLength)
			assert.Equal(t, 32, c.relationConfig().EnumMaxLength)
		}},
		{"zero enum length", WithEnumMaxLength(0), true, nil},
		{"features", WithFeatures(FeatureGolang, FeatureGolang, FeatureSnapshot), false, func(t *testing.T, c *Config) {
			require.Len(t, c.Features, 2)
			assert.Equal(t, "golang", c.Features[0].Name)
		}},
		{"unnamed feature", WithFeatures(Feature{}), true, nil},
		{"go import prefix", WithGoImportPrefix("example.com/shop/go/"), false, func(t *testing.T, c *Config) {
			assert.Equal(t, "example.com/shop/go", c.GoImportPrefix)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := tt.opt(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithWorkers(0), WithHeader("h"), WithTarget(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "Target")
	assert.Equal(t, "h", c.Header)
}

func TestFeatureEnabled(t *testing.T) {
	c := MustNewConfig(WithFeatures(FeatureGraphQL))
	enabled, err := c.FeatureEnabled("graphql")
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = c.FeatureEnabled("golang")
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = c.FeatureEnabled("grpc")
	assert.True(t, IsConfigError(err))

	f, ok := FeatureByName("snapshot")
	require.True(t, ok)
	assert.Equal(t, Experimental, f.Stage)
	assert.Equal(t, "experimental", f.Stage.String())
	assert.Equal(t, "stable", FeatureJPA.Stage.String())
}
