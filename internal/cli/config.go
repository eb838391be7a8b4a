package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/contrib/mixin"
)

// ConfigName is the base name of the configuration file, read from the
// working directory when --config is not given.
const ConfigName = "modelgen"

// EnvPrefix prefixes the environment variables overriding the
// configuration, e.g. MODELGEN_TARGET or MODELGEN_DATABASE_DSN.
const EnvPrefix = "MODELGEN"

// Config is the configuration of the modelgen commands.
type Config struct {
	Model          string         `mapstructure:"model"`
	Target         string         `mapstructure:"target"`
	Package        string         `mapstructure:"package"`
	Header         string         `mapstructure:"header"`
	Features       []string       `mapstructure:"features"`
	Mixins         []string       `mapstructure:"mixins"`
	Workers        int            `mapstructure:"workers"`
	EnumMaxLength  int            `mapstructure:"enum_max_length"`
	GoImportPrefix string         `mapstructure:"go_import_prefix"`
	Verbose        bool           `mapstructure:"verbose"`
	Database       DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig locates the database checked by the verify command.
type DatabaseConfig struct {
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
	Schema  string `mapstructure:"schema"`
}

// newViper returns a viper instance with the defaults and the environment
// bindings of Config.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("model", "model.yaml")
	v.SetDefault("target", "gen")
	v.SetDefault("package", gen.DefaultPackage)
	v.SetDefault("header", gen.DefaultHeader)
	v.SetDefault("workers", 0)
	v.SetDefault("enum_max_length", 0)
	v.SetDefault("features", []string{})
	v.SetDefault("mixins", []string{})
	v.SetDefault("go_import_prefix", "")
	v.SetDefault("verbose", false)
	v.SetDefault("database.dialect", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.schema", "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration file, if any, into a Config. An
// explicit file must exist; the default one is optional.
func LoadConfig(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// GenOptions returns the generation options of the configuration. An empty
// feature list keeps the default features.
func (c *Config) GenOptions(log *zap.Logger) ([]gen.Option, error) {
	opts := []gen.Option{
		gen.WithTarget(c.Target),
		gen.WithPackage(c.Package),
		gen.WithHeader(c.Header),
		gen.WithGoImportPrefix(c.GoImportPrefix),
		gen.WithLogger(log),
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if c.EnumMaxLength > 0 {
		opts = append(opts, gen.WithEnumMaxLength(c.EnumMaxLength))
	}
	if names := splitList(c.Features); len(names) > 0 {
		features := make([]gen.Feature, 0, len(names))
		for _, name := range names {
			f, ok := gen.FeatureByName(name)
			if !ok {
				return nil, fmt.Errorf("unknown feature %q", name)
			}
			features = append(features, f)
		}
		opts = append(opts, func(c *gen.Config) error {
			c.Features = nil
			return nil
		}, gen.WithFeatures(features...))
	}
	if names := splitList(c.Mixins); len(names) > 0 {
		mixins, err := mixin.ByName(names...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithModelVisitors(mixin.Apply(mixins...)))
	}
	return opts, nil
}

// splitList flattens comma separated entries, as found in environment
// variables, and drops empty ones.
func splitList(list []string) []string {
	var out []string
	for _, s := range list {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// newLogger returns the console logger of the commands. Only warnings and
// errors are logged unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
