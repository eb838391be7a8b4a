package gen

import (
	"errors"
	"runtime"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/relation"
)

// DefaultHeader is written at the top of every generated source file.
const DefaultHeader = "// Code generated by modelgen, DO NOT EDIT."

// DefaultPackage is the sub-package holding entity and enum classes.
const DefaultPackage = "model"

// Config holds the generation settings.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is appended to the package of each module to form the package
	// of its generated classes. Empty means the module package itself.
	Package string
	// Header is the comment written at the top of each source file.
	Header string
	// Features holds the enabled feature-flags.
	Features []Feature
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Logger receives pipeline logs. A nil Logger discards them.
	Logger *zap.Logger
	// Renderer renders class and enum contexts. Defaults to the embedded
	// Java templates.
	Renderer Renderer
	// EnumMaxLength is the column length of enum fields.
	EnumMaxLength int
	// ClassVisitors run on every entity class after the feature visitors.
	ClassVisitors []ClassVisitor
	// ModelVisitors run on the project model before the graph is built.
	ModelVisitors []ModelVisitor
	// GoImportPrefix is the import path of the go output directory. Go types
	// referencing another package are only qualified when it is set.
	GoImportPrefix string
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the sub-package of generated classes, e.g. "model" puts
// the entities of module "com.example" in "com.example.model".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if strings.HasPrefix(pkg, ".") || strings.HasSuffix(pkg, ".") || strings.Contains(pkg, "/") {
			return NewConfigError("Package", pkg, "package must be a dotted name")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if f.Name == "" {
				return NewConfigError("Features", nil, "feature name cannot be empty")
			}
			if !slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == f.Name }) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithWorkers sets the number of files rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithRenderer sets the renderer of class and enum files.
func WithRenderer(r Renderer) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Renderer", nil, "renderer cannot be nil")
		}
		c.Renderer = r
		return nil
	}
}

// WithEnumMaxLength sets the column length of enum fields.
func WithEnumMaxLength(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("EnumMaxLength", n, "length must be positive")
		}
		c.EnumMaxLength = n
		return nil
	}
}

// WithClassVisitors adds visitors run on every entity class.
func WithClassVisitors(visitors ...ClassVisitor) Option {
	return func(c *Config) error {
		c.ClassVisitors = append(c.ClassVisitors, visitors...)
		return nil
	}
}

// WithModelVisitors adds visitors run on the project model.
func WithModelVisitors(visitors ...ModelVisitor) Option {
	return func(c *Config) error {
		c.ModelVisitors = append(c.ModelVisitors, visitors...)
		return nil
	}
}

// WithGoImportPrefix sets the import path of the go output directory, e.g.
// "example.com/shop/go".
func WithGoImportPrefix(prefix string) Option {
	return func(c *Config) error {
		c.GoImportPrefix = strings.TrimSuffix(prefix, "/")
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FeatureEnabled reports if the given feature name is enabled. It fails for
// names that are not known features.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name }), nil
}

// logger returns the pipeline logger, or a no-op logger when none is set.
func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// relationConfig returns the relation engine settings.
func (c *Config) relationConfig() relation.Config {
	cfg := relation.DefaultConfig()
	if c.EnumMaxLength > 0 {
		cfg.EnumMaxLength = c.EnumMaxLength
	}
	return cfg
}

// NewConfig creates a new Config with the default features, workers and
// renderer, and applies the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package:       DefaultPackage,
		Header:        DefaultHeader,
		Workers:       runtime.GOMAXPROCS(0),
		Logger:        zap.NewNop(),
		EnumMaxLength: relation.DefaultEnumMaxLength,
	}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if c.Renderer == nil {
		r, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		c.Renderer = r
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
