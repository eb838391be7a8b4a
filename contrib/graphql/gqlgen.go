package graphql

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// gqlgen scalar bindings of the generated schema. Identifiers bind to both
// string and int64 ids since primary fields are usually Long.
var scalarBindings = map[string][]string{
	"ID":       {"github.com/99designs/gqlgen/graphql.ID", "github.com/99designs/gqlgen/graphql.Int64"},
	TimeScalar: {"github.com/99designs/gqlgen/graphql.Time"},
}

// GQLGenConfig is the part of gqlgen.yml written next to the generated
// schema. Other gqlgen settings keep their defaults.
type GQLGenConfig struct {
	Schema   StringList             `yaml:"schema,omitempty"`
	Exec     PackageConfig          `yaml:"exec,omitempty"`
	Model    PackageConfig          `yaml:"model,omitempty"`
	Resolver ResolverConfig         `yaml:"resolver,omitempty"`
	Autobind []string               `yaml:"autobind,omitempty"`
	Models   map[string]TypeBinding `yaml:"models,omitempty"`
}

// PackageConfig places a generated gqlgen file.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// ResolverConfig places the resolver stubs.
type ResolverConfig struct {
	Package  string `yaml:"package,omitempty"`
	Layout   string `yaml:"layout,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
	Template string `yaml:"filename_template,omitempty"`
}

// TypeBinding lists the Go types a GraphQL type binds to.
type TypeBinding struct {
	Model StringList `yaml:"model,omitempty"`
}

// StringList is a YAML value written as a scalar when it holds one string
// and as a sequence otherwise.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("graphql: expected string or list at line %d", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// NewGQLGenConfig returns the configuration of a gqlgen project serving the
// schema at schemaPath. The packages in autobind, usually those of the
// generated Go types, are searched for types named after the schema types.
func NewGQLGenConfig(schemaPath string, autobind ...string) *GQLGenConfig {
	c := &GQLGenConfig{
		Exec:  PackageConfig{Filename: "generated/generated.go", Package: "generated"},
		Model: PackageConfig{Filename: "model/models_gen.go", Package: "model"},
		Resolver: ResolverConfig{
			Package:  "resolver",
			Layout:   "follow-schema",
			Dir:      "resolver",
			Template: "{name}.resolvers.go",
		},
	}
	c.AddSchema(schemaPath)
	for _, pkg := range autobind {
		c.AddAutobind(pkg)
	}
	for _, name := range []string{"ID", TimeScalar} {
		for _, model := range scalarBindings[name] {
			c.Bind(name, model)
		}
	}
	return c
}

// AddSchema adds a schema file, once.
func (c *GQLGenConfig) AddSchema(path string) {
	if path != "" && !slices.Contains(c.Schema, path) {
		c.Schema = append(c.Schema, path)
	}
}

// AddAutobind adds an autobind package, once.
func (c *GQLGenConfig) AddAutobind(pkg string) {
	if pkg != "" && !slices.Contains(c.Autobind, pkg) {
		c.Autobind = append(c.Autobind, pkg)
	}
}

// Bind binds the GraphQL type name to the Go type model.
func (c *GQLGenConfig) Bind(name, model string) {
	if c.Models == nil {
		c.Models = make(map[string]TypeBinding)
	}
	b := c.Models[name]
	if !slices.Contains(b.Model, model) {
		b.Model = append(b.Model, model)
	}
	c.Models[name] = b
}

// Marshal encodes the configuration with a two space indent.
func (c *GQLGenConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("graphql: encode gqlgen config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("graphql: encode gqlgen config: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadGQLGenConfig reads a gqlgen.yml file. A missing file is an empty
// configuration.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	c := &GQLGenConfig{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("graphql: read gqlgen config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("graphql: parse gqlgen config: %w", err)
		}
	}
	if c.Models == nil {
		c.Models = make(map[string]TypeBinding)
	}
	return c, nil
}

// SaveGQLGenConfig writes c to path, creating its directory.
func SaveGQLGenConfig(path string, c *GQLGenConfig) error {
	b, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("graphql: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
