package gen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/relation"
	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

// Graph holds a validated project with every field resolved and classified.
// It is read-only once NewGraph returns.
type Graph struct {
	*Config
	Project *schema.Project
	// Index holds the resolved type of every field.
	Index *resolve.Index
	// Relations holds the classification of every field.
	Relations *relation.Engine

	chains  map[*schema.Module]*resolve.Chain
	modules map[*schema.Entity]*schema.Module
}

// NewGraph validates the project, resolves the type of every field with the
// chain of its module and classifies every field.
func NewGraph(c *Config, p *schema.Project) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, NewModelError("", "", "invalid project", err)
	}
	g := &Graph{
		Config:  c,
		Project: p,
		chains:  make(map[*schema.Module]*resolve.Chain, len(p.Modules)),
		modules: make(map[*schema.Entity]*schema.Module),
	}
	for _, m := range p.Modules {
		g.chains[m] = g.newChain(m)
		for _, e := range m.Entities {
			g.modules[e] = m
		}
	}
	idx, err := resolve.IndexProject(p, g.Chain)
	if err != nil {
		return nil, NewModelError("", "", "resolve types", err)
	}
	g.Index = idx
	g.Relations = relation.New(p, idx, c.relationConfig(), relation.WithLogger(c.logger()))
	if err := g.Relations.Init(); err != nil {
		return nil, NewModelError("", "", "classify fields", err)
	}
	c.logger().Debug("graph ready", zap.Int("fields", idx.Len()), zap.Int("modules", len(p.Modules)))
	return g, nil
}

func (g *Graph) newChain(m *schema.Module) *resolve.Chain {
	return resolve.NewChain([]resolve.Strategy{
		resolve.PrimitiveStrategy(resolve.DefaultPrimitives()),
		resolve.StandardContainers(),
		resolve.GenericStrategy(),
		resolve.NamedNodeStrategyIn(g.Project, m, g.PackageOf),
	}, resolve.WithLogger(g.logger()))
}

// Chain returns the resolver chain of module m.
func (g *Graph) Chain(m *schema.Module) *resolve.Chain {
	if c, ok := g.chains[m]; ok {
		return c
	}
	return g.newChain(m)
}

// PackageOf returns the package of the classes generated for module m.
func (g *Graph) PackageOf(m *schema.Module) string {
	switch {
	case g.Package == "":
		return m.Package
	case m.Package == "":
		return g.Package
	default:
		return m.Package + "." + g.Package
	}
}

// ModuleOf returns the module declaring e, or nil.
func (g *Graph) ModuleOf(e *schema.Entity) *schema.Module { return g.modules[e] }

// TypeOf returns the resolved type of f.
func (g *Graph) TypeOf(f *schema.Field) (resolve.Type, error) {
	t, ok := g.Index.Type(f)
	if !ok {
		return nil, fmt.Errorf("gen: field %s is not part of the graph", f.Name)
	}
	return t, nil
}

// EntityClass builds the class of entity e: a public serializable class with
// a private field and accessors per entity field. The primary field is used
// by equals. Feature visitors and then the configured class visitors run on
// the class in order.
func (g *Graph) EntityClass(e *schema.Entity) (*source.ClassModel, error) {
	m := g.ModuleOf(e)
	if m == nil {
		return nil, NewModelError(e.Name, "", "entity is not part of the graph", nil)
	}
	c := source.NewClass(resolve.NewEntityRef(e, g.PackageOf(m)), source.Public)
	if err := c.Implement(resolve.NewNamed("Serializable", "java.io")); err != nil {
		return nil, err
	}
	if e.Description != "" {
		if err := c.SetComment(e.Description); err != nil {
			return nil, err
		}
	}
	for _, f := range e.Fields {
		t, err := g.TypeOf(f)
		if err != nil {
			return nil, err
		}
		mod := source.Private | source.GetSet
		if f.Primary {
			mod |= source.UseEquals
		}
		if _, err := c.AddField(f.Name, t, mod); err != nil {
			return nil, NewModelError(e.Name, f.Name, "", err)
		}
	}
	for _, v := range g.classVisitors() {
		g.logger().Debug("visit class", zap.String("entity", e.Name), zap.String("visitor", fmt.Sprintf("%T", v)))
		if err := v.VisitClass(c, e, g); err != nil {
			return nil, NewGenerationError("class", e.Name, fmt.Sprintf("visitor %T failed", v), err)
		}
	}
	return c, nil
}

// EnumClass builds the enum model of enum e declared in module m.
func (g *Graph) EnumClass(m *schema.Module, e *schema.Enum) *source.EnumModel {
	return source.NewEnum(resolve.NewEnum(e, g.PackageOf(m)))
}

func (g *Graph) classVisitors() []ClassVisitor {
	var vs []ClassVisitor
	for _, f := range g.Features {
		vs = append(vs, f.Visitors...)
	}
	return append(vs, g.ClassVisitors...)
}
