package resolve

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/schema"
)

// DefaultPrimitives returns the built-in primitive type names.
func DefaultPrimitives() []string {
	return []string{"void", "Long", "long", "Boolean", "boolean", "Date", "Integer", "int", "String"}
}

// PrimitiveStrategy resolves the given names to primitives.
func PrimitiveStrategy(names []string) Strategy {
	table := make(map[string]*Primitive, len(names))
	for _, n := range names {
		table[n] = NewPrimitive(n)
	}
	return StrategyFunc(func(_ *Chain, name string) (Type, bool) {
		p, ok := table[name]
		if !ok {
			return nil, false
		}
		return p, true
	})
}

// ExplicitStrategy resolves names matching the simple name of one of the
// candidates. Earlier candidates win.
func ExplicitStrategy(candidates ...*Named) Strategy {
	table := make(map[string]*Named, len(candidates))
	for _, n := range candidates {
		if _, ok := table[n.Name()]; !ok {
			table[n.Name()] = n
		}
	}
	return StrategyFunc(func(_ *Chain, name string) (Type, bool) {
		n, ok := table[name]
		if !ok {
			return nil, false
		}
		return n, true
	})
}

// StandardContainers resolves the collection containers usable in generics.
func StandardContainers() Strategy {
	return ExplicitStrategy(
		NewNamed("List", "java.util"),
		NewNamed("Set", "java.util"),
	)
}

var genericForms = []*regexp.Regexp{
	regexp.MustCompile(`^(\w+)<(\w+)>$`),
	regexp.MustCompile(`^(\w+)<\? extends (\w+)>$`),
}

// GenericStrategy resolves "Container<Param>" and "Container<? extends Param>".
// Both parts are resolved through the chain the strategy runs in.
func GenericStrategy() Strategy {
	return StrategyFunc(func(c *Chain, name string) (Type, bool) {
		for _, re := range genericForms {
			m := re.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			container, ok := c.TryResolve(m[1])
			if !ok {
				return nil, false
			}
			param, ok := c.TryResolve(m[2])
			if !ok {
				return nil, false
			}
			return NewGeneric(name, container, param), true
		}
		return nil, false
	})
}

// NamedNodeStrategy resolves entity and enum names declared in the project.
// The current module is searched first, then the other modules in declaration
// order. Within a module, entities take precedence over enums.
func NamedNodeStrategy(project *schema.Project, current *schema.Module) Strategy {
	return NamedNodeStrategyIn(project, current, func(m *schema.Module) string { return m.Package })
}

// NamedNodeStrategyIn is like NamedNodeStrategy, but places the types of each
// module in the package returned by pkg.
func NamedNodeStrategyIn(project *schema.Project, current *schema.Module, pkg func(*schema.Module) string) Strategy {
	modules := make([]*schema.Module, 0, len(project.Modules))
	if current != nil {
		modules = append(modules, current)
	}
	for _, m := range project.Modules {
		if m != current {
			modules = append(modules, m)
		}
	}
	return StrategyFunc(func(c *Chain, name string) (Type, bool) {
		var found Type
		for _, m := range modules {
			t := lookupNode(m, pkg(m), name)
			switch {
			case t == nil:
			case found == nil:
				found = t
			default:
				c.logger.Warn("type name declared in several modules, keeping the first match",
					zap.String("name", name),
					zap.String("kept", found.FullName()),
					zap.String("ignored", t.FullName()),
				)
			}
		}
		return found, found != nil
	})
}

func lookupNode(m *schema.Module, pkg, name string) Type {
	if e := m.Entity(name); e != nil {
		return NewEntityRef(e, pkg)
	}
	if e := m.Enum(name); e != nil {
		return NewEnum(e, pkg)
	}
	return nil
}

// ForModule returns the default chain for fields declared in module m:
// primitives, containers, generics and then project entities and enums.
func ForModule(project *schema.Project, m *schema.Module, opts ...Option) *Chain {
	return NewChain([]Strategy{
		PrimitiveStrategy(DefaultPrimitives()),
		StandardContainers(),
		GenericStrategy(),
		NamedNodeStrategy(project, m),
	}, opts...)
}
