package resolve

import (
	"github.com/syssam/modelgen/schema"
)

// Type is a resolved semantic type. The set of implementations is closed:
// *Primitive, *Named, *Generic, *Enum and *EntityRef.
type Type interface {
	// Name returns the simple name, or the raw lexical form for generics.
	Name() string
	// Package returns the package path. Empty for primitives and generics.
	Package() string
	// FullName returns the package-qualified name used for equality.
	FullName() string
	// Imports returns the fully-qualified names a source file referencing
	// this type needs to import.
	Imports() []string

	sealed()
}

type (
	// Primitive is a built-in type that needs no import.
	Primitive struct {
		name string
	}

	// Named is a type known by name and package, e.g. a container class.
	Named struct {
		name string
		pkg  string
	}

	// Generic is a container parameterized with a single type argument.
	Generic struct {
		raw       string
		Container Type
		Parameter Type
	}

	// Enum references an enum declared in the project model.
	Enum struct {
		pkg string
		Def *schema.Enum
	}

	// EntityRef references an entity declared in the project model.
	EntityRef struct {
		pkg string
		Def *schema.Entity
	}
)

// Void is the primitive used as the return type of methods returning nothing.
var Void Type = NewPrimitive("void")

// NewPrimitive returns a primitive type.
func NewPrimitive(name string) *Primitive { return &Primitive{name: name} }

// NewNamed returns a named type in the given package.
func NewNamed(name, pkg string) *Named { return &Named{name: name, pkg: pkg} }

// NewGeneric returns a generic type. raw is the lexical form it was resolved
// from, e.g. "List<Item>".
func NewGeneric(raw string, container, param Type) *Generic {
	return &Generic{raw: raw, Container: container, Parameter: param}
}

// NewEnum returns a reference to an enum declared in a module with package pkg.
func NewEnum(def *schema.Enum, pkg string) *Enum { return &Enum{Def: def, pkg: pkg} }

// NewEntityRef returns a reference to an entity declared in a module with package pkg.
func NewEntityRef(def *schema.Entity, pkg string) *EntityRef {
	return &EntityRef{Def: def, pkg: pkg}
}

func (t *Primitive) Name() string      { return t.name }
func (t *Primitive) Package() string   { return "" }
func (t *Primitive) FullName() string  { return t.name }
func (t *Primitive) Imports() []string { return nil }
func (t *Primitive) String() string    { return t.name }
func (*Primitive) sealed()             {}

func (t *Named) Name() string      { return t.name }
func (t *Named) Package() string   { return t.pkg }
func (t *Named) FullName() string  { return qualify(t.pkg, t.name) }
func (t *Named) Imports() []string { return importOf(t) }
func (t *Named) String() string    { return t.FullName() }
func (*Named) sealed()             {}

// Name returns the raw lexical form, e.g. "List<Item>".
func (t *Generic) Name() string     { return t.raw }
func (t *Generic) Package() string  { return "" }
func (t *Generic) FullName() string { return t.raw }
func (t *Generic) String() string   { return t.raw }
func (*Generic) sealed()            {}

// Imports returns the parameter imports followed by the container imports.
func (t *Generic) Imports() []string {
	imports := append([]string(nil), t.Parameter.Imports()...)
	return append(imports, t.Container.Imports()...)
}

func (t *Enum) Name() string      { return t.Def.Name }
func (t *Enum) Package() string   { return t.pkg }
func (t *Enum) FullName() string  { return qualify(t.pkg, t.Def.Name) }
func (t *Enum) Imports() []string { return importOf(t) }
func (t *Enum) String() string    { return t.FullName() }
func (*Enum) sealed()             {}

func (t *EntityRef) Name() string      { return t.Def.Name }
func (t *EntityRef) Package() string   { return t.pkg }
func (t *EntityRef) FullName() string  { return qualify(t.pkg, t.Def.Name) }
func (t *EntityRef) Imports() []string { return importOf(t) }
func (t *EntityRef) String() string    { return t.FullName() }
func (*EntityRef) sealed()             {}

// Equal reports whether two types have the same full name.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.FullName() == b.FullName()
}

// IsPrimitive reports whether t is a primitive with the given name.
// An empty name matches any primitive.
func IsPrimitive(t Type, name string) bool {
	p, ok := t.(*Primitive)
	return ok && (name == "" || p.name == name)
}

// Entity returns the entity t refers to, either directly or as the parameter
// of a generic. The second value reports whether t is a collection.
func Entity(t Type) (e *schema.Entity, collection bool) {
	switch t := t.(type) {
	case *EntityRef:
		return t.Def, false
	case *Generic:
		if ref, ok := t.Parameter.(*EntityRef); ok {
			return ref.Def, true
		}
	}
	return nil, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// importOf returns the full name of t, or nothing for types declared without
// a package, which live next to the file referencing them.
func importOf(t Type) []string {
	if t.Package() == "" {
		return nil
	}
	return []string{t.FullName()}
}
