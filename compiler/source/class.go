package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/resolve"
)

// overrideImport is never emitted: it is implicitly visible.
const overrideImport = "java.lang.Override"

// ErrMissingBody is returned by Build when a concrete class holds a method
// without a body.
var ErrMissingBody = errors.New("source: concrete method has no body")

// Context is the key/value data handed to a renderer.
type Context map[string]any

// ClassModel is the in-memory form of a generated class or interface. It is
// mutable until Build is called.
type ClassModel struct {
	annotated
	handle       Handle
	typ          resolve.Type
	mod          Modifier
	fields       []*FieldModel
	methods      []*MethodModel
	constructors []*MethodModel
	interfaces   []string
	superclass   string
	comment      string
	equalsField  string
	hasToString  bool
	ctx          Context
}

// NewClass returns a class model of type t. Set Interface in mod for an
// interface.
func NewClass(t resolve.Type, mod Modifier) *ClassModel {
	return &ClassModel{
		annotated: annotated{state: &lifecycle{}},
		handle:    Handle(uuid.New()),
		typ:       t,
		mod:       mod,
	}
}

// Handle returns the identity of the class.
func (c *ClassModel) Handle() Handle { return c.handle }

// Type returns the class type.
func (c *ClassModel) Type() resolve.Type { return c.typ }

// Name returns the simple class name.
func (c *ClassModel) Name() string { return c.typ.Name() }

// Package returns the class package.
func (c *ClassModel) Package() string { return c.typ.Package() }

// Modifiers returns the class flags, including an abstract promotion.
func (c *ClassModel) Modifiers() Modifier { return c.mod }

// IsInterface reports whether the class is an interface.
func (c *ClassModel) IsInterface() bool { return c.mod.Has(Interface) }

// IsAbstract reports whether the class is abstract.
func (c *ClassModel) IsAbstract() bool { return c.mod.Has(Abstract) }

// Rendered reports whether Build was called.
func (c *ClassModel) Rendered() bool { return c.state.rendered }

// AddField adds a field. Get and Set flags synthesize the accessors right away,
// UseEquals makes it the equals field. On error the class is left unchanged.
func (c *ClassModel) AddField(name string, t resolve.Type, mod Modifier) (*FieldModel, error) {
	if err := c.state.mutable(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if c.Field(name) != nil {
		return nil, fmt.Errorf("source: field %q already declared in %s", name, c.Name())
	}
	f := &FieldModel{
		annotated: annotated{state: c.state},
		owner:     c.handle,
		name:      name,
		typ:       t,
		mod:       mod,
	}
	accessors, err := c.accessors(f)
	if err != nil {
		return nil, err
	}
	c.fields = append(c.fields, f)
	c.methods = append(c.methods, accessors...)
	if f.UsedInEquals() {
		c.equalsField = name
	}
	return f, nil
}

// accessors returns the getter and setter of f, not yet attached to c.
func (c *ClassModel) accessors(f *FieldModel) ([]*MethodModel, error) {
	var methods []*MethodModel
	if f.HasGet() {
		m := c.newMethod(f.GetterName(), f.typ, Public|Get)
		if err := checkName(m.name); err != nil {
			return nil, err
		}
		if err := m.SetBody(Return(f.name)); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if f.HasSet() {
		m := c.newMethod(f.SetterName(), resolve.Void, Public|Set)
		if err := checkName(m.name); err != nil {
			return nil, err
		}
		p, err := m.AddParam(f.name, f.typ)
		if err != nil {
			return nil, err
		}
		if err := m.SetBody(FieldAssign(f.name, p.Name())); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// Field returns the field with the given name, or nil.
func (c *ClassModel) Field(name string) *FieldModel {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Fields returns the fields in declaration order.
func (c *ClassModel) Fields() []*FieldModel { return c.fields }

// AddMethod adds a method. An abstract method makes the class abstract.
func (c *ClassModel) AddMethod(name string, ret resolve.Type, mod Modifier) (*MethodModel, error) {
	if err := c.state.mutable(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	m := c.newMethod(name, ret, mod)
	c.methods = append(c.methods, m)
	if mod.Has(Abstract) {
		c.mod |= Abstract
	}
	return m, nil
}

// AddConstructor adds a constructor with an empty body.
func (c *ClassModel) AddConstructor(mod Modifier) (*MethodModel, error) {
	if err := c.state.mutable(); err != nil {
		return nil, err
	}
	m := c.newMethod(c.Name(), resolve.Void, mod|Constructor)
	if err := m.SetBody(Empty); err != nil {
		return nil, err
	}
	c.constructors = append(c.constructors, m)
	return m, nil
}

func (c *ClassModel) newMethod(name string, ret resolve.Type, mod Modifier) *MethodModel {
	return &MethodModel{
		annotated: annotated{state: c.state},
		owner:     c.handle,
		iface:     c.IsInterface(),
		name:      name,
		ret:       ret,
		mod:       mod,
	}
}

// Methods returns the methods in declaration order. Of several methods with
// the same key, only the first is kept.
func (c *ClassModel) Methods() []*MethodModel { return unique(c.methods) }

// Constructors returns the constructors in declaration order, without
// duplicates.
func (c *ClassModel) Constructors() []*MethodModel { return unique(c.constructors) }

// FindMethod returns the first method with the given name, or nil.
func (c *ClassModel) FindMethod(name string) *MethodModel {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

func unique(methods []*MethodModel) []*MethodModel {
	seen := make(map[string]bool, len(methods))
	out := make([]*MethodModel, 0, len(methods))
	for _, m := range methods {
		if k := m.Key(); !seen[k] {
			seen[k] = true
			out = append(out, m)
		}
	}
	return out
}

// SetSuperclass sets the class to extend and imports it. It fails if a
// superclass is already set.
func (c *ClassModel) SetSuperclass(t resolve.Type) error {
	if err := c.state.mutable(); err != nil {
		return err
	}
	if c.superclass != "" {
		return modelgen.NewDuplicateSuperclassError(c.superclass)
	}
	c.superclass = t.Name()
	c.imports = append(c.imports, t.Imports()...)
	return nil
}

// Superclass returns the name of the extended class, or "".
func (c *ClassModel) Superclass() string { return c.superclass }

// AddInterfaces adds implemented interfaces by simple name.
func (c *ClassModel) AddInterfaces(names ...string) error {
	if err := c.state.mutable(); err != nil {
		return err
	}
	for _, n := range names {
		if !slices.Contains(c.interfaces, n) {
			c.interfaces = append(c.interfaces, n)
		}
	}
	return nil
}

// Implement adds implemented interfaces and imports them.
func (c *ClassModel) Implement(types ...resolve.Type) error {
	for _, t := range types {
		if err := c.AddInterfaces(t.Name()); err != nil {
			return err
		}
		c.imports = append(c.imports, t.Imports()...)
	}
	return nil
}

// Interfaces returns the implemented interfaces.
func (c *ClassModel) Interfaces() []string { return c.interfaces }

// SetComment sets the class documentation.
func (c *ClassModel) SetComment(s string) error {
	if err := c.state.mutable(); err != nil {
		return err
	}
	c.comment = s
	return nil
}

// SetHasToString requests a generated toString method. Ignored for interfaces.
func (c *ClassModel) SetHasToString(v bool) error {
	if err := c.state.mutable(); err != nil {
		return err
	}
	c.hasToString = v
	return nil
}

// EqualsField returns the name of the field used by equals, or "".
func (c *ClassModel) EqualsField() string { return c.equalsField }

// Imports returns the sorted imports the class needs: explicit imports,
// annotation imports and the types of all members.
func (c *ClassModel) Imports() []string {
	set := make(map[string]struct{})
	add := func(imports ...string) {
		for _, i := range imports {
			if i != "" && i != overrideImport {
				set[i] = struct{}{}
			}
		}
	}
	c.annotated.collect(add)
	for _, f := range c.fields {
		f.collect(add)
		add(f.typ.Imports()...)
	}
	for _, m := range c.methods {
		m.collect(add)
	}
	for _, m := range c.constructors {
		m.collect(add)
	}
	imports := make([]string, 0, len(set))
	for i := range set {
		imports = append(imports, i)
	}
	slices.Sort(imports)
	return imports
}

func (c *ClassModel) modificator() string {
	var b strings.Builder
	if c.mod.Has(Public) {
		b.WriteString("public ")
	}
	if c.mod.Has(Abstract) {
		b.WriteString("abstract ")
		return b.String()
	}
	if c.mod.Has(Final) {
		b.WriteString("final ")
	}
	return b.String()
}

func (c *ClassModel) inheritance() string {
	var b strings.Builder
	if c.superclass != "" {
		b.WriteString("extends ")
		b.WriteString(c.superclass)
		b.WriteString(" ")
	}
	if len(c.interfaces) > 0 {
		b.WriteString("implements ")
		for _, i := range c.interfaces {
			b.WriteString(i)
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (c *ClassModel) kind() string {
	if c.IsInterface() {
		return "interface"
	}
	return "class"
}

// Build freezes the class and returns its render context. Later calls return
// the same context. Building a concrete class holding a body-less method
// fails and leaves the class mutable.
func (c *ClassModel) Build() (Context, error) {
	if c.state.rendered {
		return c.ctx, nil
	}
	if !c.IsInterface() && !c.IsAbstract() {
		for _, m := range c.methods {
			if !m.HasBody() {
				return nil, fmt.Errorf("%w: %s.%s", ErrMissingBody, c.Name(), m.name)
			}
		}
	}
	methods := c.Methods()
	ctx := Context{
		"package":      c.Package(),
		"name":         c.Name(),
		"comment":      c.comment,
		"imports":      c.Imports(),
		"fields":       c.fields,
		"annotations":  c.annotations,
		"modificator":  c.modificator(),
		"kind":         c.kind(),
		"inheritance":  c.inheritance(),
		"hasToString":  !c.IsInterface() && c.hasToString,
		"hasMethods":   len(methods) > 0,
		"methods":      methods,
		"constructors": c.Constructors(),
	}
	if c.equalsField != "" {
		ctx["equalsField"] = c.equalsField
	}
	c.ctx = ctx
	c.state.rendered = true
	return ctx, nil
}
