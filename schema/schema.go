package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Relation is the explicit relation hint a field may declare.
type Relation int

const (
	// RelationUnspecified means the relation is inferred from the model.
	RelationUnspecified Relation = iota
	// RelationOneToOne marks a scalar reference as one-to-one.
	RelationOneToOne
	// RelationManyToOne marks a scalar reference as many-to-one.
	RelationManyToOne
	// RelationOneToMany is accepted by the model but is not a valid hint for scalar
	// references.
	RelationOneToMany
	// RelationManyToMany is accepted by the model but is not a valid hint for scalar
	// references.
	RelationManyToMany
)

var relationNames = [...]string{
	RelationUnspecified: "",
	RelationOneToOne:    "OneToOne",
	RelationManyToOne:   "ManyToOne",
	RelationOneToMany:   "OneToMany",
	RelationManyToMany:  "ManyToMany",
}

// String returns the relation name as written in model files.
func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationNames[r]
}

// ParseRelation parses a relation hint. The empty string is RelationUnspecified.
func ParseRelation(s string) (Relation, error) {
	for i, name := range relationNames {
		if strings.EqualFold(name, s) {
			return Relation(i), nil
		}
	}
	return RelationUnspecified, fmt.Errorf("schema: unknown relation %q", s)
}

// Project is the root of the model graph.
type Project struct {
	Name    string
	Modules []*Module
}

// NewProject returns a project holding the given modules in declaration order.
func NewProject(name string, modules ...*Module) *Project {
	return &Project{Name: name, Modules: modules}
}

// Module groups entities and enums under one package path.
type Module struct {
	Name     string
	Package  string
	Entities []*Entity
	Enums    []*Enum
}

// NewModule returns an empty module.
func NewModule(name, pkg string) *Module {
	return &Module{Name: name, Package: pkg}
}

// AddEntities appends entities to the module.
func (m *Module) AddEntities(entities ...*Entity) *Module {
	m.Entities = append(m.Entities, entities...)
	return m
}

// AddEnums appends enums to the module.
func (m *Module) AddEnums(enums ...*Enum) *Module {
	m.Enums = append(m.Enums, enums...)
	return m
}

// Entity returns the entity with the given name, or nil.
func (m *Module) Entity(name string) *Entity {
	for _, e := range m.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Enum returns the enum with the given name, or nil.
func (m *Module) Enum(name string) *Enum {
	for _, e := range m.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Entity is a record type mapped to a persisted table.
type Entity struct {
	ID          uuid.UUID
	Name        string
	Description string
	Fields      []*Field
}

// NewEntity returns an entity with a fresh identity.
func NewEntity(name string, fields ...*Field) *Entity {
	return &Entity{ID: uuid.New(), Name: name, Fields: fields}
}

// Field returns the field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// PrimaryField returns the primary field of the entity, or nil if there is none.
func (e *Entity) PrimaryField() *Field {
	for _, f := range e.Fields {
		if f.Primary {
			return f
		}
	}
	return nil
}

// Field is a typed attribute of an entity.
type Field struct {
	ID   uuid.UUID
	Name string
	// Type is the raw type name, e.g. "String" or "List<Order>".
	Type        string
	Nullable    bool
	Unique      bool
	Primary     bool
	Lazy        bool
	Max         int // zero when unset
	Relation    Relation
	Description string
}

// A FieldOption configures a field built with NewField.
type FieldOption func(*Field)

// NewField returns a field with a fresh identity.
func NewField(name, typ string, opts ...FieldOption) *Field {
	f := &Field{ID: uuid.New(), Name: name, Type: typ}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HasMax reports whether the field declares a max length.
func (f *Field) HasMax() bool { return f.Max > 0 }

// Nullable marks the field as nullable.
func Nullable() FieldOption { return func(f *Field) { f.Nullable = true } }

// Unique marks the field as unique.
func Unique() FieldOption { return func(f *Field) { f.Unique = true } }

// Primary marks the field as the primary field of its entity.
func Primary() FieldOption { return func(f *Field) { f.Primary = true } }

// Lazy marks a relation field for lazy fetching.
func Lazy() FieldOption { return func(f *Field) { f.Lazy = true } }

// Max sets the max length of the field.
func Max(n int) FieldOption { return func(f *Field) { f.Max = n } }

// WithRelation sets the explicit relation hint.
func WithRelation(r Relation) FieldOption { return func(f *Field) { f.Relation = r } }

// Comment sets the field description.
func Comment(s string) FieldOption { return func(f *Field) { f.Description = s } }

// Enum is an enumeration definition.
type Enum struct {
	ID          uuid.UUID
	Name        string
	Description string
	Items       []*EnumItem
}

// NewEnum returns an enum with a fresh identity.
func NewEnum(name string, items ...*EnumItem) *Enum {
	return &Enum{ID: uuid.New(), Name: name, Items: items}
}

// EnumItem is a single enum literal with an optional description.
type EnumItem struct {
	Name        string
	Description string
}

// Item returns an enum item.
func Item(name, description string) *EnumItem {
	return &EnumItem{Name: name, Description: description}
}

// Qualified returns the "Entity.field" form used in messages.
func Qualified(e *Entity, f *Field) string {
	if e == nil {
		return f.Name
	}
	return e.Name + "." + f.Name
}

// Walk calls fn for every field of every entity of every module in declaration order.
// It stops at the first error.
func (p *Project) Walk(fn func(*Module, *Entity, *Field) error) error {
	for _, m := range p.Modules {
		for _, e := range m.Entities {
			for _, f := range e.Fields {
				if err := fn(m, e, f); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Module returns the module with the given name, or nil.
func (p *Project) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Entities returns every entity of the project in declaration order.
func (p *Project) Entities() []*Entity {
	var entities []*Entity
	for _, m := range p.Modules {
		entities = append(entities, m.Entities...)
	}
	return entities
}
