// Package mixin provides common field sets that can be mixed into every
// entity of a project before generation.
//
// Available mixins:
//   - CreateTime: adds the createdAt date
//   - UpdateTime: adds the updatedAt date
//   - Time: combines CreateTime and UpdateTime
//   - ID: adds a Long primary key
//   - SoftDelete: adds the nullable deletedAt date
//   - TenantID: adds the tenantId column
//
// Usage:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("out"),
//	    gen.WithModelVisitors(mixin.Apply(mixin.ID{}, mixin.Time{})),
//	)
//
// Custom mixins implement Mixin:
//
//	type Audit struct{}
//
//	func (Audit) Name() string { return "audit" }
//
//	func (Audit) Fields() []*schema.Field {
//	    return []*schema.Field{schema.NewField("createdBy", "String", schema.Nullable())}
//	}
package mixin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/schema"
)

// Mixin is a named set of fields. Fields returns new fields on every call.
type Mixin interface {
	Name() string
	Fields() []*schema.Field
}

// CreateTime adds the createdAt field.
type CreateTime struct{}

func (CreateTime) Name() string { return "create_time" }

// Fields of the create time mixin.
func (CreateTime) Fields() []*schema.Field {
	return []*schema.Field{schema.NewField("createdAt", "Date", schema.Comment("Creation time."))}
}

// UpdateTime adds the updatedAt field.
type UpdateTime struct{}

func (UpdateTime) Name() string { return "update_time" }

// Fields of the update time mixin.
func (UpdateTime) Fields() []*schema.Field {
	return []*schema.Field{schema.NewField("updatedAt", "Date", schema.Comment("Last update time."))}
}

// Time composes CreateTime and UpdateTime.
type Time struct{}

func (Time) Name() string { return "time" }

// Fields of the time mixin.
func (Time) Fields() []*schema.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// ID adds a Long primary key to entities that have none.
type ID struct{}

func (ID) Name() string { return "id" }

// Fields of the ID mixin.
func (ID) Fields() []*schema.Field {
	return []*schema.Field{schema.NewField("id", "Long", schema.Primary())}
}

// SoftDelete adds a nullable deletedAt field. Rows are marked deleted
// instead of being removed.
type SoftDelete struct{}

func (SoftDelete) Name() string { return "soft_delete" }

// Fields of the soft delete mixin.
func (SoftDelete) Fields() []*schema.Field {
	return []*schema.Field{schema.NewField("deletedAt", "Date", schema.Nullable(), schema.Comment("Deletion time."))}
}

// TenantID adds the tenantId column for multi-tenancy.
type TenantID struct{}

func (TenantID) Name() string { return "tenant_id" }

// Fields of the tenant mixin.
func (TenantID) Fields() []*schema.Field {
	return []*schema.Field{schema.NewField("tenantId", "Long")}
}

// All lists the built-in mixins.
var All = []Mixin{CreateTime{}, UpdateTime{}, Time{}, ID{}, SoftDelete{}, TenantID{}}

// ByName returns the built-in mixins with the given names.
func ByName(names ...string) ([]Mixin, error) {
	mixins := make([]Mixin, 0, len(names))
	for _, n := range names {
		i := slices.IndexFunc(All, func(m Mixin) bool { return m.Name() == strings.TrimSpace(n) })
		if i < 0 {
			return nil, fmt.Errorf("mixin: unknown mixin %q", n)
		}
		mixins = append(mixins, All[i])
	}
	return mixins, nil
}

// Apply returns a model visitor adding the mixin fields to every entity in
// the init phase. A field is skipped when the entity already declares one
// with the same name, and a primary field is skipped when the entity already
// has a primary field. Primary fields go first, the others last.
func Apply(mixins ...Mixin) gen.ModelVisitor {
	return gen.ModelVisitorFunc(func(p *schema.Project, phase gen.Phase) error {
		if phase != gen.PhaseInit {
			return nil
		}
		for _, ent := range p.Entities() {
			for _, m := range mixins {
				for _, f := range m.Fields() {
					switch {
					case ent.Field(f.Name) != nil:
					case f.Primary && ent.PrimaryField() != nil:
					case f.Primary:
						ent.Fields = append([]*schema.Field{f}, ent.Fields...)
					default:
						ent.Fields = append(ent.Fields, f)
					}
				}
			}
		}
		return nil
	})
}
