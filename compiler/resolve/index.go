package resolve

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/syssam/modelgen/schema"
)

// Index holds the resolved type of every field of a project, keyed by field
// identity. It is read-only once built.
type Index struct {
	types map[uuid.UUID]Type
}

// IndexProject resolves every field of the project with the chain returned by
// chainFor for the field's module. It stops at the first failure.
func IndexProject(project *schema.Project, chainFor func(*schema.Module) *Chain) (*Index, error) {
	idx := &Index{types: make(map[uuid.UUID]Type)}
	chains := make(map[*schema.Module]*Chain, len(project.Modules))
	err := project.Walk(func(m *schema.Module, e *schema.Entity, f *schema.Field) error {
		c, ok := chains[m]
		if !ok {
			c = chainFor(m)
			chains[m] = c
		}
		t, err := c.Resolve(f.Type)
		if err != nil {
			return fmt.Errorf("resolve field %s: %w", schema.Qualified(e, f), err)
		}
		idx.types[f.ID] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Type returns the resolved type of f.
func (idx *Index) Type(f *schema.Field) (Type, bool) {
	t, ok := idx.types[f.ID]
	return t, ok
}

// Len returns the number of indexed fields.
func (idx *Index) Len() int { return len(idx.types) }
