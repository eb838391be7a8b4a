package gen

import (
	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

// ClassVisitor is called on each class generated from an entity.
type ClassVisitor interface {
	VisitClass(c *source.ClassModel, e *schema.Entity, g *Graph) error
}

// ClassVisitorFunc adapts a function to the ClassVisitor interface.
type ClassVisitorFunc func(*source.ClassModel, *schema.Entity, *Graph) error

// VisitClass calls f(c, e, g).
func (f ClassVisitorFunc) VisitClass(c *source.ClassModel, e *schema.Entity, g *Graph) error {
	return f(c, e, g)
}

// Phase is a step of the model editing lifecycle.
type Phase int

const (
	// PhaseInit is the first phase where the model can be modified. It runs once.
	PhaseInit Phase = iota
	// PhaseEdit is the second phase where the model can be modified.
	PhaseEdit
	// PhasePostEdit runs once the graph is built. The model must not be
	// modified anymore.
	PhasePostEdit
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseEdit:
		return "edit"
	case PhasePostEdit:
		return "postedit"
	default:
		return "unknown"
	}
}

// ModelVisitor is called on the project model in each phase.
type ModelVisitor interface {
	VisitModel(p *schema.Project, phase Phase) error
}

// ModelVisitorFunc adapts a function to the ModelVisitor interface.
type ModelVisitorFunc func(*schema.Project, Phase) error

// VisitModel calls f(p, phase).
func (f ModelVisitorFunc) VisitModel(p *schema.Project, phase Phase) error { return f(p, phase) }
