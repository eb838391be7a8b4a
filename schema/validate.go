package schema

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// ValidationError describes one defect in a project model.
type ValidationError struct {
	Module  string
	Entity  string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	if e.Module != "" {
		b.WriteString("module ")
		b.WriteString(e.Module)
		b.WriteString(": ")
	}
	switch {
	case e.Entity != "" && e.Field != "":
		fmt.Fprintf(&b, "field %s.%s: ", e.Entity, e.Field)
	case e.Entity != "":
		fmt.Fprintf(&b, "%s: ", e.Entity)
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidName reports an error if name cannot be used for an entity, enum or field.
// Names must be identifiers since they end up as class and member names.
func ValidName(name string) error {
	switch {
	case name == "":
		return errors.New("name cannot be empty")
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("name %q contains path or package separator characters", name)
	case !token.IsIdentifier(name):
		return fmt.Errorf("name %q is not a valid identifier", name)
	}
	return nil
}

// Validate checks the structural rules of the model and returns all violations
// joined together, or nil.
func (p *Project) Validate() error {
	var errs []error
	modules := make(map[string]bool, len(p.Modules))
	for _, m := range p.Modules {
		if m.Name == "" {
			errs = append(errs, &ValidationError{Message: "module name cannot be empty"})
		} else if modules[m.Name] {
			errs = append(errs, &ValidationError{Module: m.Name, Message: "module redeclared"})
		}
		modules[m.Name] = true
		errs = append(errs, m.validate()...)
	}
	return errors.Join(errs...)
}

func (m *Module) validate() []error {
	var (
		errs  []error
		names = make(map[string]string)
	)
	declare := func(name, kind string) {
		if err := ValidName(name); err != nil {
			errs = append(errs, &ValidationError{Module: m.Name, Entity: name, Message: err.Error()})
			return
		}
		if prev, ok := names[name]; ok {
			errs = append(errs, &ValidationError{Module: m.Name, Entity: name,
				Message: fmt.Sprintf("%s name conflicts with %s of the same name", kind, prev)})
			return
		}
		names[name] = kind
	}
	for _, e := range m.Entities {
		declare(e.Name, "entity")
		errs = append(errs, e.validate(m.Name)...)
	}
	for _, e := range m.Enums {
		declare(e.Name, "enum")
		for _, it := range e.Items {
			if err := ValidName(it.Name); err != nil {
				errs = append(errs, &ValidationError{Module: m.Name, Entity: e.Name, Message: "enum item: " + err.Error()})
			}
		}
	}
	return errs
}

func (e *Entity) validate(module string) []error {
	var (
		errs    []error
		primary string
		fields  = make(map[string]bool, len(e.Fields))
	)
	for _, f := range e.Fields {
		switch err := ValidName(f.Name); {
		case err != nil:
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name, Message: err.Error()})
		case fields[f.Name]:
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name, Message: "field redeclared"})
		case strings.TrimSpace(f.Type) == "":
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name, Message: "field type cannot be empty"})
		case f.Max < 0:
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name, Message: "max length cannot be negative"})
		case f.Primary && primary != "":
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name,
				Message: fmt.Sprintf("entity already has primary field %q", primary)})
		case f.Primary && f.Nullable:
			errs = append(errs, &ValidationError{Module: module, Entity: e.Name, Field: f.Name, Message: "primary field cannot be nullable"})
		}
		if f.Primary && primary == "" {
			primary = f.Name
		}
		fields[f.Name] = true
	}
	return errs
}
