// Package load reads project models from YAML or JSON files.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/modelgen/schema"
)

// Project is the file form of a schema.Project.
type Project struct {
	Name    string    `yaml:"name" json:"name"`
	Modules []*Module `yaml:"modules" json:"modules"`
}

// Module is the file form of a schema.Module.
type Module struct {
	Name     string    `yaml:"name" json:"name"`
	Package  string    `yaml:"package" json:"package"`
	Entities []*Entity `yaml:"entities,omitempty" json:"entities,omitempty"`
	Enums    []*Enum   `yaml:"enums,omitempty" json:"enums,omitempty"`
}

// Entity is the file form of a schema.Entity.
type Entity struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []*Field `yaml:"fields" json:"fields"`
}

// Field is the file form of a schema.Field.
type Field struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Nullable    bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Unique      bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	Primary     bool   `yaml:"primary,omitempty" json:"primary,omitempty"`
	Lazy        bool   `yaml:"lazy,omitempty" json:"lazy,omitempty"`
	Max         int    `yaml:"max,omitempty" json:"max,omitempty"`
	Relation    string `yaml:"relation,omitempty" json:"relation,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Enum is the file form of a schema.Enum.
type Enum struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Items       []*Item `yaml:"items" json:"items"`
}

// Item is the file form of a schema.EnumItem.
type Item struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Load reads the model file at path. JSON files are read as YAML documents.
func Load(path string) (*schema.Project, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read model: %w", err)
	}
	p, err := UnmarshalProject(buf)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", path, err)
	}
	return p, nil
}

// UnmarshalProject decodes the given buffer to a project. Unknown keys are
// rejected. The returned project is not validated.
func UnmarshalProject(buf []byte) (*schema.Project, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	doc := &Project{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty model")
		}
		return nil, err
	}
	return doc.Project()
}

// Project converts the document to the model graph, assigning fresh
// identities to entities, fields and enums.
func (d *Project) Project() (*schema.Project, error) {
	p := schema.NewProject(d.Name)
	for _, dm := range d.Modules {
		m := schema.NewModule(dm.Name, dm.Package)
		for _, de := range dm.Entities {
			e := schema.NewEntity(de.Name)
			e.Description = de.Description
			for _, df := range de.Fields {
				f, err := df.field()
				if err != nil {
					return nil, fmt.Errorf("entity %q: %w", de.Name, err)
				}
				e.Fields = append(e.Fields, f)
			}
			m.AddEntities(e)
		}
		for _, dn := range dm.Enums {
			e := schema.NewEnum(dn.Name)
			e.Description = dn.Description
			for _, it := range dn.Items {
				e.Items = append(e.Items, schema.Item(it.Name, it.Description))
			}
			m.AddEnums(e)
		}
		p.Modules = append(p.Modules, m)
	}
	return p, nil
}

func (d *Field) field() (*schema.Field, error) {
	rel, err := schema.ParseRelation(d.Relation)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", d.Name, err)
	}
	if d.Max < 0 {
		return nil, fmt.Errorf("field %q: negative max %d", d.Name, d.Max)
	}
	f := schema.NewField(d.Name, d.Type, schema.WithRelation(rel), schema.Max(d.Max), schema.Comment(d.Description))
	f.Nullable = d.Nullable
	f.Unique = d.Unique
	f.Primary = d.Primary
	f.Lazy = d.Lazy
	return f, nil
}

// MarshalProject encodes the project into a YAML document that
// UnmarshalProject decodes back to an equivalent graph.
func MarshalProject(p *schema.Project) ([]byte, error) {
	doc := &Project{Name: p.Name}
	for _, m := range p.Modules {
		dm := &Module{Name: m.Name, Package: m.Package}
		for _, e := range m.Entities {
			de := &Entity{Name: e.Name, Description: e.Description}
			for _, f := range e.Fields {
				de.Fields = append(de.Fields, &Field{
					Name:        f.Name,
					Type:        f.Type,
					Nullable:    f.Nullable,
					Unique:      f.Unique,
					Primary:     f.Primary,
					Lazy:        f.Lazy,
					Max:         f.Max,
					Relation:    f.Relation.String(),
					Description: f.Description,
				})
			}
			dm.Entities = append(dm.Entities, de)
		}
		for _, e := range m.Enums {
			dn := &Enum{Name: e.Name, Description: e.Description}
			for _, it := range e.Items {
				dn.Items = append(dn.Items, &Item{Name: it.Name, Description: it.Description})
			}
			dm.Enums = append(dm.Enums, dn)
		}
		doc.Modules = append(doc.Modules, dm)
	}
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
