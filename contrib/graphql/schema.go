package graphql

import (
	"bytes"
	"fmt"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/modelgen/compiler/relation"
	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/schema"
)

// Names of the types added to every schema.
const (
	QueryType  = "Query"
	TimeScalar = "Time"
)

// scalars maps model primitives to GraphQL scalars.
var scalars = map[string]string{
	"Long":    "Int",
	"long":    "Int",
	"Integer": "Int",
	"int":     "Int",
	"Boolean": "Boolean",
	"boolean": "Boolean",
	"String":  "String",
	"Date":    TimeScalar,
}

// Schema builds the GraphQL schema of a classified project: one enum per
// model enum, one object per entity and a Query type listing every entity
// and fetching it by identifier.
//
// Primary fields are IDs. Collections are non-null lists of non-null
// objects. Scalars and references are nullable when their column is.
func Schema(e *relation.Engine) (*ast.SchemaDocument, error) {
	b := &builder{
		engine: e,
		doc:    &ast.SchemaDocument{},
		names:  make(map[string]bool),
		upper:  cases.Upper(language.Und),
	}
	p := e.Project()
	for _, m := range p.Modules {
		for _, en := range m.Enums {
			if err := b.enum(en); err != nil {
				return nil, err
			}
		}
	}
	query := &ast.Definition{Kind: ast.Object, Name: QueryType}
	for _, m := range p.Modules {
		for _, ent := range m.Entities {
			if err := b.object(ent); err != nil {
				return nil, err
			}
			query.Fields = append(query.Fields, b.queries(ent)...)
		}
	}
	if b.time {
		b.doc.Definitions = append(ast.DefinitionList{{Kind: ast.Scalar, Name: TimeScalar}}, b.doc.Definitions...)
	}
	if len(query.Fields) > 0 {
		b.doc.Definitions = append(b.doc.Definitions, query)
	}
	return b.doc, nil
}

// Print formats doc as SDL.
func Print(doc *ast.SchemaDocument) []byte {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.Bytes()
}

type builder struct {
	engine *relation.Engine
	doc    *ast.SchemaDocument
	names  map[string]bool
	upper  cases.Caser
	time   bool
}

func (b *builder) declare(name string) error {
	if b.names[name] || name == QueryType || name == TimeScalar {
		return fmt.Errorf("graphql: type %s declared twice", name)
	}
	b.names[name] = true
	return nil
}

func (b *builder) enum(en *schema.Enum) error {
	if err := b.declare(en.Name); err != nil {
		return err
	}
	def := &ast.Definition{Kind: ast.Enum, Name: en.Name, Description: en.Description}
	for _, it := range en.Items {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name:        b.upper.String(it.Name),
			Description: it.Description,
		})
	}
	b.doc.Definitions = append(b.doc.Definitions, def)
	return nil
}

func (b *builder) object(ent *schema.Entity) error {
	if err := b.declare(ent.Name); err != nil {
		return err
	}
	def := &ast.Definition{Kind: ast.Object, Name: ent.Name, Description: ent.Description}
	for _, f := range ent.Fields {
		typ, err := b.fieldType(ent, f)
		if err != nil {
			return err
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.Name,
			Description: f.Description,
			Type:        typ,
		})
	}
	b.doc.Definitions = append(b.doc.Definitions, def)
	return nil
}

func (b *builder) fieldType(ent *schema.Entity, f *schema.Field) (*ast.Type, error) {
	c, err := b.engine.Info(f)
	if err != nil {
		return nil, err
	}
	t, ok := b.engine.Index().Type(f)
	if !ok {
		return nil, fmt.Errorf("graphql: %s is not resolved", schema.Qualified(ent, f))
	}
	switch c := c.(type) {
	case *relation.Basic:
		name, err := b.scalar(ent, f, t)
		if err != nil {
			return nil, err
		}
		if c.Identity {
			name = "ID"
		}
		return named(name, c.Nullable && !c.Primary), nil
	case *relation.ManyToOne:
		return named(targetName(t), c.Optional), nil
	case *relation.OneToOne:
		return named(targetName(t), c.JoinColumn.Nullable), nil
	case *relation.OneToMany, *relation.ManyToMany:
		return ast.NonNullListType(ast.NonNullNamedType(targetName(t), nil), nil), nil
	default:
		return nil, fmt.Errorf("graphql: %s has unexpected classification %s", schema.Qualified(ent, f), c.Kind())
	}
}

func (b *builder) scalar(ent *schema.Entity, f *schema.Field, t resolve.Type) (string, error) {
	switch t := t.(type) {
	case *resolve.Enum:
		return t.Name(), nil
	case *resolve.Primitive:
		name, ok := scalars[t.Name()]
		if !ok {
			return "", fmt.Errorf("graphql: no scalar for %s in %s", t.Name(), schema.Qualified(ent, f))
		}
		if name == TimeScalar {
			b.time = true
		}
		return name, nil
	default:
		return "", fmt.Errorf("graphql: no scalar for %s in %s", t.FullName(), schema.Qualified(ent, f))
	}
}

// queries returns the list and lookup fields of ent on the Query type.
func (b *builder) queries(ent *schema.Entity) ast.FieldList {
	list := &ast.FieldDefinition{
		Name: inflect.CamelizeDownFirst(inflect.Pluralize(ent.Name)),
		Type: ast.NonNullListType(ast.NonNullNamedType(ent.Name, nil), nil),
	}
	pk := ent.PrimaryField()
	if pk == nil {
		return ast.FieldList{list}
	}
	lookup := &ast.FieldDefinition{
		Name: inflect.CamelizeDownFirst(ent.Name),
		Arguments: ast.ArgumentDefinitionList{
			{Name: pk.Name, Type: ast.NonNullNamedType("ID", nil)},
		},
		Type: ast.NamedType(ent.Name, nil),
	}
	return ast.FieldList{list, lookup}
}

func named(name string, nullable bool) *ast.Type {
	if nullable {
		return ast.NamedType(name, nil)
	}
	return ast.NonNullNamedType(name, nil)
}

func targetName(t resolve.Type) string {
	if ent, _ := resolve.Entity(t); ent != nil {
		return ent.Name
	}
	return t.Name()
}
