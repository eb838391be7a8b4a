package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/modelgen/compiler/relation"
	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

const persistence = "javax.persistence."

// JPA annotates entity classes with their javax.persistence mapping, as
// classified by the relation engine of the graph.
type JPA struct{}

// VisitClass adds @Entity and @Table to the class, and the column or
// relationship annotations to every field.
func (JPA) VisitClass(c *source.ClassModel, e *schema.Entity, g *Graph) error {
	err := c.Annotate(
		source.NewAnnotation("Entity", persistence+"Entity"),
		source.NewAnnotation(fmt.Sprintf("Table(name = %q)", relation.TableName(e.Name)), persistence+"Table"),
	)
	if err != nil {
		return err
	}
	for _, f := range e.Fields {
		fm := c.Field(f.Name)
		if fm == nil {
			continue
		}
		info, err := g.Relations.Info(f)
		if err != nil {
			return err
		}
		if err := annotateField(fm, info); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

func annotateField(f *source.FieldModel, info relation.Classification) error {
	var as []source.Annotation
	switch info := info.(type) {
	case *relation.Basic:
		if info.Primary {
			as = append(as, source.NewAnnotation("Id", persistence+"Id"))
			if info.Generation != "" {
				as = append(as, source.NewAnnotation(
					"GeneratedValue(strategy = GenerationType."+string(info.Generation)+")",
					persistence+"GeneratedValue", persistence+"GenerationType",
				))
			}
		}
		if info.EnumAsString {
			as = append(as, source.NewAnnotation("Enumerated(EnumType.STRING)", persistence+"Enumerated", persistence+"EnumType"))
		}
		as = append(as, source.NewAnnotation(columnAnnotation(info.Column), persistence+"Column"))
	case *relation.OneToMany:
		as = append(as, source.NewAnnotation(fmt.Sprintf("OneToMany(mappedBy = %q)", info.MappedBy.Field), persistence+"OneToMany"))
	case *relation.ManyToOne:
		as = append(as,
			source.NewAnnotation(
				fmt.Sprintf("ManyToOne(fetch = FetchType.%s, optional = %t)", info.Fetch, info.Optional),
				persistence+"ManyToOne", persistence+"FetchType",
			),
			source.NewAnnotation(joinColumnAnnotation(info.JoinColumn), persistence+"JoinColumn"),
		)
	case *relation.ManyToMany:
		as = append(as,
			source.NewAnnotation(
				fmt.Sprintf("ManyToMany(fetch = FetchType.%s)", info.Fetch),
				persistence+"ManyToMany", persistence+"FetchType",
			),
			source.NewAnnotation(joinTableAnnotation(info.JoinTable), persistence+"JoinTable", persistence+"JoinColumn"),
		)
	case *relation.OneToOne:
		as = append(as,
			source.NewAnnotation(
				fmt.Sprintf("OneToOne(fetch = FetchType.%s)", info.Fetch),
				persistence+"OneToOne", persistence+"FetchType",
			),
			source.NewAnnotation(joinColumnAnnotation(info.JoinColumn), persistence+"JoinColumn"),
		)
	default:
		return fmt.Errorf("gen: unexpected classification %T", info)
	}
	return f.Annotate(as...)
}

func columnAnnotation(c relation.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Column(name = %q", c.Name)
	if c.Length > 0 {
		b.WriteString(", length = ")
		b.WriteString(strconv.Itoa(c.Length))
	}
	if c.Unique {
		b.WriteString(", unique = true")
	}
	if !c.Nullable {
		b.WriteString(", nullable = false")
	}
	b.WriteString(")")
	return b.String()
}

func joinColumnAnnotation(jc relation.JoinColumn) string {
	return fmt.Sprintf("JoinColumn(name = %q, nullable = %t)", jc.Name, jc.Nullable)
}

func joinTableAnnotation(jt relation.JoinTable) string {
	return fmt.Sprintf("JoinTable(name = %q,\n"+
		"            joinColumns = { @%s },\n"+
		"            inverseJoinColumns = { @%s })",
		jt.Name, joinColumnAnnotation(jt.JoinColumn), joinColumnAnnotation(jt.InverseJoinColumn))
}
