package source

import (
	"strings"

	"github.com/syssam/modelgen/compiler/resolve"
)

// EnumValue is one enum literal in a render context.
type EnumValue struct {
	Name        string
	Description string
	Last        bool
}

// String returns the literal with its documentation, indented for an enum
// body. Every literal but the last ends with a comma.
func (v EnumValue) String() string {
	var b strings.Builder
	if strings.TrimSpace(v.Description) != "" {
		b.WriteString("\t/**\n\t * ")
		b.WriteString(v.Description)
		b.WriteString("\n\t */\n")
	}
	b.WriteString("\t")
	b.WriteString(v.Name)
	if !v.Last {
		b.WriteString(",")
	}
	return b.String()
}

// EnumModel is a public enum class built from an enum definition.
type EnumModel struct {
	*ClassModel
	def *resolve.Enum
}

// NewEnum returns the model of the enum t.
func NewEnum(t *resolve.Enum) *EnumModel {
	return &EnumModel{ClassModel: NewClass(t, Public), def: t}
}

// Values returns the enum literals in declaration order.
func (e *EnumModel) Values() []EnumValue {
	values := make([]EnumValue, len(e.def.Def.Items))
	for i, it := range e.def.Def.Items {
		values[i] = EnumValue{Name: it.Name, Description: it.Description, Last: i == len(values)-1}
	}
	return values
}

// Build returns the class context extended with the "enums" key.
func (e *EnumModel) Build() (Context, error) {
	ctx, err := e.ClassModel.Build()
	if err != nil {
		return nil, err
	}
	if _, ok := ctx["enums"]; !ok {
		ctx["enums"] = e.Values()
	}
	if e.comment == "" {
		ctx["comment"] = e.def.Def.Description
	}
	return ctx, nil
}
