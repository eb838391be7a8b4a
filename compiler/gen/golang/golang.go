// Package golang renders class and enum models as Go source files.
package golang

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/compiler/source"
)

// Renderer renders "class" and "enum" contexts into Go types with jennifer.
// Entities become structs with accessor methods, enums become string types
// with one constant per literal.
type Renderer struct {
	importPrefix string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImportPrefix sets the import path of the directory holding the
// generated packages. References to types of another package are qualified
// with it.
func WithImportPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.importPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// NewRenderer returns a Go renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the named context.
func (r *Renderer) Render(name string, ctx source.Context) ([]byte, error) {
	pkg, _ := ctx["package"].(string)
	f := jen.NewFile(PackageName(pkg))
	if r.importPrefix != "" {
		f = jen.NewFilePathName(r.ImportPath(pkg), PackageName(pkg))
	}
	var err error
	switch name {
	case "class":
		err = r.class(f, ctx)
	case "enum":
		err = r.enum(f, ctx)
	default:
		err = fmt.Errorf("template %q not supported", name)
	}
	if err != nil {
		return nil, fmt.Errorf("golang: %w", err)
	}
	var b bytes.Buffer
	if err := f.Render(&b); err != nil {
		return nil, fmt.Errorf("golang: render %s: %w", ctx["name"], err)
	}
	return b.Bytes(), nil
}

func (r *Renderer) class(f *jen.File, ctx source.Context) error {
	name, _ := ctx["name"].(string)
	fields, _ := ctx["fields"].([]*source.FieldModel)
	recv := receiver(name)
	if comment, _ := ctx["comment"].(string); comment != "" {
		f.Comment(comment)
	} else {
		f.Commentf("%s is the model of the %s entity.", name, name)
	}
	types := make([]jen.Code, len(fields))
	for i, fd := range fields {
		t, err := r.goType(fd.Type())
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", name, fd.Name(), err)
		}
		types[i] = t
	}
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for i, fd := range fields {
			group.Id(FieldName(fd.Name())).Add(types[i]).Tag(map[string]string{"json": fd.Name() + ",omitempty"})
		}
	})
	for i, fd := range fields {
		if fd.HasGet() {
			f.Commentf("%s returns the value of the %q field.", inflect.Camelize(fd.GetterName()), fd.Name())
			f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id(inflect.Camelize(fd.GetterName())).Params().Add(types[i]).Block(
				jen.Return(jen.Id(recv).Dot(FieldName(fd.Name()))),
			)
		}
		if fd.HasSet() {
			f.Commentf("%s sets the %q field.", inflect.Camelize(fd.SetterName()), fd.Name())
			f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id(inflect.Camelize(fd.SetterName())).Params(jen.Id("v").Add(types[i])).Block(
				jen.Id(recv).Dot(FieldName(fd.Name())).Op("=").Id("v"),
			)
		}
	}
	if eq, _ := ctx["equalsField"].(string); eq != "" {
		f.Commentf("Equal reports whether other has the same %s.", eq)
		f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("Equal").Params(jen.Id("other").Op("*").Id(name)).Bool().Block(
			jen.Return(jen.Id("other").Op("!=").Nil().Op("&&").Id(recv).Dot(FieldName(eq)).Op("==").Id("other").Dot(FieldName(eq))),
		)
	}
	if toString, _ := ctx["hasToString"].(bool); toString {
		format := make([]string, len(fields))
		args := []jen.Code{nil}
		for i, fd := range fields {
			format[i] = fd.Name() + "=%v"
			args = append(args, jen.Id(recv).Dot(FieldName(fd.Name())))
		}
		args[0] = jen.Lit(name + "{" + strings.Join(format, ", ") + "}")
		f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("String").Params().String().Block(
			jen.Return(jen.Qual("fmt", "Sprintf").Call(args...)),
		)
	}
	return nil
}

func (r *Renderer) enum(f *jen.File, ctx source.Context) error {
	name, _ := ctx["name"].(string)
	values, ok := ctx["enums"].([]source.EnumValue)
	if !ok {
		return fmt.Errorf("enum %s: missing values", name)
	}
	if comment, _ := ctx["comment"].(string); comment != "" {
		f.Comment(comment)
	} else {
		f.Commentf("%s is the %s enum.", name, name)
	}
	f.Type().Id(name).String()
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, v := range values {
			if v.Description != "" {
				group.Comment(v.Description)
			}
			group.Id(name + ConstName(v.Name)).Id(name).Op("=").Lit(v.Name)
		}
	})
	f.Commentf("%sValues returns all %s values in declaration order.", name, name)
	f.Func().Id(name + "Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).ValuesFunc(func(group *jen.Group) {
			for _, v := range values {
				group.Id(name + ConstName(v.Name))
			}
		})),
	)
	f.Func().Params(jen.Id("e").Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Parens(jen.Id("e"))),
	)
	return nil
}

// ConstName turns an enum literal into the suffix of its Go constant:
// "IN_PROGRESS" becomes "InProgress".
func ConstName(literal string) string {
	// Casers are stateful and renderers are shared between writers.
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range strings.FieldsFunc(literal, func(c rune) bool { return c == '_' || c == '-' || c == ' ' }) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func (r *Renderer) goType(t resolve.Type) (jen.Code, error) {
	switch t := t.(type) {
	case *resolve.Primitive:
		switch t.Name() {
		case "Long", "long":
			return jen.Int64(), nil
		case "Integer", "int":
			return jen.Int(), nil
		case "Boolean", "boolean":
			return jen.Bool(), nil
		case "String":
			return jen.String(), nil
		case "Date":
			return jen.Qual("time", "Time"), nil
		default:
			return nil, fmt.Errorf("no Go type for %s", t.Name())
		}
	case *resolve.Generic:
		elem, err := r.goType(t.Parameter)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case *resolve.EntityRef:
		return jen.Op("*").Add(r.ref(t)), nil
	case *resolve.Enum:
		return r.ref(t), nil
	default:
		return nil, fmt.Errorf("no Go type for %s", t.FullName())
	}
}

// ref references a model type. The file knows its own import path, so
// types of the same package stay unqualified.
func (r *Renderer) ref(t resolve.Type) jen.Code {
	if r.importPrefix == "" {
		return jen.Id(t.Name())
	}
	return jen.Qual(r.ImportPath(t.Package()), t.Name())
}

// ImportPath returns the import path of the Go package generated for the
// dotted package pkg.
func (r *Renderer) ImportPath(pkg string) string {
	return r.importPrefix + "/" + PackagePath(pkg)
}

// PackageName returns the Go package name for a dotted package: its last
// segment, lower-cased and stripped of non-identifier characters.
func PackageName(pkg string) string {
	name := segment(pkg[strings.LastIndex(pkg, ".")+1:])
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "model" + name
	}
	return name
}

// PackagePath returns the slash separated directory of the Go package
// generated for a dotted package, relative to the go output directory:
// "com.example.sales.model" becomes "com/example/sales/model". The last
// element is the package name.
func PackagePath(pkg string) string {
	var dirs []string
	if i := strings.LastIndex(pkg, "."); i >= 0 {
		for _, s := range strings.Split(pkg[:i], ".") {
			if s = segment(s); s != "" {
				dirs = append(dirs, s)
			}
		}
	}
	return strings.Join(append(dirs, PackageName(pkg)), "/")
}

func segment(s string) string {
	return strings.Map(func(c rune) rune {
		if c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return unicode.ToLower(c)
		}
		return -1
	}, s)
}

// FileName returns the Go file name of a type, e.g. "order_item.go".
func FileName(name string) string { return inflect.Underscore(name) + ".go" }

// FieldName returns the exported Go name of a model field.
func FieldName(name string) string { return inflect.Camelize(name) }

func receiver(name string) string {
	if name == "" {
		return "m"
	}
	return strings.ToLower(name[:1])
}
