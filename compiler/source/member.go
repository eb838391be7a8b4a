package source

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/resolve"
)

var validName = regexp.MustCompile(`^[a-zA-Z_]\w*$`)

func checkName(name string) error {
	if !validName.MatchString(name) {
		return modelgen.NewInvalidNameError(name)
	}
	return nil
}

// Annotation is an annotation usage. Name holds everything after the "@",
// including arguments, e.g. `Column(name = "id")`.
type Annotation struct {
	Name    string
	Imports []string
}

// NewAnnotation returns an annotation requiring the given imports.
func NewAnnotation(name string, imports ...string) Annotation {
	return Annotation{Name: name, Imports: imports}
}

// String returns the annotation source text.
func (a Annotation) String() string { return "@" + a.Name }

// annotated holds the annotations and explicit imports of a class or member.
type annotated struct {
	state       *lifecycle
	annotations []Annotation
	imports     []string
}

// Annotate appends annotations.
func (a *annotated) Annotate(annotations ...Annotation) error {
	if err := a.state.mutable(); err != nil {
		return err
	}
	a.annotations = append(a.annotations, annotations...)
	return nil
}

// AddImports adds explicit imports.
func (a *annotated) AddImports(imports ...string) error {
	if err := a.state.mutable(); err != nil {
		return err
	}
	a.imports = append(a.imports, imports...)
	return nil
}

// Annotations returns the annotations in declaration order.
func (a *annotated) Annotations() []Annotation { return a.annotations }

// HasAnnotations reports whether any annotation was added.
func (a *annotated) HasAnnotations() bool { return len(a.annotations) > 0 }

func (a *annotated) collect(add func(...string)) {
	add(a.imports...)
	for _, an := range a.annotations {
		add(an.Imports...)
	}
}

// FieldModel is a field of a class.
type FieldModel struct {
	annotated
	owner Handle
	name  string
	typ   resolve.Type
	mod   Modifier
	value string
}

// Name returns the field name.
func (f *FieldModel) Name() string { return f.name }

// Type returns the field type.
func (f *FieldModel) Type() resolve.Type { return f.typ }

// Modifiers returns the field flags.
func (f *FieldModel) Modifiers() Modifier { return f.mod }

// Owner returns the handle of the declaring class.
func (f *FieldModel) Owner() Handle { return f.owner }

// CapName returns the field name with its first letter upper-cased.
func (f *FieldModel) CapName() string { return inflect.Capitalize(f.name) }

// GetterName returns "isX" for Boolean object fields and "getX" otherwise.
func (f *FieldModel) GetterName() string {
	if resolve.IsPrimitive(f.typ, "Boolean") {
		return "is" + f.CapName()
	}
	return "get" + f.CapName()
}

// SetterName returns "setX".
func (f *FieldModel) SetterName() string { return "set" + f.CapName() }

// HasGet reports whether a getter was synthesized.
func (f *FieldModel) HasGet() bool { return f.mod.Has(Get) }

// HasSet reports whether a setter was synthesized.
func (f *FieldModel) HasSet() bool { return f.mod.Has(Set) }

// UsedInEquals reports whether the field takes part in equals and hashCode.
func (f *FieldModel) UsedInEquals() bool { return f.mod.Has(UseEquals) }

// Value returns the initializer, or "".
func (f *FieldModel) Value() string { return f.value }

// SetValue sets the initializer expression.
func (f *FieldModel) SetValue(v string) error {
	if err := f.state.mutable(); err != nil {
		return err
	}
	f.value = v
	return nil
}

// Declaration returns the field declaration, e.g. "private static final int MAX = 10;".
func (f *FieldModel) Declaration() string {
	var b strings.Builder
	b.WriteString(f.mod.visibility())
	if f.mod.Has(Static) {
		b.WriteString("static ")
	}
	if f.mod.Has(Final) {
		b.WriteString("final ")
	}
	b.WriteString(f.typ.Name())
	b.WriteString(" ")
	b.WriteString(f.name)
	if strings.TrimSpace(f.value) != "" {
		b.WriteString(" = ")
		b.WriteString(f.value)
	}
	b.WriteString(";")
	return b.String()
}

// Param is a method or constructor parameter.
type Param struct {
	annotated
	name string
	typ  resolve.Type
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// Type returns the parameter type.
func (p *Param) Type() resolve.Type { return p.typ }

// Declaration returns the parameter with its annotations, e.g. "@Valid User user".
func (p *Param) Declaration() string {
	var b strings.Builder
	for _, a := range p.annotations {
		b.WriteString(a.String())
		b.WriteString(" ")
	}
	b.WriteString(p.typ.Name())
	b.WriteString(" ")
	b.WriteString(p.name)
	return b.String()
}

// MethodModel is a method or constructor of a class.
type MethodModel struct {
	annotated
	owner  Handle
	iface  bool
	name   string
	ret    resolve.Type
	mod    Modifier
	params []*Param
	throws []resolve.Type
	body   Expr
}

// Name returns the method name.
func (m *MethodModel) Name() string { return m.name }

// Type returns the return type.
func (m *MethodModel) Type() resolve.Type { return m.ret }

// Modifiers returns the method flags.
func (m *MethodModel) Modifiers() Modifier { return m.mod }

// Owner returns the handle of the declaring class.
func (m *MethodModel) Owner() Handle { return m.owner }

// IsConstructor reports whether m is a constructor.
func (m *MethodModel) IsConstructor() bool { return m.mod.Has(Constructor) }

// Params returns the parameters in declaration order.
func (m *MethodModel) Params() []*Param { return m.params }

// ParamNames returns the parameter names in declaration order.
func (m *MethodModel) ParamNames() []string {
	names := make([]string, len(m.params))
	for i, p := range m.params {
		names[i] = p.name
	}
	return names
}

// AddParam appends a parameter.
func (m *MethodModel) AddParam(name string, t resolve.Type) (*Param, error) {
	if err := m.state.mutable(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	p := &Param{annotated: annotated{state: m.state}, name: name, typ: t}
	m.params = append(m.params, p)
	return p, nil
}

// AddThrows declares thrown types. Duplicates are ignored.
func (m *MethodModel) AddThrows(types ...resolve.Type) error {
	if err := m.state.mutable(); err != nil {
		return err
	}
	for _, t := range types {
		if !containsType(m.throws, t) {
			m.throws = append(m.throws, t)
		}
	}
	return nil
}

// Throws returns the declared thrown types.
func (m *MethodModel) Throws() []resolve.Type { return m.throws }

// SetBody sets the method body. A nil body clears it. Abstract methods and
// methods of interfaces never have a body.
func (m *MethodModel) SetBody(body Expr) error {
	if err := m.state.mutable(); err != nil {
		return err
	}
	if body != nil {
		if m.mod.Has(Abstract) {
			return modelgen.NewIllegalBodyError(m.name, false)
		}
		if m.iface {
			return modelgen.NewIllegalBodyError(m.name, true)
		}
	}
	m.body = body
	return nil
}

// Body returns the method body, or nil.
func (m *MethodModel) Body() Expr { return m.body }

// HasBody reports whether the method has a body.
func (m *MethodModel) HasBody() bool { return m.body != nil }

// Key identifies the method within its class: owner, name and parameter
// names. Overloads differing by parameter names have distinct keys.
func (m *MethodModel) Key() string {
	return m.owner.String() + "#" + m.name + "(" + strings.Join(m.ParamNames(), ",") + ")"
}

// Equal reports whether m and o have the same key.
func (m *MethodModel) Equal(o *MethodModel) bool {
	return o != nil && m.Key() == o.Key()
}

// Declaration returns the method source text, indented for a class body.
func (m *MethodModel) Declaration() string {
	var b strings.Builder
	for _, a := range m.annotations {
		b.WriteString("\t")
		b.WriteString(a.String())
		b.WriteString("\n")
	}
	b.WriteString("\t")
	b.WriteString(m.mod.visibility())
	if m.mod.Has(Abstract) {
		b.WriteString("abstract ")
	}
	if m.mod.Has(Static) {
		b.WriteString("static ")
	}
	if !m.IsConstructor() {
		b.WriteString(m.ret.Name())
		b.WriteString(" ")
	}
	b.WriteString(m.name)
	b.WriteString("(")
	for i, p := range m.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Declaration())
	}
	b.WriteString(")")
	if len(m.throws) > 0 {
		b.WriteString(" throws")
		for i, t := range m.throws {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(" ")
			b.WriteString(t.Name())
		}
	}
	if m.body == nil {
		b.WriteString(";")
		return b.String()
	}
	b.WriteString(" {\n\t\t")
	b.WriteString(m.body.String())
	b.WriteString("\n\t}")
	return b.String()
}

// collect adds the imports the method needs.
func (m *MethodModel) collect(add func(...string)) {
	m.annotated.collect(add)
	add(m.ret.Imports()...)
	for _, p := range m.params {
		p.collect(add)
		add(p.typ.Imports()...)
	}
	for _, t := range m.throws {
		add(t.FullName())
	}
}

func containsType(types []resolve.Type, t resolve.Type) bool {
	for _, x := range types {
		if resolve.Equal(x, t) {
			return true
		}
	}
	return false
}

// InitFieldsInConstructor adds one parameter per field to ctor and sets its
// body to the matching field assignments.
func InitFieldsInConstructor(ctor *MethodModel, fields ...*FieldModel) error {
	body := Block()
	for _, f := range fields {
		p, err := ctor.AddParam(f.name, f.typ)
		if err != nil {
			return err
		}
		body.Add(FieldAssign(f.name, p.Name()))
	}
	return ctor.SetBody(body)
}
