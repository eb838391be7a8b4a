package gen

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/syssam/modelgen/compiler/source"
)

// Template names known to every renderer.
const (
	ClassTemplate = "class"
	EnumTemplate  = "enum"
)

// Renderer turns a built class context into file content. name is the
// template to use, ClassTemplate or EnumTemplate.
type Renderer interface {
	Render(name string, ctx source.Context) ([]byte, error)
}

//go:embed template/*.tmpl
var templateFS embed.FS

// TemplateRenderer renders Java sources with text/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer returns a renderer using the embedded class and enum
// templates. Extra template files override the embedded definitions.
func NewTemplateRenderer(overrides ...string) (*TemplateRenderer, error) {
	tmpl, err := template.New("modelgen").ParseFS(templateFS, "template/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("gen: parse templates: %w", err)
	}
	if len(overrides) > 0 {
		if tmpl, err = tmpl.ParseFiles(overrides...); err != nil {
			return nil, fmt.Errorf("gen: parse template overrides: %w", err)
		}
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes the named template with ctx.
func (r *TemplateRenderer) Render(name string, ctx source.Context) ([]byte, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("gen: template %q not defined", name)
	}
	var b bytes.Buffer
	if err := t.Execute(&b, ctx); err != nil {
		return nil, fmt.Errorf("gen: execute template %q: %w", name, err)
	}
	return b.Bytes(), nil
}
