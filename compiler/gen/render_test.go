package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

func TestTemplateRenderer(t *testing.T) {
	g := testGraph(t)
	core := g.Project.Modules[0]
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	t.Run("class", func(t *testing.T) {
		c, err := g.EntityClass(core.Entity("Tag"))
		require.NoError(t, err)
		ctx, err := c.Build()
		require.NoError(t, err)
		out, err := r.Render(ClassTemplate, ctx)
		require.NoError(t, err)
		src := string(out)

		assert.True(t, strings.HasPrefix(src, "package com.example.model;\n\nimport java.io.Serializable;\nimport javax.persistence.Column;\n"), src)
		for _, want := range []string{
			"import javax.persistence.Table;\n\n@Entity\n@Table(name = \"T_TAG\")\npublic class Tag implements Serializable {\n",
			"\t@Id\n\t@GeneratedValue(strategy = GenerationType.IDENTITY)\n\t@Column(name = \"id\", nullable = false)\n\tprivate Long id;\n",
			"\t@Column(name = \"label\", length = 32, nullable = false)\n\tprivate String label;",
			"\tpublic Long getId() {\n\t\treturn id;\n\t}",
			"\tpublic void setLabel(String label) {\n\t\tthis.label = label;\n\t}",
			"\t\tTag that = (Tag) o;\n\t\treturn java.util.Objects.equals(id, that.id);",
			"return java.util.Objects.hashCode(id);",
		} {
			assert.Contains(t, src, want)
		}
		assert.NotContains(t, src, "toString")
		assert.True(t, strings.HasSuffix(src, "\n}\n"), src)
	})

	t.Run("class with comment and toString", func(t *testing.T) {
		c, err := g.EntityClass(core.Entity("User"))
		require.NoError(t, err)
		require.NoError(t, c.SetHasToString(true))
		ctx, err := c.Build()
		require.NoError(t, err)
		out, err := r.Render(ClassTemplate, ctx)
		require.NoError(t, err)
		src := string(out)
		assert.Contains(t, src, ";\n\n/**\n * A customer.\n */\n@Entity\n")
		assert.Contains(t, src, "\t\treturn \"User{\" +\n\t\t\t\"id=\" + id +\n\t\t\t\", name=\" + name +")
	})

	t.Run("enum", func(t *testing.T) {
		ctx, err := g.EnumClass(core, core.Enum("Status")).Build()
		require.NoError(t, err)
		out, err := r.Render(EnumTemplate, ctx)
		require.NoError(t, err)
		assert.Equal(t, "package com.example.model;\n\n/**\n * User status.\n */\npublic enum Status {\n"+
			"\t/**\n\t * Active user\n\t */\n\tACTIVE,\n\tBLOCKED\n}\n", string(out))
	})

	t.Run("default package", func(t *testing.T) {
		c := source.NewClass(resolve.NewNamed("Note", ""), source.Public)
		ctx, err := c.Build()
		require.NoError(t, err)
		out, err := r.Render(ClassTemplate, ctx)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "package")
		assert.Contains(t, string(out), "public class Note {")

		em := source.NewEnum(resolve.NewEnum(schema.NewEnum("Level", schema.Item("LOW", "")), ""))
		ctx, err = em.Build()
		require.NoError(t, err)
		out, err = r.Render(EnumTemplate, ctx)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "package")
		assert.Contains(t, string(out), "public enum Level {")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := r.Render("interface", source.Context{})
		assert.EqualError(t, err, `gen: template "interface" not defined`)
	})
}

func TestTemplateOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enum.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{ define "enum" }}enum {{ .name }}{{ end }}`), 0o644))
	r, err := NewTemplateRenderer(path)
	require.NoError(t, err)
	out, err := r.Render(EnumTemplate, source.Context{"name": "Status"})
	require.NoError(t, err)
	assert.Equal(t, "enum Status", string(out))

	_, err = NewTemplateRenderer(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.Error(t, err)
}
