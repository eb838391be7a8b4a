package golang_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/gen/golang"
	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

// decls parses src and returns its package name and the names of its
// top-level types, functions and methods.
func decls(t *testing.T, src []byte) (string, map[string]bool) {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "x.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))
	names := make(map[string]bool)
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			names[d.Name.Name] = true
		case *ast.GenDecl:
			for _, s := range d.Specs {
				switch s := s.(type) {
				case *ast.TypeSpec:
					names[s.Name.Name] = true
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names[n.Name] = true
					}
				}
			}
		}
	}
	return f.Name.Name, names
}

func TestRenderClass(t *testing.T) {
	require := require.New(t)
	order := schema.NewEntity("Order")
	status := schema.NewEnum("Status", schema.Item("ACTIVE", ""))
	c := source.NewClass(resolve.NewEntityRef(schema.NewEntity("User"), "com.example.model"), source.Public)
	require.NoError(c.SetComment("User is a customer."))
	fields := []struct {
		name string
		typ  resolve.Type
		mod  source.Modifier
	}{
		{"id", resolve.NewPrimitive("Long"), source.Private | source.GetSet | source.UseEquals},
		{"active", resolve.NewPrimitive("Boolean"), source.Private | source.GetSet},
		{"created", resolve.NewPrimitive("Date"), source.Private | source.Get},
		{"status", resolve.NewEnum(status, "com.example.model"), source.Private | source.GetSet},
		{"orders", resolve.NewGeneric("List<Order>", resolve.NewNamed("List", "java.util"), resolve.NewEntityRef(order, "com.example.model")), source.Private | source.GetSet},
	}
	for _, f := range fields {
		_, err := c.AddField(f.name, f.typ, f.mod)
		require.NoError(err)
	}
	require.NoError(c.SetHasToString(true))
	ctx, err := c.Build()
	require.NoError(err)

	src, err := golang.NewRenderer().Render("class", ctx)
	require.NoError(err)
	pkg, names := decls(t, src)
	require.Equal("model", pkg)
	for _, n := range []string{"User", "GetId", "SetId", "IsActive", "SetActive", "GetCreated", "GetOrders", "SetOrders", "Equal", "String"} {
		assert.True(t, names[n], "missing %s in\n%s", n, src)
	}
	assert.False(t, names["SetCreated"])
	assert.Contains(t, string(src), "// User is a customer.")
	assert.Contains(t, string(src), `"time"`)
	assert.Regexp(t, `Orders\s+\[\]\*Order\s+`+"`json:\"orders,omitempty\"`", string(src))
	assert.Regexp(t, `Status\s+Status\s+`, string(src))
}

func TestRenderEnum(t *testing.T) {
	require := require.New(t)
	def := schema.NewEnum("Status", schema.Item("ACTIVE", "Active user"), schema.Item("IN_PROGRESS", ""))
	ctx, err := source.NewEnum(resolve.NewEnum(def, "com.example.core.model")).Build()
	require.NoError(err)

	src, err := golang.NewRenderer().Render("enum", ctx)
	require.NoError(err)
	pkg, names := decls(t, src)
	require.Equal("model", pkg)
	for _, n := range []string{"Status", "StatusActive", "StatusInProgress", "StatusValues", "String"} {
		assert.True(t, names[n], "missing %s in\n%s", n, src)
	}
	assert.Contains(t, string(src), "// Active user")
	assert.Regexp(t, `StatusInProgress\s+Status = "IN_PROGRESS"`, string(src))
}

func TestRenderErrors(t *testing.T) {
	r := golang.NewRenderer()
	_, err := r.Render("interface", source.Context{"name": "X"})
	require.Error(t, err)

	_, err = r.Render("enum", source.Context{"name": "X"})
	require.Error(t, err)

	c := source.NewClass(resolve.NewNamed("Blob", "com.example.model"), source.Public)
	_, err = c.AddField("data", resolve.NewNamed("Blob", "java.sql"), source.Private)
	require.NoError(t, err)
	ctx, err := c.Build()
	require.NoError(t, err)
	_, err = r.Render("class", ctx)
	require.ErrorContains(t, err, "no Go type for java.sql.Blob")
}

func TestImportPrefix(t *testing.T) {
	require := require.New(t)
	status := schema.NewEnum("Status", schema.Item("ACTIVE", ""))
	customer := schema.NewEntity("Customer")
	c := source.NewClass(resolve.NewNamed("Invoice", "com.example.billing.model"), source.Public)
	_, err := c.AddField("status", resolve.NewEnum(status, "com.example.core.model"), source.Private)
	require.NoError(err)
	_, err = c.AddField("customer", resolve.NewEntityRef(customer, "com.example.billing.model"), source.Private)
	require.NoError(err)
	ctx, err := c.Build()
	require.NoError(err)

	r := golang.NewRenderer(golang.WithImportPrefix("example.com/shop/go/"))
	assert.Equal(t, "example.com/shop/go/com/example/billing/model", r.ImportPath("com.example.billing.model"))
	src, err := r.Render("class", ctx)
	require.NoError(err)
	pkg, _ := decls(t, src)
	require.Equal("model", pkg)

	f, err := parser.ParseFile(token.NewFileSet(), "invoice.go", src, parser.ImportsOnly)
	require.NoError(err)
	require.Len(f.Imports, 1, string(src))
	require.Equal(`"example.com/shop/go/com/example/core/model"`, f.Imports[0].Path.Value)
	require.NotContains(string(src), "billing/model\"")
	require.Regexp(`Customer\s+\*Customer\s+`, string(src))
	require.Regexp(`Status\s+\w+\.Status\s+`, string(src))
}

func TestNames(t *testing.T) {
	tests := []struct {
		in, pkg string
	}{
		{"com.example.model", "model"},
		{"com.Example.Billing", "billing"},
		{"", "model"},
		{"com.example.v2", "v2"},
		{"com.example.2x", "model2x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pkg, golang.PackageName(tt.in), tt.in)
	}
	assert.Equal(t, "com/example/sales/model", golang.PackagePath("com.example.sales.model"))
	assert.Equal(t, "com/example/billing", golang.PackagePath("com.Example.Billing"))
	assert.Equal(t, "model", golang.PackagePath(""))
	assert.Equal(t, "com/model2x", golang.PackagePath("com..2x"))
	assert.Equal(t, "order_item.go", golang.FileName("OrderItem"))
	assert.Equal(t, "user.go", golang.FileName("User"))
	assert.Equal(t, "UserId", golang.FieldName("userId"))
	assert.Equal(t, "InProgress", golang.ConstName("IN_PROGRESS"))
	assert.Equal(t, "Active", golang.ConstName("ACTIVE"))
}
