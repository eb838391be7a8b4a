package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/schema"
)

func shop() *schema.Project {
	core := schema.NewModule("core", "com.example.shop").
		AddEntities(
			schema.NewEntity("User",
				schema.NewField("id", "Long", schema.Primary()),
				schema.NewField("email", "String", schema.Max(128), schema.Unique()),
				schema.NewField("orders", "List<Order>"),
			),
			schema.NewEntity("Order",
				schema.NewField("id", "Long", schema.Primary()),
				schema.NewField("user", "User", schema.Lazy()),
			),
		).
		AddEnums(schema.NewEnum("Status", schema.Item("ACTIVE", "Active"), schema.Item("BLOCKED", "")))
	return schema.NewProject("shop", core)
}

func TestFieldOptions(t *testing.T) {
	f := schema.NewField("name", "String",
		schema.Nullable(), schema.Unique(), schema.Max(64), schema.Lazy(),
		schema.WithRelation(schema.RelationManyToOne), schema.Comment("display name"))
	assert.True(t, f.Nullable)
	assert.True(t, f.Unique)
	assert.True(t, f.Lazy)
	assert.False(t, f.Primary)
	assert.True(t, f.HasMax())
	assert.Equal(t, 64, f.Max)
	assert.Equal(t, schema.RelationManyToOne, f.Relation)
	assert.Equal(t, "display name", f.Description)
	assert.NotEqual(t, schema.NewField("name", "String").ID, f.ID)
}

func TestRelation(t *testing.T) {
	tests := []struct {
		in   string
		want schema.Relation
	}{
		{"", schema.RelationUnspecified},
		{"OneToOne", schema.RelationOneToOne},
		{"manytoone", schema.RelationManyToOne},
		{"ManyToMany", schema.RelationManyToMany},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := schema.ParseRelation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := schema.ParseRelation("Sideways")
	require.Error(t, err)
	assert.Equal(t, "OneToMany", schema.RelationOneToMany.String())
	assert.Equal(t, "Relation(42)", schema.Relation(42).String())
}

func TestProjectLookups(t *testing.T) {
	p := shop()
	core := p.Module("core")
	require.NotNil(t, core)
	assert.Nil(t, p.Module("billing"))

	user := core.Entity("User")
	require.NotNil(t, user)
	assert.Equal(t, "id", user.PrimaryField().Name)
	assert.Equal(t, "email", user.Field("email").Name)
	assert.Nil(t, user.Field("missing"))
	assert.NotNil(t, core.Enum("Status"))
	assert.Nil(t, core.Enum("User"))
	assert.Len(t, p.Entities(), 2)
	assert.Equal(t, "User.email", schema.Qualified(user, user.Field("email")))
	assert.Equal(t, "email", schema.Qualified(nil, user.Field("email")))
	assert.Nil(t, schema.NewEntity("Empty").PrimaryField())
}

func TestProjectWalk(t *testing.T) {
	var visited []string
	err := shop().Walk(func(_ *schema.Module, e *schema.Entity, f *schema.Field) error {
		visited = append(visited, schema.Qualified(e, f))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"User.id", "User.email", "User.orders", "Order.id", "Order.user"}, visited)

	stop := errors.New("stop")
	count := 0
	err = shop().Walk(func(*schema.Module, *schema.Entity, *schema.Field) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}

func TestValidate(t *testing.T) {
	require.NoError(t, shop().Validate())

	tests := []struct {
		name    string
		project func() *schema.Project
		msg     string
	}{
		{
			name: "two primary fields",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").AddEntities(schema.NewEntity("User",
					schema.NewField("id", "Long", schema.Primary()),
					schema.NewField("uid", "Long", schema.Primary()),
				)))
			},
			msg: `entity already has primary field "id"`,
		},
		{
			name: "invalid field name",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").AddEntities(schema.NewEntity("User",
					schema.NewField("1st", "Long"),
				)))
			},
			msg: "is not a valid identifier",
		},
		{
			name: "redeclared field",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").AddEntities(schema.NewEntity("User",
					schema.NewField("name", "String", schema.Max(5)),
					schema.NewField("name", "String", schema.Max(5)),
				)))
			},
			msg: "field redeclared",
		},
		{
			name: "enum and entity share a name",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").
					AddEntities(schema.NewEntity("Status")).
					AddEnums(schema.NewEnum("Status")))
			},
			msg: "enum name conflicts with entity",
		},
		{
			name: "nullable primary",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").AddEntities(schema.NewEntity("User",
					schema.NewField("id", "Long", schema.Primary(), schema.Nullable()),
				)))
			},
			msg: "primary field cannot be nullable",
		},
		{
			name: "empty type",
			project: func() *schema.Project {
				return schema.NewProject("p", schema.NewModule("m", "x").AddEntities(schema.NewEntity("User",
					schema.NewField("id", " "),
				)))
			},
			msg: "field type cannot be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			var verr *schema.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}
