package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/contrib/mixin"
	"github.com/syssam/modelgen/schema"
)

func fieldNames(e *schema.Entity) []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

func TestFields(t *testing.T) {
	t.Run("time", func(t *testing.T) {
		fields := mixin.Time{}.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "createdAt", fields[0].Name)
		assert.Equal(t, "updatedAt", fields[1].Name)
		assert.Equal(t, "Date", fields[0].Type)
	})

	t.Run("id", func(t *testing.T) {
		fields := mixin.ID{}.Fields()
		require.Len(t, fields, 1)
		assert.True(t, fields[0].Primary)
		assert.Equal(t, "Long", fields[0].Type)
	})

	t.Run("soft_delete", func(t *testing.T) {
		fields := mixin.SoftDelete{}.Fields()
		require.Len(t, fields, 1)
		assert.True(t, fields[0].Nullable)
	})

	t.Run("fresh_identities", func(t *testing.T) {
		a, b := mixin.TenantID{}.Fields(), mixin.TenantID{}.Fields()
		assert.NotEqual(t, a[0].ID, b[0].ID)
	})
}

func TestApply(t *testing.T) {
	user := schema.NewEntity("User", schema.NewField("name", "String"))
	order := schema.NewEntity("Order",
		schema.NewField("ref", "String", schema.Primary()),
		schema.NewField("createdAt", "Date", schema.Nullable()),
	)
	p := schema.NewProject("shop", schema.NewModule("core", "com.example").AddEntities(user, order))
	v := mixin.Apply(mixin.ID{}, mixin.Time{})

	require.NoError(t, v.VisitModel(p, gen.PhaseEdit))
	assert.Equal(t, []string{"name"}, fieldNames(user))

	require.NoError(t, v.VisitModel(p, gen.PhaseInit))
	assert.Equal(t, []string{"id", "name", "createdAt", "updatedAt"}, fieldNames(user))
	assert.Equal(t, []string{"ref", "createdAt", "updatedAt"}, fieldNames(order))
	assert.True(t, order.Field("createdAt").Nullable)
	assert.NotEqual(t, user.Field("updatedAt").ID, order.Field("updatedAt").ID)
	assert.NoError(t, p.Validate())
}

func TestByName(t *testing.T) {
	mixins, err := mixin.ByName("id", " time ")
	require.NoError(t, err)
	assert.Equal(t, []mixin.Mixin{mixin.ID{}, mixin.Time{}}, mixins)

	_, err = mixin.ByName("audit")
	assert.EqualError(t, err, `mixin: unknown mixin "audit"`)
}
