package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/schema"
)

func TestLoadYAML(t *testing.T) {
	require := require.New(t)
	p, err := Load("testdata/shop.yaml")
	require.NoError(err)
	require.NoError(p.Validate())
	require.Equal("shop", p.Name)
	require.Len(p.Modules, 1)

	m := p.Modules[0]
	require.Equal("com.example.shop", m.Package)
	require.Len(m.Entities, 3)

	user := m.Entity("User")
	require.NotNil(user)
	require.Equal("A registered customer.", user.Description)
	require.Equal("id", user.PrimaryField().Name)

	email := user.Field("email")
	require.Equal(128, email.Max)
	require.True(email.Unique)
	require.False(email.Nullable)

	profile := user.Field("profile")
	require.Equal(schema.RelationOneToOne, profile.Relation)
	require.True(profile.Nullable)

	customer := m.Entity("Order").Field("customer")
	require.Equal(schema.RelationManyToOne, customer.Relation)
	require.True(customer.Lazy)
	require.Equal(schema.RelationUnspecified, user.Field("orders").Relation)

	status := m.Enum("Status")
	require.NotNil(status)
	require.Equal("Account state.", status.Description)
	require.Equal([]*schema.EnumItem{schema.Item("ACTIVE", "Active"), schema.Item("BLOCKED", "")}, status.Items)

	ids := map[string]bool{}
	require.NoError(p.Walk(func(_ *schema.Module, _ *schema.Entity, f *schema.Field) error {
		require.False(ids[f.ID.String()], "field identities are unique")
		ids[f.ID.String()] = true
		return nil
	}))
	require.Len(ids, 10)
}

func TestLoadJSON(t *testing.T) {
	p, err := Load("testdata/shop.json")
	require.NoError(t, err)
	require.Len(t, p.Entities(), 2)
	require.Equal(t, "Set<Order>", p.Modules[0].Entity("User").Field("orders").Type)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"Empty", "", "empty model"},
		{"UnknownKey", "name: x\nmodulez: []\n", "modulez"},
		{"BadRelation", "modules:\n  - name: m\n    entities:\n      - name: A\n        fields:\n          - {name: b, type: B, relation: Sideways}\n", `unknown relation "Sideways"`},
		{"NegativeMax", "modules:\n  - name: m\n    entities:\n      - name: A\n        fields:\n          - {name: b, type: String, max: -1}\n", "negative max"},
		{"Syntax", "modules: [", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalProject([]byte(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalProject(t *testing.T) {
	require := require.New(t)
	p, err := Load("testdata/shop.yaml")
	require.NoError(err)
	buf, err := MarshalProject(p)
	require.NoError(err)
	require.Contains(string(buf), "relation: OneToOne")
	require.NotContains(string(buf), "relation: \"\"")

	again, err := UnmarshalProject(buf)
	require.NoError(err)
	require.Equal(len(p.Entities()), len(again.Entities()))
	for i, e := range p.Entities() {
		other := again.Entities()[i]
		require.Equal(e.Name, other.Name)
		require.NotEqual(e.ID, other.ID)
		for j, f := range e.Fields {
			g := other.Fields[j]
			require.Equal(f.Name, g.Name)
			require.Equal(f.Type, g.Type)
			require.Equal(f.Relation, g.Relation)
			require.Equal(f.Max, g.Max)
			require.Equal(f.Nullable, g.Nullable)
		}
	}
	require.Equal(p.Modules[0].Enums[0].Items, again.Modules[0].Enums[0].Items)
}
