package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/dialect"
	"github.com/syssam/modelgen/dialect/sql"
	"github.com/syssam/modelgen/dialect/sql/schema"
)

const shopModel = `name: shop
modules:
  - name: core
    package: com.example
    entities:
      - name: User
        fields:
          - {name: id, type: Long, primary: true}
          - {name: name, type: String, max: 64, unique: true}
          - {name: orders, type: List<Order>}
      - name: Order
        fields:
          - {name: id, type: Long, primary: true}
          - {name: user, type: User}
          - {name: status, type: Status}
    enums:
      - name: Status
        items:
          - {name: OPEN}
          - {name: CLOSED}
`

func init() {
	color.NoColor = true
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shopModel), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "modelgen", cmd.Use)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"generate", "verify", "snapshot", "features", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionAndFeatures(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modelgen version: dev")

	out, err = run(t, "features")
	require.NoError(t, err)
	assert.Contains(t, out, "jpa")
	assert.Contains(t, out, "graphql")
}

func TestGenerate(t *testing.T) {
	model := writeModel(t)
	target := t.TempDir()

	out, err := run(t, "generate", model, "--target", target, "--features", "jpa,golang", "--mixins", "time")
	require.NoError(t, err)
	assert.Contains(t, out, "generated")

	user, err := os.ReadFile(filepath.Join(target, "com", "example", "model", "User.java"))
	require.NoError(t, err)
	assert.Contains(t, string(user), "@Entity")
	assert.Contains(t, string(user), "createdAt")
	assert.FileExists(t, filepath.Join(target, "com", "example", "model", "Status.java"))
	assert.FileExists(t, filepath.Join(target, "go", "com", "example", "model", "user.go"))
	assert.NoFileExists(t, filepath.Join(target, "schema.graphql"))
}

func TestGenerateConfigFile(t *testing.T) {
	model := writeModel(t)
	target := t.TempDir()
	config := filepath.Join(t.TempDir(), "modelgen.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"model: "+model+"\ntarget: "+target+"\nfeatures: [jpa, graphql]\npackage: domain\n"), 0o644))

	_, err := run(t, "generate", "--config", config)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "com", "example", "domain", "User.java"))
	assert.FileExists(t, filepath.Join(target, "schema.graphql"))
	assert.FileExists(t, filepath.Join(target, "gqlgen.yml"))
}

func TestGenerateErrors(t *testing.T) {
	model := writeModel(t)

	_, err := run(t, "generate", model, "--target", t.TempDir(), "--features", "nope")
	assert.EqualError(t, err, `unknown feature "nope"`)

	_, err = run(t, "generate", model, "--target", t.TempDir(), "--mixins", "audit")
	assert.EqualError(t, err, `mixin: unknown mixin "audit"`)

	_, err = run(t, "generate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load: read model")

	_, err = run(t, "generate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestVerify(t *testing.T) {
	model := writeModel(t)
	dsn := "file:" + filepath.Join(t.TempDir(), "shop.db") + "?_pragma=foreign_keys(1)"

	out, err := run(t, "verify", model, "--dialect", "sqlite3", "--dsn", dsn)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, out, "T_USER: table is missing")

	out, err = run(t, "verify", model, "--dialect", "sqlite", "--dsn", dsn, "--plan")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")

	// Create the tables the way the model describes them.
	a := &app{v: newViper(), cfg: &Config{Target: "gen", Package: "model"}, log: zap.NewNop()}
	g, err := a.graph([]string{model})
	require.NoError(t, err)
	tables, err := schema.FromEngine(g.Relations)
	require.NoError(t, err)
	drv, err := sql.Open(dialect.SQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, schema.Apply(context.Background(), drv, dialect.SQLite, "", tables))
	require.NoError(t, drv.Close())

	out, err = run(t, "verify", model, "--dialect", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "database matches the model")

	_, err = run(t, "verify", model)
	assert.EqualError(t, err, "verify: --dialect and --dsn are required")
}

func TestSnapshot(t *testing.T) {
	model := writeModel(t)
	file := filepath.Join(t.TempDir(), "snapshot.msgpack")

	out, err := run(t, "snapshot", model, "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "T_USER (User)")
	assert.Contains(t, out, "fk_order_user_user_id: user_id -> T_USER.id")
	assert.FileExists(t, file)

	out, err = run(t, "snapshot", model, "--against", file)
	require.NoError(t, err)
	assert.Contains(t, out, "no changes")

	out, err = run(t, "snapshot", model, "--against", file, "--mixins", "soft_delete")
	require.NoError(t, err)
	assert.Contains(t, out, "column added: T_USER.deleted_at")
}
