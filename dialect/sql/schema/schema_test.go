package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/relation"
	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/dialect"
	"github.com/syssam/modelgen/dialect/sql"
	"github.com/syssam/modelgen/schema"
)

func schoolTables(t *testing.T) []*Table {
	t.Helper()
	id := func() *schema.Field { return schema.NewField("id", "Long", schema.Primary()) }
	student := schema.NewEntity("Student",
		id(),
		schema.NewField("name", "String", schema.Max(100)),
		schema.NewField("email", "String", schema.Max(64), schema.Unique()),
		schema.NewField("active", "Boolean"),
		schema.NewField("enrolled", "Date", schema.Nullable()),
		schema.NewField("courses", "List<Course>"),
		schema.NewField("mentor", "Teacher", schema.Nullable()),
	)
	course := schema.NewEntity("Course", id(), schema.NewField("students", "List<Student>"))
	teacher := schema.NewEntity("Teacher", id(), schema.NewField("mentees", "Set<Student>"))
	p := schema.NewProject("school", schema.NewModule("core", "com.example").AddEntities(student, course, teacher))
	idx, err := resolve.IndexProject(p, func(m *schema.Module) *resolve.Chain { return resolve.ForModule(p, m) })
	require.NoError(t, err)
	e := relation.New(p, idx, relation.DefaultConfig())
	require.NoError(t, e.Init())
	tables, err := FromEngine(e)
	require.NoError(t, err)
	return tables
}

func table(tables []*Table, name string) *Table {
	for _, t := range tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func openSQLite(t *testing.T, name string) *sql.Driver {
	t.Helper()
	drv, err := sql.Open(dialect.SQLite, "file:"+name+"?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	return drv
}

func TestFromEngine(t *testing.T) {
	tables := schoolTables(t)
	require.Len(t, tables, 4)

	student := table(tables, "T_STUDENT")
	require.NotNil(t, student)
	require.Len(t, student.Columns, 6)
	assert.Equal(t, []*Column{student.Column("id")}, student.PrimaryKey)
	assert.True(t, student.Column("id").Increment)
	assert.Equal(t, "varchar", student.Column("name").Type)
	assert.Equal(t, 100, student.Column("name").Size)
	assert.Equal(t, "varchar(100)", student.Column("name").SQLType())
	assert.Equal(t, "timestamp", student.Column("enrolled").Type)
	assert.True(t, student.Column("enrolled").Nullable)
	assert.True(t, student.Column("teacher_id").Nullable)

	require.Len(t, student.Indexes, 1)
	assert.Equal(t, "t_student_email_key", student.Indexes[0].Name)
	assert.True(t, student.Indexes[0].Unique)

	require.Len(t, student.ForeignKeys, 1)
	fk := student.ForeignKeys[0]
	assert.Equal(t, "fk_student_teacher_teacher_id", fk.Symbol)
	assert.Equal(t, table(tables, "T_TEACHER"), fk.RefTable)
	assert.Equal(t, "id", fk.RefColumns[0].Name)

	join := table(tables, "T_COURSE_STUDENT")
	require.NotNil(t, join)
	assert.Len(t, join.PrimaryKey, 2)
	assert.Len(t, join.ForeignKeys, 2)

	r := ValidateSchema(tables)
	assert.False(t, r.HasErrors(), r.String())
	assert.False(t, r.HasWarnings(), r.String())
}

func TestFromSnapshotUnknownTable(t *testing.T) {
	_, err := FromSnapshot(&relation.Snapshot{Tables: []*relation.TableSnapshot{{
		Name:        "T_A",
		Columns:     []relation.ColumnSnapshot{{Name: "b_id", Type: "bigint"}},
		ForeignKeys: []relation.ForeignKeySnapshot{{Name: "fk", Column: "b_id", RefTable: "T_B", RefColumn: "id"}},
	}}})
	assert.EqualError(t, err, "schema: foreign key fk references unknown table T_B")
}

func TestSplitType(t *testing.T) {
	tests := []struct {
		in   string
		typ  string
		size int
	}{
		{"varchar(64)", "varchar", 64},
		{"bigint", "bigint", 0},
		{"decimal(10,2)", "decimal(10,2)", 0},
	}
	for _, tt := range tests {
		typ, size := splitType(tt.in)
		assert.Equal(t, tt.typ, typ, tt.in)
		assert.Equal(t, tt.size, size, tt.in)
	}
}

func TestRealm(t *testing.T) {
	tables := schoolTables(t)
	r := Realm("main", tables)
	require.Len(t, r.Schemas, 1)
	s := r.Schemas[0]
	assert.Equal(t, "main", s.Name)
	require.Len(t, s.Tables, 4)

	st, ok := s.Table("T_STUDENT")
	require.True(t, ok)
	require.NotNil(t, st.PrimaryKey)
	assert.Len(t, st.PrimaryKey.Parts, 1)
	require.Len(t, st.ForeignKeys, 1)
	assert.Equal(t, "T_TEACHER", st.ForeignKeys[0].RefTable.Name)

	name, ok := st.Column("name")
	require.True(t, ok)
	assert.False(t, name.Type.Null)

	// The atlas schema reads back as the same tables.
	back := Tables(s)
	r2 := ValidateDiff(back, tables)
	assert.False(t, r2.HasErrors(), r2.String())
	assert.False(t, r2.HasWarnings(), r2.String())
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	tables := schoolTables(t)

	t.Run("apply and verify", func(t *testing.T) {
		drv := openSQLite(t, "apply")
		stmts, err := Plan(ctx, drv, dialect.SQLite, "", tables)
		require.NoError(t, err)
		require.NotEmpty(t, stmts)
		assert.Contains(t, stmts[0], "CREATE TABLE")

		require.NoError(t, Apply(ctx, drv, dialect.SQLite, "", tables))
		r, err := Verify(ctx, drv, dialect.SQLite, "", tables)
		require.NoError(t, err)
		assert.False(t, r.HasErrors(), r.String())

		current, err := Inspect(ctx, drv, dialect.SQLite, "")
		require.NoError(t, err)
		student := table(current, "T_STUDENT")
		require.NotNil(t, student)
		assert.True(t, student.Column("email").Unique)
		assert.Equal(t, "bigint", student.Column("id").Type)
	})

	t.Run("drift", func(t *testing.T) {
		drv := openSQLite(t, "drift")
		_, err := drv.ExecContext(ctx, "CREATE TABLE T_TEACHER (id bigint NOT NULL PRIMARY KEY, nickname text)")
		require.NoError(t, err)
		r, err := Verify(ctx, drv, dialect.SQLite, "", tables)
		require.NoError(t, err)
		assert.Len(t, r.Errors, 3)
		assert.True(t, r.HasBreakingChanges())
		require.Len(t, r.Warnings, 1)
		assert.Equal(t, "T_TEACHER.nickname: column is not mapped", r.Warnings[0].Error())

		r, err = Verify(ctx, drv, dialect.SQLite, "", tables, StrictColumns())
		require.NoError(t, err)
		assert.Len(t, r.Errors, 4)
	})

	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := Inspect(ctx, openSQLite(t, "oracle"), "oracle", "")
		assert.EqualError(t, err, `schema: unsupported dialect "oracle"`)
	})
}
