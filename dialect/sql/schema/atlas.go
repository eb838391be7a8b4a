package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/modelgen/dialect"
	"github.com/syssam/modelgen/dialect/sql"
)

// Realm returns the atlas realm holding the tables in a schema with the
// given name.
func Realm(name string, tables []*Table) *schema.Realm {
	return schema.NewRealm(Schema(name, tables))
}

// Schema returns the atlas schema of the tables.
func Schema(name string, tables []*Table) *schema.Schema {
	var (
		s   = schema.New(name)
		atl = make(map[*Table]*schema.Table, len(tables))
	)
	for _, t := range tables {
		at := schema.NewTable(t.Name)
		cols := make(map[*Column]*schema.Column, len(t.Columns))
		for _, c := range t.Columns {
			ac := schema.NewColumn(c.Name).SetType(atlasType(c)).SetNull(c.Nullable)
			at.AddColumns(ac)
			cols[c] = ac
		}
		if len(t.PrimaryKey) > 0 {
			pk := make([]*schema.Column, len(t.PrimaryKey))
			for i, c := range t.PrimaryKey {
				pk[i] = cols[c]
			}
			at.SetPrimaryKey(schema.NewPrimaryKey(pk...))
		}
		for _, idx := range t.Indexes {
			ai := schema.NewIndex(idx.Name)
			if idx.Unique {
				ai = schema.NewUniqueIndex(idx.Name)
			}
			for _, c := range idx.Columns {
				ai.AddColumns(cols[c])
			}
			at.AddIndexes(ai)
		}
		s.AddTables(at)
		atl[t] = at
	}
	for _, t := range tables {
		at := atl[t]
		for _, fk := range t.ForeignKeys {
			ref, ok := atl[fk.RefTable]
			if !ok {
				continue
			}
			afk := schema.NewForeignKey(fk.Symbol).SetRefTable(ref)
			for _, c := range fk.Columns {
				if ac, ok := at.Column(c.Name); ok {
					afk.AddColumns(ac)
				}
			}
			for _, c := range fk.RefColumns {
				if ac, ok := ref.Column(c.Name); ok {
					afk.AddRefColumns(ac)
				}
			}
			at.AddForeignKeys(afk)
		}
	}
	return s
}

func atlasType(c *Column) schema.Type {
	switch c.Type {
	case "bigint", "int", "integer", "smallint":
		return &schema.IntegerType{T: c.Type}
	case "varchar", "char":
		return &schema.StringType{T: c.Type, Size: c.Size}
	case "boolean", "bool":
		return &schema.BoolType{T: c.Type}
	case "timestamp", "datetime", "date":
		return &schema.TimeType{T: c.Type}
	default:
		return &schema.UnsupportedType{T: c.SQLType()}
	}
}

// Tables converts an inspected atlas schema into tables. Column types are
// normalized so that the same model reads back the same on every dialect.
func Tables(s *schema.Schema) []*Table {
	var (
		tables = make([]*Table, 0, len(s.Tables))
		byName = make(map[string]*Table, len(s.Tables))
	)
	for _, at := range s.Tables {
		t := &Table{Name: at.Name}
		for _, ac := range at.Columns {
			c := &Column{Name: ac.Name}
			if ac.Type != nil {
				c.Nullable = ac.Type.Null
				c.Type, c.Size = normalizeType(ac.Type)
			}
			t.Columns = append(t.Columns, c)
		}
		if at.PrimaryKey != nil {
			for _, p := range at.PrimaryKey.Parts {
				if p.C != nil {
					t.PrimaryKey = append(t.PrimaryKey, t.Column(p.C.Name))
				}
			}
		}
		for _, ai := range at.Indexes {
			if strings.HasPrefix(ai.Name, "sqlite_autoindex") {
				continue
			}
			idx := &Index{Name: ai.Name, Unique: ai.Unique}
			for _, p := range ai.Parts {
				if p.C != nil {
					idx.Columns = append(idx.Columns, t.Column(p.C.Name))
				}
			}
			if len(idx.Columns) == 0 {
				continue
			}
			if idx.Unique && len(idx.Columns) == 1 {
				idx.Columns[0].Unique = true
			}
			t.Indexes = append(t.Indexes, idx)
		}
		tables = append(tables, t)
		byName[t.Name] = t
	}
	for i, at := range s.Tables {
		t := tables[i]
		for _, afk := range at.ForeignKeys {
			if afk.RefTable == nil {
				continue
			}
			ref, ok := byName[afk.RefTable.Name]
			if !ok {
				ref = &Table{Name: afk.RefTable.Name}
			}
			fk := &ForeignKey{Symbol: afk.Symbol, RefTable: ref}
			for _, ac := range afk.Columns {
				fk.Columns = append(fk.Columns, t.Column(ac.Name))
			}
			for _, ac := range afk.RefColumns {
				rc := ref.Column(ac.Name)
				if rc == nil {
					rc = &Column{Name: ac.Name}
				}
				fk.RefColumns = append(fk.RefColumns, rc)
			}
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
	}
	return tables
}

func normalizeType(ct *schema.ColumnType) (string, int) {
	switch t := ct.Type.(type) {
	case *schema.IntegerType:
		switch strings.ToLower(t.T) {
		case "bigint", "int8", "bigserial":
			return "bigint", 0
		case "int", "integer", "int4", "serial", "mediumint":
			return "int", 0
		default:
			return strings.ToLower(t.T), 0
		}
	case *schema.StringType:
		switch strings.ToLower(t.T) {
		case "character varying", "varchar", "nvarchar":
			return "varchar", t.Size
		default:
			return strings.ToLower(t.T), t.Size
		}
	case *schema.BoolType:
		return "boolean", 0
	case *schema.TimeType:
		typ := strings.ToLower(t.T)
		if strings.HasPrefix(typ, "timestamp") || strings.HasPrefix(typ, "datetime") {
			return "timestamp", 0
		}
		return typ, 0
	case *schema.UnsupportedType:
		return splitType(strings.ToLower(t.T))
	default:
		return splitType(strings.ToLower(ct.Raw))
	}
}

// Open returns the atlas driver of a dialect on top of db.
func Open(d string, db sql.ExecQuerier) (migrate.Driver, error) {
	switch d {
	case dialect.Postgres:
		return postgres.Open(db)
	case dialect.MySQL:
		return mysql.Open(db)
	case dialect.SQLite:
		return sqlite.Open(db)
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}
}

// Inspect reads the tables of the named database schema. An empty name is
// the current schema of the connection.
func Inspect(ctx context.Context, db sql.ExecQuerier, d, name string) ([]*Table, error) {
	_, s, err := inspect(ctx, db, d, name)
	if err != nil {
		return nil, err
	}
	return Tables(s), nil
}

func inspect(ctx context.Context, db sql.ExecQuerier, d, name string) (migrate.Driver, *schema.Schema, error) {
	drv, err := Open(d, db)
	if err != nil {
		return nil, nil, err
	}
	if name == "" && d == dialect.SQLite {
		name = "main"
	}
	s, err := drv.InspectSchema(ctx, name, &schema.InspectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("schema: inspect %s: %w", d, err)
	}
	return drv, s, nil
}

// changes returns the atlas changes migrating the database to tables.
func changes(ctx context.Context, db sql.ExecQuerier, d, name string, tables []*Table) (migrate.Driver, []schema.Change, error) {
	drv, current, err := inspect(ctx, db, d, name)
	if err != nil {
		return nil, nil, err
	}
	cs, err := drv.SchemaDiff(current, Schema(current.Name, tables))
	if err != nil {
		return nil, nil, fmt.Errorf("schema: diff: %w", err)
	}
	return drv, cs, nil
}

// Plan returns the statements migrating the database to tables, without
// executing them.
func Plan(ctx context.Context, db sql.ExecQuerier, d, name string, tables []*Table) ([]string, error) {
	drv, cs, err := changes(ctx, db, d, name, tables)
	if err != nil || len(cs) == 0 {
		return nil, err
	}
	plan, err := drv.PlanChanges(ctx, "modelgen", cs)
	if err != nil {
		return nil, fmt.Errorf("schema: plan: %w", err)
	}
	stmts := make([]string, len(plan.Changes))
	for i, c := range plan.Changes {
		stmts[i] = c.Cmd
	}
	return stmts, nil
}

// Apply migrates the database to tables.
func Apply(ctx context.Context, db sql.ExecQuerier, d, name string, tables []*Table) error {
	drv, cs, err := changes(ctx, db, d, name, tables)
	if err != nil || len(cs) == 0 {
		return err
	}
	if err := drv.ApplyChanges(ctx, cs); err != nil {
		return fmt.Errorf("schema: apply: %w", err)
	}
	return nil
}
