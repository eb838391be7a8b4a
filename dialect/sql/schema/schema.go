// Package schema holds the relational model of a classified project, reads
// the same model back from a live database and reports the differences.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/modelgen/compiler/relation"
)

type (
	// Table is a table of the relational model.
	Table struct {
		Name        string
		Columns     []*Column
		PrimaryKey  []*Column
		ForeignKeys []*ForeignKey
		Indexes     []*Index
	}

	// Column is a table column. Type is the base type without the size,
	// e.g. "varchar" for "varchar(64)".
	Column struct {
		Name      string
		Type      string
		Size      int
		Nullable  bool
		Unique    bool
		Increment bool
		Default   any
	}

	// ForeignKey is a single or multi column foreign key.
	ForeignKey struct {
		Symbol     string
		Columns    []*Column
		RefTable   *Table
		RefColumns []*Column
	}

	// Index is a table index.
	Index struct {
		Name    string
		Unique  bool
		Columns []*Column
	}
)

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Index returns the index with the given name, or nil.
func (t *Table) Index(name string) *Index {
	for _, idx := range t.Indexes {
		if idx.Name == name {
			return idx
		}
	}
	return nil
}

// SQLType returns the column type with its size, e.g. "varchar(64)".
func (c *Column) SQLType() string {
	if c.Size > 0 {
		return c.Type + "(" + strconv.Itoa(c.Size) + ")"
	}
	return c.Type
}

// UniqueIndexName returns the name of the unique index of a column.
func UniqueIndexName(table, column string) string {
	return strings.ToLower(table) + "_" + column + "_key"
}

// FromEngine returns the tables of an initialized relation engine.
func FromEngine(e *relation.Engine) ([]*Table, error) {
	s, err := relation.TakeSnapshot(e)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(s)
}

// FromSnapshot converts a naming snapshot into tables. Every foreign key
// must reference a table of the snapshot.
func FromSnapshot(s *relation.Snapshot) ([]*Table, error) {
	tables := make([]*Table, len(s.Tables))
	byName := make(map[string]*Table, len(s.Tables))
	for i, ts := range s.Tables {
		t := &Table{Name: ts.Name}
		for _, cs := range ts.Columns {
			typ, size := splitType(cs.Type)
			c := &Column{
				Name:      cs.Name,
				Type:      typ,
				Size:      size,
				Nullable:  cs.Nullable,
				Unique:    cs.Unique,
				Increment: cs.AutoIncrement,
			}
			t.Columns = append(t.Columns, c)
			if cs.Primary {
				t.PrimaryKey = append(t.PrimaryKey, c)
			}
			if cs.Unique && !cs.Primary {
				t.Indexes = append(t.Indexes, &Index{
					Name:    UniqueIndexName(t.Name, c.Name),
					Unique:  true,
					Columns: []*Column{c},
				})
			}
		}
		tables[i], byName[t.Name] = t, t
	}
	for i, ts := range s.Tables {
		t := tables[i]
		for _, fk := range ts.ForeignKeys {
			ref, ok := byName[fk.RefTable]
			if !ok {
				return nil, fmt.Errorf("schema: foreign key %s references unknown table %s", fk.Name, fk.RefTable)
			}
			col, refCol := t.Column(fk.Column), ref.Column(fk.RefColumn)
			if col == nil || refCol == nil {
				return nil, fmt.Errorf("schema: foreign key %s references unknown column", fk.Name)
			}
			t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
				Symbol:     fk.Name,
				Columns:    []*Column{col},
				RefTable:   ref,
				RefColumns: []*Column{refCol},
			})
		}
	}
	return tables, nil
}

// splitType splits "varchar(64)" into "varchar" and 64.
func splitType(t string) (string, int) {
	i := strings.IndexByte(t, '(')
	if i < 0 || !strings.HasSuffix(t, ")") {
		return t, 0
	}
	size, err := strconv.Atoi(t[i+1 : len(t)-1])
	if err != nil {
		return t, 0
	}
	return t[:i], size
}
