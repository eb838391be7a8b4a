package relation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the format version written by Encode.
const SnapshotVersion = 1

type (
	// Snapshot records every naming output of a classified project: tables,
	// columns, foreign keys and join tables. It is compared against the snapshot
	// of a previous run to detect schema naming drift.
	Snapshot struct {
		Version int              `msgpack:"version"`
		Tables  []*TableSnapshot `msgpack:"tables"`
	}

	// TableSnapshot is one table. Entity is empty for join tables.
	TableSnapshot struct {
		Name        string               `msgpack:"name"`
		Entity      string               `msgpack:"entity,omitempty"`
		Columns     []ColumnSnapshot     `msgpack:"columns"`
		ForeignKeys []ForeignKeySnapshot `msgpack:"foreign_keys,omitempty"`
	}

	// ColumnSnapshot is one column of a table.
	ColumnSnapshot struct {
		Name          string `msgpack:"name"`
		Type          string `msgpack:"type"`
		Length        int    `msgpack:"length,omitempty"`
		Nullable      bool   `msgpack:"nullable,omitempty"`
		Unique        bool   `msgpack:"unique,omitempty"`
		Primary       bool   `msgpack:"primary,omitempty"`
		AutoIncrement bool   `msgpack:"auto_increment,omitempty"`
	}

	// ForeignKeySnapshot is a foreign key constraint on a single column.
	ForeignKeySnapshot struct {
		Name      string `msgpack:"name"`
		Column    string `msgpack:"column"`
		RefTable  string `msgpack:"ref_table"`
		RefColumn string `msgpack:"ref_column"`
	}
)

// TakeSnapshot builds the snapshot of an initialized engine. Tables are sorted
// by name, columns keep field declaration order.
func TakeSnapshot(e *Engine) (*Snapshot, error) {
	var (
		tables = make(map[string]*TableSnapshot)
		order  []string
	)
	add := func(t *TableSnapshot) *TableSnapshot {
		if prev, ok := tables[t.Name]; ok {
			return prev
		}
		tables[t.Name] = t
		order = append(order, t.Name)
		return t
	}
	for _, ent := range e.project.Entities() {
		t := add(&TableSnapshot{Name: TableName(ent.Name), Entity: ent.Name})
		for _, f := range ent.Fields {
			info, err := e.Info(f)
			if err != nil {
				return nil, err
			}
			switch c := info.(type) {
			case *Basic:
				t.addColumn(ColumnSnapshot{
					Name:          c.Name,
					Type:          c.DBType,
					Length:        c.Length,
					Nullable:      c.Nullable,
					Unique:        c.Unique,
					Primary:       c.Primary,
					AutoIncrement: c.AutoIncrement,
				})
			case *OneToOne:
				t.addJoinColumn(c.JoinColumn, false)
			case *ManyToOne:
				t.addJoinColumn(c.JoinColumn, false)
			case *ManyToMany:
				jt := add(&TableSnapshot{Name: c.JoinTable.Name})
				jt.addJoinColumn(c.JoinTable.JoinColumn, true)
				jt.addJoinColumn(c.JoinTable.InverseJoinColumn, true)
			case *OneToMany:
				// The foreign key lives in the table of the mapped field.
			}
		}
	}
	slices.Sort(order)
	s := &Snapshot{Version: SnapshotVersion, Tables: make([]*TableSnapshot, 0, len(order))}
	for _, name := range order {
		s.Tables = append(s.Tables, tables[name])
	}
	return s, nil
}

func (t *TableSnapshot) addColumn(c ColumnSnapshot) {
	if t.Column(c.Name) == nil {
		t.Columns = append(t.Columns, c)
	}
}

func (t *TableSnapshot) addJoinColumn(jc JoinColumn, key bool) {
	t.addColumn(ColumnSnapshot{
		Name:     jc.Name,
		Type:     jc.DBType,
		Nullable: jc.Nullable && !key,
		Primary:  key,
	})
	for _, fk := range t.ForeignKeys {
		if fk.Name == jc.ForeignKey {
			return
		}
	}
	t.ForeignKeys = append(t.ForeignKeys, ForeignKeySnapshot{
		Name:      jc.ForeignKey,
		Column:    jc.Name,
		RefTable:  jc.TargetTable,
		RefColumn: jc.ReferencedName,
	})
}

// Column returns the column with the given name, or nil.
func (t *TableSnapshot) Column(name string) *ColumnSnapshot {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Table returns the table with the given name, or nil.
func (s *Snapshot) Table(name string) *TableSnapshot {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Encode serializes the snapshot with msgpack.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeSnapshot parses a snapshot written by Encode.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("relation: decode snapshot: %w", err)
	}
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("relation: unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// ChangeKind classifies a naming drift.
type ChangeKind string

// Change kinds reported by Diff.
const (
	TableAdded        ChangeKind = "table added"
	TableRemoved      ChangeKind = "table removed"
	ColumnAdded       ChangeKind = "column added"
	ColumnRemoved     ChangeKind = "column removed"
	ColumnChanged     ChangeKind = "column changed"
	ForeignKeyAdded   ChangeKind = "foreign key added"
	ForeignKeyRemoved ChangeKind = "foreign key removed"
)

// Change is one difference between two snapshots.
type Change struct {
	Kind   ChangeKind
	Table  string
	Name   string
	Detail string
}

// String returns a human readable form of the change.
func (c Change) String() string {
	var b strings.Builder
	b.WriteString(string(c.Kind))
	b.WriteString(": ")
	b.WriteString(c.Table)
	if c.Name != "" {
		b.WriteString(".")
		b.WriteString(c.Name)
	}
	if c.Detail != "" {
		b.WriteString(" (")
		b.WriteString(c.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Diff returns the changes needed to go from prev to s. A nil prev is an
// empty snapshot.
func (s *Snapshot) Diff(prev *Snapshot) []Change {
	if prev == nil {
		prev = &Snapshot{}
	}
	var changes []Change
	for _, t := range s.Tables {
		old := prev.Table(t.Name)
		if old == nil {
			changes = append(changes, Change{Kind: TableAdded, Table: t.Name})
			continue
		}
		changes = append(changes, diffTable(old, t)...)
	}
	for _, old := range prev.Tables {
		if s.Table(old.Name) == nil {
			changes = append(changes, Change{Kind: TableRemoved, Table: old.Name})
		}
	}
	return changes
}

func diffTable(old, cur *TableSnapshot) []Change {
	var changes []Change
	for _, c := range cur.Columns {
		prev := old.Column(c.Name)
		switch {
		case prev == nil:
			changes = append(changes, Change{Kind: ColumnAdded, Table: cur.Name, Name: c.Name})
		case *prev != c:
			changes = append(changes, Change{Kind: ColumnChanged, Table: cur.Name, Name: c.Name,
				Detail: fmt.Sprintf("%s -> %s", describe(*prev), describe(c))})
		}
	}
	for _, c := range old.Columns {
		if cur.Column(c.Name) == nil {
			changes = append(changes, Change{Kind: ColumnRemoved, Table: cur.Name, Name: c.Name})
		}
	}
	fks := func(t *TableSnapshot) map[string]bool {
		m := make(map[string]bool, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			m[fk.Name] = true
		}
		return m
	}
	oldFKs, curFKs := fks(old), fks(cur)
	for _, fk := range cur.ForeignKeys {
		if !oldFKs[fk.Name] {
			changes = append(changes, Change{Kind: ForeignKeyAdded, Table: cur.Name, Name: fk.Name})
		}
	}
	for _, fk := range old.ForeignKeys {
		if !curFKs[fk.Name] {
			changes = append(changes, Change{Kind: ForeignKeyRemoved, Table: cur.Name, Name: fk.Name})
		}
	}
	return changes
}

func describe(c ColumnSnapshot) string {
	s := c.Type
	if c.Nullable {
		s += " null"
	} else {
		s += " not null"
	}
	if c.Unique {
		s += " unique"
	}
	return s
}
