package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/modelgen/dialect/sql"
)

// ValidationError is one difference between the database and the model.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking is set when statements generated from the model fail against
	// the database, e.g. a missing column.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a verification.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports whether there are errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges reports whether any error or warning is breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range errs {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) add(warn bool, e *ValidationError) {
	if warn {
		r.Warnings = append(r.Warnings, e)
	} else {
		r.Errors = append(r.Errors, e)
	}
}

// ValidateOption configures verification.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strictTables  bool
	strictColumns bool
}

// StrictTables reports tables of the database that the model does not map
// as errors instead of warnings.
func StrictTables() ValidateOption {
	return func(c *validateConfig) {
		c.strictTables = true
	}
}

// StrictColumns reports unmapped columns as errors instead of warnings.
func StrictColumns() ValidateOption {
	return func(c *validateConfig) {
		c.strictColumns = true
	}
}

// ValidateDiff compares the tables read from a database with the tables of
// the model.
//
// Example:
//
//	result := schema.ValidateDiff(current, desired)
//	if result.HasErrors() {
//	    return fmt.Errorf("database does not match the model:\n%s", result)
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	currentMap := make(map[string]*Table, len(current))
	for _, t := range current {
		currentMap[strings.ToLower(t.Name)] = t
	}
	desiredMap := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredMap[strings.ToLower(t.Name)] = t
	}
	for _, t := range desired {
		cur, ok := currentMap[strings.ToLower(t.Name)]
		if !ok {
			result.add(false, &ValidationError{Table: t.Name, Message: "table is missing", Breaking: true})
			continue
		}
		validateTableDiff(cur, t, cfg, result)
	}
	for _, t := range current {
		if _, ok := desiredMap[strings.ToLower(t.Name)]; !ok {
			result.add(!cfg.strictTables, &ValidationError{Table: t.Name, Message: "table is not mapped"})
		}
	}
	return result
}

func validateTableDiff(current, desired *Table, cfg *validateConfig, result *ValidationResult) {
	for _, want := range desired.Columns {
		got := current.Column(want.Name)
		if got == nil {
			result.add(false, &ValidationError{
				Table:    desired.Name,
				Column:   want.Name,
				Message:  "column is missing",
				Breaking: true,
			})
			continue
		}
		if got.Type != want.Type {
			result.add(false, &ValidationError{
				Table:   desired.Name,
				Column:  want.Name,
				Message: fmt.Sprintf("column type is %s, model expects %s", got.SQLType(), want.SQLType()),
			})
		}
		switch {
		case !got.Nullable && want.Nullable && !inKey(desired.PrimaryKey, want.Name):
			result.add(false, &ValidationError{
				Table:    desired.Name,
				Column:   want.Name,
				Message:  "column is NOT NULL, model allows NULL",
				Breaking: true,
			})
		case got.Nullable && !want.Nullable:
			result.add(true, &ValidationError{
				Table:   desired.Name,
				Column:  want.Name,
				Message: "column allows NULL, model expects NOT NULL",
			})
		}
		switch {
		case got.Size > 0 && want.Size > got.Size:
			result.add(false, &ValidationError{
				Table:   desired.Name,
				Column:  want.Name,
				Message: fmt.Sprintf("column size %d is smaller than the model size %d", got.Size, want.Size),
			})
		case want.Size > 0 && got.Size > want.Size:
			result.add(true, &ValidationError{
				Table:   desired.Name,
				Column:  want.Name,
				Message: fmt.Sprintf("column size %d is larger than the model size %d", got.Size, want.Size),
			})
		}
		if want.Unique && !got.Unique {
			result.add(true, &ValidationError{
				Table:   desired.Name,
				Column:  want.Name,
				Message: "column has no UNIQUE constraint",
			})
		}
	}
	for _, c := range current.Columns {
		if desired.Column(c.Name) == nil {
			result.add(!cfg.strictColumns, &ValidationError{Table: desired.Name, Column: c.Name, Message: "column is not mapped"})
		}
	}
	if !sameColumns(current.PrimaryKey, desired.PrimaryKey) {
		result.add(false, &ValidationError{
			Table:   desired.Name,
			Message: fmt.Sprintf("primary key is (%s), model expects (%s)", names(current.PrimaryKey), names(desired.PrimaryKey)),
		})
	}
	for _, fk := range desired.ForeignKeys {
		if !hasForeignKey(current, fk) {
			result.add(false, &ValidationError{
				Table:   desired.Name,
				Message: fmt.Sprintf("foreign key %s (%s) referencing %s is missing", fk.Symbol, names(fk.Columns), fk.RefTable.Name),
			})
		}
	}
}

// hasForeignKey reports whether t has a foreign key with the columns and
// references of fk. Symbols are not compared since SQLite does not keep them.
func hasForeignKey(t *Table, fk *ForeignKey) bool {
	for _, c := range t.ForeignKeys {
		if strings.EqualFold(c.RefTable.Name, fk.RefTable.Name) &&
			sameColumns(c.Columns, fk.Columns) &&
			sameColumns(c.RefColumns, fk.RefColumns) {
			return true
		}
	}
	return false
}

func sameColumns(a, b []*Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func inKey(key []*Column, name string) bool {
	for _, c := range key {
		if c.Name == name {
			return true
		}
	}
	return false
}

func names(cols []*Column) string {
	ns := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != nil {
			ns = append(ns, c.Name)
		}
	}
	return strings.Join(ns, ", ")
}

// ValidateTable checks a single table of the model.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}
	if len(t.PrimaryKey) == 0 {
		result.add(true, &ValidationError{Table: t.Name, Message: "table has no primary key"})
	}
	colNames := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.add(false, &ValidationError{Table: t.Name, Column: c.Name, Message: "duplicate column name"})
		}
		colNames[c.Name] = true
	}
	idxNames := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if idxNames[idx.Name] {
			result.add(false, &ValidationError{Table: t.Name, Message: fmt.Sprintf("duplicate index name: %s", idx.Name)})
		}
		idxNames[idx.Name] = true
	}
	for _, fk := range t.ForeignKeys {
		for _, col := range fk.Columns {
			if !colNames[col.Name] {
				result.add(false, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %s references non-existent column %q", fk.Symbol, col.Name),
				})
			}
		}
	}
	return result
}

// ValidateSchema checks all tables of the model and the tables referenced by
// their foreign keys.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}
	tableNames := make(map[string]bool, len(tables))
	for _, t := range tables {
		if tableNames[t.Name] {
			result.add(false, &ValidationError{Table: t.Name, Message: "duplicate table name"})
		}
		tableNames[t.Name] = true
		r := ValidateTable(t)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if !tableNames[fk.RefTable.Name] {
				result.add(false, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent table %q", fk.RefTable.Name),
				})
			}
		}
	}
	return result
}

// Verify inspects the database and compares it with the model tables.
func Verify(ctx context.Context, db sql.ExecQuerier, d, name string, desired []*Table, opts ...ValidateOption) (*ValidationResult, error) {
	current, err := Inspect(ctx, db, d, name)
	if err != nil {
		return nil, err
	}
	return ValidateDiff(current, desired, opts...), nil
}
