package relation

import (
	"regexp"
	"strings"
)

var wordBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// Snake converts a camel case name to snake case: "orderItem" becomes
// "order_item". Runs of capitals are kept together ("HTTPServer" becomes
// "httpserver") so previously generated schemas keep their names.
func Snake(s string) string {
	return strings.ToLower(wordBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// TableName returns the table name of an entity.
func TableName(entity string) string {
	return tableName(Snake(entity))
}

// JoinTableName returns the name of the join table linking two entities.
func JoinTableName(entity, target string) string {
	return tableName(Snake(entity) + "_" + Snake(target))
}

// ForeignIDColumn returns the name of a column referencing the primary key pk
// of entity.
func ForeignIDColumn(entity, pk string) string {
	return Snake(entity) + "_" + Snake(pk)
}

// ForeignKeyName returns the name of the foreign key constraint of column in
// the table of source referencing target.
func ForeignKeyName(source, target, column string) string {
	return "fk_" + Snake(source) + "_" + Snake(target) + "_" + column
}

// ColumnName returns the column name of a field.
func ColumnName(field string) string { return Snake(field) }

func tableName(raw string) string { return "T_" + strings.ToUpper(raw) }
