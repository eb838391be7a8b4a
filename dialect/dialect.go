package dialect

import (
	"fmt"
	"strings"
)

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

var aliases = map[string]string{
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pg":         Postgres,
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
}

// Normalize returns the dialect constant for name or one of its aliases.
func Normalize(name string) (string, error) {
	d, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("dialect: unsupported dialect %q", name)
	}
	return d, nil
}
