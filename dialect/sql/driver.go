package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/modelgen/dialect"
)

// ExecQuerier wraps the standard ExecContext and QueryContext methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is a database connection bound to a dialect.
type Driver struct {
	ExecQuerier
	db      *sql.DB
	dialect string
}

// Open opens a connection for the given dialect or one of its aliases.
func Open(name, dsn string) (*Driver, error) {
	d, err := dialect.Normalize(name)
	if err != nil {
		return nil, err
	}
	var db *sql.DB
	switch d {
	case dialect.Postgres:
		c, err := pq.NewConnector(dsn)
		if err != nil {
			return nil, fmt.Errorf("sql: postgres dsn: %w", err)
		}
		db = sql.OpenDB(c)
	case dialect.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("sql: mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		c, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("sql: mysql dsn: %w", err)
		}
		db = sql.OpenDB(c)
	default:
		if db, err = sql.Open(d, dsn); err != nil {
			return nil, err
		}
		// Every connection of an in-memory database is a new database.
		db.SetMaxOpenConns(1)
	}
	return OpenDB(d, db), nil
}

// OpenDB wraps an opened database with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{ExecQuerier: db, db: db, dialect: dialect}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect of the connection.
func (d *Driver) Dialect() string { return d.dialect }

// Ping verifies the connection is alive.
func (d *Driver) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// Schema returns the database name of a MySQL DSN, or "" for other dialects
// and DSNs without one.
func Schema(name, dsn string) string {
	d, err := dialect.Normalize(name)
	if err != nil || d != dialect.MySQL {
		return ""
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return cfg.DBName
}
