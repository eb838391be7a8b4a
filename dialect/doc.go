// Package dialect names the SQL databases whose schemas can be verified
// against a project model.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string that is also the name of
// its database/sql driver:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// Normalize maps common aliases ("postgresql", "sqlite3", "mariadb") to these
// constants.
//
// # Sub-packages
//
//   - dialect/sql: connection handling and query statistics
//   - dialect/sql/schema: table model, inspection and verification
package dialect
