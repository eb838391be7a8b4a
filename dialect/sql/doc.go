// Package sql opens connections to the supported databases and records
// statistics of the statements sent through them.
//
// # Opening
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/shop?sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// Open registers every supported driver: lib/pq for PostgreSQL,
// go-sql-driver/mysql for MySQL and modernc.org/sqlite for SQLite. MySQL
// DSNs are parsed eagerly and always scan time columns into time.Time.
//
// # Statistics
//
// StatsDriver wraps a Driver and counts the statements it runs, reporting
// the slow ones to a hook:
//
//	sd := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	fmt.Println(sd.QueryStats().Stats())
//
// Both Driver and StatsDriver satisfy ExecQuerier, the interface consumed by
// the schema inspector.
package sql
