package sqlsource

import (
	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

// OpenDuckDB opens a DuckDB database. An empty DSN opens an in-memory
// database.
func OpenDuckDB(dsn string) (*Store, error) {
	return Open("duckdb", dsn)
}
