package sqlsource

import (
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// OpenSQLite opens a SQLite database. Use ":memory:" for an in-memory
// database.
func OpenSQLite(dsn string) (*Store, error) {
	return Open("sqlite", dsn)
}
