package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open opens a database handle for the configured backend and verifies
// connectivity. driver is the database/sql driver name ("sqlite" or "pgx");
// the matching driver package must be imported by the caller.
func Open(driver, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	if driver == "pgx" {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(10)
		conn.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// SQLite serializes writers; a single connection avoids lock errors.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return conn, nil
}
