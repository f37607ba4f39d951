package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. The route cache table is SQLite-local
// and deliberately absent here.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS pois (
		id BIGSERIAL PRIMARY KEY,
		external_id TEXT,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		category TEXT NOT NULL,
		priority INTEGER NOT NULL,
		rating DOUBLE PRECISION,
		visit_minutes INTEGER NOT NULL,
		opening_hour INTEGER,
		closing_hour INTEGER,
		mandatory BOOLEAN NOT NULL DEFAULT FALSE,
		city TEXT,
		country TEXT,
		address TEXT
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_pois_city
	ON pois(city);
	`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}
