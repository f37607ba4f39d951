package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"trip-planner-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPOIsQuery := `
	CREATE TABLE IF NOT EXISTS pois (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id TEXT,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		category TEXT NOT NULL,
		priority INTEGER NOT NULL,
		rating REAL,
		visit_minutes INTEGER NOT NULL,
		opening_hour INTEGER,
		closing_hour INTEGER,
		mandatory INTEGER NOT NULL DEFAULT 0,
		city TEXT,
		country TEXT,
		address TEXT
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		distance_meters REAL NOT NULL,
		duration_seconds REAL NOT NULL,
		method TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_pois_city
	ON pois(city);
	`

	statements := []string{
		createPOIsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LoadSeedFile reads a JSON POI file and normalizes every entry. Entries
// run through the same normalization as API input, so alias fields and
// defaulting behave identically.
func LoadSeedFile(jsonPath string) ([]domain.POI, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data []domain.RawPOI
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	pois := make([]domain.POI, 0, len(data))
	for i, raw := range data {
		poi, err := raw.Normalize()
		if err != nil {
			return nil, fmt.Errorf("load seed: item at index %d: %w", i+1, err)
		}
		pois = append(pois, poi)
	}

	return pois, nil
}

// Populate the local SQLite database with POI data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	pois, err := LoadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed pois: %w", err)
	}

	if err := NewSqlitePOIRepository(db).UpsertPOIs(context.Background(), pois); err != nil {
		return fmt.Errorf("seed pois: %w", err)
	}

	return nil
}
