package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func seedFile(t *testing.T, entries []map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pois.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestSeedAndListPOIs(t *testing.T) {
	db := newTestDB(t)

	path := seedFile(t, []map[string]any{
		{"name": "Louvre", "lat": 48.8606, "lon": 2.3376, "category": "museum", "city": "Paris", "opening_hour": 9, "closing_hour": 18},
		{"name": "Tiergarten", "lat": 52.5145, "long": 13.3501, "type": "garden", "city": "Berlin"},
	})

	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqlitePOIRepository(db)
	pois, err := repo.ListPOIs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("got %d pois, want 2", len(pois))
	}

	louvre := pois[0]
	if louvre.Name != "Louvre" {
		t.Fatalf("first poi = %q, want Louvre", louvre.Name)
	}
	if !louvre.HasTimeWindow() {
		t.Fatal("Louvre should have a time window")
	}
	if *louvre.OpeningHour != 9 || *louvre.ClosingHour != 18 {
		t.Fatalf("window = %d-%d, want 9-18", *louvre.OpeningHour, *louvre.ClosingHour)
	}

	// The "long" and "type" aliases normalize on the way in.
	tiergarten := pois[1]
	if tiergarten.Coords.Lon != 13.3501 {
		t.Fatalf("lon = %f, want 13.3501", tiergarten.Coords.Lon)
	}
	if tiergarten.Category != "park" {
		t.Fatalf("category = %q, want park", tiergarten.Category)
	}
	if tiergarten.OpeningHour != nil {
		t.Fatal("Tiergarten should have no time window")
	}
}

func TestListPOIsByCities(t *testing.T) {
	db := newTestDB(t)

	path := seedFile(t, []map[string]any{
		{"name": "Louvre", "lat": 48.8606, "lon": 2.3376, "city": "Paris"},
		{"name": "Orsay", "lat": 48.8600, "lon": 2.3266, "city": "Paris"},
		{"name": "Tiergarten", "lat": 52.5145, "lon": 13.3501, "city": "Berlin"},
	})
	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqlitePOIRepository(db)

	paris, err := repo.ListPOIsByCities(context.Background(), []string{"Paris"})
	if err != nil {
		t.Fatalf("list by cities: %v", err)
	}
	if len(paris) != 2 {
		t.Fatalf("got %d pois for Paris, want 2", len(paris))
	}

	none, err := repo.ListPOIsByCities(context.Background(), nil)
	if err != nil {
		t.Fatalf("list by cities: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("got %d pois for empty city list, want 0", len(none))
	}
}

func TestSeedRejectsInvalidEntry(t *testing.T) {
	db := newTestDB(t)

	path := seedFile(t, []map[string]any{
		{"name": "", "lat": 1.0, "lon": 2.0},
	})
	if err := SeedFromJSON(db, path); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestUpsertReplacesByExternalID(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqlitePOIRepository(db)

	first := []map[string]any{
		{"name": "Louvre", "external_id": "poi-1", "lat": 48.8606, "lon": 2.3376, "city": "Paris"},
	}
	if err := SeedFromJSON(db, seedFile(t, first)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated := []map[string]any{
		{"name": "Louvre Museum", "external_id": "poi-1", "lat": 48.8606, "lon": 2.3376, "city": "Paris"},
		{"name": "Orsay", "lat": 48.8600, "lon": 2.3266, "city": "Paris"},
	}
	if err := SeedFromJSON(db, seedFile(t, updated)); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	pois, err := repo.ListPOIs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("got %d pois, want 2 (replaced, not duplicated)", len(pois))
	}
	for _, p := range pois {
		if p.ExternalID == "poi-1" && p.Name != "Louvre Museum" {
			t.Fatalf("poi-1 name = %q, want the replacement", p.Name)
		}
	}
}
