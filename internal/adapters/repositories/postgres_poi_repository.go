package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// Postgres-backed implementation of the POIRepository port. Expects the
// pgx stdlib driver, which binds []string to text[] parameters.
type PostgresPOIRepository struct{ DB *sql.DB }

func NewPostgresPOIRepository(db *sql.DB) *PostgresPOIRepository {
	return &PostgresPOIRepository{DB: db}
}

// Return all POIs stored in the database.
func (s *PostgresPOIRepository) ListPOIs(ctx context.Context) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("postgres poi repository: DB is nil")
	}

	query := `
	SELECT` + poiColumns + `
	FROM pois
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	pois, err := scanPOIs(rows)
	if err != nil {
		return nil, fmt.Errorf("list pois: %w", err)
	}
	return pois, nil
}

// Return POIs whose city matches one of the given names.
func (s *PostgresPOIRepository) ListPOIsByCities(ctx context.Context, cities []string) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("postgres poi repository: DB is nil")
	}

	uniq := make([]string, 0, len(cities))
	seen := map[string]struct{}{}
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	if len(uniq) == 0 {
		return []domain.POI{}, nil
	}

	query := `
	SELECT` + poiColumns + `
	FROM pois
	WHERE city = ANY($1::text[])
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query, uniq)
	if err != nil {
		return nil, fmt.Errorf("list pois by cities: query pois table: %w", err)
	}
	defer rows.Close()

	pois, err := scanPOIs(rows)
	if err != nil {
		return nil, fmt.Errorf("list pois by cities: %w", err)
	}
	return pois, nil
}

// Insert or replace POIs. Rows carrying an external ID replace any
// stored row with the same ID; the rest are appended.
func (s *PostgresPOIRepository) UpsertPOIs(ctx context.Context, pois []domain.POI) error {
	if s.DB == nil {
		return errors.New("postgres poi repository: DB is nil")
	}
	if len(pois) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range pois {
		if p.ExternalID != "" {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM pois WHERE external_id = $1;`, p.ExternalID,
			); err != nil {
				return fmt.Errorf("upsert pois: replace external_id=%q: %w", p.ExternalID, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO pois (`+poiColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
		`,
			p.ExternalID, p.Name, p.Coords.Lat, p.Coords.Lon, string(p.Category),
			p.Priority, p.Rating, p.VisitMinutes, p.OpeningHour, p.ClosingHour,
			p.Mandatory, p.City, p.Country, p.Address,
		); err != nil {
			return fmt.Errorf("upsert pois: insert name=%q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert pois: commit tx: %w", err)
	}
	return nil
}
