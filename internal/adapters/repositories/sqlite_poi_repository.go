package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// SQLite-backed implementation of the POIRepository port.
type SqlitePOIRepository struct{ DB *sql.DB }

func NewSqlitePOIRepository(db *sql.DB) *SqlitePOIRepository {
	return &SqlitePOIRepository{DB: db}
}

const poiColumns = `
	external_id, name, lat, lon, category, priority, rating,
	visit_minutes, opening_hour, closing_hour, mandatory,
	city, country, address`

func scanPOIs(rows *sql.Rows) ([]domain.POI, error) {
	pois := make([]domain.POI, 0, 64)
	for rows.Next() {
		var (
			p          domain.POI
			externalID sql.NullString
			rating     sql.NullFloat64
			opening    sql.NullInt64
			closing    sql.NullInt64
			city       sql.NullString
			country    sql.NullString
			address    sql.NullString
			category   string
		)
		err := rows.Scan(
			&externalID, &p.Name, &p.Coords.Lat, &p.Coords.Lon, &category,
			&p.Priority, &rating, &p.VisitMinutes, &opening, &closing,
			&p.Mandatory, &city, &country, &address,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		p.ExternalID = externalID.String
		p.Category = domain.Category(category)
		p.Rating = rating.Float64
		p.City = city.String
		p.Country = country.String
		p.Address = address.String
		if opening.Valid && closing.Valid {
			o, c := int(opening.Int64), int(closing.Int64)
			p.OpeningHour = &o
			p.ClosingHour = &c
		}

		pois = append(pois, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return pois, nil
}

// Return all POIs stored in the database.
func (s *SqlitePOIRepository) ListPOIs(ctx context.Context) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
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
func (s *SqlitePOIRepository) ListPOIsByCities(ctx context.Context, cities []string) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
	}
	if len(cities) == 0 {
		return []domain.POI{}, nil
	}

	ph := make([]string, 0, len(cities))
	args := make([]any, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		ph = append(ph, "?")
		args = append(args, c)
	}
	if len(args) == 0 {
		return []domain.POI{}, nil
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	query := fmt.Sprintf(`
	SELECT`+poiColumns+`
	FROM pois
	WHERE city IN (%s)
	ORDER BY id;
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, query, args...)
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
func (s *SqlitePOIRepository) UpsertPOIs(ctx context.Context, pois []domain.POI) error {
	if s.DB == nil {
		return errors.New("sqlite poi repository: DB is nil")
	}
	if len(pois) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert, err := tx.PrepareContext(ctx, `
	INSERT INTO pois (`+poiColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("upsert pois: prepare insert: %w", err)
	}
	defer insert.Close()

	for _, p := range pois {
		if p.ExternalID != "" {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM pois WHERE external_id = ?;`, p.ExternalID,
			); err != nil {
				return fmt.Errorf("upsert pois: replace external_id=%q: %w", p.ExternalID, err)
			}
		}
		if _, err := insert.ExecContext(ctx,
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
