// README: Fuel station store backed by PostgreSQL (optional alternative to the CSV artifact).
package fuel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps the geocoded fuel table in a fuel_stations table. Enabled
// when a DSN is configured; otherwise the CSVStore artifact is used.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// InitSchema creates the fuel_stations table if it does not exist.
func (s *PGStore) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS fuel_stations (
			opis_id TEXT NOT NULL,
			rack_id TEXT NOT NULL DEFAULT '',
			name    TEXT NOT NULL,
			address TEXT NOT NULL,
			city    TEXT NOT NULL,
			state   TEXT NOT NULL,
			price   DOUBLE PRECISION NOT NULL,
			lat     DOUBLE PRECISION,
			lng     DOUBLE PRECISION,
			PRIMARY KEY (opis_id, rack_id)
		)`)
	if err != nil {
		return fmt.Errorf("init fuel_stations schema: %w", err)
	}
	return nil
}

func (s *PGStore) LoadGeocoded(ctx context.Context) ([]Station, error) {
	rows, err := s.db.Query(ctx, `
		SELECT opis_id, rack_id, name, address, city, state, price, lat, lng
		FROM fuel_stations
		ORDER BY opis_id, rack_id`)
	if err != nil {
		return nil, fmt.Errorf("query fuel_stations: %w", err)
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		var lat, lng *float64
		if err := rows.Scan(&st.ID, &st.RackID, &st.Name, &st.Address, &st.City, &st.State, &st.Price, &lat, &lng); err != nil {
			return nil, fmt.Errorf("scan fuel_stations row: %w", err)
		}
		if lat != nil && lng != nil {
			st.Lat, st.Lng, st.Geocoded = *lat, *lng, true
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fuel_stations rows: %w", err)
	}

	if len(stations) == 0 {
		return nil, ErrNoArtifact
	}
	return stations, nil
}

func (s *PGStore) SaveGeocoded(ctx context.Context, stations []Station) error {
	batch := &pgx.Batch{}
	for _, st := range stations {
		var lat, lng *float64
		if st.Geocoded {
			lat, lng = &st.Lat, &st.Lng
		}
		batch.Queue(`
			INSERT INTO fuel_stations (opis_id, rack_id, name, address, city, state, price, lat, lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (opis_id, rack_id) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
			    state = EXCLUDED.state, price = EXCLUDED.price,
			    lat = EXCLUDED.lat, lng = EXCLUDED.lng`,
			st.ID, st.RackID, st.Name, st.Address, st.City, st.State, st.Price, lat, lng)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for range stations {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert fuel_stations row: %w", err)
		}
	}
	return nil
}
