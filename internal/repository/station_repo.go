package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"electrochile/internal/stations"
)

// StationRepository persists catalog snapshots so the service can warm
// start and answer offline queries. The station set is rebuilt
// wholesale on each refresh, so writes replace the whole table.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// ReplaceAll swaps the persisted snapshot for the given station set in
// one transaction.
func (r *StationRepository) ReplaceAll(ctx context.Context, sts []stations.Station) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stations`); err != nil {
		return fmt.Errorf("clear stations: %w", err)
	}

	const query = `
		INSERT INTO stations (id, name, address, commune, region, latitude, longitude, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	for _, st := range sts {
		payload, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode station %s: %w", st.ID, err)
		}
		var lat, lng sql.NullFloat64
		if st.Location != nil {
			lat = sql.NullFloat64{Float64: st.Location.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: st.Location.Lng, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query, st.ID, st.Name, st.Address, st.Commune, st.Region, lat, lng, payload); err != nil {
			return fmt.Errorf("insert station %s: %w", st.ID, err)
		}
	}

	return tx.Commit()
}

// ListAll returns the persisted snapshot.
func (r *StationRepository) ListAll(ctx context.Context) ([]stations.Station, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM stations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stations.Station
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var st stations.Station
		if err := json.Unmarshal(payload, &st); err != nil {
			return nil, fmt.Errorf("decode station payload: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
