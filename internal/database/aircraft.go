package database

import (
	"context"
	"fmt"

	"fleet_utilization/internal/models"
)

type AircraftRepository interface {
	Tails(ctx context.Context) ([]string, error)
	InsertBatch(ctx context.Context, aircraft []*models.Aircraft) error
}

type aircraftRepository struct {
	db *DB
}

func NewAircraftRepository(db *DB) AircraftRepository {
	return &aircraftRepository{db: db}
}

// Tails lists every registration in the fleet master table
func (r *aircraftRepository) Tails(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT AC FROM %s ORDER BY AC", r.db.table(tableAircraft))

	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fleet: %w", err)
	}
	defer rows.Close()

	var tails []string
	for rows.Next() {
		var ac string
		if err := rows.Scan(&ac); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		tails = append(tails, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fleet: %w", err)
	}

	return tails, nil
}

// InsertBatch inserts one or more aircraft records in a single transaction
func (r *aircraftRepository) InsertBatch(ctx context.Context, aircraft []*models.Aircraft) error {
	if len(aircraft) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (AC, AC_TYPE, SERIAL_NUMBER, STATUS) VALUES (%s)`,
		r.db.table(tableAircraft), r.db.dialect.Placeholders(4))

	return r.db.insertBatch(ctx, query, len(aircraft), func(i int) []any {
		ac := aircraft[i]
		return []any{ac.Registration, ac.TypeCode, ac.SerialNumber, ac.Status}
	})
}
