package database

import (
	"context"
	"database/sql"
	"fmt"

	"fleet_utilization/internal/models"
)

type InventoryRepository interface {
	InstalledAircraft(ctx context.Context, pnPatterns []string) (map[string]string, error)
	InsertBatch(ctx context.Context, items []*models.InventoryItem) error
}

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// InstalledAircraft maps serial number to the aircraft it is currently installed
// on. Parts in stores map to an empty string.
func (r *inventoryRepository) InstalledAircraft(ctx context.Context, pnPatterns []string) (map[string]string, error) {
	if len(pnPatterns) == 0 {
		return nil, fmt.Errorf("no part number patterns given")
	}

	a := r.db.args()
	query := fmt.Sprintf(`SELECT SN, INSTALLED_AC FROM %s WHERE %s`,
		r.db.table(tableInventory), a.likeAny("PN", pnPatterns))

	rows, err := r.db.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	installed := make(map[string]string)
	for rows.Next() {
		var sn string
		var ac sql.NullString
		if err := rows.Scan(&sn, &ac); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		installed[sn] = ac.String
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	return installed, nil
}

// InsertBatch inserts one or more inventory records in a single transaction
func (r *inventoryRepository) InsertBatch(ctx context.Context, items []*models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (PN, SN, INSTALLED_AC) VALUES (%s)`,
		r.db.table(tableInventory), r.db.dialect.Placeholders(3))

	return r.db.insertBatch(ctx, query, len(items), func(i int) []any {
		it := items[i]
		return []any{it.PN, it.SN, nullString(it.InstalledAC)}
	})
}
