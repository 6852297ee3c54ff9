package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"fleet_utilization/internal/models"
)

type TransactionRepository interface {
	InPeriod(ctx context.Context, period models.Period, pnPatterns []string) ([]models.Transaction, error)
	Events(ctx context.Context, typePattern string, pnPatterns []string) ([]models.Transaction, error)
	InsertBatch(ctx context.Context, txs []*models.Transaction) error
}

type transactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) stamp() string {
	return r.db.dialect.Timestamp("TRANSACTION_DATE", "TRANSACTION_HOUR", "TRANSACTION_MINUTE")
}

// InPeriod returns every transaction on the given part numbers dated inside the period
func (r *transactionRepository) InPeriod(ctx context.Context, period models.Period, pnPatterns []string) ([]models.Transaction, error) {
	if len(pnPatterns) == 0 {
		return nil, fmt.Errorf("no part number patterns given")
	}

	a := r.db.args()
	query := fmt.Sprintf(`SELECT SN, PN, TRANSACTION_TYPE, AC, %s AS TRANS_DATE,
			SCHEDULE_CATEGORY, POSITION,
			ROUND(HOURS_INSTALLED + (MINUTES_INSTALLED / 60.0), 5) AS TSI,
			CYCLES_INSTALLED AS CSI, REMOVAL_REASON
		FROM %s
		WHERE TRANSACTION_DATE >= %s AND TRANSACTION_DATE <= %s AND %s
		ORDER BY AC, TRANS_DATE, SN`,
		r.stamp(), r.db.table(tableTransactions),
		a.add(r.db.dialect.BindTime(period.Start)), a.add(r.db.dialect.BindTime(period.End)),
		a.likeAny("PN", pnPatterns))

	rows, err := r.db.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			t                     models.Transaction
			date                  timestamp
			category, pos, reason sql.NullString
			tsi                   sql.NullFloat64
			csi                   sql.NullInt64
		)
		if err := rows.Scan(&t.SN, &t.PN, &t.Type, &t.AC, &date, &category, &pos, &tsi, &csi, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = date.Time
		t.ScheduleCategory = category.String
		t.Position = pos.String
		t.TSI = tsi.Float64
		t.CSI = int(csi.Int64)
		t.RemovalReason = reason.String
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return txs, nil
}

// Events returns the transactions whose type matches typePattern (SQL LIKE),
// ordered by transaction time
func (r *transactionRepository) Events(ctx context.Context, typePattern string, pnPatterns []string) ([]models.Transaction, error) {
	if len(pnPatterns) == 0 {
		return nil, fmt.Errorf("no part number patterns given")
	}

	a := r.db.args()
	query := fmt.Sprintf(`SELECT SN, TRANSACTION_TYPE, AC, %s AS TRANSACTION_TS, POSITION
		FROM %s
		WHERE %s AND TRANSACTION_TYPE LIKE %s
		ORDER BY TRANSACTION_TS, SN, AC`,
		r.stamp(), r.db.table(tableTransactions), a.likeAny("PN", pnPatterns), a.add(typePattern))

	rows, err := r.db.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s events: %w", typePattern, err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			t    models.Transaction
			date timestamp
			pos  sql.NullString
		)
		if err := rows.Scan(&t.SN, &t.Type, &t.AC, &date, &pos); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		t.Date = date.Time
		t.Position = pos.String
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return txs, nil
}

// InsertBatch inserts one or more transactions in a single transaction
func (r *transactionRepository) InsertBatch(ctx context.Context, txs []*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (
		SN, PN, TRANSACTION_TYPE, AC, TRANSACTION_DATE, TRANSACTION_HOUR, TRANSACTION_MINUTE,
		SCHEDULE_CATEGORY, POSITION, HOURS_INSTALLED, MINUTES_INSTALLED, CYCLES_INSTALLED, REMOVAL_REASON
	) VALUES (%s)`, r.db.table(tableTransactions), r.db.dialect.Placeholders(13))

	return r.db.insertBatch(ctx, query, len(txs), func(i int) []any {
		t := txs[i]
		day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
		hours, frac := math.Modf(t.TSI)
		return []any{
			t.SN, t.PN, t.Type, t.AC, r.db.dialect.BindTime(day), t.Date.Hour(), t.Date.Minute(),
			nullString(t.ScheduleCategory), nullString(t.Position),
			int(hours), int(math.Round(frac * 60)), t.CSI, nullString(t.RemovalReason),
		}
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
