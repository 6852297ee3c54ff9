package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fleet_utilization/internal/models"
)

// Per-flight hours rounded before summing, as the maintenance system reports them
const flightHoursExpr = "ROUND(FLIGHT_HOURS + (FLIGHT_MINUTES / 60.0), 5)"

type FlightRepository interface {
	MonthlyHistory(ctx context.Context, asOf time.Time) ([]models.FlightActivity, error)
	Totals(ctx context.Context, tails []string, asOf time.Time) ([]models.FlightTotals, error)
	MonthlyWindow(ctx context.Context, table FlightTable, ac string, from, to time.Time) ([]models.FlightActivity, error)
	TimeCyclesSince(ctx context.Context, ac string, from, to time.Time) (float64, int, error)
	InsertBatch(ctx context.Context, table FlightTable, flights []*models.Flight) error
}

type flightRepository struct {
	db *DB
}

func NewFlightRepository(db *DB) FlightRepository {
	return &flightRepository{db: db}
}

func (r *flightRepository) takeoff() string {
	return r.db.dialect.Timestamp("FLIGHT_DATE", "TO_HOUR", "TO_MINUTE")
}

// MonthlyHistory sums hours and cycles per aircraft and month for every flight
// that took off at or before asOf
func (r *flightRepository) MonthlyHistory(ctx context.Context, asOf time.Time) ([]models.FlightActivity, error) {
	a := r.db.args()
	month := r.db.dialect.Month("FLIGHT_DATE")
	query := fmt.Sprintf(`SELECT AC, %[1]s AS YYYY_MM, SUM(%[2]s) AS FLIGHT_HOURS, SUM(CYCLES) AS FLIGHT_CYCLES
		FROM %[3]s
		WHERE %[4]s <= %[5]s
		GROUP BY %[1]s, AC
		ORDER BY AC, YYYY_MM`,
		month, flightHoursExpr, r.db.table(string(CurrentFlights)), r.takeoff(), a.add(r.db.dialect.BindTime(asOf)))

	return r.queryActivity(ctx, query, a.values)
}

// Totals sums lifetime hours and cycles per aircraft. Aircraft without flights
// produce no row.
func (r *flightRepository) Totals(ctx context.Context, tails []string, asOf time.Time) ([]models.FlightTotals, error) {
	if len(tails) == 0 {
		return nil, nil
	}

	a := r.db.args()
	query := fmt.Sprintf(`SELECT AC, SUM(%s) AS FLIGHT_HOURS, SUM(CYCLES) AS FLIGHT_CYCLES
		FROM %s
		WHERE %s AND FLIGHT_DATE <= %s
		GROUP BY AC
		ORDER BY AC`,
		flightHoursExpr, r.db.table(string(CurrentFlights)), a.in("AC", tails), a.add(r.db.dialect.BindTime(asOf)))

	rows, err := r.db.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flight totals: %w", err)
	}
	defer rows.Close()

	var totals []models.FlightTotals
	for rows.Next() {
		var t models.FlightTotals
		if err := rows.Scan(&t.AC, &t.FlightHours, &t.FlightCycles); err != nil {
			return nil, fmt.Errorf("failed to scan flight totals: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flight totals: %w", err)
	}

	return totals, nil
}

// MonthlyWindow sums one aircraft's hours and cycles per month for flights that
// took off between from and to, both inclusive
func (r *flightRepository) MonthlyWindow(ctx context.Context, table FlightTable, ac string, from, to time.Time) ([]models.FlightActivity, error) {
	a := r.db.args()
	month := r.db.dialect.Month("FLIGHT_DATE")
	takeoff := r.takeoff()
	query := fmt.Sprintf(`SELECT AC, %[1]s AS YYYY_MM, SUM(%[2]s) AS FLIGHT_HOURS, SUM(CYCLES) AS FLIGHT_CYCLES
		FROM %[3]s
		WHERE %[4]s >= %[5]s AND %[4]s <= %[6]s AND AC = %[7]s
		GROUP BY %[1]s, AC
		ORDER BY YYYY_MM`,
		month, flightHoursExpr, r.db.table(string(table)), takeoff,
		a.add(r.db.dialect.BindTime(from)), a.add(r.db.dialect.BindTime(to)), a.add(ac))

	return r.queryActivity(ctx, query, a.values)
}

// TimeCyclesSince returns hours (rounded to 2 decimals per flight) and the number
// of flights for takeoffs in [from, to)
func (r *flightRepository) TimeCyclesSince(ctx context.Context, ac string, from, to time.Time) (float64, int, error) {
	a := r.db.args()
	takeoff := r.takeoff()
	query := fmt.Sprintf(`SELECT SUM(ROUND(FLIGHT_HOURS + (FLIGHT_MINUTES / 60.0), 2)) AS TSI, COUNT(CYCLES) AS CSI
		FROM %[1]s
		WHERE %[2]s >= %[3]s AND %[2]s < %[4]s AND AC = %[5]s`,
		r.db.table(string(CurrentFlights)), takeoff,
		a.add(r.db.dialect.BindTime(from)), a.add(r.db.dialect.BindTime(to)), a.add(ac))

	var tsi sql.NullFloat64
	var csi int
	if err := r.db.db.QueryRowContext(ctx, query, a.values...).Scan(&tsi, &csi); err != nil {
		return 0, 0, fmt.Errorf("failed to query time since install: %w", err)
	}

	return tsi.Float64, csi, nil
}

// InsertBatch inserts one or more flights in a single transaction
func (r *flightRepository) InsertBatch(ctx context.Context, table FlightTable, flights []*models.Flight) error {
	if len(flights) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (
		AC, FLIGHT_DATE, TO_HOUR, TO_MINUTE, FLIGHT_HOURS, FLIGHT_MINUTES, CYCLES
	) VALUES (%s)`, r.db.table(string(table)), r.db.dialect.Placeholders(7))

	return r.db.insertBatch(ctx, query, len(flights), func(i int) []any {
		f := flights[i]
		day := time.Date(f.FlightDate.Year(), f.FlightDate.Month(), f.FlightDate.Day(), 0, 0, 0, 0, time.UTC)
		return []any{
			f.AC, r.db.dialect.BindTime(day), f.TakeoffHour, f.TakeoffMinute,
			f.FlightHours, f.FlightMinutes, f.Cycles,
		}
	})
}

func (r *flightRepository) queryActivity(ctx context.Context, query string, args []any) ([]models.FlightActivity, error) {
	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flight activity: %w", err)
	}
	defer rows.Close()

	var activity []models.FlightActivity
	for rows.Next() {
		var fa models.FlightActivity
		if err := rows.Scan(&fa.Key, &fa.Month, &fa.FlightHours, &fa.FlightCycles); err != nil {
			return nil, fmt.Errorf("failed to scan flight activity: %w", err)
		}
		activity = append(activity, fa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flight activity: %w", err)
	}

	return activity, nil
}
