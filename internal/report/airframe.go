package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"
)

// Airframe reports flight hours and cycles per aircraft
type Airframe struct {
	aircraft database.AircraftRepository
	flights  database.FlightRepository
	period   models.Period
	tails    []string
	fleet    map[string]bool
	now      func() time.Time
}

// NewAirframe loads the current fleet once; registration lookups are checked against it
func NewAirframe(ctx context.Context, store Store, period models.Period) (*Airframe, error) {
	a := &Airframe{
		aircraft: store.AircraftRepository(),
		flights:  store.FlightRepository(),
		period:   period,
		now:      time.Now,
	}

	tails, err := a.aircraft.Tails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fleet: %w", err)
	}

	a.tails = tails
	a.fleet = make(map[string]bool, len(tails))
	for _, ac := range tails {
		a.fleet[strings.ToUpper(ac)] = true
	}

	return a, nil
}

// Tails returns the registrations of the current fleet
func (a *Airframe) Tails() []string {
	return append([]string(nil), a.tails...)
}

// Period returns the reporting period
func (a *Airframe) Period() models.Period {
	return a.period
}

// resolveAsOf accepts "now" (or empty), a bare date meaning end of that day,
// or a full timestamp
func (a *Airframe) resolveAsOf(asOf string) (time.Time, error) {
	if asOf == "" || strings.EqualFold(asOf, "now") {
		return models.Naive(a.now()), nil
	}
	t, err := models.ParseTimestamp(asOf, true)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of %q: %w", asOf, err)
	}
	return t, nil
}

// FlightTotals returns lifetime hours and cycles for each requested aircraft,
// one row per distinct registration in request order. Registrations are case
// insensitive; any registration outside the fleet fails the whole lookup.
func (a *Airframe) FlightTotals(ctx context.Context, acs []string, asOf string) ([]models.FlightTotals, error) {
	at, err := a.resolveAsOf(asOf)
	if err != nil {
		return nil, err
	}

	tails := make([]string, 0, len(acs))
	seen := make(map[string]bool, len(acs))
	for _, ac := range acs {
		ac = strings.ToUpper(strings.TrimSpace(ac))
		if !a.fleet[ac] {
			return nil, &UnknownRegistrationError{Registration: ac}
		}
		if !seen[ac] {
			seen[ac] = true
			tails = append(tails, ac)
		}
	}

	rows, err := a.flights.Totals(ctx, tails, at)
	if err != nil {
		return nil, err
	}

	byAC := make(map[string]models.FlightTotals, len(rows))
	for _, r := range rows {
		byAC[strings.ToUpper(r.AC)] = r
	}

	totals := make([]models.FlightTotals, 0, len(tails))
	for _, ac := range tails {
		t := byAC[ac]
		t.AC = ac
		totals = append(totals, t)
	}

	return totals, nil
}

// FlightHours projects FlightTotals to hours
func (a *Airframe) FlightHours(ctx context.Context, acs []string, asOf string) (map[string]float64, error) {
	totals, err := a.FlightTotals(ctx, acs, asOf)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(totals))
	for _, t := range totals {
		out[t.AC] = t.FlightHours
	}
	return out, nil
}

// FlightCycles projects FlightTotals to cycles
func (a *Airframe) FlightCycles(ctx context.Context, acs []string, asOf string) (map[string]int, error) {
	totals, err := a.FlightTotals(ctx, acs, asOf)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(totals))
	for _, t := range totals {
		out[t.AC] = t.FlightCycles
	}
	return out, nil
}

// History pivots the whole fleet's flight time by month up to the period end
func (a *Airframe) History(ctx context.Context) (*pivot.Table, error) {
	rows, err := a.flights.MonthlyHistory(ctx, a.period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load fleet history: %w", err)
	}
	return pivot.New(rows), nil
}

// Run returns the fleet history filtered to the report month
func (a *Airframe) Run(ctx context.Context) ([]pivot.Summary, error) {
	slog.Info("Collecting airframe data", "month", a.period.YearMonth())

	history, err := a.History(ctx)
	if err != nil {
		return nil, err
	}

	slog.Debug("Fleet history loaded", "aircraft", len(history.Rows()), "months", len(history.Months()))

	return history.FilterMonth(a.period.YearMonth()), nil
}
