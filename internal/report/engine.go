package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"
)

const installTypePattern = "IN%"

// EngineOptions selects the engines to report on and the data corrections to apply
type EngineOptions struct {
	PartNumbers []string // SQL LIKE patterns on PN
	// Aircraft removed from the operations specification. Their flights live only
	// in the historical table.
	HistoricalAircraft []string
	Exclusions         []Exclusion
}

// Engine reports flight hours and cycles per engine serial number
type Engine struct {
	transactions database.TransactionRepository
	flights      database.FlightRepository
	inventory    database.InventoryRepository
	period       models.Period
	opts         EngineOptions
	historical   map[string]bool
}

func NewEngine(store Store, period models.Period, opts EngineOptions) *Engine {
	historical := make(map[string]bool, len(opts.HistoricalAircraft))
	for _, ac := range opts.HistoricalAircraft {
		historical[ac] = true
	}

	return &Engine{
		transactions: store.TransactionRepository(),
		flights:      store.FlightRepository(),
		inventory:    store.InventoryRepository(),
		period:       period,
		opts:         opts,
		historical:   historical,
	}
}

// InstallRemovalPairs pairs every engine install with its removal, sorted by ESN
// and install date
func (e *Engine) InstallRemovalPairs(ctx context.Context) ([]models.InstallRemovalPair, error) {
	installs, err := e.transactions.Events(ctx, installTypePattern, e.opts.PartNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load installs: %w", err)
	}
	removals, err := e.transactions.Events(ctx, models.TransactionRemove, e.opts.PartNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load removals: %w", err)
	}

	installs = dropDuplicates(installs)
	removals = dropDuplicates(removals)

	kept := applyExclusions(installs, e.opts.Exclusions)
	if dropped := len(installs) - len(kept); dropped > 0 {
		slog.Debug("Dropped excluded install records", "count", dropped)
	}

	return pairInstalls(kept, removals, e.period.End), nil
}

// ESNHistory attributes each aircraft's monthly flight time to the engine that was
// installed on it, and pivots the result by ESN
func (e *Engine) ESNHistory(ctx context.Context, pairs []models.InstallRemovalPair) (*pivot.Table, error) {
	var activity []models.FlightActivity

	for _, p := range pairs {
		table := database.CurrentFlights
		if e.historical[p.AC] {
			table = database.HistoricalFlights
		}

		rows, err := e.flights.MonthlyWindow(ctx, table, p.AC, p.InstallDate, p.RemovalDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for ESN %s on %s: %w", p.ESN, p.AC, err)
		}

		if len(rows) == 0 && table == database.CurrentFlights {
			rows, err = e.flights.MonthlyWindow(ctx, database.HistoricalFlights, p.AC, p.InstallDate, p.RemovalDate)
			if err != nil {
				return nil, fmt.Errorf("failed to load historical flights for ESN %s on %s: %w", p.ESN, p.AC, err)
			}
			if len(rows) > 0 {
				slog.Debug("Using historical flights", "esn", p.ESN, "ac", p.AC)
			}
		}

		for _, r := range rows {
			r.Key = p.ESN
			activity = append(activity, r)
		}
	}

	return pivot.New(activity), nil
}

// Run returns the engines sheet: ESN history filtered to the report month,
// merged with where each engine is installed today
func (e *Engine) Run(ctx context.Context) ([]models.EngineUtilization, error) {
	slog.Info("Collecting engine data", "month", e.period.YearMonth())

	pairs, err := e.InstallRemovalPairs(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("Paired engine installs", "pairs", len(pairs))

	history, err := e.ESNHistory(ctx, pairs)
	if err != nil {
		return nil, err
	}

	installed, err := e.inventory.InstalledAircraft(ctx, e.opts.PartNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load installed engines: %w", err)
	}

	return mergeInstalled(history.FilterMonth(e.period.YearMonth()), installed), nil
}

// mergeInstalled outer-joins the month summary with inventory on ESN. Installed
// engines sort by aircraft, engines in stores follow, the margin row is last.
func mergeInstalled(summary []pivot.Summary, installed map[string]string) []models.EngineUtilization {
	var margin *models.EngineUtilization
	rows := make([]models.EngineUtilization, 0, len(summary)+len(installed))
	seen := make(map[string]bool, len(summary))

	for _, s := range summary {
		u := models.EngineUtilization{
			ESN:         s.Key,
			MonthHours:  s.MonthHours,
			TotalHours:  s.TotalHours,
			MonthCycles: s.MonthCycles,
			TotalCycles: s.TotalCycles,
		}
		if s.Key == pivot.Margin {
			margin = &u
			continue
		}
		u.InstalledAC = installed[s.Key]
		seen[s.Key] = true
		rows = append(rows, u)
	}

	for esn, ac := range installed {
		if !seen[esn] {
			rows = append(rows, models.EngineUtilization{ESN: esn, InstalledAC: ac})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.InstalledAC == "") != (b.InstalledAC == "") {
			return a.InstalledAC != ""
		}
		if a.InstalledAC != b.InstalledAC {
			return a.InstalledAC < b.InstalledAC
		}
		return a.ESN < b.ESN
	})

	if margin != nil {
		rows = append(rows, *margin)
	}
	return rows
}

// Removals returns every engine transaction in the reporting period
func (e *Engine) Removals(ctx context.Context) ([]models.Transaction, error) {
	txs, err := e.transactions.InPeriod(ctx, e.period, e.opts.PartNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load removals: %w", err)
	}
	return txs, nil
}

// TimeCyclesSince returns the hours and cycles an engine accumulated over a pair
func (e *Engine) TimeCyclesSince(ctx context.Context, p models.InstallRemovalPair) (float64, int, error) {
	return e.flights.TimeCyclesSince(ctx, p.AC, p.InstallDate, p.RemovalDate)
}
