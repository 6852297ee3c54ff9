package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"
)

// Result holds the three sheets of a utilization report
type Result struct {
	Period   models.Period
	Airframe []pivot.Summary
	Engines  []models.EngineUtilization
	Removals []models.Transaction
}

// Generator runs the airframe, engine and removals reports for one period
type Generator struct {
	store Store
	opts  EngineOptions
}

func NewGenerator(store Store, opts EngineOptions) *Generator {
	return &Generator{store: store, opts: opts}
}

// Generate builds every sheet in sequence. The first failure aborts the run.
func (g *Generator) Generate(ctx context.Context, period models.Period) (*Result, error) {
	slog.Info("Generating utilization report", "period", period.String(), "month", period.YearMonth())

	res := &Result{Period: period}

	airframe, err := NewAirframe(ctx, g.store, period)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(g.store, period, g.opts)

	stages := []struct {
		name string
		run  func() (int, error)
	}{
		{"airframe", func() (int, error) {
			rows, err := airframe.Run(ctx)
			res.Airframe = rows
			return len(rows), err
		}},
		{"engines", func() (int, error) {
			rows, err := engine.Run(ctx)
			res.Engines = rows
			return len(rows), err
		}},
		{"removals", func() (int, error) {
			rows, err := engine.Removals(ctx)
			res.Removals = rows
			return len(rows), err
		}},
	}

	for _, stage := range stages {
		start := time.Now()
		n, err := stage.run()
		if err != nil {
			return nil, fmt.Errorf("%s report failed: %w", stage.name, err)
		}
		slog.Info("Report stage complete", "stage", stage.name, "rows", n, "duration", time.Since(start))
	}

	return res, nil
}
