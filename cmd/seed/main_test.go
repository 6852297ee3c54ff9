package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/report"
)

var seedFrom = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateFleet(t *testing.T) {
	f, err := generateFleet(gofakeit.New(42), fleetOptions{aircraft: 5, from: seedFrom, months: 6})
	require.NoError(t, err)

	assert.Len(t, f.aircraft, 5)
	assert.Equal(t, "N201VA", f.aircraft[0].Registration)
	assert.Equal(t, retiredTails, f.retired)

	installs := map[string]int{}
	for _, tx := range f.transactions {
		if tx.Type == models.TransactionInstall {
			installs[tx.AC]++
		}
	}
	for _, ac := range append(f.active, f.retired...) {
		assert.GreaterOrEqual(t, installs[ac], 2, ac)
	}

	installed := map[string]int{}
	seen := map[string]bool{}
	for _, item := range f.inventory {
		assert.False(t, seen[item.SN], "duplicate serial %s", item.SN)
		seen[item.SN] = true
		if item.InstalledAC != "" {
			installed[item.InstalledAC]++
		}
	}
	for _, ac := range f.active {
		assert.Equal(t, 2, installed[ac], ac)
	}
	for _, ac := range f.retired {
		assert.Zero(t, installed[ac], ac)
	}
}

func TestGenerateFleet_InvalidOptions(t *testing.T) {
	_, err := generateFleet(gofakeit.New(1), fleetOptions{aircraft: 0, from: seedFrom, months: 1})
	assert.Error(t, err)

	_, err = generateFleet(gofakeit.New(1), fleetOptions{aircraft: 1, from: seedFrom, months: 0})
	assert.Error(t, err)
}

func TestDailyFlights(t *testing.T) {
	fake := gofakeit.New(7)
	day := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		for _, f := range dailyFlights(fake, "N201VA", day) {
			assert.Equal(t, "N201VA", f.AC)
			assert.Less(t, f.TakeoffHour, 24)
			assert.Less(t, f.FlightMinutes, 60)
			assert.Equal(t, 1, f.Cycles)
		}
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.db")

	require.NoError(t, run(ctx, path, gofakeit.New(3), fleetOptions{aircraft: 3, from: seedFrom, months: 3}))

	err := run(ctx, path, gofakeit.New(3), fleetOptions{aircraft: 3, from: seedFrom, months: 3})
	assert.ErrorContains(t, err, "already holds 3 aircraft")

	db, err := database.Open(ctx, database.Options{Driver: "sqlite3", DSN: path})
	require.NoError(t, err)
	defer db.Close()

	res, err := report.NewGenerator(db, report.EngineOptions{
		PartNumbers:        []string{"1887M10G%", "2489M10G%"},
		HistoricalAircraft: retiredTails,
	}).Generate(ctx, models.MonthPeriod(2019, time.February))
	require.NoError(t, err)

	require.Len(t, res.Airframe, 4)
	assert.Equal(t, "All", res.Airframe[3].Key)
	assert.NotEmpty(t, res.Engines)
}
