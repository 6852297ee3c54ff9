package report

import (
	"context"
	"testing"
	"time"

	"fleet_utilization/internal/database/dbtest"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := models.ParseTimestamp(s, false)
	if err != nil {
		panic(err)
	}
	return t
}

func defaultEngineOptions() EngineOptions {
	return EngineOptions{
		PartNumbers:        []string{"1887M10G%", "2489M10G%"},
		HistoricalAircraft: []string{"N631VA", "N634VA"},
		Exclusions: []Exclusion{
			{AC: "N521VA", InstallDate: date("2006-04-04 00:00:00")},
			{SN: "397549"},
			{SN: "643151", InstallDate: date("2010-09-27 00:00:00")},
			{SN: "643152", InstallDate: date("2010-09-27 00:00:00")},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(dbtest.OpenSeeded(t), march2020, defaultEngineOptions())
}

func TestEngine_InstallRemovalPairs(t *testing.T) {
	e := newTestEngine(t)

	pairs, err := e.InstallRemovalPairs(context.Background())
	require.NoError(t, err)

	type pairView struct {
		ESN, AC string
		Install string
		Removal string
		Open    bool
	}
	var got []pairView
	for _, p := range pairs {
		got = append(got, pairView{
			ESN:     p.ESN,
			AC:      p.AC,
			Install: p.InstallDate.Format(models.DateTimeLayout),
			Removal: p.RemovalDate.Format(models.DateTimeLayout),
			Open:    p.Open,
		})
	}

	end := march2020.End.Format(models.DateTimeLayout)
	assert.Equal(t, []pairView{
		{"111111", "N281VA", "2019-01-01 00:00:00", "2020-03-10 12:00:00", false},
		{"111111", "N282VA", "2020-03-20 00:00:00", end, true},
		{"222222", "N281VA", "2020-03-10 14:00:00", end, true},
		{"333333", "N521VA", "2005-12-01 00:00:00", end, true},
		{"444444", "N631VA", "2015-01-01 00:00:00", "2018-06-01 00:00:00", false},
		{"555555", "N922VA", "2019-12-01 00:00:00", end, true},
		{"666666", "N621VA", "2019-01-01 00:00:00", "2019-12-31 00:00:00", false},
		{"777777", "N921VA", "2010-01-01 00:00:00", "2011-01-01 00:00:00", false},
	}, got)
}

func TestEngine_InstallRemovalPairsWithoutExclusions(t *testing.T) {
	opts := defaultEngineOptions()
	opts.Exclusions = nil
	e := NewEngine(dbtest.OpenSeeded(t), march2020, opts)

	pairs, err := e.InstallRemovalPairs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 10)
}

func TestEngine_ESNHistory(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	pairs, err := e.InstallRemovalPairs(ctx)
	require.NoError(t, err)

	history, err := e.ESNHistory(ctx, pairs)
	require.NoError(t, err)

	assert.Equal(t, []string{"111111", "222222", "333333", "444444", "555555", "666666", "777777"}, history.Rows())

	// removed from the operations specification, read from the historical table
	assert.InDelta(t, 3.0, history.Cell("444444", "2016-05").FlightHours, 1e-9)
	// nothing in the live table for the window, falls back to the historical table
	assert.InDelta(t, 2.0, history.Cell("777777", "2010-06").FlightHours, 1e-9)
	// flights after the removal belong to the next engine
	assert.InDelta(t, 2.75, history.Cell("111111", "2020-03").FlightHours, 1e-9)
	assert.InDelta(t, 1.0, history.Cell("222222", "2020-03").FlightHours, 1e-9)
}

func TestEngine_Run(t *testing.T) {
	e := newTestEngine(t)

	rows, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 9)

	var order []string
	for _, r := range rows {
		order = append(order, r.ESN)
	}
	assert.Equal(t, []string{"222222", "111111", "333333", "555555", "444444", "666666", "777777", "888888", pivot.Margin}, order)

	assert.Equal(t, "N281VA", rows[0].InstalledAC)
	assert.InDelta(t, 1.0, rows[0].MonthHours, 1e-9)

	assert.Equal(t, "N282VA", rows[1].InstalledAC)
	assert.InDelta(t, 2.75, rows[1].MonthHours, 1e-9)
	assert.InDelta(t, 4.0, rows[1].TotalHours, 1e-9)
	assert.Equal(t, 1, rows[1].MonthCycles)
	assert.Equal(t, 2, rows[1].TotalCycles)

	spare := rows[7]
	assert.Equal(t, "888888", spare.ESN)
	assert.Empty(t, spare.InstalledAC)
	assert.Zero(t, spare.TotalHours)

	all := rows[8]
	assert.InDelta(t, 6.75, all.MonthHours, 1e-9)
	assert.Equal(t, 3, all.MonthCycles)
	assert.InDelta(t, 18.25, all.TotalHours, 1e-9)
	assert.Equal(t, 9, all.TotalCycles)
}

func TestEngine_Removals(t *testing.T) {
	e := newTestEngine(t)

	txs, err := e.Removals(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, models.TransactionRemove, txs[0].Type)
}

func TestEngine_TimeCyclesSince(t *testing.T) {
	e := newTestEngine(t)

	tsi, csi, err := e.TimeCyclesSince(context.Background(), models.InstallRemovalPair{
		ESN:         "111111",
		AC:          "N281VA",
		InstallDate: date("2019-01-01"),
		RemovalDate: date("2020-03-10 12:00:00"),
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, tsi, 1e-9)
	assert.Equal(t, 2, csi)
}
