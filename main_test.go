package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleet_utilization/internal/config"
	"fleet_utilization/internal/database/dbtest"
	"fleet_utilization/internal/report"
)

var now = time.Date(2020, 4, 15, 9, 30, 0, 0, time.UTC)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		flags     periodFlags
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "default is previous month",
			wantStart: "2020-03-01 00:00:00",
			wantEnd:   "2020-03-31 23:59:59",
		},
		{
			name:      "month",
			flags:     periodFlags{month: "2019-02"},
			wantStart: "2019-02-01 00:00:00",
			wantEnd:   "2019-02-28 23:59:59",
		},
		{
			name:      "month wins over start and end",
			flags:     periodFlags{month: "2019-02", start: "2020-01-01", end: "2020-01-31"},
			wantStart: "2019-02-01 00:00:00",
			wantEnd:   "2019-02-28 23:59:59",
		},
		{
			name:      "literal dates",
			flags:     periodFlags{start: "2020-03-01", end: "2020-03-15"},
			wantStart: "2020-03-01 00:00:00",
			wantEnd:   "2020-03-15 23:59:59",
		},
		{name: "start only", flags: periodFlags{start: "2020-03-01"}, wantErr: true},
		{name: "end before start", flags: periodFlags{start: "2020-03-15", end: "2020-03-01"}, wantErr: true},
		{name: "bad month", flags: periodFlags{month: "March"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolvePeriod(tt.flags, strings.NewReader(""), &bytes.Buffer{}, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, p.Start.Format("2006-01-02 15:04:05"))
			assert.Equal(t, tt.wantEnd, p.End.Format("2006-01-02 15:04:05"))
		})
	}
}

func TestPromptPeriod(t *testing.T) {
	var out bytes.Buffer
	p, err := resolvePeriod(periodFlags{interactive: true}, strings.NewReader("2020-02-01\n\n"), &out, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2020, 3, 31, 23, 59, 59, 0, time.UTC), p.End)
	assert.Contains(t, out.String(), "Start date [2020-03-01]: ")
	assert.Contains(t, out.String(), "End date [2020-03-31]: ")
}

func TestPromptPeriod_EOFKeepsDefault(t *testing.T) {
	p, err := resolvePeriod(periodFlags{interactive: true}, strings.NewReader(""), &bytes.Buffer{}, now)
	require.NoError(t, err)
	assert.Equal(t, "2020-03", p.YearMonth())
}

func TestSplitTails(t *testing.T) {
	assert.Equal(t, []string{"N281VA", "n282va"}, splitTails(" N281VA,,n282va ,"))
	assert.Nil(t, splitTails(""))
}

func TestEngineOptions(t *testing.T) {
	cfg := &config.Config{Engine: config.EngineConfig{
		PartNumbers:        []string{"1887M10G%"},
		HistoricalAircraft: []string{"N631VA"},
		Exclusions: []config.Exclusion{
			{AC: "N521VA", InstallDate: "2006-04-04 00:00:00"},
			{SN: "397549"},
		},
	}}

	opts, err := engineOptions(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"1887M10G%"}, opts.PartNumbers)
	assert.Equal(t, []string{"N631VA"}, opts.HistoricalAircraft)
	assert.Equal(t, []report.Exclusion{
		{AC: "N521VA", InstallDate: time.Date(2006, 4, 4, 0, 0, 0, 0, time.UTC)},
		{SN: "397549"},
	}, opts.Exclusions)

	cfg.Engine.Exclusions = []config.Exclusion{{SN: "1", InstallDate: "April 4"}}
	_, err = engineOptions(cfg)
	assert.Error(t, err)
}

func TestPrintTotals(t *testing.T) {
	db := dbtest.OpenSeeded(t)

	var out bytes.Buffer
	require.NoError(t, printTotals(context.Background(), db, &out, []string{"n281va", "N282VA"}, "2020-03-31"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"AC", "FLIGHT_HOURS", "FLIGHT_CYCLES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"N281VA", "5.00", "3"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"N282VA", "5.00", "2"}, strings.Fields(lines[2]))

	err := printTotals(context.Background(), db, &out, []string{"N999ZZ"}, "now")
	assert.ErrorIs(t, err, report.ErrUnknownRegistration)
}

func TestRun_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "maintenance.db")

	seeded := dbtest.OpenSeededAt(t, dsn)
	require.NoError(t, seeded.Close())

	cfg := &config.Config{
		DB:     config.DBConfig{Driver: "sqlite3", DSN: dsn},
		Report: config.ReportConfig{OutputDir: filepath.Join(dir, "out")},
		Engine: config.EngineConfig{PartNumbers: []string{dbtest.CFMPart, dbtest.LEAPPart}},
	}

	err := run(context.Background(), cfg, cliFlags{period: periodFlags{month: "2020-03"}})
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "out", "utilization_2020-03.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("airframe")
	require.NoError(t, err)
	assert.Len(t, rows, dbtest.FleetSize+2)
	assert.Equal(t, "All", rows[len(rows)-1][0])
}
