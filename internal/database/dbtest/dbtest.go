// Package dbtest builds SQLite maintenance snapshots for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"

	"github.com/stretchr/testify/require"
)

// Engine part numbers used by the fixture
const (
	CFMPart  = "1887M10G01"
	LEAPPart = "2489M10G02"
	APUPart  = "3800708-1"
)

// FleetSize is the number of aircraft in the fixture AC_MASTER table
const FleetSize = 6

// Fleet lists the fixture registrations in table order
var Fleet = []string{"N281VA", "N282VA", "N521VA", "N621VA", "N921VA", "N922VA"}

// Open creates an empty SQLite snapshot in a temporary directory
func Open(t *testing.T) *database.DB {
	t.Helper()
	return OpenAt(t, filepath.Join(t.TempDir(), "maintenance.db"))
}

// OpenAt creates or reopens a SQLite snapshot at path
func OpenAt(t *testing.T, path string) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Options{
		Driver: "sqlite3",
		DSN:    path,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// OpenSeeded creates a snapshot populated with the fixture fleet
func OpenSeeded(t *testing.T) *database.DB {
	t.Helper()
	db := Open(t)
	Seed(t, db)
	return db
}

// OpenSeededAt is OpenSeeded for a caller-chosen file
func OpenSeededAt(t *testing.T, path string) *database.DB {
	t.Helper()
	db := OpenAt(t, path)
	Seed(t, db)
	return db
}

func at(s string) time.Time {
	t, err := time.Parse(models.DateTimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func flight(ac, takeoff string, hours, minutes, cycles int) *models.Flight {
	ts := at(takeoff)
	return &models.Flight{
		AC:            ac,
		FlightDate:    ts,
		TakeoffHour:   ts.Hour(),
		TakeoffMinute: ts.Minute(),
		FlightHours:   hours,
		FlightMinutes: minutes,
		Cycles:        cycles,
	}
}

func event(sn, pn, typ, ac, date, pos string) *models.Transaction {
	return &models.Transaction{SN: sn, PN: pn, Type: typ, AC: ac, Date: at(date), Position: pos}
}

// Seed loads the fixture fleet. March 2020 is the reference reporting month.
func Seed(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	aircraft := make([]*models.Aircraft, 0, len(Fleet))
	for _, ac := range Fleet {
		aircraft = append(aircraft, &models.Aircraft{Registration: ac, TypeCode: "A320", Status: "ACTIVE"})
	}
	require.NoError(t, db.AircraftRepository().InsertBatch(ctx, aircraft))

	current := []*models.Flight{
		flight("N521VA", "2005-12-15 10:00:00", 2, 30, 1),
		flight("N521VA", "2020-03-10 08:00:00", 3, 0, 1),
		flight("N281VA", "2020-02-20 09:00:00", 1, 15, 1),
		flight("N281VA", "2020-03-02 07:30:00", 2, 45, 1),
		flight("N281VA", "2020-03-31 23:30:00", 1, 0, 1),
		flight("N281VA", "2020-04-01 06:00:00", 4, 0, 1),
		flight("N282VA", "2020-03-15 12:00:00", 5, 0, 2),
		flight("N921VA", "2020-03-05 10:00:00", 1, 30, 1),
		flight("N922VA", "2020-01-10 10:00:00", 2, 0, 1),
		flight("N621VA", "2019-06-01 10:00:00", 0, 45, 1),
	}
	require.NoError(t, db.FlightRepository().InsertBatch(ctx, database.CurrentFlights, current))

	historical := []*models.Flight{
		flight("N631VA", "2016-05-05 10:00:00", 3, 0, 1),
		flight("N921VA", "2010-06-01 10:00:00", 2, 0, 1),
	}
	require.NoError(t, db.FlightRepository().InsertBatch(ctx, database.HistoricalFlights, historical))

	in, out := models.TransactionInstall, models.TransactionRemove
	txs := []*models.Transaction{
		event("111111", CFMPart, in, "N281VA", "2019-01-01 00:00:00", "1"),
		event("111111", CFMPart, out, "N281VA", "2020-03-10 12:00:00", "1"),
		event("111111", CFMPart, in, "N282VA", "2020-03-20 00:00:00", "2"),
		event("222222", LEAPPart, in, "N281VA", "2020-03-10 14:00:00", "1"),
		event("333333", CFMPart, in, "N521VA", "2005-12-01 00:00:00", "1"),
		event("333333", CFMPart, in, "N521VA", "2006-04-04 00:00:00", "1"),
		event("397549", CFMPart, in, "N921VA", "2020-01-01 00:00:00", "2"),
		event("444444", CFMPart, in, "N631VA", "2015-01-01 00:00:00", "1"),
		event("444444", CFMPart, out, "N631VA", "2018-06-01 00:00:00", "1"),
		event("555555", LEAPPart, in, "N922VA", "2019-12-01 00:00:00", "2"),
		event("555555", LEAPPart, in, "N922VA", "2019-12-01 00:00:00", "2"),
		event("666666", CFMPart, in, "N621VA", "2019-01-01 00:00:00", "1"),
		event("666666", CFMPart, out, "N621VA", "2019-12-31 00:00:00", "1"),
		event("777777", CFMPart, in, "N921VA", "2010-01-01 00:00:00", "1"),
		event("777777", CFMPart, out, "N921VA", "2011-01-01 00:00:00", "1"),
		event("APU999", APUPart, in, "N281VA", "2020-03-03 00:00:00", "APU"),
	}
	txs[1].RemovalReason = "BORESCOPE FINDING"
	txs[1].ScheduleCategory = "UNSCHEDULED"
	txs[1].TSI = 4.75
	txs[1].CSI = 2
	require.NoError(t, db.TransactionRepository().InsertBatch(ctx, txs))

	inventory := []*models.InventoryItem{
		{PN: CFMPart, SN: "111111", InstalledAC: "N282VA"},
		{PN: LEAPPart, SN: "222222", InstalledAC: "N281VA"},
		{PN: CFMPart, SN: "333333", InstalledAC: "N521VA"},
		{PN: CFMPart, SN: "444444"},
		{PN: LEAPPart, SN: "555555", InstalledAC: "N922VA"},
		{PN: CFMPart, SN: "666666"},
		{PN: CFMPart, SN: "777777"},
		{PN: CFMPart, SN: "888888"},
		{PN: APUPart, SN: "APU999", InstalledAC: "N281VA"},
	}
	require.NoError(t, db.InventoryRepository().InsertBatch(ctx, inventory))
}
