package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"fleet_utilization/internal/models"
)

var (
	enginePartNumbers = []string{"1887M10G01", "1887M10G02", "2489M10G02"}
	removalReasons    = []string{"BORESCOPE FINDING", "EGT MARGIN", "LLP LIMIT", "BIRD STRIKE", "OIL CONSUMPTION"}
	scheduleCategory  = []string{"SCHEDULED", "UNSCHEDULED"}

	// Retired tails only have flights in the historical table
	retiredTails = []string{"N631VA", "N634VA"}
)

type fleetOptions struct {
	aircraft int
	from     time.Time
	months   int
}

// fleet is a generated maintenance snapshot
type fleet struct {
	aircraft     []*models.Aircraft
	transactions []*models.Transaction
	inventory    []*models.InventoryItem
	active       []string
	retired      []string
	from, to     time.Time
}

type installedEngine struct {
	sn, pn string
	since  time.Time
}

// generateFleet builds aircraft, engine history and inventory. Flights are
// produced separately by streamFlights so they never sit in memory at once.
func generateFleet(fake *gofakeit.Faker, opts fleetOptions) (*fleet, error) {
	if opts.aircraft <= 0 {
		return nil, fmt.Errorf("aircraft count must be positive, got %d", opts.aircraft)
	}
	if opts.months <= 0 {
		return nil, fmt.Errorf("months must be positive, got %d", opts.months)
	}

	f := &fleet{
		from:    opts.from,
		to:      opts.from.AddDate(0, opts.months, 0),
		retired: retiredTails,
	}

	usedSN := make(map[string]bool)
	newSN := func() string {
		for {
			sn := fake.DigitN(6)
			if sn[0] != '0' && !usedSN[sn] {
				usedSN[sn] = true
				return sn
			}
		}
	}

	for i := 0; i < opts.aircraft; i++ {
		ac := fmt.Sprintf("N%03dVA", 201+i)
		f.active = append(f.active, ac)
		f.aircraft = append(f.aircraft, &models.Aircraft{
			Registration: ac,
			TypeCode:     fake.RandomString([]string{"A319", "A320", "A321"}),
			SerialNumber: fake.DigitN(4),
			Status:       "ACTIVE",
		})
	}

	for _, ac := range append(append([]string(nil), f.active...), f.retired...) {
		retired := isRetired(ac)
		for pos := 1; pos <= 2; pos++ {
			position := fmt.Sprint(pos)
			eng := installedEngine{
				sn:    newSN(),
				pn:    fake.RandomString(enginePartNumbers),
				since: f.from.AddDate(0, 0, -fake.Number(30, 900)),
			}
			f.install(ac, position, eng)

			// Roughly one engine in three is swapped during the window
			if !retired && fake.Number(1, 3) == 1 {
				removed := fake.DateRange(f.from.AddDate(0, 1, 0), f.to.AddDate(0, -1, 0))
				removed = time.Date(removed.Year(), removed.Month(), removed.Day(), fake.Number(6, 20), 0, 0, 0, time.UTC)
				f.remove(fake, ac, position, eng, removed)
				f.inventory = append(f.inventory, &models.InventoryItem{PN: eng.pn, SN: eng.sn})

				eng = installedEngine{sn: newSN(), pn: eng.pn, since: removed.Add(2 * time.Hour)}
				f.install(ac, position, eng)
			}

			if retired {
				f.remove(fake, ac, position, eng, f.from.AddDate(0, 0, -1))
				f.inventory = append(f.inventory, &models.InventoryItem{PN: eng.pn, SN: eng.sn})
				continue
			}
			f.inventory = append(f.inventory, &models.InventoryItem{PN: eng.pn, SN: eng.sn, InstalledAC: ac})
		}
	}

	// Spares that never flew
	for i := 0; i < 2; i++ {
		f.inventory = append(f.inventory, &models.InventoryItem{PN: fake.RandomString(enginePartNumbers), SN: newSN()})
	}

	return f, nil
}

func (f *fleet) install(ac, position string, eng installedEngine) {
	f.transactions = append(f.transactions, &models.Transaction{
		SN:       eng.sn,
		PN:       eng.pn,
		Type:     models.TransactionInstall,
		AC:       ac,
		Date:     eng.since,
		Position: position,
	})
}

func (f *fleet) remove(fake *gofakeit.Faker, ac, position string, eng installedEngine, at time.Time) {
	hours := at.Sub(eng.since).Hours() / 24 * fake.Float64Range(6, 11)
	f.transactions = append(f.transactions, &models.Transaction{
		SN:               eng.sn,
		PN:               eng.pn,
		Type:             models.TransactionRemove,
		AC:               ac,
		Date:             at,
		ScheduleCategory: fake.RandomString(scheduleCategory),
		Position:         position,
		TSI:              float64(int(hours*100)) / 100,
		CSI:              int(hours / 1.8),
		RemovalReason:    fake.RandomString(removalReasons),
	})
}

func isRetired(ac string) bool {
	for _, r := range retiredTails {
		if r == ac {
			return true
		}
	}
	return false
}

// dailyFlights generates one aircraft's legs for a day
func dailyFlights(fake *gofakeit.Faker, ac string, day time.Time) []*models.Flight {
	legs := fake.Number(0, 4)
	flights := make([]*models.Flight, 0, legs)
	hour := fake.Number(5, 9)
	for i := 0; i < legs && hour < 24; i++ {
		minutes := fake.Number(45, 330)
		flights = append(flights, &models.Flight{
			AC:            ac,
			FlightDate:    day,
			TakeoffHour:   hour,
			TakeoffMinute: fake.Number(0, 59),
			FlightHours:   minutes / 60,
			FlightMinutes: minutes % 60,
			Cycles:        1,
		})
		hour += minutes/60 + 1
	}
	return flights
}
