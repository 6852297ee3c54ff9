// Command seed writes a demo SQLite maintenance database so the report can run offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/tasks"
)

func main() {
	out := flag.String("out", "maintenance.db", "SQLite file to create or extend")
	aircraft := flag.Int("aircraft", 12, "Number of active aircraft")
	from := flag.String("from", "2019-01", "First month with flights, YYYY-MM")
	months := flag.Int("months", 24, "Number of months of flights")
	seed := flag.Int64("seed", 0, "Random seed, 0 picks one")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	start, err := time.Parse(models.MonthLayout, *from)
	if err != nil {
		slog.Error("Invalid -from", "value", *from, "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, *out, gofakeit.New(*seed), fleetOptions{aircraft: *aircraft, from: start, months: *months})
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, fake *gofakeit.Faker, opts fleetOptions) error {
	db, err := database.Open(ctx, database.Options{Driver: "sqlite3", DSN: path})
	if err != nil {
		return err
	}
	defer db.Close()

	tails, err := db.AircraftRepository().Tails(ctx)
	if err != nil {
		return err
	}
	if len(tails) > 0 {
		return fmt.Errorf("%s already holds %d aircraft", path, len(tails))
	}

	f, err := generateFleet(fake, opts)
	if err != nil {
		return err
	}

	if err := db.AircraftRepository().InsertBatch(ctx, f.aircraft); err != nil {
		return err
	}
	if err := db.TransactionRepository().InsertBatch(ctx, f.transactions); err != nil {
		return err
	}
	if err := db.InventoryRepository().InsertBatch(ctx, f.inventory); err != nil {
		return err
	}
	slog.Info("Loaded fleet",
		"aircraft", len(f.aircraft),
		"transactions", len(f.transactions),
		"inventory", len(f.inventory),
	)

	current, err := loadFlights(ctx, db.FlightRepository(), database.CurrentFlights, fake, f.active, f.from, f.to)
	if err != nil {
		return err
	}
	historical, err := loadFlights(ctx, db.FlightRepository(), database.HistoricalFlights, fake, f.retired, f.from.AddDate(-1, 0, 0), f.from)
	if err != nil {
		return err
	}

	slog.Info("Seeding complete", "path", path, "flights", current, "historical_flights", historical)
	return nil
}

// loadFlights streams generated legs for [from, to) into a flight table
func loadFlights(ctx context.Context, repo tasks.FlightWriter, table database.FlightTable, fake *gofakeit.Faker, tails []string, from, to time.Time) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	flightChan := make(chan *models.Flight, 1000)
	go func() {
		defer close(flightChan)
		for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
			for _, ac := range tails {
				for _, fl := range dailyFlights(fake, ac, day) {
					select {
					case flightChan <- fl:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return tasks.NewFlightLoader(repo, table, flightChan).Start(ctx)
}
