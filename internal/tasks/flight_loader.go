package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleet_utilization/internal/database"
	"fleet_utilization/internal/models"
)

// FlightWriter is the write side of database.FlightRepository
type FlightWriter interface {
	InsertBatch(ctx context.Context, table database.FlightTable, flights []*models.Flight) error
}

// FlightLoader drains flight records from a channel and commits them to a flight table in batches
type FlightLoader struct {
	repo          FlightWriter
	table         database.FlightTable
	flightChan    <-chan *models.Flight
	batchSize     int           // maximum number of flights in a batch before committing to database
	flushInterval time.Duration // time to flush batch even if not full
}

// Default batch size is 500 flights and flush interval is 1 second
func NewFlightLoader(repo FlightWriter, table database.FlightTable, flightChan <-chan *models.Flight) *FlightLoader {
	return NewFlightLoaderWithConfig(repo, table, flightChan, 500, time.Second)
}

// NewFlightLoaderWithConfig creates a loader with custom batch settings
func NewFlightLoaderWithConfig(repo FlightWriter, table database.FlightTable, flightChan <-chan *models.Flight, batchSize int, flushInterval time.Duration) *FlightLoader {
	return &FlightLoader{
		repo:          repo,
		table:         table,
		flightChan:    flightChan,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Start blocks until the channel is closed, the context is cancelled or an insert fails.
// It returns the number of flights committed.
func (l *FlightLoader) Start(ctx context.Context) (int, error) {
	batch := make([]*models.Flight, 0, l.batchSize)
	loaded := 0
	lastFlushTime := time.Now()

	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.repo.InsertBatch(ctx, l.table, batch); err != nil {
			return fmt.Errorf("failed to insert batch of %d flights into %s: %w", len(batch), l.table, err)
		}
		loaded += len(batch)
		lastFlushTime = time.Now()
		slog.Debug("Inserted batch of flights", "table", string(l.table), "batch_size", len(batch), "loaded", loaded)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return loaded, ctx.Err()

		case f, ok := <-l.flightChan:
			if !ok {
				return loaded, flushBatch()
			}
			if f == nil {
				continue
			}

			batch = append(batch, f)

			if len(batch) >= l.batchSize || time.Since(lastFlushTime) >= l.flushInterval {
				if err := flushBatch(); err != nil {
					return loaded, err
				}
			}
		}
	}
}
