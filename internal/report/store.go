package report

import "fleet_utilization/internal/database"

// Store hands out the maintenance database repositories. *database.DB implements it.
type Store interface {
	AircraftRepository() database.AircraftRepository
	FlightRepository() database.FlightRepository
	TransactionRepository() database.TransactionRepository
	InventoryRepository() database.InventoryRepository
}
