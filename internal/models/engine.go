package models

import "time"

// Engine transaction types as stored in AC_PN_TRANSACTION_HISTORY
const (
	TransactionInstall = "INSTALL"
	TransactionRemove  = "REMOVE"
)

// Transaction is one install or removal of a serialized part on an aircraft
type Transaction struct {
	SN               string
	PN               string
	Type             string
	AC               string
	Date             time.Time // Transaction day plus hour and minute
	ScheduleCategory string
	Position         string
	TSI              float64 // Hours since install at the time of the transaction
	CSI              int     // Cycles since install at the time of the transaction
	RemovalReason    string
}

// InstallRemovalPair spans the time an engine spent on one aircraft.
// Open pairs have no removal yet and end at the report end.
type InstallRemovalPair struct {
	ESN         string
	AC          string
	Position    string
	InstallDate time.Time
	RemovalDate time.Time
	Open        bool
}

// EngineUtilization is one row of the engines sheet
type EngineUtilization struct {
	ESN         string
	MonthHours  float64
	TotalHours  float64
	MonthCycles int
	TotalCycles int
	InstalledAC string
}
