package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Maintenance database tables
const (
	tableAircraft     = "AC_MASTER"
	tableTransactions = "AC_PN_TRANSACTION_HISTORY"
	tableInventory    = "PN_INVENTORY_DETAIL"
)

// FlightTable selects between the live and the historical flights table
type FlightTable string

const (
	CurrentFlights    FlightTable = "AC_ACTUAL_FLIGHTS"
	HistoricalFlights FlightTable = "AC_ACTUAL_FLIGHTS_HD"
)

// Options describes how to reach the maintenance database
type Options struct {
	Driver       string // sqlite3, postgres, pgx or mysql
	DSN          string
	Schema       string // Table prefix, e.g. "odb"
	MaxOpenConns int
}

// DB is a read connection to the maintenance database
type DB struct {
	db      *sql.DB
	dialect Dialect
	schema  string
}

// Open connects to the maintenance database. SQLite files are treated as local
// snapshots: they get tuned and the schema is created if it doesn't exist.
func Open(ctx context.Context, opts Options) (*DB, error) {
	dialect, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}
	if dialect.Name == sqliteDialect.Name && opts.Schema != "" {
		return nil, fmt.Errorf("schema prefix %q is not supported for sqlite3", opts.Schema)
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	database := &DB{db: db, dialect: dialect, schema: opts.Schema}

	if dialect.Name == sqliteDialect.Name {
		if err := optimizeSQLite(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to optimize database: %w", err)
		}
		if err := database.initSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return database, nil
}

// optimizeSQLite applies the pragmas used for snapshot files
func optimizeSQLite(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA cache_size=-64000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Dialect reports the SQL dialect in use
func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) table(name string) string {
	if d.schema == "" {
		return name
	}
	return d.schema + "." + name
}

func (d *DB) args() *queryArgs {
	return &queryArgs{dialect: d.dialect}
}

func (d *DB) AircraftRepository() AircraftRepository {
	return NewAircraftRepository(d)
}

func (d *DB) FlightRepository() FlightRepository {
	return NewFlightRepository(d)
}

func (d *DB) TransactionRepository() TransactionRepository {
	return NewTransactionRepository(d)
}

func (d *DB) InventoryRepository() InventoryRepository {
	return NewInventoryRepository(d)
}

// initSchema creates the maintenance tables in a SQLite snapshot
func (d *DB) initSchema(ctx context.Context) error {
	flightsSchema := `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		AC TEXT NOT NULL,
		FLIGHT_DATE TIMESTAMP NOT NULL,
		TO_HOUR INTEGER,
		TO_MINUTE INTEGER,
		FLIGHT_HOURS INTEGER NOT NULL DEFAULT 0,
		FLIGHT_MINUTES INTEGER NOT NULL DEFAULT 0,
		CYCLES INTEGER NOT NULL DEFAULT 0
	);`

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS AC_MASTER (
			AC TEXT PRIMARY KEY,
			AC_TYPE TEXT,
			SERIAL_NUMBER TEXT,
			STATUS TEXT
		);`,
		fmt.Sprintf(flightsSchema, CurrentFlights),
		fmt.Sprintf(flightsSchema, HistoricalFlights),
		`CREATE TABLE IF NOT EXISTS AC_PN_TRANSACTION_HISTORY (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			SN TEXT NOT NULL,
			PN TEXT NOT NULL,
			TRANSACTION_TYPE TEXT NOT NULL,
			AC TEXT NOT NULL,
			TRANSACTION_DATE TIMESTAMP NOT NULL,
			TRANSACTION_HOUR INTEGER,
			TRANSACTION_MINUTE INTEGER,
			SCHEDULE_CATEGORY TEXT,
			POSITION TEXT,
			HOURS_INSTALLED INTEGER,
			MINUTES_INSTALLED INTEGER,
			CYCLES_INSTALLED INTEGER,
			REMOVAL_REASON TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS PN_INVENTORY_DETAIL (
			PN TEXT NOT NULL,
			SN TEXT NOT NULL,
			INSTALLED_AC TEXT,
			PRIMARY KEY (PN, SN)
		);`,
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_flights_ac_date ON AC_ACTUAL_FLIGHTS(AC, FLIGHT_DATE)`,
		`CREATE INDEX IF NOT EXISTS idx_flights_hd_ac_date ON AC_ACTUAL_FLIGHTS_HD(AC, FLIGHT_DATE)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_pn ON AC_PN_TRANSACTION_HISTORY(PN, TRANSACTION_TYPE)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON AC_PN_TRANSACTION_HISTORY(TRANSACTION_DATE)`,
	}

	for _, s := range schemas {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, idx := range indexes {
		if _, err := d.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// insertBatch executes query once per row inside a single transaction
func (d *DB) insertBatch(ctx context.Context, query string, n int, row func(i int) []any) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
