package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"fleet_utilization/internal/config"
	"fleet_utilization/internal/database"
	"fleet_utilization/internal/export"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/report"
)

func initLogger(cfg *config.Config) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// stdout is reserved for the -totals table
	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	start := flag.String("start", "", "Report start, YYYY-MM-DD[ HH:MM:SS]")
	end := flag.String("end", "", "Report end, YYYY-MM-DD[ HH:MM:SS]; a bare date means end of day")
	month := flag.String("month", "", "Report month, YYYY-MM (overrides -start/-end)")
	interactive := flag.Bool("interactive", false, "Prompt for the report period")
	totals := flag.String("totals", "", "Comma separated registrations; print lifetime totals instead of building the workbook")
	asOf := flag.String("asof", "now", "Cutoff for -totals: now, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("FLEET_UTIL_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(initLogger(cfg).With("run_id", uuid.NewString()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, cfg, cliFlags{
		period: periodFlags{
			start:       *start,
			end:         *end,
			month:       *month,
			interactive: *interactive,
		},
		totals: *totals,
		asOf:   *asOf,
	})
	if err != nil {
		slog.Error("Run failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

type cliFlags struct {
	period periodFlags
	totals string
	asOf   string
}

func run(ctx context.Context, cfg *config.Config, flags cliFlags) error {
	db, err := database.Open(ctx, database.Options{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Schema:       cfg.DB.Schema,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("failed to open maintenance database: %w", err)
	}
	defer db.Close()

	if flags.totals != "" {
		return printTotals(ctx, db, os.Stdout, splitTails(flags.totals), flags.asOf)
	}

	period, err := resolvePeriod(flags.period, os.Stdin, os.Stderr, time.Now())
	if err != nil {
		return err
	}

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}

	begin := time.Now()
	res, err := report.NewGenerator(db, opts).Generate(ctx, period)
	if err != nil {
		return err
	}

	path, err := export.Save(cfg.Report.OutputDir, res)
	if err != nil {
		return err
	}

	slog.Info("Report complete",
		"path", path,
		"airframe_rows", len(res.Airframe),
		"engine_rows", len(res.Engines),
		"removal_rows", len(res.Removals),
		"duration", time.Since(begin),
	)

	return nil
}

// printTotals writes lifetime totals as an aligned table
func printTotals(ctx context.Context, store report.Store, out io.Writer, tails []string, asOf string) error {
	airframe, err := report.NewAirframe(ctx, store, models.PreviousMonth(time.Now()))
	if err != nil {
		return err
	}

	rows, err := airframe.FlightTotals(ctx, tails, asOf)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AC\tFLIGHT_HOURS\tFLIGHT_CYCLES")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%d\n", r.AC, r.FlightHours, r.FlightCycles)
	}
	return w.Flush()
}
