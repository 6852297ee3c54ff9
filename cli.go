package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"fleet_utilization/internal/config"
	"fleet_utilization/internal/models"
	"fleet_utilization/internal/report"
)

type periodFlags struct {
	start       string
	end         string
	month       string
	interactive bool
}

// resolvePeriod picks the report period: -month, then -start/-end, then the
// interactive prompt. With none of them the previous calendar month is used.
func resolvePeriod(f periodFlags, in io.Reader, out io.Writer, now time.Time) (models.Period, error) {
	switch {
	case f.month != "":
		return models.ParseMonth(f.month)
	case f.start != "" || f.end != "":
		if f.start == "" || f.end == "" {
			return models.Period{}, fmt.Errorf("-start and -end must be given together")
		}
		return models.ParsePeriod(f.start, f.end)
	case f.interactive:
		return promptPeriod(in, out, models.PreviousMonth(now))
	default:
		return models.PreviousMonth(now), nil
	}
}

// promptPeriod asks for start and end dates. An empty answer keeps the default.
func promptPeriod(in io.Reader, out io.Writer, def models.Period) (models.Period, error) {
	scanner := bufio.NewScanner(in)

	ask := func(label, fallback string) (string, error) {
		fmt.Fprintf(out, "%s [%s]: ", label, fallback)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
			}
			return fallback, nil
		}
		if answer := strings.TrimSpace(scanner.Text()); answer != "" {
			return answer, nil
		}
		return fallback, nil
	}

	start, err := ask("Start date", def.Start.Format(models.DateLayout))
	if err != nil {
		return models.Period{}, err
	}
	end, err := ask("End date", def.End.Format(models.DateLayout))
	if err != nil {
		return models.Period{}, err
	}

	return models.ParsePeriod(start, end)
}

func splitTails(s string) []string {
	var tails []string
	for _, ac := range strings.Split(s, ",") {
		if ac = strings.TrimSpace(ac); ac != "" {
			tails = append(tails, ac)
		}
	}
	return tails
}

// engineOptions converts the engine section of the configuration
func engineOptions(cfg *config.Config) (report.EngineOptions, error) {
	opts := report.EngineOptions{
		PartNumbers:        cfg.Engine.PartNumbers,
		HistoricalAircraft: cfg.Engine.HistoricalAircraft,
	}

	for i, ex := range cfg.Engine.Exclusions {
		date, err := ex.Date()
		if err != nil {
			return report.EngineOptions{}, fmt.Errorf("engine.exclusions[%d]: %w", i, err)
		}
		opts.Exclusions = append(opts.Exclusions, report.Exclusion{
			AC:          ex.AC,
			SN:          ex.SN,
			InstallDate: date,
		})
	}

	return opts, nil
}
