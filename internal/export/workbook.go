// Package export writes utilization reports to Excel workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"
	"fleet_utilization/internal/report"
)

// Sheet names, in workbook order
const (
	SheetAirframe = "airframe"
	SheetEngines  = "engines"
	SheetRemovals = "removals"
)

const columnWidth = 18

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// FileName is the workbook name for a reporting period, e.g. utilization_2020-03.xlsx
func FileName(p models.Period) string {
	return fmt.Sprintf("utilization_%s.xlsx", p.YearMonth())
}

// Save writes the workbook into dir and returns its path
func Save(dir string, res *report.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(res.Period))
	if err := WriteWorkbook(path, res); err != nil {
		return "", err
	}
	return path, nil
}

// metricHeaders flattens the filtered pivot columns as "<value> | <month>"
func metricHeaders(month string) []string {
	return []string{
		"FLIGHT_HOURS | " + month,
		"FLIGHT_HOURS | " + pivot.Margin,
		"FLIGHT_CYCLES | " + month,
		"FLIGHT_CYCLES | " + pivot.Margin,
	}
}

func airframeSheet(res *report.Result) sheet {
	s := sheet{
		name:    SheetAirframe,
		headers: append([]string{"AC"}, metricHeaders(res.Period.YearMonth())...),
	}
	for _, r := range res.Airframe {
		s.rows = append(s.rows, []any{r.Key, r.MonthHours, r.TotalHours, r.MonthCycles, r.TotalCycles})
	}
	return s
}

func enginesSheet(res *report.Result) sheet {
	headers := append([]string{"ESN"}, metricHeaders(res.Period.YearMonth())...)
	s := sheet{
		name:    SheetEngines,
		headers: append(headers, "INSTALLED_AC"),
	}
	for _, r := range res.Engines {
		s.rows = append(s.rows, []any{r.ESN, r.MonthHours, r.TotalHours, r.MonthCycles, r.TotalCycles, r.InstalledAC})
	}
	return s
}

func removalsSheet(res *report.Result) sheet {
	s := sheet{
		name: SheetRemovals,
		headers: []string{
			"SN", "PN", "TRANSACTION_TYPE", "AC", "TRANS_DATE", "SCHEDULE_CATEGORY",
			"POSITION", "TSI", "CSI", "REMOVAL_REASON",
		},
	}
	for _, t := range res.Removals {
		s.rows = append(s.rows, []any{
			t.SN, t.PN, t.Type, t.AC, t.Date.Format(models.DateTimeLayout), t.ScheduleCategory,
			t.Position, t.TSI, t.CSI, t.RemovalReason,
		})
	}
	return s
}

// WriteWorkbook writes the airframe, engines and removals sheets to path
func WriteWorkbook(path string, res *report.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []sheet{airframeSheet(res), enginesSheet(res), removalsSheet(res)}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s, headerStyle); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	for i, header := range s.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.name, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}

	first, _ := excelize.ColumnNumberToName(1)
	last, _ := excelize.ColumnNumberToName(len(s.headers))
	if err := f.SetColWidth(s.name, first, last, columnWidth); err != nil {
		return err
	}

	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
