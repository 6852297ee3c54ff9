package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleet_utilization/internal/models"
	"fleet_utilization/internal/pivot"
	"fleet_utilization/internal/report"
)

func sampleResult() *report.Result {
	return &report.Result{
		Period: models.MonthPeriod(2020, time.March),
		Airframe: []pivot.Summary{
			{Key: "N281VA", MonthHours: 3.75, TotalHours: 5, MonthCycles: 2, TotalCycles: 3},
			{Key: pivot.Margin, MonthHours: 3.75, TotalHours: 5, MonthCycles: 2, TotalCycles: 3},
		},
		Engines: []models.EngineUtilization{
			{ESN: "222222", MonthHours: 1, TotalHours: 1, MonthCycles: 1, TotalCycles: 1, InstalledAC: "N281VA"},
			{ESN: pivot.Margin, MonthHours: 1, TotalHours: 1, MonthCycles: 1, TotalCycles: 1},
		},
		Removals: []models.Transaction{
			{
				SN: "111111", PN: "1887M10G01", Type: models.TransactionRemove, AC: "N281VA",
				Date: time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC), Position: "1",
				TSI: 4.75, CSI: 2, RemovalReason: "BORESCOPE FINDING",
			},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "utilization_2020-03.xlsx", FileName(models.MonthPeriod(2020, time.March)))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Save(dir, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "utilization_2020-03.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAirframe, SheetEngines, SheetRemovals}, f.GetSheetList())

	rows, err := f.GetRows(SheetAirframe)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"AC", "FLIGHT_HOURS | 2020-03", "FLIGHT_HOURS | All", "FLIGHT_CYCLES | 2020-03", "FLIGHT_CYCLES | All",
	}, rows[0])
	assert.Equal(t, "N281VA", rows[1][0])
	assert.Equal(t, "3.75", rows[1][1])
	assert.Equal(t, pivot.Margin, rows[2][0])

	rows, err = f.GetRows(SheetEngines)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "INSTALLED_AC", rows[0][5])
	assert.Equal(t, "N281VA", rows[1][5])

	rows, err = f.GetRows(SheetRemovals)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "111111", rows[1][0])
	assert.Equal(t, "2020-03-10 12:00:00", rows[1][4])
	assert.Equal(t, "BORESCOPE FINDING", rows[1][9])
}

func TestWriteWorkbook_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	res := &report.Result{Period: models.MonthPeriod(2020, time.April)}

	require.NoError(t, WriteWorkbook(path, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRemovals)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
