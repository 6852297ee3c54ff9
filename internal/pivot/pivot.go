// Package pivot reshapes month-keyed flight activity into row x month tables
// with an "All" margin on both axes.
package pivot

import (
	"sort"

	"fleet_utilization/internal/models"
)

// Margin labels the aggregate row and column
const Margin = "All"

// Cell holds the summed flight time of one row in one month
type Cell struct {
	FlightHours  float64
	FlightCycles int
}

func (c Cell) add(o Cell) Cell {
	return Cell{FlightHours: c.FlightHours + o.FlightHours, FlightCycles: c.FlightCycles + o.FlightCycles}
}

// Table is a pivot of flight activity. Missing cells read as zero.
type Table struct {
	rows   []string
	months []string
	cells  map[string]map[string]Cell
}

// New pivots activity by Key and Month, summing rows that share both
func New(activity []models.FlightActivity) *Table {
	t := &Table{cells: make(map[string]map[string]Cell)}
	monthSet := make(map[string]struct{})

	for _, a := range activity {
		row, ok := t.cells[a.Key]
		if !ok {
			row = make(map[string]Cell)
			t.cells[a.Key] = row
			t.rows = append(t.rows, a.Key)
		}
		row[a.Month] = row[a.Month].add(Cell{FlightHours: a.FlightHours, FlightCycles: a.FlightCycles})
		monthSet[a.Month] = struct{}{}
	}

	for m := range monthSet {
		t.months = append(t.months, m)
	}
	sort.Strings(t.rows)
	sort.Strings(t.months)

	return t
}

// Rows returns the sorted row labels without the margin
func (t *Table) Rows() []string {
	return append([]string(nil), t.rows...)
}

// Months returns the sorted month columns without the margin
func (t *Table) Months() []string {
	return append([]string(nil), t.months...)
}

// Columns returns the month columns followed by the margin column
func (t *Table) Columns() []string {
	return append(t.Months(), Margin)
}

// Len counts rows including the margin row
func (t *Table) Len() int {
	return len(t.rows) + 1
}

// Cell returns the value at row and month. Either may be Margin.
func (t *Table) Cell(row, month string) Cell {
	if row == Margin {
		var total Cell
		for _, r := range t.rows {
			total = total.add(t.Cell(r, month))
		}
		return total
	}

	cells := t.cells[row]
	if month != Margin {
		return cells[month]
	}

	var total Cell
	for _, c := range cells {
		total = total.add(c)
	}
	return total
}

// Summary is one row of a pivot filtered to a single month
type Summary struct {
	Key         string
	MonthHours  float64
	TotalHours  float64
	MonthCycles int
	TotalCycles int
}

// FilterMonth keeps the given month and the all-time margin for every row,
// followed by the margin row
func (t *Table) FilterMonth(month string) []Summary {
	out := make([]Summary, 0, t.Len())
	for _, r := range append(t.Rows(), Margin) {
		m, all := t.Cell(r, month), t.Cell(r, Margin)
		out = append(out, Summary{
			Key:         r,
			MonthHours:  m.FlightHours,
			TotalHours:  all.FlightHours,
			MonthCycles: m.FlightCycles,
			TotalCycles: all.FlightCycles,
		})
	}
	return out
}
