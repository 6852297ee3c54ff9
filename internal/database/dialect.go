package database

import (
	"fmt"
	"strings"
	"time"

	"fleet_utilization/internal/models"
)

// Dialect holds the SQL fragments that differ between the supported drivers
type Dialect struct {
	Name string

	numbered  bool // $1, $2 ... instead of ?
	monthFmt  string
	stampFmt  string
	timeAsStr bool
}

var (
	sqliteDialect = Dialect{
		Name:      "sqlite3",
		monthFmt:  "strftime('%%Y-%%m', %s)",
		stampFmt:  "datetime(date(%[1]s), '+' || COALESCE(%[2]s, 0) || ' hours', '+' || COALESCE(%[3]s, 0) || ' minutes')",
		timeAsStr: true,
	}
	postgresDialect = Dialect{
		Name:     "postgres",
		numbered: true,
		monthFmt: "to_char(%s, 'YYYY-MM')",
		stampFmt: "(date_trunc('day', %[1]s) + make_interval(hours => COALESCE(%[2]s, 0), mins => COALESCE(%[3]s, 0)))",
	}
	mysqlDialect = Dialect{
		Name:     "mysql",
		monthFmt: "DATE_FORMAT(%s, '%%Y-%%m')",
		stampFmt: "TIMESTAMPADD(MINUTE, COALESCE(%[2]s, 0) * 60 + COALESCE(%[3]s, 0), DATE(%[1]s))",
	}
)

// dialectFor maps a database/sql driver name to its dialect
func dialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return sqliteDialect, nil
	case "postgres", "pgx":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// Placeholder returns the n-th (1-based) bind parameter marker
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Month buckets a date column into YYYY-MM
func (d Dialect) Month(col string) string {
	return fmt.Sprintf(d.monthFmt, col)
}

// Timestamp is the day of dateCol plus hourCol hours and minuteCol minutes.
// Null hour or minute count as zero.
func (d Dialect) Timestamp(dateCol, hourCol, minuteCol string) string {
	return fmt.Sprintf(d.stampFmt, dateCol, hourCol, minuteCol)
}

// BindTime converts t to the value the driver compares correctly against stored dates
func (d Dialect) BindTime(t time.Time) any {
	t = models.Naive(t)
	if d.timeAsStr {
		return t.Format(models.DateTimeLayout)
	}
	return t
}

// queryArgs collects bind values while a query is being assembled
type queryArgs struct {
	dialect Dialect
	values  []any
}

func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return a.dialect.Placeholder(len(a.values))
}

// likeAny renders (col LIKE p1 OR col LIKE p2 ...)
func (a *queryArgs) likeAny(col string, patterns []string) string {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, col+" LIKE "+a.add(p))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// in renders col IN (p1, p2 ...)
func (a *queryArgs) in(col string, values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, a.add(v))
	}
	return col + " IN (" + strings.Join(parts, ", ") + ")"
}

// Placeholders renders n comma separated bind markers for an INSERT
func (d Dialect) Placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
