package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{driver: "sqlite3", want: "sqlite3"},
		{driver: "postgres", want: "postgres"},
		{driver: "pgx", want: "postgres"},
		{driver: "mysql", want: "mysql"},
		{driver: "odbc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := dialectFor(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}
}

func TestDialect_Fragments(t *testing.T) {
	assert.Equal(t, "strftime('%Y-%m', FLIGHT_DATE)", sqliteDialect.Month("FLIGHT_DATE"))
	assert.Equal(t, "to_char(FLIGHT_DATE, 'YYYY-MM')", postgresDialect.Month("FLIGHT_DATE"))
	assert.Equal(t, "DATE_FORMAT(FLIGHT_DATE, '%Y-%m')", mysqlDialect.Month("FLIGHT_DATE"))

	assert.Equal(t,
		"TIMESTAMPADD(MINUTE, COALESCE(H, 0) * 60 + COALESCE(M, 0), DATE(D))",
		mysqlDialect.Timestamp("D", "H", "M"))
	assert.Contains(t, postgresDialect.Timestamp("D", "H", "M"), "make_interval(hours => COALESCE(H, 0), mins => COALESCE(M, 0))")

	assert.Equal(t, "$1, $2, $3", postgresDialect.Placeholders(3))
	assert.Equal(t, "?, ?", sqliteDialect.Placeholders(2))
}

func TestDialect_BindTime(t *testing.T) {
	ts := time.Date(2020, 3, 31, 23, 59, 59, 0, time.FixedZone("PST", -8*3600))

	assert.Equal(t, "2020-03-31 23:59:59", sqliteDialect.BindTime(ts))
	assert.Equal(t, time.Date(2020, 3, 31, 23, 59, 59, 0, time.UTC), postgresDialect.BindTime(ts))
}

func TestQueryArgs(t *testing.T) {
	a := &queryArgs{dialect: postgresDialect}

	assert.Equal(t, "(PN LIKE $1 OR PN LIKE $2)", a.likeAny("PN", []string{"A%", "B%"}))
	assert.Equal(t, "AC IN ($3, $4)", a.in("AC", []string{"N1", "N2"}))
	assert.Equal(t, []any{"A%", "B%", "N1", "N2"}, a.values)
}

func TestTimestampScan(t *testing.T) {
	tests := []struct {
		name  string
		src   any
		want  time.Time
		valid bool
	}{
		{name: "sqlite text", src: "2020-03-10 12:00:00", want: time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC), valid: true},
		{name: "mysql bytes", src: []byte("2020-03-10 12:00:00"), want: time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC), valid: true},
		{name: "driver time", src: time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC), want: time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC), valid: true},
		{name: "null", src: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.Equal(t, tt.valid, ts.Valid)
			assert.True(t, tt.want.Equal(ts.Time))
		})
	}

	var ts timestamp
	assert.Error(t, ts.Scan("not a date"))
	assert.Error(t, ts.Scan(42))
}
