package database

import (
	"fmt"
	"time"

	"fleet_utilization/internal/models"
)

var timestampLayouts = []string{
	models.DateTimeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	models.DateLayout,
}

// timestamp scans computed date expressions, which drivers return as time.Time,
// text or bytes depending on the backend.
type timestamp struct {
	time.Time
	Valid bool
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = models.Naive(v), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = models.Naive(parsed), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
