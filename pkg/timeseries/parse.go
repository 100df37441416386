package timeseries

import (
	"fmt"
	"time"
)

// timestampFormats are the layouts accepted by ParseTimestamp, tried in order.
var timestampFormats = []string{
	"2006010215",
	"2006-01-02",
	"20060102",
	"20060102T15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02-01-2006 15:04",
	"Jan 02, 2006",
	"January 02, 2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseTimestamp parses a timestamp from the formats commonly used in space
// weather data requests, such as "2025010112" (YYYYMMDDHH), "2025-01-02", or
// ISO-like date-time strings. All results are in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timeseries: invalid timestamp format: %q", s)
}
