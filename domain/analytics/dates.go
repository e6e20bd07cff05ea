package analytics

import (
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the day-zero of legacy spreadsheet serial dates. Spreadsheet
// tools count days from 1899-12-30 (the off-by-two quirk of the 1900 leap-year
// bug is already folded into this epoch).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial dates outside this window are rejected rather than silently mapped
// to nonsense calendar dates.
const (
	minSerial = 365.0   // 1900-12-30
	maxSerial = 80000.0 // ~2119
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
}

// ParseDate coerces the date formats seen in exports and API parameters:
// ISO timestamps, plain dates, US slash dates, and legacy spreadsheet serial
// numbers. The literal "null" the dashboards sometimes send is treated as
// absent.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return fromSerial(serial)
	}

	return time.Time{}, false
}

// fromSerial converts a spreadsheet serial day number (fractional part is
// time of day) to a calendar timestamp.
func fromSerial(serial float64) (time.Time, bool) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, false
	}
	days := int(serial)
	frac := serial - float64(days)
	ts := serialEpoch.AddDate(0, 0, days)
	ts = ts.Add(time.Duration(frac*24*float64(time.Hour) + 0.5))
	return ts, true
}
