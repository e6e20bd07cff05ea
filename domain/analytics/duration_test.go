package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"clock minutes seconds", "12:30", 12.5, true},
		{"clock with hours", "1:02:30", 62.5, true},
		{"zero padded", "05:06", 5.1, true},
		{"bare seconds", "300", 5, true},
		{"bare minutes", "45", 45, true},
		{"boundary stays minutes", "60", 60, true},
		{"fractional seconds value", "90.0", 1.5, true},
		{"whitespace", "  7:00 ", 7, true},
		{"empty", "", 0, false},
		{"garbage", "n/a", 0, false},
		{"negative", "-30", 0, false},
		{"too many parts", "1:2:3:4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMinutes(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "5:30", FormatMinutes(5.5))
	assert.Equal(t, "0:00", FormatMinutes(0))
	assert.Equal(t, "0:00", FormatMinutes(-3))
	assert.Equal(t, "62:30", FormatMinutes(62.5))
	assert.Equal(t, "1:00", FormatMinutes(0.9999))
}

// Formatting a parsed duration and reparsing it must land on the same
// minute value, within clock-string rounding.
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"12:30", "0:45", "300", "45", "1:02:30", "7:09", "90"}
	for _, in := range inputs {
		minutes, ok := ParseMinutes(in)
		assert.True(t, ok, in)

		again, ok := ParseMinutes(FormatMinutes(minutes))
		assert.True(t, ok, in)
		assert.InDelta(t, minutes, again, 1.0/120, "round trip for %q", in)
	}
}

func TestToSeconds(t *testing.T) {
	sec, ok := ToSeconds("5:30")
	assert.True(t, ok)
	assert.Equal(t, 330, sec)

	sec, ok = ToSeconds("300")
	assert.True(t, ok)
	assert.Equal(t, 300, sec)

	_, ok = ToSeconds("")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"iso date", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"iso timestamp", "2025-01-15T10:30:00Z", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"space separated", "2025-01-15 10:30:00", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"us slash date", "01/15/2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"literal null", "null", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"nonsense", "yesterday", time.Time{}, false},
		{"serial below range", "12", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestParseDateSerial(t *testing.T) {
	// 45658 is 2025-01-01 in spreadsheet serial days.
	got, ok := ParseDate("45658")
	assert.True(t, ok)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 1, got.Day())

	// Fractional part is time of day.
	got, ok = ParseDate("45658.5")
	assert.True(t, ok)
	assert.Equal(t, 12, got.Hour())
}
