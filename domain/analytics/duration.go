package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// The spreadsheet exports carry chat durations in three shapes: a clock
// string ("12:34" meaning minutes:seconds), a bare number of seconds, or a
// bare number of minutes. Bare values above this threshold are read as
// seconds; at or below it they are read as minutes. A real chat session
// shorter than a minute is recorded as "0:SS" by the exporter, so the
// ambiguity only exists for bare numbers.
const bareSecondsThreshold = 60

// ParseMinutes normalizes a duration value to fractional minutes.
// It returns false for empty, negative, or unparseable input.
func ParseMinutes(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if strings.Contains(value, ":") {
		return parseClock(value)
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	if n > bareSecondsThreshold {
		return n / 60, true
	}
	return n, true
}

// parseClock handles "M:SS" and "H:MM:SS" clock strings.
func parseClock(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		nums[i] = n
	}

	if len(nums) == 3 {
		return float64(nums[0])*60 + float64(nums[1]) + float64(nums[2])/60, true
	}
	return float64(nums[0]) + float64(nums[1])/60, true
}

// FormatMinutes renders fractional minutes as the "M:SS" clock string the
// dashboards display. Negative values clamp to "0:00".
func FormatMinutes(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	totalSeconds := int(minutes*60 + 0.5)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// FormatSeconds renders whole seconds as "M:SS".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ToSeconds converts a raw duration value to whole seconds for storage.
func ToSeconds(value string) (int, bool) {
	minutes, ok := ParseMinutes(value)
	if !ok {
		return 0, false
	}
	return int(minutes*60 + 0.5), true
}
