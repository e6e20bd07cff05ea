package analytics

import (
	"sort"
	"time"

	"github.com/chatlens/chatlens/domain/entity"
)

// Granularity is the bucket size of a trend series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Span thresholds for picking a trend granularity, in days.
const (
	daySpanMax  = 14
	weekSpanMax = 60
)

// GranularityFor picks the bucket size from the span of the active range:
// short ranges get daily points, medium ranges weekly, long ranges monthly.
// An open range is treated as long.
func GranularityFor(r entity.DateRange) Granularity {
	span := r.SpanDays()
	switch {
	case span == 0:
		return GranularityMonth
	case span <= daySpanMax:
		return GranularityDay
	case span <= weekSpanMax:
		return GranularityWeek
	default:
		return GranularityMonth
	}
}

// TrendPoint is one bucket of the handle-time trend line.
type TrendPoint struct {
	Start      time.Time `json:"start"`
	Label      string    `json:"label"`
	Count      int       `json:"count"`
	AHTMinutes float64   `json:"aht_minutes"`
	AHT        string    `json:"aht"`
}

// Trend buckets records by granularity and computes the per-bucket count and
// mean handle time. Records without a created date are skipped. Points come
// back in chronological order.
func Trend(records []*entity.ChatTranscript, g Granularity) []TrendPoint {
	type acc struct {
		count        int
		totalMinutes float64
		withDuration int
	}

	buckets := make(map[time.Time]*acc)
	for _, r := range records {
		if r.CreatedDate.IsZero() {
			continue
		}
		start := BucketStart(r.CreatedDate, g)
		b := buckets[start]
		if b == nil {
			b = &acc{}
			buckets[start] = b
		}
		b.count++
		if r.HasDuration() {
			b.totalMinutes += float64(r.DurationSeconds) / 60
			b.withDuration++
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for start, b := range buckets {
		p := TrendPoint{
			Start: start,
			Label: bucketLabel(start, g),
			Count: b.count,
		}
		if b.withDuration > 0 {
			p.AHTMinutes = b.totalMinutes / float64(b.withDuration)
			p.AHT = FormatMinutes(p.AHTMinutes)
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Start.Before(points[j].Start) })
	return points
}

// BucketStart maps a timestamp to the start of its bucket: midnight for day,
// Monday midnight for week, first of the month for month.
func BucketStart(ts time.Time, g Granularity) time.Time {
	ts = ts.UTC()
	switch g {
	case GranularityDay:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityWeek:
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday start
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func bucketLabel(start time.Time, g Granularity) string {
	switch g {
	case GranularityDay:
		return start.Format("Jan 2")
	case GranularityWeek:
		return "Wk of " + start.Format("Jan 2")
	default:
		return start.Format("Jan 2006")
	}
}
