package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/chatlens/chatlens/domain/entity"
)

// Categories the dashboards exclude before any aggregation: sessions that
// never became a real support interaction.
var excludedCategories = map[string]struct{}{
	"offline":            {},
	"disconnected phone": {},
}

// Excluded reports whether a problem category is filtered out of analytics.
func Excluded(category string) bool {
	_, ok := excludedCategories[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// Clean drops records with an excluded problem category. The input slice is
// not modified.
func Clean(records []*entity.ChatTranscript) []*entity.ChatTranscript {
	out := make([]*entity.ChatTranscript, 0, len(records))
	for _, r := range records {
		if r == nil || Excluded(r.Problem) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// KeyFunc extracts the categorical grouping key from a record.
type KeyFunc func(*entity.ChatTranscript) string

// Standard grouping dimensions used by the dashboard views.
var (
	ByRootCause KeyFunc = func(t *entity.ChatTranscript) string { return t.RootCause }
	ByProblem   KeyFunc = func(t *entity.ChatTranscript) string { return t.Problem }
	ByProduct   KeyFunc = func(t *entity.ChatTranscript) string { return t.Product }
	BySymptom   KeyFunc = func(t *entity.ChatTranscript) string { return t.Symptoms }
	ByAgent     KeyFunc = func(t *entity.ChatTranscript) string { return t.OwnerFullName }
)

// Group is one aggregated bucket for a card or chart.
type Group struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	AHTMinutes float64 `json:"aht_minutes"`
	AHT        string  `json:"aht"`
	AIAssisted int     `json:"ai_assisted"`
}

// GroupBy aggregates cleaned records by key: per-group count, share of the
// total, and mean handle time over the records that carry a duration.
// Records with an empty key fall into "Uncategorized". Groups come back
// sorted by count descending, ties broken by name for stable output.
func GroupBy(records []*entity.ChatTranscript, key KeyFunc) []Group {
	type acc struct {
		count        int
		aiAssisted   int
		totalMinutes float64
		withDuration int
	}

	buckets := make(map[string]*acc)
	for _, r := range records {
		name := strings.TrimSpace(key(r))
		if name == "" {
			name = "Uncategorized"
		}
		b := buckets[name]
		if b == nil {
			b = &acc{}
			buckets[name] = b
		}
		b.count++
		if r.AIAssisted {
			b.aiAssisted++
		}
		if r.HasDuration() {
			b.totalMinutes += float64(r.DurationSeconds) / 60
			b.withDuration++
		}
	}

	total := len(records)
	groups := make([]Group, 0, len(buckets))
	for name, b := range buckets {
		g := Group{
			Name:       name,
			Count:      b.count,
			AIAssisted: b.aiAssisted,
		}
		if total > 0 {
			g.Percentage = round1(float64(b.count) / float64(total) * 100)
		}
		if b.withDuration > 0 {
			g.AHTMinutes = b.totalMinutes / float64(b.withDuration)
			g.AHT = FormatMinutes(g.AHTMinutes)
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// TopN truncates a sorted group list to at most n entries. Non-positive n
// returns the list unchanged.
func TopN(groups []Group, n int) []Group {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// MeanHandleTimeSeconds averages the duration over records that have one.
func MeanHandleTimeSeconds(records []*entity.ChatTranscript) float64 {
	var sum, n int
	for _, r := range records {
		if r.HasDuration() {
			sum += r.DurationSeconds
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// ResolutionRate is the share of records with a Completed status, in percent.
func ResolutionRate(records []*entity.ChatTranscript) float64 {
	if len(records) == 0 {
		return 0
	}
	var completed int
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Status), string(entity.TranscriptStatusCompleted)) {
			completed++
		}
	}
	return round1(float64(completed) / float64(len(records)) * 100)
}

// VoteTotals sums upvotes and downvotes across records.
func VoteTotals(records []*entity.ChatTranscript) (upvotes, downvotes int) {
	for _, r := range records {
		upvotes += r.Upvotes
		downvotes += r.Downvotes
	}
	return upvotes, downvotes
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
