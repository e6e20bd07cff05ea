package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chatlens/chatlens/domain/entity"
)

func transcript(problem, rootCause, agent string, durationSec int) *entity.ChatTranscript {
	return &entity.ChatTranscript{
		ID:              fmt.Sprintf("t-%s-%s-%d", problem, agent, durationSec),
		Problem:         problem,
		RootCause:       rootCause,
		OwnerFullName:   agent,
		Status:          "Completed",
		DurationSeconds: durationSec,
		CreatedDate:     time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestCleanDropsExcludedCategories(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("Setup", "Firmware", "Alice", 300),
		transcript("Offline", "", "Bob", 120),
		transcript("Disconnected Phone", "", "Bob", 60),
		transcript("offline", "", "Cara", 90),
		transcript("Streaming", "Bandwidth", "Cara", 480),
	}

	cleaned := Clean(records)
	assert.Len(t, cleaned, 2)
	for _, r := range cleaned {
		assert.False(t, Excluded(r.Problem))
	}
}

// Per-group counts must sum to the total record count after exclusion
// filtering, and percentages must sum to ~100.
func TestGroupByConservation(t *testing.T) {
	var records []*entity.ChatTranscript
	problems := []string{"Setup", "Streaming", "Battery", "Setup", "Setup", "Battery", "Audio"}
	for i, p := range problems {
		records = append(records, transcript(p, "rc", fmt.Sprintf("agent-%d", i%3), 100+i*60))
	}
	records = append(records, transcript("Offline", "", "ignored", 50))

	cleaned := Clean(records)
	groups := GroupBy(cleaned, ByProblem)

	var countSum int
	var pctSum float64
	for _, g := range groups {
		countSum += g.Count
		pctSum += g.Percentage
	}
	assert.Equal(t, len(cleaned), countSum)
	assert.InDelta(t, 100.0, pctSum, 0.5)
}

func TestGroupByOrderingAndAHT(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("Setup", "a", "x", 120),
		transcript("Setup", "a", "x", 240),
		transcript("Streaming", "b", "y", 600),
	}

	groups := GroupBy(records, ByProblem)
	assert.Len(t, groups, 2)
	assert.Equal(t, "Setup", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
	// mean of 2 and 4 minutes
	assert.InDelta(t, 3.0, groups[0].AHTMinutes, 0.001)
	assert.Equal(t, "3:00", groups[0].AHT)
	assert.Equal(t, "10:00", groups[1].AHT)
}

func TestGroupByUncategorized(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("", "", "x", 60),
		transcript("  ", "", "y", 60),
		transcript("Setup", "", "z", 60),
	}

	groups := GroupBy(records, ByProblem)
	assert.Len(t, groups, 2)
	assert.Equal(t, "Uncategorized", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
}

func TestGroupByIgnoresMissingDurations(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("Setup", "a", "x", 0),
		transcript("Setup", "a", "x", 300),
	}

	groups := GroupBy(records, ByProblem)
	assert.Len(t, groups, 1)
	// only the record with a duration contributes to AHT
	assert.InDelta(t, 5.0, groups[0].AHTMinutes, 0.001)
	assert.Equal(t, 2, groups[0].Count)
}

func TestTopN(t *testing.T) {
	var records []*entity.ChatTranscript
	for i := 0; i < 10; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, transcript(fmt.Sprintf("p%d", i), "rc", "a", 60))
		}
	}

	groups := GroupBy(records, ByProblem)
	top := TopN(groups, 6)
	assert.Len(t, top, 6)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}

	assert.Len(t, TopN(groups, 0), 10)
	assert.Len(t, TopN(groups[:3], 6), 3)
}

func TestResolutionRate(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("Setup", "a", "x", 60),
		transcript("Setup", "a", "x", 60),
		transcript("Setup", "a", "x", 60),
	}
	records[2].Status = "Dropped"

	assert.InDelta(t, 66.7, ResolutionRate(records), 0.05)
	assert.Equal(t, 0.0, ResolutionRate(nil))
}

func TestMeanHandleTimeSeconds(t *testing.T) {
	records := []*entity.ChatTranscript{
		transcript("Setup", "a", "x", 100),
		transcript("Setup", "a", "x", 200),
		transcript("Setup", "a", "x", 0),
	}
	assert.InDelta(t, 150.0, MeanHandleTimeSeconds(records), 0.001)
	assert.Equal(t, 0.0, MeanHandleTimeSeconds(nil))
}

func TestPaginate(t *testing.T) {
	var groups []Group
	for i := 0; i < 45; i++ {
		groups = append(groups, Group{Name: fmt.Sprintf("g%02d", i), Count: 100 - i})
	}

	page := Paginate(groups, 2, 20)
	assert.Equal(t, 45, page.Total)
	assert.Len(t, page.Groups, 20)
	assert.Equal(t, "g20", page.Groups[0].Name)

	last := Paginate(groups, 3, 20)
	assert.Len(t, last.Groups, 5)

	beyond := Paginate(groups, 9, 20)
	assert.Empty(t, beyond.Groups)
	assert.Equal(t, 45, beyond.Total)

	defaults := Paginate(groups, 0, 0)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, DefaultPerPage, defaults.PerPage)

	capped := Paginate(groups, 1, 500)
	assert.Equal(t, MaxPerPage, capped.PerPage)
}

func TestSortAscending(t *testing.T) {
	groups := []Group{{Name: "a", Count: 5}, {Name: "b", Count: 1}, {Name: "c", Count: 3}}
	asc := SortAscending(groups)
	assert.Equal(t, []int{1, 3, 5}, []int{asc[0].Count, asc[1].Count, asc[2].Count})
	// input untouched
	assert.Equal(t, 5, groups[0].Count)
}
