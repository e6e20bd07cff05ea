package entity

import (
	"strings"
	"time"
)

// TranscriptStatus represents the lifecycle status of a chat session
type TranscriptStatus string

const (
	TranscriptStatusCompleted TranscriptStatus = "Completed"
	TranscriptStatusDropped   TranscriptStatus = "Dropped"
	TranscriptStatusMissed    TranscriptStatus = "Missed"
)

// ChatTranscript represents one support-chat session summary record.
// The field set mirrors the spreadsheet export the importer consumes.
type ChatTranscript struct {
	ID              string    `json:"id"`
	CaseNumber      int       `json:"case_number"`
	CreatedDate     time.Time `json:"created_date"`
	OwnerFullName   string    `json:"owner_full_name"`
	Status          string    `json:"status"`
	Product         string    `json:"product"`
	SubProduct      string    `json:"sub_product"`
	Problem         string    `json:"problem"`
	RootCause       string    `json:"root_cause"`
	Symptoms        string    `json:"symptoms"`
	AIAssisted      bool      `json:"ai_assisted"`
	DurationSeconds int       `json:"duration_seconds"`
	WaitTimeSeconds int       `json:"wait_time_seconds"`
	Transfers       int       `json:"transfers"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
}

// HasDuration reports whether the record carries a usable handle time.
func (t *ChatTranscript) HasDuration() bool {
	return t.DurationSeconds > 0
}

// DateRange is an optional created-date filter. A zero From or To leaves
// that side of the range open; a fully zero range means "all data".
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsZero reports whether no filtering was requested.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// SpanDays returns the inclusive number of days the range covers.
// An open range reports 0.
func (r DateRange) SpanDays() int {
	if r.From.IsZero() || r.To.IsZero() || r.To.Before(r.From) {
		return 0
	}
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// Contains reports whether ts falls inside the range. Open sides match
// everything.
func (r DateRange) Contains(ts time.Time) bool {
	if !r.From.IsZero() && ts.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && ts.After(r.To.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

// ParseAIAssisted maps the export's AI-usage markers onto a bool.
// Anything other than an explicit yes counts as no.
func ParseAIAssisted(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// AIAssistedLabel renders the flag back in the export's Yes/No vocabulary.
func AIAssistedLabel(assisted bool) string {
	if assisted {
		return "Yes"
	}
	return "No"
}
