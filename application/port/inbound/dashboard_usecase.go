package inbound

import (
	"context"

	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
)

// Dimension names a grouping axis of the report endpoints.
type Dimension string

const (
	DimensionRootCause Dimension = "root-causes"
	DimensionProblem   Dimension = "problems"
	DimensionProduct   Dimension = "products"
	DimensionAgent     Dimension = "agents"
	DimensionSymptom   Dimension = "symptoms"
)

// RootCauseSlice is one wedge of the summary root-cause chart.
type RootCauseSlice struct {
	Name       string  `json:"name"`
	Sessions   int     `json:"sessions"`
	Percentage float64 `json:"percentage"`
}

// SummaryReport is the headline card payload. Field names match the JSON
// the dashboards were built against.
type SummaryReport struct {
	TotalSessions  int              `json:"totalSessions"`
	AHT            string           `json:"aht"`
	ResolutionRate float64          `json:"resolutionRate"`
	Upvotes        int              `json:"upvotes"`
	Downvotes      int              `json:"downvotes"`
	RootCauses     []RootCauseSlice `json:"rootCauses"`
}

// ProblemRow is one raw record of the problems table. The display-style JSON
// keys are part of the API contract.
type ProblemRow struct {
	Problem      string `json:"Problem"`
	RootCause    string `json:"Root cause"`
	Symptoms     string `json:"Symptoms"`
	AIUsage      string `json:"AI Usage ID"`
	ChatDuration string `json:"Chat Duration"`
}

type ProductRow struct {
	Product    string `json:"Products"`
	SubProduct string `json:"Sub Product"`
	AHT        string `json:"AHT"`
	Problem    string `json:"Problem"`
	RootCause  string `json:"Root cause"`
}

type AgentRow struct {
	OwnerFullName string `json:"Owner: Full Name"`
	Status        string `json:"Status"`
	ChatDuration  string `json:"Chat Duration"`
	CreatedDate   string `json:"Created Date"`
	AIAssisted    string `json:"AIAssisted"`
}

type RootCauseRow struct {
	Problem           string  `json:"Problem"`
	RootCause         string  `json:"Root Cause"`
	Count             int     `json:"Count"`
	AIAssistedCount   int     `json:"AI Assisted Count"`
	AIAssistedPercent float64 `json:"AI Assisted Percentage"`
	AverageDuration   string  `json:"Average Duration"`
}

// ReportRequest carries the query controls of an aggregated report view.
type ReportRequest struct {
	Dimension Dimension
	Range     entity.DateRange
	Top       int
	Page      int
	PerPage   int
	Ascending bool
}

// GroupedReport is an aggregated report page plus the context it was
// computed under.
type GroupedReport struct {
	Dimension Dimension      `json:"dimension"`
	Total     int            `json:"total_sessions"`
	Page      analytics.Page `json:"page"`
	Fallback  bool           `json:"range_fallback"`
}

// TrendReport is the agent-dashboard handle-time trend line.
type TrendReport struct {
	Granularity analytics.Granularity  `json:"granularity"`
	Points      []analytics.TrendPoint `json:"points"`
}

// FeedbackReport ranks symptoms by votes for the feedback cards.
type FeedbackReport struct {
	MostUpvoted   []outbound.VotedSymptom `json:"mostUpvoted"`
	MostDownvoted []outbound.VotedSymptom `json:"mostDownvoted"`
}

// FeedbackDetail is one transcript behind a feedback card drill-down.
type FeedbackDetail struct {
	TranscriptID string `json:"chat_transcript_id"`
	Product      string `json:"product"`
	Problem      string `json:"problem"`
	RootCause    string `json:"root_cause"`
	Symptoms     string `json:"symptoms"`
	Upvotes      int    `json:"upvotes"`
	Downvotes    int    `json:"downvotes"`
}

type DashboardUseCase interface {
	Summary(ctx context.Context, rng entity.DateRange) (*SummaryReport, error)
	Problems(ctx context.Context, rng entity.DateRange) ([]ProblemRow, error)
	Products(ctx context.Context, rng entity.DateRange) ([]ProductRow, error)
	Agents(ctx context.Context, rng entity.DateRange) ([]AgentRow, error)
	RootCauses(ctx context.Context, rng entity.DateRange) ([]RootCauseRow, error)
	Report(ctx context.Context, req ReportRequest) (*GroupedReport, error)
	AgentTrend(ctx context.Context, rng entity.DateRange) (*TrendReport, error)
}

type FeedbackUseCase interface {
	Feedback(ctx context.Context, rng entity.DateRange) (*FeedbackReport, error)
	FeedbackDetails(ctx context.Context, item string, kind outbound.VoteKind) ([]FeedbackDetail, error)
}
