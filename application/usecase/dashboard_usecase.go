package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

const summaryRootCauseLimit = 6

// DashboardUseCase computes the analytics views over the transcript store.
// Derived reports are pure functions of the fetched records and the request
// controls; nothing here is persisted.
type DashboardUseCase struct {
	transcripts outbound.TranscriptRepository
	cache       outbound.ReportCache
	logger      logger.Logger
	cacheTTL    time.Duration
}

func NewDashboardUseCase(
	transcripts outbound.TranscriptRepository,
	cache outbound.ReportCache,
	log logger.Logger,
	cacheTTL time.Duration,
) inbound.DashboardUseCase {
	return &DashboardUseCase{
		transcripts: transcripts,
		cache:       cache,
		logger:      log,
		cacheTTL:    cacheTTL,
	}
}

// fetch loads transcripts for rng. A filtered range is checked with a
// count first; when it matches nothing, the views fall back to the
// unfiltered dataset instead of rendering empty dashboards.
func (uc *DashboardUseCase) fetch(ctx context.Context, rng entity.DateRange) ([]*entity.ChatTranscript, bool, error) {
	fallback := false
	if !rng.IsZero() {
		n, err := uc.transcripts.Count(ctx, rng)
		if err != nil {
			return nil, false, fmt.Errorf("failed to count transcripts: %w", err)
		}
		if n == 0 {
			uc.logger.Info(ctx, "No transcripts in requested range, falling back to all data", map[string]interface{}{
				"from": rng.From,
				"to":   rng.To,
			})
			rng = entity.DateRange{}
			fallback = true
		}
	}

	records, err := uc.transcripts.List(ctx, rng)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return records, fallback, nil
}

func (uc *DashboardUseCase) Summary(ctx context.Context, rng entity.DateRange) (*inbound.SummaryReport, error) {
	cacheKey := reportCacheKey("summary", rng)
	if uc.cache != nil {
		if payload, ok, err := uc.cache.Get(ctx, cacheKey); err != nil {
			uc.logger.Warn(ctx, "Report cache read failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
		} else if ok {
			var cached inbound.SummaryReport
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	start := time.Now()
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}
	cleaned := analytics.Clean(records)

	upvotes, downvotes := analytics.VoteTotals(cleaned)
	report := &inbound.SummaryReport{
		TotalSessions:  len(cleaned),
		AHT:            analytics.FormatSeconds(int(analytics.MeanHandleTimeSeconds(cleaned) + 0.5)),
		ResolutionRate: analytics.ResolutionRate(cleaned),
		Upvotes:        upvotes,
		Downvotes:      downvotes,
	}

	// The summary chart keys its wedges off the problem category; the
	// dashboards have always labeled it "root causes".
	for _, g := range analytics.TopN(analytics.GroupBy(cleaned, analytics.ByProblem), summaryRootCauseLimit) {
		report.RootCauses = append(report.RootCauses, inbound.RootCauseSlice{
			Name:       g.Name,
			Sessions:   g.Count,
			Percentage: g.Percentage,
		})
	}

	logger.LogPerformance(ctx, uc.logger, "summary_report", time.Since(start), map[string]interface{}{
		"sessions": report.TotalSessions,
	})

	if uc.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, payload, uc.cacheTTL); err != nil {
				uc.logger.Warn(ctx, "Report cache write failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
			}
		}
	}

	return report, nil
}

func (uc *DashboardUseCase) Problems(ctx context.Context, rng entity.DateRange) ([]inbound.ProblemRow, error) {
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}

	rows := make([]inbound.ProblemRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, inbound.ProblemRow{
			Problem:      r.Problem,
			RootCause:    r.RootCause,
			Symptoms:     r.Symptoms,
			AIUsage:      entity.AIAssistedLabel(r.AIAssisted),
			ChatDuration: analytics.FormatSeconds(r.DurationSeconds),
		})
	}
	return rows, nil
}

func (uc *DashboardUseCase) Products(ctx context.Context, rng entity.DateRange) ([]inbound.ProductRow, error) {
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}

	rows := make([]inbound.ProductRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, inbound.ProductRow{
			Product:    r.Product,
			SubProduct: r.SubProduct,
			AHT:        analytics.FormatSeconds(r.DurationSeconds),
			Problem:    r.Problem,
			RootCause:  r.RootCause,
		})
	}
	return rows, nil
}

func (uc *DashboardUseCase) Agents(ctx context.Context, rng entity.DateRange) ([]inbound.AgentRow, error) {
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}

	rows := make([]inbound.AgentRow, 0, len(records))
	for _, r := range records {
		row := inbound.AgentRow{
			OwnerFullName: r.OwnerFullName,
			Status:        r.Status,
			ChatDuration:  analytics.FormatSeconds(r.DurationSeconds),
			AIAssisted:    entity.AIAssistedLabel(r.AIAssisted),
		}
		if !r.CreatedDate.IsZero() {
			row.CreatedDate = r.CreatedDate.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (uc *DashboardUseCase) RootCauses(ctx context.Context, rng entity.DateRange) ([]inbound.RootCauseRow, error) {
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}
	cleaned := analytics.Clean(records)

	type pair struct{ problem, rootCause string }
	type acc struct {
		count        int
		aiAssisted   int
		totalSeconds int
		withDuration int
	}

	buckets := make(map[pair]*acc)
	for _, r := range cleaned {
		k := pair{r.Problem, r.RootCause}
		b := buckets[k]
		if b == nil {
			b = &acc{}
			buckets[k] = b
		}
		b.count++
		if r.AIAssisted {
			b.aiAssisted++
		}
		if r.HasDuration() {
			b.totalSeconds += r.DurationSeconds
			b.withDuration++
		}
	}

	rows := make([]inbound.RootCauseRow, 0, len(buckets))
	for k, b := range buckets {
		row := inbound.RootCauseRow{
			Problem:         k.problem,
			RootCause:       k.rootCause,
			Count:           b.count,
			AIAssistedCount: b.aiAssisted,
		}
		if b.count > 0 {
			row.AIAssistedPercent = math.Round(float64(b.aiAssisted)/float64(b.count)*1000) / 10
		}
		if b.withDuration > 0 {
			row.AverageDuration = analytics.FormatSeconds(b.totalSeconds / b.withDuration)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Problem != rows[j].Problem {
			return rows[i].Problem < rows[j].Problem
		}
		return rows[i].RootCause < rows[j].RootCause
	})
	return rows, nil
}

func (uc *DashboardUseCase) Report(ctx context.Context, req inbound.ReportRequest) (*inbound.GroupedReport, error) {
	key, err := dimensionKey(req.Dimension)
	if err != nil {
		return nil, err
	}

	records, fallback, err := uc.fetch(ctx, req.Range)
	if err != nil {
		return nil, err
	}
	cleaned := analytics.Clean(records)

	groups := analytics.GroupBy(cleaned, key)
	groups = analytics.TopN(groups, req.Top)
	if req.Ascending {
		groups = analytics.SortAscending(groups)
	}

	return &inbound.GroupedReport{
		Dimension: req.Dimension,
		Total:     len(cleaned),
		Page:      analytics.Paginate(groups, req.Page, req.PerPage),
		Fallback:  fallback,
	}, nil
}

func (uc *DashboardUseCase) AgentTrend(ctx context.Context, rng entity.DateRange) (*inbound.TrendReport, error) {
	records, _, err := uc.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}
	cleaned := analytics.Clean(records)

	granularity := analytics.GranularityFor(rng)
	return &inbound.TrendReport{
		Granularity: granularity,
		Points:      analytics.Trend(cleaned, granularity),
	}, nil
}

func dimensionKey(d inbound.Dimension) (analytics.KeyFunc, error) {
	switch d {
	case inbound.DimensionRootCause:
		return analytics.ByRootCause, nil
	case inbound.DimensionProblem:
		return analytics.ByProblem, nil
	case inbound.DimensionProduct:
		return analytics.ByProduct, nil
	case inbound.DimensionAgent:
		return analytics.ByAgent, nil
	case inbound.DimensionSymptom:
		return analytics.BySymptom, nil
	default:
		return nil, fmt.Errorf("unknown report dimension: %s", d)
	}
}

func reportCacheKey(view string, rng entity.DateRange) string {
	const layout = "2006-01-02"
	from, to := "all", "all"
	if !rng.From.IsZero() {
		from = rng.From.Format(layout)
	}
	if !rng.To.IsZero() {
		to = rng.To.Format(layout)
	}
	return fmt.Sprintf("report:%s:%s:%s", view, from, to)
}
