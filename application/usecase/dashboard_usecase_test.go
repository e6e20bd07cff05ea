package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type mockTranscriptRepository struct {
	mock.Mock
}

func (m *mockTranscriptRepository) List(ctx context.Context, rng entity.DateRange) ([]*entity.ChatTranscript, error) {
	args := m.Called(ctx, rng)
	if records := args.Get(0); records != nil {
		return records.([]*entity.ChatTranscript), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTranscriptRepository) Count(ctx context.Context, rng entity.DateRange) (int, error) {
	args := m.Called(ctx, rng)
	return args.Int(0), args.Error(1)
}

func (m *mockTranscriptRepository) TopVotedSymptoms(ctx context.Context, rng entity.DateRange, kind outbound.VoteKind, limit int) ([]outbound.VotedSymptom, error) {
	args := m.Called(ctx, rng, kind, limit)
	if ranked := args.Get(0); ranked != nil {
		return ranked.([]outbound.VotedSymptom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTranscriptRepository) FindBySymptom(ctx context.Context, symptom string, kind outbound.VoteKind, limit int) ([]*entity.ChatTranscript, error) {
	args := m.Called(ctx, symptom, kind, limit)
	if records := args.Get(0); records != nil {
		return records.([]*entity.ChatTranscript), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTranscriptRepository) BulkInsert(ctx context.Context, records []*entity.ChatTranscript) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func summaryFixture() []*entity.ChatTranscript {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return []*entity.ChatTranscript{
		{ID: "t1", CreatedDate: created, Status: "Completed", Problem: "Login", OwnerFullName: "Ana", DurationSeconds: 120, Upvotes: 2},
		{ID: "t2", CreatedDate: created, Status: "Completed", Problem: "Login", OwnerFullName: "Ana", DurationSeconds: 240},
		{ID: "t3", CreatedDate: created, Status: "Dropped", Problem: "Billing", OwnerFullName: "Ben", DurationSeconds: 60, Downvotes: 1},
		{ID: "t4", CreatedDate: created, Status: "Completed", Problem: "Offline", OwnerFullName: "Ben"},
	}
}

func TestSummary_ExcludesOfflineAndComputesRates(t *testing.T) {
	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(summaryFixture(), nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	report, err := uc.Summary(context.Background(), entity.DateRange{})
	require.NoError(t, err)

	// The "Offline" session is dropped from every summary figure.
	assert.Equal(t, 3, report.TotalSessions)
	assert.Equal(t, 2, report.Upvotes)
	assert.Equal(t, 1, report.Downvotes)
	assert.InDelta(t, 66.7, report.ResolutionRate, 0.01)
	// Mean of 120, 240 and 60 seconds is 2:20.
	assert.Equal(t, "2:20", report.AHT)

	require.Len(t, report.RootCauses, 2)
	assert.Equal(t, "Login", report.RootCauses[0].Name)
	assert.Equal(t, 2, report.RootCauses[0].Sessions)

	repo.AssertExpectations(t)
}

func TestSummary_EmptyRangeFallsBackToAllData(t *testing.T) {
	rng := entity.DateRange{
		From: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	repo := new(mockTranscriptRepository)
	repo.On("Count", mock.Anything, rng).Return(0, nil)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(summaryFixture(), nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	report, err := uc.Summary(context.Background(), rng)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSessions)

	// The empty range is detected by the count query; the filtered list
	// query is never issued.
	repo.AssertNotCalled(t, "List", mock.Anything, rng)
	repo.AssertExpectations(t)
}

func TestSummary_PopulatedRangeListsWithFilter(t *testing.T) {
	rng := entity.DateRange{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	repo := new(mockTranscriptRepository)
	repo.On("Count", mock.Anything, rng).Return(4, nil)
	repo.On("List", mock.Anything, rng).Return(summaryFixture(), nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	report, err := uc.Summary(context.Background(), rng)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalSessions)

	repo.AssertNotCalled(t, "List", mock.Anything, entity.DateRange{})
	repo.AssertExpectations(t)
}

func TestProblems_KeepsRawRowsIncludingExcludedCategories(t *testing.T) {
	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(summaryFixture(), nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	rows, err := uc.Problems(context.Background(), entity.DateRange{})
	require.NoError(t, err)

	// Raw table endpoints mirror the stored rows without cleaning.
	assert.Len(t, rows, 4)
	assert.Equal(t, "2:00", rows[0].ChatDuration)
	assert.Equal(t, "No", rows[0].AIUsage)
}

func TestRootCauses_AggregatesByProblemAndCause(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []*entity.ChatTranscript{
		{ID: "t1", CreatedDate: created, Problem: "Login", RootCause: "Bad password", AIAssisted: true, DurationSeconds: 100},
		{ID: "t2", CreatedDate: created, Problem: "Login", RootCause: "Bad password", DurationSeconds: 200},
		{ID: "t3", CreatedDate: created, Problem: "Billing", RootCause: "Double charge", DurationSeconds: 300},
	}

	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(records, nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	rows, err := uc.RootCauses(context.Background(), entity.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Login", rows[0].Problem)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, 1, rows[0].AIAssistedCount)
	assert.InDelta(t, 50.0, rows[0].AIAssistedPercent, 0.01)
	assert.Equal(t, "2:30", rows[0].AverageDuration)
}

func TestReport_UnknownDimension(t *testing.T) {
	repo := new(mockTranscriptRepository)
	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	_, err := uc.Report(context.Background(), inbound.ReportRequest{Dimension: "nonsense"})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "List")
}

func TestReport_TopAndPagination(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []*entity.ChatTranscript{
		{ID: "t1", CreatedDate: created, OwnerFullName: "Ana"},
		{ID: "t2", CreatedDate: created, OwnerFullName: "Ana"},
		{ID: "t3", CreatedDate: created, OwnerFullName: "Ben"},
		{ID: "t4", CreatedDate: created, OwnerFullName: "Cleo"},
	}

	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(records, nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	report, err := uc.Report(context.Background(), inbound.ReportRequest{
		Dimension: inbound.DimensionAgent,
		Top:       2,
		Page:      1,
		PerPage:   10,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.False(t, report.Fallback)
	require.Len(t, report.Page.Groups, 2)
	assert.Equal(t, "Ana", report.Page.Groups[0].Name)
	assert.Equal(t, 2, report.Page.Groups[0].Count)
}

func TestReport_SymptomsDimension(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []*entity.ChatTranscript{
		{ID: "t1", CreatedDate: created, Symptoms: "No audio"},
		{ID: "t2", CreatedDate: created, Symptoms: "No audio"},
		{ID: "t3", CreatedDate: created, Symptoms: "Flickering"},
	}

	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(records, nil)

	uc := NewDashboardUseCase(repo, nil, logger.NewNopLogger(), time.Minute)

	report, err := uc.Report(context.Background(), inbound.ReportRequest{
		Dimension: inbound.DimensionSymptom,
		Page:      1,
		PerPage:   10,
	})
	require.NoError(t, err)

	require.Len(t, report.Page.Groups, 2)
	assert.Equal(t, "No audio", report.Page.Groups[0].Name)
	assert.Equal(t, 2, report.Page.Groups[0].Count)
}

type stubCache struct {
	store map[string][]byte
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, ok := c.store[key]
	return payload, ok, nil
}

func (c *stubCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.store[key] = payload
	return nil
}

func TestSummary_SecondCallServedFromCache(t *testing.T) {
	repo := new(mockTranscriptRepository)
	repo.On("List", mock.Anything, entity.DateRange{}).Return(summaryFixture(), nil).Once()

	cache := &stubCache{store: map[string][]byte{}}
	uc := NewDashboardUseCase(repo, cache, logger.NewNopLogger(), time.Minute)

	first, err := uc.Summary(context.Background(), entity.DateRange{})
	require.NoError(t, err)

	second, err := uc.Summary(context.Background(), entity.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
}
