package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type mockDashboardUseCase struct {
	mock.Mock
}

func (m *mockDashboardUseCase) Summary(ctx context.Context, rng entity.DateRange) (*inbound.SummaryReport, error) {
	args := m.Called(ctx, rng)
	if report := args.Get(0); report != nil {
		return report.(*inbound.SummaryReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) Problems(ctx context.Context, rng entity.DateRange) ([]inbound.ProblemRow, error) {
	args := m.Called(ctx, rng)
	if rows := args.Get(0); rows != nil {
		return rows.([]inbound.ProblemRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) Products(ctx context.Context, rng entity.DateRange) ([]inbound.ProductRow, error) {
	args := m.Called(ctx, rng)
	if rows := args.Get(0); rows != nil {
		return rows.([]inbound.ProductRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) Agents(ctx context.Context, rng entity.DateRange) ([]inbound.AgentRow, error) {
	args := m.Called(ctx, rng)
	if rows := args.Get(0); rows != nil {
		return rows.([]inbound.AgentRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) RootCauses(ctx context.Context, rng entity.DateRange) ([]inbound.RootCauseRow, error) {
	args := m.Called(ctx, rng)
	if rows := args.Get(0); rows != nil {
		return rows.([]inbound.RootCauseRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) Report(ctx context.Context, req inbound.ReportRequest) (*inbound.GroupedReport, error) {
	args := m.Called(ctx, req)
	if report := args.Get(0); report != nil {
		return report.(*inbound.GroupedReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDashboardUseCase) AgentTrend(ctx context.Context, rng entity.DateRange) (*inbound.TrendReport, error) {
	args := m.Called(ctx, rng)
	if trend := args.Get(0); trend != nil {
		return trend.(*inbound.TrendReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSummaryHandler_ParsesDateRangeAliases(t *testing.T) {
	expected := entity.DateRange{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	report := &inbound.SummaryReport{TotalSessions: 42, AHT: "3:15"}

	tests := []struct {
		name  string
		query string
	}{
		{"short params", "?from=2025-01-01&to=2025-01-31"},
		{"long params", "?from_date=2025-01-01&to_date=2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockDashboardUseCase)
			uc.On("Summary", mock.Anything, expected).Return(report, nil)
			h := NewDashboardHandler(uc, logger.NewNopLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/summary-data"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.Summary(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var got inbound.SummaryReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, 42, got.TotalSessions)
			assert.Equal(t, "3:15", got.AHT)

			uc.AssertExpectations(t)
		})
	}
}

func TestSummaryHandler_NullParamsIgnored(t *testing.T) {
	uc := new(mockDashboardUseCase)
	uc.On("Summary", mock.Anything, entity.DateRange{}).Return(&inbound.SummaryReport{}, nil)
	h := NewDashboardHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary-data?from=null&to=null", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestSummaryHandler_InvalidDate(t *testing.T) {
	uc := new(mockDashboardUseCase)
	h := NewDashboardHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary-data?from=not-a-date", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Summary")
}

func TestSummaryHandler_ReversedRange(t *testing.T) {
	uc := new(mockDashboardUseCase)
	h := NewDashboardHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary-data?from=2025-02-01&to=2025-01-01", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProblemsHandler_RawRowShape(t *testing.T) {
	rows := []inbound.ProblemRow{
		{Problem: "Login", RootCause: "Bad password", Symptoms: "Cannot sign in", AIUsage: "Yes", ChatDuration: "4:05"},
	}

	uc := new(mockDashboardUseCase)
	uc.On("Problems", mock.Anything, entity.DateRange{}).Return(rows, nil)
	h := NewDashboardHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/problems-data", nil)
	rec := httptest.NewRecorder()
	h.Problems(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	// Display-style JSON keys are part of the contract.
	assert.Equal(t, "Bad password", got[0]["Root cause"])
	assert.Equal(t, "Yes", got[0]["AI Usage ID"])
	assert.Equal(t, "4:05", got[0]["Chat Duration"])
}

func TestReportHandler_DimensionRouting(t *testing.T) {
	uc := new(mockDashboardUseCase)
	uc.On("Report", mock.Anything, inbound.ReportRequest{
		Dimension: inbound.DimensionProduct,
		Top:       5,
		Page:      2,
		PerPage:   10,
		Ascending: true,
	}).Return(&inbound.GroupedReport{Dimension: inbound.DimensionProduct}, nil)

	h := NewDashboardHandler(uc, logger.NewNopLogger())
	router := mux.NewRouter()
	router.HandleFunc("/api/reports/{dimension}", h.Report)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/products?top=5&page=2&per_page=10&sort=asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestReportHandler_SymptomsDimension(t *testing.T) {
	uc := new(mockDashboardUseCase)
	uc.On("Report", mock.Anything, inbound.ReportRequest{
		Dimension: inbound.DimensionSymptom,
		Page:      1,
		PerPage:   analytics.DefaultPerPage,
	}).Return(&inbound.GroupedReport{Dimension: inbound.DimensionSymptom}, nil)

	h := NewDashboardHandler(uc, logger.NewNopLogger())
	router := mux.NewRouter()
	router.HandleFunc("/api/reports/{dimension}", h.Report)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/symptoms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestReportHandler_UnknownDimension(t *testing.T) {
	uc := new(mockDashboardUseCase)
	h := NewDashboardHandler(uc, logger.NewNopLogger())
	router := mux.NewRouter()
	router.HandleFunc("/api/reports/{dimension}", h.Report)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/unicorns", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	uc.AssertNotCalled(t, "Report")
}

func TestAgentsHandler_UseCaseError(t *testing.T) {
	uc := new(mockDashboardUseCase)
	uc.On("Agents", mock.Anything, entity.DateRange{}).Return(nil, fmt.Errorf("database offline"))
	h := NewDashboardHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/agents-data", nil)
	rec := httptest.NewRecorder()
	h.Agents(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
