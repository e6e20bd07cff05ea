package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/http/response"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type DashboardHandler struct {
	dashboardUseCase inbound.DashboardUseCase
	logger           logger.Logger
}

func NewDashboardHandler(dashboardUseCase inbound.DashboardUseCase, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		logger:           log,
	}
}

// Summary handles GET /api/summary-data.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.dashboardUseCase.Summary(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to build summary report", err, nil)
		response.InternalServerError(w, "Failed to build summary report")
		return
	}

	response.Raw(w, http.StatusOK, summary)
}

// Problems handles GET /api/problems-data. The payload keeps the raw
// spreadsheet row shape the problems table renders.
func (h *DashboardHandler) Problems(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.dashboardUseCase.Problems(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load problem rows", err, nil)
		response.InternalServerError(w, "Failed to load problem rows")
		return
	}

	response.Raw(w, http.StatusOK, rows)
}

// Products handles GET /api/products.
func (h *DashboardHandler) Products(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.dashboardUseCase.Products(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load product rows", err, nil)
		response.InternalServerError(w, "Failed to load product rows")
		return
	}

	response.Raw(w, http.StatusOK, rows)
}

// Agents handles GET /api/agents-data.
func (h *DashboardHandler) Agents(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.dashboardUseCase.Agents(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load agent rows", err, nil)
		response.InternalServerError(w, "Failed to load agent rows")
		return
	}

	response.Raw(w, http.StatusOK, rows)
}

// RootCauses handles GET /api/root-cause-data.
func (h *DashboardHandler) RootCauses(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.dashboardUseCase.RootCauses(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load root cause rows", err, nil)
		response.InternalServerError(w, "Failed to load root cause rows")
		return
	}

	response.Raw(w, http.StatusOK, rows)
}

// Report handles GET /api/reports/{dimension}.
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	dimension, ok := parseDimension(mux.Vars(r)["dimension"])
	if !ok {
		response.NotFound(w, "Unknown report dimension")
		return
	}

	query := r.URL.Query()
	req := inbound.ReportRequest{
		Dimension: dimension,
		Range:     rng,
		Top:       intQuery(query.Get("top"), 0),
		Page:      intQuery(query.Get("page"), 1),
		PerPage:   intQuery(query.Get("per_page"), analytics.DefaultPerPage),
		Ascending: query.Get("sort") == "asc",
	}

	report, err := h.dashboardUseCase.Report(r.Context(), req)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to build grouped report", err, map[string]interface{}{
			"dimension": string(dimension),
		})
		response.InternalServerError(w, "Failed to build report")
		return
	}

	response.Success(w, http.StatusOK, "Report built", report)
}

// AgentTrend handles GET /api/reports/agents/trend.
func (h *DashboardHandler) AgentTrend(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	trend, err := h.dashboardUseCase.AgentTrend(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to build agent trend", err, nil)
		response.InternalServerError(w, "Failed to build agent trend")
		return
	}

	response.Success(w, http.StatusOK, "Trend built", trend)
}

func (h *DashboardHandler) dateRange(w http.ResponseWriter, r *http.Request) (entity.DateRange, bool) {
	rng, err := parseDateRange(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return entity.DateRange{}, false
	}
	return rng, true
}

func parseDimension(raw string) (inbound.Dimension, bool) {
	switch inbound.Dimension(raw) {
	case inbound.DimensionRootCause, inbound.DimensionProblem, inbound.DimensionProduct,
		inbound.DimensionAgent, inbound.DimensionSymptom:
		return inbound.Dimension(raw), true
	}
	return "", false
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
