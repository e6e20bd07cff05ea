package handler

import (
	"net/http"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/infrastructure/http/response"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type FeedbackHandler struct {
	feedbackUseCase inbound.FeedbackUseCase
	logger          logger.Logger
}

func NewFeedbackHandler(feedbackUseCase inbound.FeedbackUseCase, log logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUseCase: feedbackUseCase,
		logger:          log,
	}
}

// Feedback handles GET /api/feedback.
func (h *FeedbackHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	report, err := h.feedbackUseCase.Feedback(r.Context(), rng)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to build feedback report", err, nil)
		response.InternalServerError(w, "Failed to build feedback report")
		return
	}

	response.Raw(w, http.StatusOK, report)
}

// FeedbackDetails handles GET /api/feedback-details.
func (h *FeedbackHandler) FeedbackDetails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	item := query.Get("item")
	if item == "" {
		response.BadRequest(w, "item is required")
		return
	}

	kind := outbound.VoteKind(query.Get("type"))
	if kind == "" {
		kind = outbound.VoteUp
	}
	if kind != outbound.VoteUp && kind != outbound.VoteDown {
		response.BadRequest(w, "type must be upvote or downvote")
		return
	}

	details, err := h.feedbackUseCase.FeedbackDetails(r.Context(), item, kind)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load feedback details", err, map[string]interface{}{
			"item": item,
		})
		response.InternalServerError(w, "Failed to load feedback details")
		return
	}

	response.Raw(w, http.StatusOK, details)
}
