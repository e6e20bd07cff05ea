package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type mockFeedbackUseCase struct {
	mock.Mock
}

func (m *mockFeedbackUseCase) Feedback(ctx context.Context, rng entity.DateRange) (*inbound.FeedbackReport, error) {
	args := m.Called(ctx, rng)
	if report := args.Get(0); report != nil {
		return report.(*inbound.FeedbackReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedbackUseCase) FeedbackDetails(ctx context.Context, item string, kind outbound.VoteKind) ([]inbound.FeedbackDetail, error) {
	args := m.Called(ctx, item, kind)
	if details := args.Get(0); details != nil {
		return details.([]inbound.FeedbackDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestFeedbackHandler_ReturnsBothSides(t *testing.T) {
	report := &inbound.FeedbackReport{
		MostUpvoted:   []outbound.VotedSymptom{{Item: "Camera offline", Count: 7}},
		MostDownvoted: []outbound.VotedSymptom{{Item: "Subscription billing", Count: 4}},
	}

	uc := new(mockFeedbackUseCase)
	uc.On("Feedback", mock.Anything, entity.DateRange{}).Return(report, nil)
	h := NewFeedbackHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	rec := httptest.NewRecorder()
	h.Feedback(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string][]outbound.VotedSymptom
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got["mostUpvoted"], 1)
	assert.Equal(t, "Camera offline", got["mostUpvoted"][0].Item)
	assert.Len(t, got["mostDownvoted"], 1)
}

func TestFeedbackDetailsHandler_RequiresItem(t *testing.T) {
	uc := new(mockFeedbackUseCase)
	h := NewFeedbackHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/feedback-details", nil)
	rec := httptest.NewRecorder()
	h.FeedbackDetails(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "FeedbackDetails")
}

func TestFeedbackDetailsHandler_DefaultsToUpvotes(t *testing.T) {
	details := []inbound.FeedbackDetail{{TranscriptID: "t1", Symptoms: "Camera offline"}}

	uc := new(mockFeedbackUseCase)
	uc.On("FeedbackDetails", mock.Anything, "Camera offline", outbound.VoteUp).Return(details, nil)
	h := NewFeedbackHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/feedback-details?item=Camera+offline", nil)
	rec := httptest.NewRecorder()
	h.FeedbackDetails(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestFeedbackDetailsHandler_RejectsUnknownType(t *testing.T) {
	uc := new(mockFeedbackUseCase)
	h := NewFeedbackHandler(uc, logger.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/feedback-details?item=x&type=sideways", nil)
	rec := httptest.NewRecorder()
	h.FeedbackDetails(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "FeedbackDetails")
}
