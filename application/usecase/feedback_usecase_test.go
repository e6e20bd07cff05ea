package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

func TestFeedback_RanksBothSides(t *testing.T) {
	upvoted := []outbound.VotedSymptom{{Item: "Camera offline", Count: 7}}
	downvoted := []outbound.VotedSymptom{{Item: "Subscription billing", Count: 4}}

	repo := new(mockTranscriptRepository)
	repo.On("TopVotedSymptoms", mock.Anything, entity.DateRange{}, outbound.VoteUp, 3).Return(upvoted, nil)
	repo.On("TopVotedSymptoms", mock.Anything, entity.DateRange{}, outbound.VoteDown, 3).Return(downvoted, nil)

	uc := NewFeedbackUseCase(repo, logger.NewNopLogger())

	report, err := uc.Feedback(context.Background(), entity.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, upvoted, report.MostUpvoted)
	assert.Equal(t, downvoted, report.MostDownvoted)

	repo.AssertExpectations(t)
}

func TestFeedback_FallsBackToAllTimeWhenRangeEmpty(t *testing.T) {
	rng := entity.DateRange{
		From: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
	}
	allTime := []outbound.VotedSymptom{{Item: "Camera offline", Count: 7}}

	repo := new(mockTranscriptRepository)
	repo.On("TopVotedSymptoms", mock.Anything, rng, outbound.VoteUp, 3).Return([]outbound.VotedSymptom{}, nil)
	repo.On("TopVotedSymptoms", mock.Anything, rng, outbound.VoteDown, 3).Return([]outbound.VotedSymptom{}, nil)
	repo.On("TopVotedSymptoms", mock.Anything, entity.DateRange{}, outbound.VoteUp, 3).Return(allTime, nil)
	repo.On("TopVotedSymptoms", mock.Anything, entity.DateRange{}, outbound.VoteDown, 3).Return(allTime, nil)

	uc := NewFeedbackUseCase(repo, logger.NewNopLogger())

	report, err := uc.Feedback(context.Background(), rng)
	require.NoError(t, err)
	assert.Equal(t, allTime, report.MostUpvoted)
	assert.Equal(t, allTime, report.MostDownvoted)

	repo.AssertExpectations(t)
}

func TestFeedbackDetails_Validation(t *testing.T) {
	repo := new(mockTranscriptRepository)
	uc := NewFeedbackUseCase(repo, logger.NewNopLogger())

	_, err := uc.FeedbackDetails(context.Background(), "  ", outbound.VoteUp)
	assert.Error(t, err)

	_, err = uc.FeedbackDetails(context.Background(), "Camera offline", "sideways")
	assert.Error(t, err)

	repo.AssertNotCalled(t, "FindBySymptom")
}

func TestFeedbackDetails_MapsTranscripts(t *testing.T) {
	records := []*entity.ChatTranscript{
		{ID: "t1", Product: "Doorbell", Problem: "Video", Symptoms: "Camera offline", Upvotes: 3},
	}

	repo := new(mockTranscriptRepository)
	repo.On("FindBySymptom", mock.Anything, "Camera offline", outbound.VoteUp, 5).Return(records, nil)

	uc := NewFeedbackUseCase(repo, logger.NewNopLogger())

	details, err := uc.FeedbackDetails(context.Background(), "Camera offline", outbound.VoteUp)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "t1", details[0].TranscriptID)
	assert.Equal(t, 3, details[0].Upvotes)

	repo.AssertExpectations(t)
}
