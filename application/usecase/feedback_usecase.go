package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

const (
	feedbackTopLimit    = 3
	feedbackDetailLimit = 5
)

// FeedbackUseCase serves the voted-symptom cards and their drill-downs.
type FeedbackUseCase struct {
	transcripts outbound.TranscriptRepository
	logger      logger.Logger
}

func NewFeedbackUseCase(transcripts outbound.TranscriptRepository, log logger.Logger) inbound.FeedbackUseCase {
	return &FeedbackUseCase{
		transcripts: transcripts,
		logger:      log,
	}
}

func (uc *FeedbackUseCase) Feedback(ctx context.Context, rng entity.DateRange) (*inbound.FeedbackReport, error) {
	upvoted, err := uc.transcripts.TopVotedSymptoms(ctx, rng, outbound.VoteUp, feedbackTopLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank upvoted symptoms: %w", err)
	}
	downvoted, err := uc.transcripts.TopVotedSymptoms(ctx, rng, outbound.VoteDown, feedbackTopLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank downvoted symptoms: %w", err)
	}

	// No votes inside the range: widen to all-time so the cards are never
	// blank, same fallback the record views use.
	if (len(upvoted) == 0 || len(downvoted) == 0) && !rng.IsZero() {
		uc.logger.Info(ctx, "No feedback in requested range, falling back to all-time", map[string]interface{}{
			"from": rng.From,
			"to":   rng.To,
		})
		if len(upvoted) == 0 {
			upvoted, err = uc.transcripts.TopVotedSymptoms(ctx, entity.DateRange{}, outbound.VoteUp, feedbackTopLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to rank upvoted symptoms: %w", err)
			}
		}
		if len(downvoted) == 0 {
			downvoted, err = uc.transcripts.TopVotedSymptoms(ctx, entity.DateRange{}, outbound.VoteDown, feedbackTopLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to rank downvoted symptoms: %w", err)
			}
		}
	}

	return &inbound.FeedbackReport{
		MostUpvoted:   upvoted,
		MostDownvoted: downvoted,
	}, nil
}

func (uc *FeedbackUseCase) FeedbackDetails(ctx context.Context, item string, kind outbound.VoteKind) ([]inbound.FeedbackDetail, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, fmt.Errorf("feedback item is required")
	}
	if kind != outbound.VoteUp && kind != outbound.VoteDown {
		return nil, fmt.Errorf("invalid feedback type: %s", kind)
	}

	records, err := uc.transcripts.FindBySymptom(ctx, item, kind, feedbackDetailLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback details: %w", err)
	}

	details := make([]inbound.FeedbackDetail, 0, len(records))
	for _, r := range records {
		details = append(details, inbound.FeedbackDetail{
			TranscriptID: r.ID,
			Product:      r.Product,
			Problem:      r.Problem,
			RootCause:    r.RootCause,
			Symptoms:     r.Symptoms,
			Upvotes:      r.Upvotes,
			Downvotes:    r.Downvotes,
		})
	}
	return details, nil
}
