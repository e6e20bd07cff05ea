package outbound

import (
	"context"

	"github.com/chatlens/chatlens/domain/entity"
)

// VoteKind selects which feedback counter a query aggregates.
type VoteKind string

const (
	VoteUp   VoteKind = "upvote"
	VoteDown VoteKind = "downvote"
)

// VotedSymptom is one symptom ranked by accumulated votes.
type VotedSymptom struct {
	Item          string   `json:"item"`
	Category      string   `json:"category"`
	Count         int      `json:"count"`
	TranscriptIDs []string `json:"transcript_ids"`
}

type TranscriptRepository interface {
	// List returns transcripts whose created date falls inside rng,
	// ordered by created date. A zero range returns everything.
	List(ctx context.Context, rng entity.DateRange) ([]*entity.ChatTranscript, error)

	// Count returns the number of transcripts inside rng.
	Count(ctx context.Context, rng entity.DateRange) (int, error)

	// TopVotedSymptoms ranks symptoms by total up- or downvotes inside rng.
	TopVotedSymptoms(ctx context.Context, rng entity.DateRange, kind VoteKind, limit int) ([]VotedSymptom, error)

	// FindBySymptom returns voted transcripts matching a symptom exactly.
	FindBySymptom(ctx context.Context, symptom string, kind VoteKind, limit int) ([]*entity.ChatTranscript, error)

	// BulkInsert loads a cleaned import batch. Records whose ID already
	// exists are replaced.
	BulkInsert(ctx context.Context, records []*entity.ChatTranscript) error
}
