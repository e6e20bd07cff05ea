package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
)

type TranscriptRepositoryAdapter struct {
	db *sql.DB
}

func NewTranscriptRepositoryAdapter(db *sql.DB) outbound.TranscriptRepository {
	return &TranscriptRepositoryAdapter{db: db}
}

const transcriptColumns = `id, case_number, created_date, owner_full_name, status, product,
		sub_product, problem, root_cause, symptoms, ai_assisted,
		duration_seconds, wait_time_seconds, transfers, upvotes, downvotes`

// bulkInsertChunkSize keeps each multi-row INSERT well under the
// Postgres 65535 bind-parameter limit (16 params per row).
const bulkInsertChunkSize = 500

// rangeWhere builds the created-date filter for rng. An open side is
// simply left out of the WHERE clause; To is extended to the end of its
// day so a date-only upper bound is inclusive.
func rangeWhere(rng entity.DateRange, args []interface{}) (string, []interface{}) {
	var conditions []string
	if !rng.From.IsZero() {
		args = append(args, rng.From)
		conditions = append(conditions, fmt.Sprintf("created_date >= $%d", len(args)))
	}
	if !rng.To.IsZero() {
		args = append(args, rng.To.Add(24*time.Hour-time.Nanosecond))
		conditions = append(conditions, fmt.Sprintf("created_date <= $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanTranscript(row interface{ Scan(...interface{}) error }) (*entity.ChatTranscript, error) {
	var t entity.ChatTranscript
	var created sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.CaseNumber,
		&created,
		&t.OwnerFullName,
		&t.Status,
		&t.Product,
		&t.SubProduct,
		&t.Problem,
		&t.RootCause,
		&t.Symptoms,
		&t.AIAssisted,
		&t.DurationSeconds,
		&t.WaitTimeSeconds,
		&t.Transfers,
		&t.Upvotes,
		&t.Downvotes,
	)
	if err != nil {
		return nil, err
	}
	if created.Valid {
		t.CreatedDate = created.Time
	}
	return &t, nil
}

func (r *TranscriptRepositoryAdapter) List(ctx context.Context, rng entity.DateRange) ([]*entity.ChatTranscript, error) {
	where, args := rangeWhere(rng, nil)

	query := fmt.Sprintf(`
		SELECT `+transcriptColumns+`
		FROM chat_transcripts
		%s
		ORDER BY created_date
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []*entity.ChatTranscript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}

	return transcripts, nil
}

func (r *TranscriptRepositoryAdapter) Count(ctx context.Context, rng entity.DateRange) (int, error) {
	where, args := rangeWhere(rng, nil)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM chat_transcripts %s`, where)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transcripts: %w", err)
	}
	return count, nil
}

func (r *TranscriptRepositoryAdapter) TopVotedSymptoms(ctx context.Context, rng entity.DateRange, kind outbound.VoteKind, limit int) ([]outbound.VotedSymptom, error) {
	voteColumn, err := voteColumnFor(kind)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}

	where, args := rangeWhere(rng, nil)
	votesFilter := fmt.Sprintf("%s > 0 AND symptoms <> ''", voteColumn)
	if where == "" {
		where = "WHERE " + votesFilter
	} else {
		where += " AND " + votesFilter
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT symptoms,
		       MIN(problem) AS category,
		       SUM(%s) AS votes,
		       ARRAY_AGG(id ORDER BY created_date DESC) AS transcript_ids
		FROM chat_transcripts
		%s
		GROUP BY symptoms
		ORDER BY votes DESC, symptoms
		LIMIT $%d
	`, voteColumn, where, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank voted symptoms: %w", err)
	}
	defer rows.Close()

	var ranked []outbound.VotedSymptom
	for rows.Next() {
		var symptom outbound.VotedSymptom
		if err := rows.Scan(&symptom.Item, &symptom.Category, &symptom.Count, pq.Array(&symptom.TranscriptIDs)); err != nil {
			return nil, fmt.Errorf("failed to scan voted symptom: %w", err)
		}
		ranked = append(ranked, symptom)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voted symptoms: %w", err)
	}

	return ranked, nil
}

func (r *TranscriptRepositoryAdapter) FindBySymptom(ctx context.Context, symptom string, kind outbound.VoteKind, limit int) ([]*entity.ChatTranscript, error) {
	if symptom == "" {
		return nil, fmt.Errorf("symptom cannot be empty")
	}
	voteColumn, err := voteColumnFor(kind)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}

	query := fmt.Sprintf(`
		SELECT `+transcriptColumns+`
		FROM chat_transcripts
		WHERE symptoms = $1 AND %s > 0
		ORDER BY created_date DESC
		LIMIT $2
	`, voteColumn)

	rows, err := r.db.QueryContext(ctx, query, symptom, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find transcripts by symptom: %w", err)
	}
	defer rows.Close()

	var transcripts []*entity.ChatTranscript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}

	return transcripts, nil
}

func (r *TranscriptRepositoryAdapter) BulkInsert(ctx context.Context, records []*entity.ChatTranscript) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(records); start += bulkInsertChunkSize {
		end := start + bulkInsertChunkSize
		if end > len(records) {
			end = len(records)
		}
		if err := insertChunk(ctx, tx, records[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

func insertChunk(ctx context.Context, tx *sql.Tx, records []*entity.ChatTranscript) error {
	const paramsPerRow = 16

	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*paramsPerRow)
	for i, t := range records {
		base := i * paramsPerRow
		row := make([]string, paramsPerRow)
		for j := range row {
			row[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(row, ", ")+")")
		args = append(args,
			t.ID,
			t.CaseNumber,
			sql.NullTime{Time: t.CreatedDate, Valid: !t.CreatedDate.IsZero()},
			t.OwnerFullName,
			t.Status,
			t.Product,
			t.SubProduct,
			t.Problem,
			t.RootCause,
			t.Symptoms,
			t.AIAssisted,
			t.DurationSeconds,
			t.WaitTimeSeconds,
			t.Transfers,
			t.Upvotes,
			t.Downvotes,
		)
	}

	query := `
		INSERT INTO chat_transcripts (` + transcriptColumns + `)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (id) DO UPDATE SET
			case_number = EXCLUDED.case_number,
			created_date = EXCLUDED.created_date,
			owner_full_name = EXCLUDED.owner_full_name,
			status = EXCLUDED.status,
			product = EXCLUDED.product,
			sub_product = EXCLUDED.sub_product,
			problem = EXCLUDED.problem,
			root_cause = EXCLUDED.root_cause,
			symptoms = EXCLUDED.symptoms,
			ai_assisted = EXCLUDED.ai_assisted,
			duration_seconds = EXCLUDED.duration_seconds,
			wait_time_seconds = EXCLUDED.wait_time_seconds,
			transfers = EXCLUDED.transfers,
			upvotes = EXCLUDED.upvotes,
			downvotes = EXCLUDED.downvotes
	`

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert transcript chunk: %w", err)
	}
	return nil
}

func voteColumnFor(kind outbound.VoteKind) (string, error) {
	switch kind {
	case outbound.VoteUp:
		return "upvotes", nil
	case outbound.VoteDown:
		return "downvotes", nil
	}
	return "", fmt.Errorf("unknown vote kind: %s", kind)
}
