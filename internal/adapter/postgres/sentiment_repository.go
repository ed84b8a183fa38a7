package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

type SentimentRepository struct {
	pool *pgxpool.Pool
}

func NewSentimentRepository(pool *pgxpool.Pool) *SentimentRepository {
	return &SentimentRepository{pool: pool}
}

func (r *SentimentRepository) Insert(ctx context.Context, rec *domain.SentimentRecord) error {
	query := `
		INSERT INTO sentiment_records
			(channel_id, message_ts, user_id, text_snippet, base_score,
			 emoji_boost, keyword_modifier, reaction_boost, final_score,
			 analysis_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ChannelID, rec.MessageTS, rec.UserID, rec.Text, rec.BaseScore,
		rec.EmojiBoost, rec.KeywordModifier, rec.ReactionBoost, rec.FinalScore,
		rec.AnalysisDate, rec.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrRecordExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert sentiment record: %w", err)
	}

	return nil
}

func (r *SentimentRepository) Get(ctx context.Context, channelID, messageTS string) (*domain.SentimentRecord, error) {
	query := selectRecord + ` WHERE channel_id = $1 AND message_ts = $2`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, channelID, messageTS))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment record: %w", err)
	}

	return rec, nil
}

func (r *SentimentRepository) UpdateReaction(ctx context.Context, channelID, messageTS string, reactionBoost, finalScore float64) error {
	query := `
		UPDATE sentiment_records
		SET reaction_boost = $3, final_score = $4
		WHERE channel_id = $1 AND message_ts = $2
	`

	tag, err := r.pool.Exec(ctx, query, channelID, messageTS, reactionBoost, finalScore)
	if err != nil {
		return fmt.Errorf("failed to update reaction boost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *SentimentRepository) ListByDate(ctx context.Context, channelID string, day time.Time) ([]domain.SentimentRecord, error) {
	return r.ListByRange(ctx, channelID, day, day)
}

func (r *SentimentRepository) ListByRange(ctx context.Context, channelID string, start, end time.Time) ([]domain.SentimentRecord, error) {
	query := selectRecord + `
		WHERE channel_id = $1 AND analysis_date BETWEEN $2 AND $3
		ORDER BY created_at, message_ts
	`

	rows, err := r.pool.Query(ctx, query, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list sentiment records: %w", err)
	}
	defer rows.Close()

	var records []domain.SentimentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment record: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

const selectRecord = `
	SELECT channel_id, message_ts, user_id, text_snippet, base_score,
	       emoji_boost, keyword_modifier, reaction_boost, final_score,
	       analysis_date, created_at
	FROM sentiment_records
`

func scanRecord(row pgx.Row) (*domain.SentimentRecord, error) {
	var rec domain.SentimentRecord
	err := row.Scan(&rec.ChannelID, &rec.MessageTS, &rec.UserID, &rec.Text,
		&rec.BaseScore, &rec.EmojiBoost, &rec.KeywordModifier, &rec.ReactionBoost,
		&rec.FinalScore, &rec.AnalysisDate, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
