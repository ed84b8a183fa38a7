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

type SummaryRepository struct {
	pool *pgxpool.Pool
}

func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

func (r *SummaryRepository) InsertDaily(ctx context.Context, s *domain.DailySummary) error {
	query := `
		INSERT INTO daily_summaries
			(channel_id, summary_date, message_count, avg_sentiment,
			 positive_count, neutral_count, negative_count,
			 most_active_users, peak_activity_hour, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ChannelID, s.Date, s.MessageCount, s.AvgSentiment,
		s.PositiveCount, s.NeutralCount, s.NegativeCount,
		s.MostActiveUsers, s.PeakActivityHour, s.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrSummaryExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert daily summary: %w", err)
	}

	return nil
}

func (r *SummaryRepository) GetDaily(ctx context.Context, channelID string, date time.Time) (*domain.DailySummary, error) {
	query := selectDaily + ` WHERE channel_id = $1 AND summary_date = $2`

	s, err := scanDaily(r.pool.QueryRow(ctx, query, channelID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}

	return s, nil
}

func (r *SummaryRepository) ListDailyRange(ctx context.Context, channelID string, start, end time.Time) ([]domain.DailySummary, error) {
	query := selectDaily + `
		WHERE channel_id = $1 AND summary_date BETWEEN $2 AND $3
		ORDER BY summary_date
	`

	rows, err := r.pool.Query(ctx, query, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DailySummary
	for rows.Next() {
		s, err := scanDaily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		summaries = append(summaries, *s)
	}

	return summaries, rows.Err()
}

func (r *SummaryRepository) InsertWeekly(ctx context.Context, s *domain.WeeklySummary) error {
	query := `
		INSERT INTO weekly_summaries
			(channel_id, week_start, week_end, message_count, avg_sentiment,
			 sentiment_trend, burnout_flag, engagement_level, top_topics,
			 active_user_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	topics := s.TopTopics
	if topics == nil {
		topics = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		s.ChannelID, s.WeekStart, s.WeekEnd, s.MessageCount, s.AvgSentiment,
		s.SentimentTrend, s.BurnoutFlag, s.EngagementLevel, topics,
		s.ActiveUserCount, s.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrSummaryExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert weekly summary: %w", err)
	}

	return nil
}

func (r *SummaryRepository) GetWeekly(ctx context.Context, channelID string, weekStart time.Time) (*domain.WeeklySummary, error) {
	query := selectWeekly + ` WHERE channel_id = $1 AND week_start = $2`

	s, err := scanWeekly(r.pool.QueryRow(ctx, query, channelID, weekStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly summary: %w", err)
	}

	return s, nil
}

func (r *SummaryRepository) ListWeeklyRange(ctx context.Context, channelID string, start, end time.Time) ([]domain.WeeklySummary, error) {
	query := selectWeekly + `
		WHERE channel_id = $1 AND week_start BETWEEN $2 AND $3
		ORDER BY week_start
	`
	return r.queryWeekly(ctx, query, channelID, start, end)
}

func (r *SummaryRepository) ListRecentWeekly(ctx context.Context, channelID string, since time.Time, limit int) ([]domain.WeeklySummary, error) {
	query := selectWeekly + `
		WHERE channel_id = $1 AND week_start >= $2
		ORDER BY week_start DESC
		LIMIT $3
	`
	return r.queryWeekly(ctx, query, channelID, since, limit)
}

func (r *SummaryRepository) queryWeekly(ctx context.Context, query string, args ...any) ([]domain.WeeklySummary, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.WeeklySummary
	for rows.Next() {
		s, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly summary: %w", err)
		}
		summaries = append(summaries, *s)
	}

	return summaries, rows.Err()
}

const selectDaily = `
	SELECT channel_id, summary_date, message_count, avg_sentiment,
	       positive_count, neutral_count, negative_count,
	       most_active_users, peak_activity_hour, created_at
	FROM daily_summaries
`

const selectWeekly = `
	SELECT channel_id, week_start, week_end, message_count, avg_sentiment,
	       sentiment_trend, burnout_flag, engagement_level, top_topics,
	       active_user_count, created_at
	FROM weekly_summaries
`

func scanDaily(row pgx.Row) (*domain.DailySummary, error) {
	var s domain.DailySummary
	err := row.Scan(&s.ChannelID, &s.Date, &s.MessageCount, &s.AvgSentiment,
		&s.PositiveCount, &s.NeutralCount, &s.NegativeCount,
		&s.MostActiveUsers, &s.PeakActivityHour, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanWeekly(row pgx.Row) (*domain.WeeklySummary, error) {
	var s domain.WeeklySummary
	err := row.Scan(&s.ChannelID, &s.WeekStart, &s.WeekEnd, &s.MessageCount,
		&s.AvgSentiment, &s.SentimentTrend, &s.BurnoutFlag, &s.EngagementLevel,
		&s.TopTopics, &s.ActiveUserCount, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
