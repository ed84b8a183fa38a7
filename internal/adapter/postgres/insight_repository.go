package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

type InsightRepository struct {
	pool *pgxpool.Pool
}

func NewInsightRepository(pool *pgxpool.Pool) *InsightRepository {
	return &InsightRepository{pool: pool}
}

func (r *InsightRepository) Insert(ctx context.Context, ins *domain.Insight) error {
	query := `
		INSERT INTO insights
			(id, channel_id, kind, title, description, severity,
			 recommendation, supporting_data, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	data := ins.SupportingData
	if data == nil {
		data = map[string]any{}
	}

	_, err := r.pool.Exec(ctx, query,
		ins.ID, ins.ChannelID, ins.Kind, ins.Title, ins.Description,
		ins.Severity, ins.Recommendation, data, ins.IsActive, ins.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}

	return nil
}

func (r *InsightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	query := selectInsight + ` WHERE id = $1`

	ins, err := scanInsight(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInsightNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}

	return ins, nil
}

func (r *InsightRepository) List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	query := selectInsight + ` WHERE TRUE`
	var args []any

	if filter.ChannelID != "" {
		args = append(args, filter.ChannelID)
		query += fmt.Sprintf(" AND channel_id = $%d", len(args))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, *ins)
	}

	return insights, rows.Err()
}

func (r *InsightRepository) HasRecentActive(ctx context.Context, channelID string, kind domain.InsightKind, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM insights
			WHERE channel_id = $1 AND kind = $2 AND is_active AND created_at >= $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, channelID, kind, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent insights: %w", err)
	}

	return exists, nil
}

func (r *InsightRepository) Acknowledge(ctx context.Context, id uuid.UUID, actor string, at time.Time) error {
	query := `
		UPDATE insights
		SET is_active = FALSE, acknowledged_by = $2, acknowledged_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, actor, at)
	if err != nil {
		return fmt.Errorf("failed to acknowledge insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsightNotFound
	}

	return nil
}

const selectInsight = `
	SELECT id, channel_id, kind, title, description, severity,
	       recommendation, supporting_data, is_active,
	       COALESCE(acknowledged_by, ''), acknowledged_at, created_at
	FROM insights
`

func scanInsight(row pgx.Row) (*domain.Insight, error) {
	var ins domain.Insight
	err := row.Scan(&ins.ID, &ins.ChannelID, &ins.Kind, &ins.Title,
		&ins.Description, &ins.Severity, &ins.Recommendation, &ins.SupportingData,
		&ins.IsActive, &ins.AcknowledgedBy, &ins.AcknowledgedAt, &ins.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}
