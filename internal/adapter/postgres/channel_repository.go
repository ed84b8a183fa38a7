package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

type ChannelRepository struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{pool: pool}
}

func (r *ChannelRepository) Upsert(ctx context.Context, id, name string) (*domain.Channel, error) {
	query := `
		INSERT INTO channels (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = NOW()
		RETURNING id, name, is_active, created_at, updated_at
	`

	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, id, name).
		Scan(&ch.ID, &ch.Name, &ch.IsActive, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert channel: %w", err)
	}

	return &ch, nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM channels
		WHERE id = $1
	`

	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&ch.ID, &ch.Name, &ch.IsActive, &ch.CreatedAt, &ch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &ch, nil
}

func (r *ChannelRepository) ListActive(ctx context.Context) ([]domain.Channel, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM channels
		WHERE is_active
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.IsActive, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

func (r *ChannelRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE channels SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChannelNotFound
	}

	return nil
}
