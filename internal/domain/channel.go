package domain

import (
	"context"
	"time"
)

// Channel is the aggregation scope. Channels are registered on first observed
// message and soft-disabled rather than deleted so historical summaries keep
// a valid reference.
type Channel struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChannelRepository interface {
	// Upsert registers a channel if it does not exist yet and returns the
	// stored row either way. The name is only applied on first creation.
	Upsert(ctx context.Context, id, name string) (*Channel, error)
	GetByID(ctx context.Context, id string) (*Channel, error)
	ListActive(ctx context.Context) ([]Channel, error)
	Deactivate(ctx context.Context, id string) error
}
