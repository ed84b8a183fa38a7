package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

// markerTTL matches the insight engine's dedup window.
const markerTTL = 7 * 24 * time.Hour

// InsightMarker remembers which insight kinds were recently emitted per
// channel, backed by Redis SET EX keys. It is a best-effort fast path: the
// insight engine still consults the store before emitting, so lost markers
// cost an extra query, never a duplicate insight.
type InsightMarker struct {
	rdb *redis.Client
}

func NewInsightMarker(client *Client) *InsightMarker {
	return &InsightMarker{rdb: client.Underlying()}
}

func markerKey(channelID string, kind domain.InsightKind) string {
	return fmt.Sprintf("pulse:insight:%s:%s", channelID, kind)
}

func (m *InsightMarker) SeenRecently(ctx context.Context, channelID string, kind domain.InsightKind) (bool, error) {
	_, err := m.rdb.Get(ctx, markerKey(channelID, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check insight marker: %w", err)
	}
	return true, nil
}

func (m *InsightMarker) Mark(ctx context.Context, channelID string, kind domain.InsightKind) error {
	if err := m.rdb.Set(ctx, markerKey(channelID, kind), "1", markerTTL).Err(); err != nil {
		return fmt.Errorf("failed to set insight marker: %w", err)
	}
	return nil
}
