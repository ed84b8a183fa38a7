package domain

import (
	"context"
	"time"
)

// SentimentRecord holds the scored components of a single message.
// (ChannelID, MessageTS) is the natural key; at most one record exists per
// pair. FinalScore is always the clamped sum of the four components and is
// recomputed on every reaction update, never set independently.
type SentimentRecord struct {
	ChannelID       string
	UserID          string
	MessageTS       string
	Text            string // truncated snippet, kept for audit only
	BaseScore       float64
	EmojiBoost      float64
	KeywordModifier float64
	ReactionBoost   float64
	FinalScore      float64
	AnalysisDate    time.Time // UTC date the message was scored on
	CreatedAt       time.Time
}

type SentimentRepository interface {
	// Insert persists a new record. Returns ErrRecordExists when a record
	// for (ChannelID, MessageTS) is already stored.
	Insert(ctx context.Context, rec *SentimentRecord) error
	Get(ctx context.Context, channelID, messageTS string) (*SentimentRecord, error)
	// UpdateReaction overwrites the reaction boost and the recomputed final
	// score of an existing record. Returns ErrRecordNotFound if absent.
	UpdateReaction(ctx context.Context, channelID, messageTS string, reactionBoost, finalScore float64) error
	// ListByDate returns all records scored on the given UTC date, in
	// insertion order.
	ListByDate(ctx context.Context, channelID string, day time.Time) ([]SentimentRecord, error)
	// ListByRange returns all records with AnalysisDate in [start, end],
	// inclusive on both ends, in insertion order.
	ListByRange(ctx context.Context, channelID string, start, end time.Time) ([]SentimentRecord, error)
}
