// Package app is the application layer, the only component that references
// multiple engines. It orchestrates the use cases behind the HTTP handlers
// and the background jobs.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teampulse/engagement-pulse/internal/aggregate"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/insight"
	"github.com/teampulse/engagement-pulse/internal/scoring"
	"golang.org/x/sync/singleflight"
)

// Service wires the scoring, aggregation and insight engines behind one API.
type Service struct {
	channels   domain.ChannelRepository
	scorer     *scoring.Engine
	aggregator *aggregate.Engine
	insights   *insight.Engine

	// summaryGroup collapses concurrent summary creations for the same
	// (channel, period) so racing callers share one result.
	summaryGroup singleflight.Group
}

func NewService(channels domain.ChannelRepository, scorer *scoring.Engine, aggregator *aggregate.Engine, insights *insight.Engine) *Service {
	return &Service{
		channels:   channels,
		scorer:     scorer,
		aggregator: aggregator,
		insights:   insights,
	}
}

// HandleMessage registers the channel on first sight and scores the message.
// Returns (nil, nil) for events the scorer skips (bot posts, subtypes,
// incomplete payloads).
func (s *Service) HandleMessage(ctx context.Context, ev domain.MessageEvent) (*domain.SentimentRecord, error) {
	if !ev.Scorable() {
		return s.scorer.ScoreMessage(ctx, ev)
	}

	if _, err := s.channels.Upsert(ctx, ev.ChannelID, "channel-"+ev.ChannelID); err != nil {
		return nil, fmt.Errorf("failed to register channel: %w", err)
	}

	return s.scorer.ScoreMessage(ctx, ev)
}

// HandleReaction adjusts the reaction boost of an already-scored message.
func (s *Service) HandleReaction(ctx context.Context, ev domain.ReactionEvent) (*domain.SentimentRecord, error) {
	return s.scorer.ApplyReaction(ctx, ev)
}

// ListChannels returns the channels currently active for aggregation.
func (s *Service) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return s.channels.ListActive(ctx)
}

// DeactivateChannel soft-disables a channel: the batch jobs stop visiting it
// but its historical summaries and insights remain readable. Fails with
// ErrChannelNotFound for unknown IDs.
func (s *Service) DeactivateChannel(ctx context.Context, id string) error {
	return s.channels.Deactivate(ctx, id)
}

// CreateDailySummary creates the daily summary for one channel and date,
// collapsing concurrent requests for the same pair.
func (s *Service) CreateDailySummary(ctx context.Context, channelID string, date time.Time) (*domain.DailySummary, error) {
	key := "daily|" + channelID + "|" + date.UTC().Format("2006-01-02")
	v, err, _ := s.summaryGroup.Do(key, func() (any, error) {
		return s.aggregator.CreateDailySummary(ctx, channelID, date)
	})
	if err != nil {
		return nil, err
	}
	sum, _ := v.(*domain.DailySummary)
	return sum, nil
}

// CreateWeeklySummary creates the weekly summary for one channel and week,
// collapsing concurrent requests for the same pair.
func (s *Service) CreateWeeklySummary(ctx context.Context, channelID string, weekStart time.Time) (*domain.WeeklySummary, error) {
	key := "weekly|" + channelID + "|" + weekStart.UTC().Format("2006-01-02")
	v, err, _ := s.summaryGroup.Do(key, func() (any, error) {
		return s.aggregator.CreateWeeklySummary(ctx, channelID, weekStart)
	})
	if err != nil {
		return nil, err
	}
	sum, _ := v.(*domain.WeeklySummary)
	return sum, nil
}

// Trends returns the daily and weekly summaries covering the last days.
func (s *Service) Trends(ctx context.Context, channelID string, days int) (*domain.ChannelTrends, error) {
	return s.aggregator.ChannelTrends(ctx, channelID, days)
}

// Recommend derives the recommendation report from the latest weekly summary.
func (s *Service) Recommend(ctx context.Context, channelID string) (*domain.RecommendationReport, error) {
	return s.insights.Recommend(ctx, channelID)
}

// ListInsights returns insights matching the filter, newest first.
func (s *Service) ListInsights(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	return s.insights.List(ctx, filter)
}

// AcknowledgeInsight records the acknowledger and deactivates the insight.
func (s *Service) AcknowledgeInsight(ctx context.Context, id uuid.UUID, actor string) error {
	return s.insights.Acknowledge(ctx, id, actor)
}

// RunDailyJob summarises yesterday for every active channel.
func (s *Service) RunDailyJob(ctx context.Context) (int, error) {
	return s.aggregator.RunDailyJob(ctx)
}

// RunWeeklyJob summarises the last completed week for every active channel.
func (s *Service) RunWeeklyJob(ctx context.Context) (int, error) {
	return s.aggregator.RunWeeklyJob(ctx)
}

// RunInsightsJob runs the insight rule battery for every active channel.
func (s *Service) RunInsightsJob(ctx context.Context) (int, error) {
	return s.insights.RunJob(ctx)
}

// Backfill recreates missing summaries over [start, end] for the given
// channels, or all active channels when none are given.
func (s *Service) Backfill(ctx context.Context, start, end time.Time, channelIDs []string) (daily, weekly int, err error) {
	return s.aggregator.Backfill(ctx, start, end, channelIDs)
}
