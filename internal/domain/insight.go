package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InsightKind enumerates the patterns the insight engine can detect.
type InsightKind string

const (
	KindBurnoutAlert         InsightKind = "burnout_alert"
	KindBurnoutPattern       InsightKind = "burnout_pattern"
	KindParticipationDecline InsightKind = "participation_decline"
	KindEngagementSpike      InsightKind = "engagement_spike"
	KindHighParticipation    InsightKind = "high_participation"
	KindParticipationTrend   InsightKind = "participation_trend"
	KindParticipationGrowth  InsightKind = "participation_growth"
	KindSentimentVolatility  InsightKind = "sentiment_volatility"
)

// Severity ranks insights for prioritisation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal of a severity (low=0 .. critical=3); unknown
// values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// MaxSeverity returns the higher-ranked of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Insight is a generated, acknowledgeable alert. The insight engine is the
// sole writer of title/description/severity; the acknowledgement path is the
// only writer of the acknowledger fields. Active flips to false exactly once,
// on acknowledgement.
type Insight struct {
	ID             uuid.UUID
	ChannelID      string
	Kind           InsightKind
	Title          string
	Description    string
	Severity       Severity
	Recommendation string
	SupportingData map[string]any
	IsActive       bool
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
}

// InsightFilter narrows insight listings. Zero values mean "no filter".
type InsightFilter struct {
	ChannelID  string
	Severity   Severity
	ActiveOnly bool
	Limit      int
}

type InsightRepository interface {
	Insert(ctx context.Context, ins *Insight) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insight, error)
	// List returns insights matching the filter, newest first.
	List(ctx context.Context, filter InsightFilter) ([]Insight, error)
	// HasRecentActive reports whether an active insight of the given kind
	// was created for the channel at or after since.
	HasRecentActive(ctx context.Context, channelID string, kind InsightKind, since time.Time) (bool, error)
	// Acknowledge records the acknowledger and deactivates the insight.
	// Returns ErrInsightNotFound if no such insight exists. Acknowledging an
	// already-inactive insight succeeds.
	Acknowledge(ctx context.Context, id uuid.UUID, actor string, at time.Time) error
}

// Recommendation is one actionable item produced by the recommend projection.
type Recommendation struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Urgency     Severity `json:"urgency"`
}

// WeeklyState snapshots the inputs the recommend projection was derived from.
type WeeklyState struct {
	EngagementLevel EngagementLevel `json:"engagement_level"`
	AvgSentiment    float64         `json:"avg_sentiment"`
	BurnoutFlag     bool            `json:"burnout_flag"`
	ActiveUsers     int             `json:"active_users"`
}

// RecommendationReport is the prioritised recommendation list for a channel.
type RecommendationReport struct {
	ChannelID       string           `json:"channel_id"`
	CurrentState    WeeklyState      `json:"current_state"`
	Priority        Severity         `json:"priority_level"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
