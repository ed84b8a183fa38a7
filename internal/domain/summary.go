package domain

import (
	"context"
	"time"
)

// EngagementLevel is the categorical label derived from a weekly mean score.
type EngagementLevel string

const (
	EngagementHigh     EngagementLevel = "High"
	EngagementMedium   EngagementLevel = "Medium"
	EngagementLow      EngagementLevel = "Low"
	EngagementCritical EngagementLevel = "Critical"
)

// UserActivity counts messages posted by one user within a summary period.
type UserActivity struct {
	UserID       string `json:"user_id"`
	MessageCount int    `json:"message_count"`
}

// DailySummary aggregates one channel's sentiment records for one UTC date.
// Created at most once per (channel, date) and immutable afterwards.
type DailySummary struct {
	ChannelID        string
	Date             time.Time
	MessageCount     int
	AvgSentiment     float64
	PositiveCount    int
	NeutralCount     int
	NegativeCount    int
	MostActiveUsers  []UserActivity
	PeakActivityHour int
	CreatedAt        time.Time
}

// WeeklySummary aggregates one channel's sentiment records for one calendar
// week. SentimentTrend is this week's mean minus the prior week's mean, or 0
// when no prior data exists. Immutable once created.
type WeeklySummary struct {
	ChannelID       string
	WeekStart       time.Time
	WeekEnd         time.Time
	MessageCount    int
	AvgSentiment    float64
	SentimentTrend  float64
	BurnoutFlag     bool
	EngagementLevel EngagementLevel
	TopTopics       []string
	ActiveUserCount int
	CreatedAt       time.Time
}

// ChannelTrends is the read-only projection served to the reporting layer.
type ChannelTrends struct {
	ChannelID  string
	PeriodDays int
	Daily      []DailySummary
	Weekly     []WeeklySummary
}

type SummaryRepository interface {
	// InsertDaily persists a new daily summary. Returns ErrSummaryExists on
	// a (channel, date) conflict so callers can resolve the create race as
	// "already exists".
	InsertDaily(ctx context.Context, s *DailySummary) error
	GetDaily(ctx context.Context, channelID string, date time.Time) (*DailySummary, error)
	// ListDailyRange returns summaries with Date in [start, end], oldest
	// first.
	ListDailyRange(ctx context.Context, channelID string, start, end time.Time) ([]DailySummary, error)

	// InsertWeekly persists a new weekly summary. Returns ErrSummaryExists
	// on a (channel, week start) conflict.
	InsertWeekly(ctx context.Context, s *WeeklySummary) error
	GetWeekly(ctx context.Context, channelID string, weekStart time.Time) (*WeeklySummary, error)
	// ListWeeklyRange returns summaries with WeekStart in [start, end],
	// oldest first.
	ListWeeklyRange(ctx context.Context, channelID string, start, end time.Time) ([]WeeklySummary, error)
	// ListRecentWeekly returns up to limit summaries with WeekStart on or
	// after since, newest first. A zero since applies no lower bound.
	ListRecentWeekly(ctx context.Context, channelID string, since time.Time, limit int) ([]WeeklySummary, error)
}
