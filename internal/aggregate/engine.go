package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/metrics"
)

const topActiveUsers = 5

// Heuristic placeholder: stored snippets are audit-only and are not
// reprocessed for topic extraction.
var placeholderTopics = []string{"deployment", "code review", "bug fix", "planning", "team meeting"}

// Config carries the aggregation thresholds. Zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// SentimentNegativeThreshold flags a week as burnout-risk when the mean
	// score falls to or below it.
	SentimentNegativeThreshold float64
	// BurnoutDeltaThreshold flags a week as burnout-risk when the
	// week-over-week trend falls to or below it.
	BurnoutDeltaThreshold float64
	// WeekStartDay is the fixed weekday weekly summaries are keyed on.
	WeekStartDay time.Weekday
}

func DefaultConfig() Config {
	return Config{
		SentimentNegativeThreshold: -0.1,
		BurnoutDeltaThreshold:      -0.2,
		WeekStartDay:               time.Monday,
	}
}

// BurnoutNotifier receives weekly summaries whose burnout flag is set,
// immediately as a side effect of weekly aggregation.
type BurnoutNotifier interface {
	OnBurnoutWeek(ctx context.Context, summary *domain.WeeklySummary)
}

// Engine reduces sentiment records into daily and weekly summaries.
type Engine struct {
	channels  domain.ChannelRepository
	records   domain.SentimentRepository
	summaries domain.SummaryRepository
	notifier  BurnoutNotifier // may be nil
	cfg       Config
	clock     clockwork.Clock
}

func NewEngine(channels domain.ChannelRepository, records domain.SentimentRepository, summaries domain.SummaryRepository, notifier BurnoutNotifier, cfg Config, clock clockwork.Clock) *Engine {
	return &Engine{
		channels:  channels,
		records:   records,
		summaries: summaries,
		notifier:  notifier,
		cfg:       cfg,
		clock:     clock,
	}
}

// LevelForMean maps a weekly mean score onto the categorical engagement level.
func LevelForMean(mean float64) domain.EngagementLevel {
	switch {
	case mean >= 0.3:
		return domain.EngagementHigh
	case mean >= 0.1:
		return domain.EngagementMedium
	case mean >= -0.1:
		return domain.EngagementLow
	default:
		return domain.EngagementCritical
	}
}

// CreateDailySummary aggregates one channel's records for one UTC date.
// Returns the existing summary unchanged when one is already stored, and
// (nil, nil) when the date has no records: "no summary" means "no data",
// never "zero score".
func (e *Engine) CreateDailySummary(ctx context.Context, channelID string, date time.Time) (*domain.DailySummary, error) {
	day := Day(date)

	existing, err := e.summaries.GetDaily(ctx, channelID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		return nil, fmt.Errorf("failed to look up daily summary: %w", err)
	}

	recs, err := e.records.ListByDate(ctx, channelID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for %s on %s: %w", channelID, day.Format("2006-01-02"), err)
	}
	if len(recs) == 0 {
		slog.DebugContext(ctx, "no records for daily summary", "channel", channelID, "date", day.Format("2006-01-02"))
		return nil, nil
	}

	var sum float64
	positive, neutral, negative := 0, 0, 0
	for _, r := range recs {
		sum += r.FinalScore
		switch {
		case r.FinalScore > 0.1:
			positive++
		case r.FinalScore < -0.1:
			negative++
		default:
			neutral++
		}
	}

	s := &domain.DailySummary{
		ChannelID:        channelID,
		Date:             day,
		MessageCount:     len(recs),
		AvgSentiment:     sum / float64(len(recs)),
		PositiveCount:    positive,
		NeutralCount:     neutral,
		NegativeCount:    negative,
		MostActiveUsers:  mostActiveUsers(recs),
		PeakActivityHour: peakActivityHour(recs),
		CreatedAt:        e.clock.Now().UTC(),
	}

	if err := e.summaries.InsertDaily(ctx, s); err != nil {
		if errors.Is(err, domain.ErrSummaryExists) {
			// Lost the create race; the stored summary wins.
			return e.summaries.GetDaily(ctx, channelID, day)
		}
		return nil, fmt.Errorf("failed to insert daily summary: %w", err)
	}

	metrics.SummariesCreated.WithLabelValues("daily").Inc()
	slog.InfoContext(ctx, "daily summary created",
		"channel", channelID, "date", day.Format("2006-01-02"), "avg", s.AvgSentiment, "messages", s.MessageCount)
	return s, nil
}

// CreateWeeklySummary aggregates one channel's records for the calendar week
// starting at weekStart (normalized to the configured week-start weekday).
// When the resulting burnout flag is set, the notifier fires immediately as
// a side effect; this is the one place aggregation triggers insight
// generation directly.
func (e *Engine) CreateWeeklySummary(ctx context.Context, channelID string, weekStart time.Time) (*domain.WeeklySummary, error) {
	start := WeekStart(weekStart, e.cfg.WeekStartDay)
	end := start.AddDate(0, 0, 6)

	existing, err := e.summaries.GetWeekly(ctx, channelID, start)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		return nil, fmt.Errorf("failed to look up weekly summary: %w", err)
	}

	recs, err := e.records.ListByRange(ctx, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for %s week %s: %w", channelID, start.Format("2006-01-02"), err)
	}
	if len(recs) == 0 {
		slog.DebugContext(ctx, "no records for weekly summary", "channel", channelID, "week_start", start.Format("2006-01-02"))
		return nil, nil
	}

	var sum float64
	users := make(map[string]struct{})
	for _, r := range recs {
		sum += r.FinalScore
		if r.UserID != "" {
			users[r.UserID] = struct{}{}
		}
	}
	mean := sum / float64(len(recs))

	trend := 0.0
	prevRecs, err := e.records.ListByRange(ctx, channelID, start.AddDate(0, 0, -7), start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to list prior-week records: %w", err)
	}
	if len(prevRecs) > 0 {
		var prevSum float64
		for _, r := range prevRecs {
			prevSum += r.FinalScore
		}
		trend = mean - prevSum/float64(len(prevRecs))
	}

	burnout := trend <= e.cfg.BurnoutDeltaThreshold || mean <= e.cfg.SentimentNegativeThreshold

	s := &domain.WeeklySummary{
		ChannelID:       channelID,
		WeekStart:       start,
		WeekEnd:         end,
		MessageCount:    len(recs),
		AvgSentiment:    mean,
		SentimentTrend:  trend,
		BurnoutFlag:     burnout,
		EngagementLevel: LevelForMean(mean),
		TopTopics:       placeholderTopics,
		ActiveUserCount: len(users),
		CreatedAt:       e.clock.Now().UTC(),
	}

	if err := e.summaries.InsertWeekly(ctx, s); err != nil {
		if errors.Is(err, domain.ErrSummaryExists) {
			return e.summaries.GetWeekly(ctx, channelID, start)
		}
		return nil, fmt.Errorf("failed to insert weekly summary: %w", err)
	}

	metrics.SummariesCreated.WithLabelValues("weekly").Inc()
	slog.InfoContext(ctx, "weekly summary created",
		"channel", channelID, "week_start", start.Format("2006-01-02"),
		"avg", mean, "trend", trend, "burnout", burnout)

	if burnout && e.notifier != nil {
		e.notifier.OnBurnoutWeek(ctx, s)
	}
	return s, nil
}

// RunDailyJob creates yesterday's daily summary for every active channel.
// A failure on one channel is logged and does not stop the rest. Returns the
// number of summaries created.
func (e *Engine) RunDailyJob(ctx context.Context) (int, error) {
	yesterday := Day(e.clock.Now()).AddDate(0, 0, -1)

	channels, err := e.channels.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active channels: %w", err)
	}

	created := 0
	for _, ch := range channels {
		s, err := e.CreateDailySummary(ctx, ch.ID, yesterday)
		if err != nil {
			slog.ErrorContext(ctx, "daily aggregation failed for channel", "channel", ch.ID, "error", err)
			continue
		}
		if s != nil {
			created++
		}
	}

	slog.InfoContext(ctx, "daily aggregation completed", "created", created, "channels", len(channels))
	return created, nil
}

// RunWeeklyJob creates last week's weekly summary for every active channel.
func (e *Engine) RunWeeklyJob(ctx context.Context) (int, error) {
	lastWeekStart := WeekStart(e.clock.Now(), e.cfg.WeekStartDay).AddDate(0, 0, -7)

	channels, err := e.channels.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active channels: %w", err)
	}

	created := 0
	for _, ch := range channels {
		s, err := e.CreateWeeklySummary(ctx, ch.ID, lastWeekStart)
		if err != nil {
			slog.ErrorContext(ctx, "weekly aggregation failed for channel", "channel", ch.ID, "error", err)
			continue
		}
		if s != nil {
			created++
		}
	}

	slog.InfoContext(ctx, "weekly aggregation completed", "created", created, "channels", len(channels))
	return created, nil
}

// Backfill creates daily summaries for every date in [start, end] and weekly
// summaries on every date that falls on the configured week-start weekday.
// channelIDs narrows the target set; empty means all active channels.
func (e *Engine) Backfill(ctx context.Context, start, end time.Time, channelIDs []string) (daily, weekly int, err error) {
	var channels []domain.Channel
	if len(channelIDs) > 0 {
		for _, id := range channelIDs {
			ch, err := e.channels.GetByID(ctx, id)
			if err != nil {
				slog.WarnContext(ctx, "skipping unknown backfill channel", "channel", id, "error", err)
				continue
			}
			channels = append(channels, *ch)
		}
	} else {
		channels, err = e.channels.ListActive(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to list active channels: %w", err)
		}
	}

	for day := Day(start); !day.After(Day(end)); day = day.AddDate(0, 0, 1) {
		for _, ch := range channels {
			s, err := e.CreateDailySummary(ctx, ch.ID, day)
			if err != nil {
				slog.ErrorContext(ctx, "backfill daily failed", "channel", ch.ID, "date", day.Format("2006-01-02"), "error", err)
				continue
			}
			if s != nil {
				daily++
			}
		}

		if day.Weekday() == e.cfg.WeekStartDay {
			for _, ch := range channels {
				s, err := e.CreateWeeklySummary(ctx, ch.ID, day)
				if err != nil {
					slog.ErrorContext(ctx, "backfill weekly failed", "channel", ch.ID, "week_start", day.Format("2006-01-02"), "error", err)
					continue
				}
				if s != nil {
					weekly++
				}
			}
		}
	}

	slog.InfoContext(ctx, "backfill completed", "daily", daily, "weekly", weekly)
	return daily, weekly, nil
}

// ChannelTrends returns ordered daily and weekly summaries for the trailing
// window of the given length. Read-only; no side effects.
func (e *Engine) ChannelTrends(ctx context.Context, channelID string, days int) (*domain.ChannelTrends, error) {
	end := Day(e.clock.Now())
	start := end.AddDate(0, 0, -days)

	dailies, err := e.summaries.ListDailyRange(ctx, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	weeklies, err := e.summaries.ListWeeklyRange(ctx, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly summaries: %w", err)
	}

	return &domain.ChannelTrends{
		ChannelID:  channelID,
		PeriodDays: days,
		Daily:      dailies,
		Weekly:     weeklies,
	}, nil
}

// mostActiveUsers returns the top posters by message count, ties broken by
// encounter order.
func mostActiveUsers(recs []domain.SentimentRecord) []domain.UserActivity {
	counts := make(map[string]int)
	var order []string
	for _, r := range recs {
		if r.UserID == "" {
			continue
		}
		if _, seen := counts[r.UserID]; !seen {
			order = append(order, r.UserID)
		}
		counts[r.UserID]++
	}

	active := make([]domain.UserActivity, 0, len(order))
	for _, id := range order {
		active = append(active, domain.UserActivity{UserID: id, MessageCount: counts[id]})
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].MessageCount > active[j].MessageCount
	})

	if len(active) > topActiveUsers {
		active = active[:topActiveUsers]
	}
	return active
}

// peakActivityHour returns the UTC hour with the most messages, preferring
// the message timestamp (epoch-seconds token) and falling back to the
// record's creation time when the token is not numeric. Ties resolve to the
// earliest hour.
func peakActivityHour(recs []domain.SentimentRecord) int {
	var hours [24]int
	for _, r := range recs {
		hours[messageHour(r)]++
	}
	peak := 0
	for h := 1; h < 24; h++ {
		if hours[h] > hours[peak] {
			peak = h
		}
	}
	return peak
}

func messageHour(r domain.SentimentRecord) int {
	if secs, err := strconv.ParseFloat(r.MessageTS, 64); err == nil && secs > 0 {
		return time.Unix(int64(secs), 0).UTC().Hour()
	}
	return r.CreatedAt.UTC().Hour()
}
