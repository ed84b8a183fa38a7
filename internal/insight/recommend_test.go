package insight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

func (f *fixture) seedLatestWeek(t *testing.T, s domain.WeeklySummary) {
	t.Helper()
	s.ChannelID = testChannel
	s.WeekStart = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	s.WeekEnd = s.WeekStart.AddDate(0, 0, 6)
	require.NoError(t, f.store.Summaries().InsertWeekly(context.Background(), &s))
}

func recommendationTypes(r *domain.RecommendationReport) []string {
	out := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		out = append(out, rec.Type)
	}
	return out
}

func TestRecommend_NoSummariesFails(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.engine.Recommend(context.Background(), testChannel)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)
}

func TestRecommend_StrugglingChannel(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLatestWeek(t, domain.WeeklySummary{
		AvgSentiment:    -0.25,
		BurnoutFlag:     true,
		EngagementLevel: domain.EngagementCritical,
		ActiveUserCount: 3,
	})

	report, err := f.engine.Recommend(context.Background(), testChannel)
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityHigh, report.Priority)
	assert.ElementsMatch(t, []string{"immediate_action", "sentiment_improvement", "engagement_boost"}, recommendationTypes(report))
	assert.True(t, report.CurrentState.BurnoutFlag)
	assert.Equal(t, 3, report.CurrentState.ActiveUsers)
}

func TestRecommend_HealthyChannel(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLatestWeek(t, domain.WeeklySummary{
		AvgSentiment:    0.4,
		EngagementLevel: domain.EngagementHigh,
		ActiveUserCount: 12,
	})

	report, err := f.engine.Recommend(context.Background(), testChannel)
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityLow, report.Priority)
	assert.ElementsMatch(t, []string{"maintain_momentum"}, recommendationTypes(report))
}

func TestRecommend_QuietButPositiveChannel(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLatestWeek(t, domain.WeeklySummary{
		AvgSentiment:    0.05,
		EngagementLevel: domain.EngagementLow,
		ActiveUserCount: 2,
	})

	report, err := f.engine.Recommend(context.Background(), testChannel)
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityMedium, report.Priority)
	assert.ElementsMatch(t, []string{"engagement_boost"}, recommendationTypes(report))
}

func TestRecommend_UsesNewestWeek(t *testing.T) {
	f := newFixture(t, nil)

	older := domain.WeeklySummary{
		ChannelID:       testChannel,
		WeekStart:       time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		AvgSentiment:    -0.5,
		BurnoutFlag:     true,
		EngagementLevel: domain.EngagementCritical,
		ActiveUserCount: 2,
	}
	require.NoError(t, f.store.Summaries().InsertWeekly(context.Background(), &older))

	f.seedLatestWeek(t, domain.WeeklySummary{
		AvgSentiment:    0.4,
		EngagementLevel: domain.EngagementHigh,
		ActiveUserCount: 12,
	})

	report, err := f.engine.Recommend(context.Background(), testChannel)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, report.CurrentState.AvgSentiment, 1e-9)
	assert.Equal(t, domain.SeverityLow, report.Priority)
}
