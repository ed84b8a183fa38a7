package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/engagement-pulse/internal/adapter/memory"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

const testChannel = "C042"

type fakeMarker struct {
	seen   bool
	marked int
	fail   bool
}

func (m *fakeMarker) SeenRecently(_ context.Context, _ string, _ domain.InsightKind) (bool, error) {
	if m.fail {
		return false, errors.New("marker unavailable")
	}
	return m.seen, nil
}

func (m *fakeMarker) Mark(_ context.Context, _ string, _ domain.InsightKind) error {
	m.marked++
	return nil
}

type fixture struct {
	engine *Engine
	store  *memory.Store
	clock  *clockwork.FakeClock
}

func newFixture(t *testing.T, dedup DedupMarker) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	engine := NewEngine(store.Channels(), store.Summaries(), store.Insights(), dedup, clock)

	_, err := store.Channels().Upsert(context.Background(), testChannel, "channel-"+testChannel)
	require.NoError(t, err)

	return &fixture{engine: engine, store: store, clock: clock}
}

// seedWeeks stores weekly summaries from the given newest-first rows,
// assigning descending week starts from 2026-08-17 backwards.
type weekRow struct {
	mean  float64
	users int
}

func (f *fixture) seedWeeks(t *testing.T, rows []weekRow) {
	t.Helper()
	latest := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	for i, row := range rows {
		start := latest.AddDate(0, 0, -7*i)
		require.NoError(t, f.store.Summaries().InsertWeekly(context.Background(), &domain.WeeklySummary{
			ChannelID:       testChannel,
			WeekStart:       start,
			WeekEnd:         start.AddDate(0, 0, 6),
			MessageCount:    50,
			AvgSentiment:    row.mean,
			EngagementLevel: domain.EngagementMedium,
			ActiveUserCount: row.users,
			CreatedAt:       f.clock.Now().UTC(),
		}))
	}
}

func kinds(insights []domain.Insight) []domain.InsightKind {
	out := make([]domain.InsightKind, 0, len(insights))
	for _, ins := range insights {
		out = append(out, ins.Kind)
	}
	return out
}

func TestGenerateForChannel_NoSummariesNoInsights(t *testing.T) {
	f := newFixture(t, nil)

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGenerateForChannel_BurnoutPattern(t *testing.T) {
	tests := []struct {
		name     string
		means    []float64
		severity domain.Severity
	}{
		{"two negative weeks", []float64{-0.2, -0.15, 0.1}, domain.SeverityHigh},
		{"three negative weeks", []float64{-0.2, -0.3, -0.15}, domain.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			rows := make([]weekRow, len(tt.means))
			for i, m := range tt.means {
				rows[i] = weekRow{mean: m, users: 5}
			}
			f.seedWeeks(t, rows)

			found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, domain.KindBurnoutPattern, found[0].Kind)
			assert.Equal(t, tt.severity, found[0].Severity)
			assert.True(t, found[0].IsActive)
		})
	}
}

func TestGenerateForChannel_IgnoresStaleSummaries(t *testing.T) {
	f := newFixture(t, nil)

	// Three clearly negative weeks, but over a year old: the channel has
	// been dormant since and the battery must stay quiet.
	latest := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, mean := range []float64{-0.3, -0.25, -0.2} {
		start := latest.AddDate(0, 0, -7*i)
		require.NoError(t, f.store.Summaries().InsertWeekly(context.Background(), &domain.WeeklySummary{
			ChannelID:       testChannel,
			WeekStart:       start,
			WeekEnd:         start.AddDate(0, 0, 6),
			MessageCount:    50,
			AvgSentiment:    mean,
			EngagementLevel: domain.EngagementCritical,
			ActiveUserCount: 5,
			CreatedAt:       start,
		}))
	}

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGenerateForChannel_SingleNegativeWeekIsNotAPattern(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: -0.3, users: 5}, {mean: 0.2, users: 5}, {mean: 0.2, users: 5}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGenerateForChannel_ParticipationDecline(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: 0.2, users: 4}, {mean: 0.2, users: 6}, {mean: 0.2, users: 8}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Contains(t, kinds(found), domain.KindParticipationDecline)

	for _, ins := range found {
		if ins.Kind == domain.KindParticipationDecline {
			assert.Equal(t, domain.SeverityMedium, ins.Severity)
			assert.Equal(t, -4, ins.SupportingData["participation_change"])
		}
	}
}

func TestGenerateForChannel_EngagementSpike(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: 0.5, users: 5}, {mean: 0.2, users: 5}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.KindEngagementSpike, found[0].Kind)
	assert.Equal(t, domain.SeverityLow, found[0].Severity)
}

func TestGenerateForChannel_SpikeNeedsBothMeanAndImprovement(t *testing.T) {
	tests := []struct {
		name string
		rows []weekRow
	}{
		{"high mean without improvement", []weekRow{{mean: 0.4, users: 5}, {mean: 0.35, users: 5}}},
		{"improvement without high mean", []weekRow{{mean: 0.25, users: 5}, {mean: 0.0, users: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.seedWeeks(t, tt.rows)

			found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
			require.NoError(t, err)
			assert.Empty(t, found)
		})
	}
}

func TestGenerateForChannel_HighParticipation(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: 0.2, users: 16}, {mean: 0.2, users: 11}, {mean: 0.2, users: 11}, {mean: 0.2, users: 10}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Contains(t, kinds(found), domain.KindHighParticipation)
}

func TestGenerateForChannel_ParticipationTrend(t *testing.T) {
	tests := []struct {
		name string
		rows []weekRow
		want domain.InsightKind
	}{
		{"declining counts", []weekRow{{mean: 0.2, users: 8}, {mean: 0.2, users: 9}, {mean: 0.2, users: 10}, {mean: 0.2, users: 12}}, domain.KindParticipationTrend},
		{"growing counts", []weekRow{{mean: 0.2, users: 12}, {mean: 0.2, users: 10}, {mean: 0.2, users: 9}, {mean: 0.2, users: 8}}, domain.KindParticipationGrowth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.seedWeeks(t, tt.rows)

			found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, tt.want, found[0].Kind)
		})
	}
}

func TestGenerateForChannel_FlatParticipationIsQuiet(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: 0.2, users: 8}, {mean: 0.2, users: 8}, {mean: 0.2, users: 8}, {mean: 0.2, users: 8}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGenerateForChannel_SentimentVolatility(t *testing.T) {
	f := newFixture(t, nil)
	f.seedWeeks(t, []weekRow{{mean: 0.4, users: 5}, {mean: 0.35, users: 5}, {mean: -0.15, users: 5}, {mean: -0.35, users: 5}})

	found, err := f.engine.GenerateForChannel(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Contains(t, kinds(found), domain.KindSentimentVolatility)

	for _, ins := range found {
		if ins.Kind == domain.KindSentimentVolatility {
			assert.Equal(t, domain.SeverityMedium, ins.Severity)
			assert.InDelta(t, 0.3209, ins.SupportingData["volatility_score"].(float64), 1e-4)
		}
	}
}

func burnoutWeek(mean, trend float64, users int) *domain.WeeklySummary {
	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	return &domain.WeeklySummary{
		ChannelID:       testChannel,
		WeekStart:       start,
		WeekEnd:         start.AddDate(0, 0, 6),
		MessageCount:    40,
		AvgSentiment:    mean,
		SentimentTrend:  trend,
		BurnoutFlag:     true,
		EngagementLevel: domain.EngagementCritical,
		ActiveUserCount: users,
	}
}

func TestGenerateBurnoutAlert_SeverityTiers(t *testing.T) {
	tests := []struct {
		name     string
		mean     float64
		trend    float64
		severity domain.Severity
	}{
		{"deep negative mean is critical", -0.35, 0, domain.SeverityCritical},
		{"steep trend is critical", -0.1, -0.3, domain.SeverityCritical},
		{"moderate mean is high", -0.22, 0, domain.SeverityHigh},
		{"moderate trend is high", -0.12, -0.26, domain.SeverityHigh},
		{"mild decline is medium", -0.15, -0.21, domain.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			err := f.engine.GenerateBurnoutAlert(context.Background(), burnoutWeek(tt.mean, tt.trend, 10))
			require.NoError(t, err)

			insights, err := f.store.Insights().List(context.Background(), domain.InsightFilter{})
			require.NoError(t, err)
			require.Len(t, insights, 1)
			assert.Equal(t, domain.KindBurnoutAlert, insights[0].Kind)
			assert.Equal(t, tt.severity, insights[0].Severity)
		})
	}
}

func TestGenerateBurnoutAlert_DefaultRecommendationWhenNoRuleTriggers(t *testing.T) {
	f := newFixture(t, nil)

	err := f.engine.GenerateBurnoutAlert(context.Background(), burnoutWeek(-0.15, -0.21, 10))
	require.NoError(t, err)

	insights, err := f.store.Insights().List(context.Background(), domain.InsightFilter{})
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "Monitor closely and consider team intervention", insights[0].Recommendation)
}

func TestGenerateBurnoutAlert_DeduplicatesWithinWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))
	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))

	insights, err := f.store.Insights().List(ctx, domain.InsightFilter{})
	require.NoError(t, err)
	assert.Len(t, insights, 1)

	// After the window passes, a fresh alert is allowed again.
	f.clock.Advance(8 * 24 * time.Hour)
	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))

	insights, err = f.store.Insights().List(ctx, domain.InsightFilter{})
	require.NoError(t, err)
	assert.Len(t, insights, 2)
}

func TestGenerateBurnoutAlert_AcknowledgedAlertDoesNotSuppress(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))

	insights, err := f.store.Insights().List(ctx, domain.InsightFilter{})
	require.NoError(t, err)
	require.Len(t, insights, 1)
	require.NoError(t, f.engine.Acknowledge(ctx, insights[0].ID, "manager@example.com"))

	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))

	insights, err = f.store.Insights().List(ctx, domain.InsightFilter{})
	require.NoError(t, err)
	assert.Len(t, insights, 2)
}

func TestGenerateBurnoutAlert_MarkerFastPath(t *testing.T) {
	marker := &fakeMarker{seen: true}
	f := newFixture(t, marker)

	require.NoError(t, f.engine.GenerateBurnoutAlert(context.Background(), burnoutWeek(-0.3, -0.1, 10)))

	insights, err := f.store.Insights().List(context.Background(), domain.InsightFilter{})
	require.NoError(t, err)
	assert.Empty(t, insights)
}

func TestGenerateBurnoutAlert_MarkerFailureFallsBackToStore(t *testing.T) {
	marker := &fakeMarker{fail: true}
	f := newFixture(t, marker)

	require.NoError(t, f.engine.GenerateBurnoutAlert(context.Background(), burnoutWeek(-0.3, -0.1, 10)))

	insights, err := f.store.Insights().List(context.Background(), domain.InsightFilter{})
	require.NoError(t, err)
	assert.Len(t, insights, 1)
}

func TestGenerateBurnoutAlert_MarksAfterInsert(t *testing.T) {
	marker := &fakeMarker{}
	f := newFixture(t, marker)

	require.NoError(t, f.engine.GenerateBurnoutAlert(context.Background(), burnoutWeek(-0.3, -0.1, 10)))
	assert.Equal(t, 1, marker.marked)
}

func TestAcknowledge(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	err := f.engine.Acknowledge(ctx, uuid.New(), "manager@example.com")
	assert.ErrorIs(t, err, domain.ErrInsightNotFound)

	require.NoError(t, f.engine.GenerateBurnoutAlert(ctx, burnoutWeek(-0.3, -0.1, 10)))
	insights, err := f.store.Insights().List(ctx, domain.InsightFilter{})
	require.NoError(t, err)
	require.Len(t, insights, 1)

	require.NoError(t, f.engine.Acknowledge(ctx, insights[0].ID, "manager@example.com"))

	stored, err := f.store.Insights().GetByID(ctx, insights[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "manager@example.com", stored.AcknowledgedBy)
	require.NotNil(t, stored.AcknowledgedAt)

	active, err := f.engine.List(ctx, domain.InsightFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRunJob_CoversAllActiveChannels(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.store.Channels().Upsert(ctx, "C-quiet", "channel-C-quiet")
	require.NoError(t, err)

	f.seedWeeks(t, []weekRow{{mean: 0.5, users: 5}, {mean: 0.2, users: 5}})

	total, err := f.engine.RunJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
