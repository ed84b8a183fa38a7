package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/engagement-pulse/internal/adapter/memory"
	"github.com/teampulse/engagement-pulse/internal/domain"
)

func newTestEngine(t *testing.T) (*Engine, *memory.Store, clockwork.Clock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	return NewEngine(store.Records(), clock), store, clock
}

func messageEvent(ts, text string) domain.MessageEvent {
	return domain.MessageEvent{ChannelID: "C042", UserID: "U1", Timestamp: ts, Text: text}
}

func TestScoreMessage_FinalScoreIsClampedComponentSum(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec, err := engine.ScoreMessage(context.Background(), messageEvent("1755700200.000100", "shipped the release 🎉"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.InDelta(t, 0.5, rec.EmojiBoost, 1e-9)
	assert.InDelta(t, 0.3, rec.KeywordModifier, 1e-9) // shipped + release
	assert.InDelta(t, clampedSum(rec.BaseScore, rec.EmojiBoost, rec.KeywordModifier), rec.FinalScore, 1e-9)
	assert.GreaterOrEqual(t, rec.FinalScore, -1.0)
	assert.LessOrEqual(t, rec.FinalScore, 1.0)
}

func TestScoreMessage_NeutralTextHasOnlyBaseScore(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec, err := engine.ScoreMessage(context.Background(), messageEvent("1755700200.000200", "the meeting is at noon tomorrow"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Zero(t, rec.EmojiBoost)
	assert.Zero(t, rec.KeywordModifier)
	assert.Zero(t, rec.ReactionBoost)
	assert.InDelta(t, rec.BaseScore, rec.FinalScore, 1e-9)
}

func TestScoreMessage_ClampsAtNegativeOne(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec, err := engine.ScoreMessage(context.Background(),
		messageEvent("1755700200.000300", "terrible outage, everything broken and failed, total disaster 😭"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Negative(t, rec.BaseScore)
	assert.InDelta(t, -0.6, rec.EmojiBoost, 1e-9)
	assert.InDelta(t, -0.5, rec.KeywordModifier, 1e-9) // outage+broken+failed exceeds the clamp
	assert.InDelta(t, -1.0, rec.FinalScore, 1e-9)
}

func TestScoreMessage_SkipsIncompleteEvents(t *testing.T) {
	engine, store, _ := newTestEngine(t)

	events := []domain.MessageEvent{
		{UserID: "U1", Timestamp: "1.0", Text: "hi"},
		{ChannelID: "C042", Timestamp: "1.0", Text: "hi"},
		{ChannelID: "C042", UserID: "U1", Text: "hi"},
		{ChannelID: "C042", UserID: "U1", Timestamp: "1.0", Text: "hi", BotID: "B9"},
		{ChannelID: "C042", UserID: "U1", Timestamp: "1.0", Text: "hi", Subtype: "channel_join"},
	}

	for _, ev := range events {
		rec, err := engine.ScoreMessage(context.Background(), ev)
		assert.NoError(t, err)
		assert.Nil(t, rec)
	}

	_, err := store.Records().Get(context.Background(), "C042", "1.0")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestScoreMessage_SecondDeliveryReturnsStoredRecord(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	first, err := engine.ScoreMessage(context.Background(), messageEvent("1755700200.000400", "great job everyone"))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := engine.ScoreMessage(context.Background(), messageEvent("1755700200.000400", "completely different text 👎"))
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, first.Text, second.Text)
}

func TestScoreMessage_TruncatesStoredSnippet(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	long := ""
	for j := 0; j < 60; j++ {
		long += "0123456789"
	}

	rec, err := engine.ScoreMessage(context.Background(), messageEvent("1755700200.000500", long))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Len(t, []rune(rec.Text), snippetMaxLen)
}

func TestApplyReaction_AddAndRemoveRestoresScore(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	orig, err := engine.ScoreMessage(ctx, messageEvent("1755700200.000600", "the meeting is at noon tomorrow"))
	require.NoError(t, err)
	require.NotNil(t, orig)

	added, err := engine.ApplyReaction(ctx, domain.ReactionEvent{
		ChannelID: "C042", MessageTS: "1755700200.000600", Reaction: "thumbsup", Direction: 1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, added.ReactionBoost, 1e-9)
	assert.InDelta(t, clampedSum(orig.BaseScore, 0.5), added.FinalScore, 1e-9)

	removed, err := engine.ApplyReaction(ctx, domain.ReactionEvent{
		ChannelID: "C042", MessageTS: "1755700200.000600", Reaction: "thumbsup", Direction: -1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, removed.ReactionBoost, 1e-9)
	assert.InDelta(t, orig.FinalScore, removed.FinalScore, 1e-9)
}

func clampedSum(parts ...float64) float64 {
	var sum float64
	for _, p := range parts {
		sum += p
	}
	return clamp(sum, -1, 1)
}

func TestApplyReaction_UnknownReactionIsNeutral(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	orig, err := engine.ScoreMessage(ctx, messageEvent("1755700200.000700", "nothing special here"))
	require.NoError(t, err)

	rec, err := engine.ApplyReaction(ctx, domain.ReactionEvent{
		ChannelID: "C042", MessageTS: "1755700200.000700", Reaction: "some_custom_emoji", Direction: 1,
	})
	require.NoError(t, err)
	assert.Zero(t, rec.ReactionBoost)
	assert.Equal(t, orig.FinalScore, rec.FinalScore)
}

func TestApplyReaction_UnknownMessageFails(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.ApplyReaction(context.Background(), domain.ReactionEvent{
		ChannelID: "C042", MessageTS: "9999999999.000000", Reaction: "thumbsup", Direction: 1,
	})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestApplyReaction_MalformedEventIsSkipped(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec, err := engine.ApplyReaction(context.Background(), domain.ReactionEvent{
		ChannelID: "C042", MessageTS: "1.0", Reaction: "thumbsup", Direction: 0,
	})
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestEmojiBoost(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no emoji", "plain text", 0},
		{"single positive glyph", "nice 👍", 0.5},
		{"single token", "on :fire: today", 0.4},
		{"repeats normalize", "👍👍👍", 0.5},
		{"mixed average", "👍 but also 😞", 0.05},
		{"glyph and token", "👍 :fire:", 0.45},
		{"unknown token dilutes", ":fire: :someteamemoji:", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EmojiBoost(tt.text), 1e-9)
		})
	}
}

func TestKeywordModifier(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no keywords", "hello world", 0},
		{"positive phrase", "great job on that", 0.4},
		{"case insensitive", "GREAT JOB", 0.4},
		{"stem matches blocked", "I'm blocked on the migration", -0.2},
		{"mixed signs", "shipped but broken", -0.1},
		{"negative clamp", "frustrated stressed overwhelmed burnout", -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KeywordModifier(tt.text), 1e-9)
		})
	}
}

func TestNormalizeMarkup(t *testing.T) {
	got := normalizeMarkup("<@U123ABC> posted in <#C99XYZ|general> see <https://example.com/page>")
	assert.Equal(t, "@user posted in #general see URL", got)
}

func TestBaseScore(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	assert.Zero(t, engine.BaseScore(""))
	assert.Zero(t, engine.BaseScore("   "))
	assert.Positive(t, engine.BaseScore("this is wonderful, I love it"))
	assert.Negative(t, engine.BaseScore("this is horrible, I hate it"))

	// Mentions must not leak identifier text into the lexicon.
	assert.Equal(t, engine.BaseScore("thanks <@U123ABC>"), engine.BaseScore("thanks @user"))
}

func TestReactionWeight(t *testing.T) {
	assert.InDelta(t, 0.5, ReactionWeight("thumbsup"), 1e-9)
	assert.InDelta(t, -0.5, ReactionWeight("-1"), 1e-9)
	assert.Zero(t, ReactionWeight("party_parrot"))
}
