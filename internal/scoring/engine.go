package scoring

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jonreiter/govader"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/metrics"
)

const snippetMaxLen = 500

var (
	userMentionRe    = regexp.MustCompile(`<@[UW][A-Z0-9]+>`)
	channelMentionRe = regexp.MustCompile(`<#C[A-Z0-9]+\|([^>]+)>`)
	urlRe            = regexp.MustCompile(`<https?://[^>]+>`)
	emojiTokenRe     = regexp.MustCompile(`:([^:\s]+):`)
)

// Store is the subset of sentiment persistence the engine needs.
type Store interface {
	Insert(ctx context.Context, rec *domain.SentimentRecord) error
	Get(ctx context.Context, channelID, messageTS string) (*domain.SentimentRecord, error)
	UpdateReaction(ctx context.Context, channelID, messageTS string, reactionBoost, finalScore float64) error
}

// Engine scores messages and applies reaction updates.
type Engine struct {
	store Store
	vader *govader.SentimentIntensityAnalyzer
	clock clockwork.Clock
}

func NewEngine(store Store, clock clockwork.Clock) *Engine {
	return &Engine{
		store: store,
		vader: govader.NewSentimentIntensityAnalyzer(),
		clock: clock,
	}
}

// ScoreMessage computes all sentiment components for a message event and
// persists a new record. Events missing required fields are skipped with a
// (nil, nil) result. Scoring the same (channel, timestamp) twice returns the
// stored record unchanged.
func (e *Engine) ScoreMessage(ctx context.Context, ev domain.MessageEvent) (*domain.SentimentRecord, error) {
	if !ev.Scorable() {
		slog.DebugContext(ctx, "skipping unscorable message event", "channel", ev.ChannelID, "ts", ev.Timestamp)
		metrics.MessagesScored.WithLabelValues("skipped").Inc()
		return nil, nil
	}

	existing, err := e.store.Get(ctx, ev.ChannelID, ev.Timestamp)
	if err == nil {
		metrics.MessagesScored.WithLabelValues("duplicate").Inc()
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	base := e.BaseScore(ev.Text)
	emoji := EmojiBoost(ev.Text)
	keyword := KeywordModifier(ev.Text)

	now := e.clock.Now().UTC()
	rec := &domain.SentimentRecord{
		ChannelID:       ev.ChannelID,
		UserID:          ev.UserID,
		MessageTS:       ev.Timestamp,
		Text:            snippet(ev.Text),
		BaseScore:       base,
		EmojiBoost:      emoji,
		KeywordModifier: keyword,
		ReactionBoost:   0,
		FinalScore:      clamp(base+emoji+keyword, -1, 1),
		AnalysisDate:    now.Truncate(24 * time.Hour),
		CreatedAt:       now,
	}

	if err := e.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrRecordExists) {
			// Lost a concurrent-ingestion race; the stored record wins.
			return e.store.Get(ctx, ev.ChannelID, ev.Timestamp)
		}
		return nil, err
	}

	metrics.MessagesScored.WithLabelValues("scored").Inc()
	slog.InfoContext(ctx, "message scored",
		"channel", ev.ChannelID, "ts", ev.Timestamp, "final_score", rec.FinalScore)
	return rec, nil
}

// ApplyReaction folds a reaction into the stored record's reaction boost and
// recomputes the final score. The boost accumulates without bounds; only the
// final score is clamped. Returns ErrRecordNotFound when the message was
// never scored.
func (e *Engine) ApplyReaction(ctx context.Context, ev domain.ReactionEvent) (*domain.SentimentRecord, error) {
	if !ev.Valid() {
		slog.DebugContext(ctx, "skipping malformed reaction event", "channel", ev.ChannelID, "ts", ev.MessageTS)
		return nil, nil
	}

	rec, err := e.store.Get(ctx, ev.ChannelID, ev.MessageTS)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			metrics.ReactionFailures.Inc()
		}
		return nil, err
	}

	delta := ReactionWeight(ev.Reaction) * float64(ev.Direction)
	rec.ReactionBoost += delta
	rec.FinalScore = clamp(rec.BaseScore+rec.EmojiBoost+rec.KeywordModifier+rec.ReactionBoost, -1, 1)

	if err := e.store.UpdateReaction(ctx, ev.ChannelID, ev.MessageTS, rec.ReactionBoost, rec.FinalScore); err != nil {
		return nil, err
	}

	metrics.ReactionsApplied.Inc()
	slog.InfoContext(ctx, "reaction applied",
		"channel", ev.ChannelID, "ts", ev.MessageTS, "reaction", ev.Reaction, "final_score", rec.FinalScore)
	return rec, nil
}

// BaseScore computes the lexicon compound sentiment of the message text in
// [-1, 1], after replacing platform markup with neutral placeholders so
// embedded identifiers never bias the lexicon.
func (e *Engine) BaseScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return e.vader.PolarityScores(normalizeMarkup(text)).Compound
}

// EmojiBoost sums the weights of every emoji occurrence (glyphs and
// :name:-style tokens), normalized by the number of emoji found so spamming
// the same emoji cannot inflate the score. Returns 0 when no emoji present.
func EmojiBoost(text string) float64 {
	var sum float64
	count := 0

	for glyph, weight := range emojiScores {
		if strings.HasPrefix(glyph, ":") {
			continue
		}
		n := strings.Count(text, glyph)
		sum += weight * float64(n)
		count += n
	}

	for _, m := range emojiTokenRe.FindAllStringSubmatch(text, -1) {
		token := ":" + m[1] + ":"
		sum += emojiScores[token]
		count++
	}

	if count == 0 {
		return 0
	}
	return clamp(sum/float64(count), -1, 1)
}

// KeywordModifier sums the weights of every workplace keyword found in the
// text (case-insensitive substring match), clamped to [-0.5, 0.5].
func KeywordModifier(text string) float64 {
	lower := strings.ToLower(text)
	var sum float64
	for keyword, weight := range workKeywords {
		if strings.Contains(lower, keyword) {
			sum += weight
		}
	}
	return clamp(sum, -0.5, 0.5)
}

func normalizeMarkup(text string) string {
	text = userMentionRe.ReplaceAllString(text, "@user")
	text = channelMentionRe.ReplaceAllString(text, "#$1")
	text = urlRe.ReplaceAllString(text, "URL")
	return text
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetMaxLen {
		return text
	}
	return string(runes[:snippetMaxLen])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
