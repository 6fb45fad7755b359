package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGpt struct {
	response string
	err      error
	calls    int
}

func (f *fakeGpt) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestJudge(t *testing.T, gpt repository.GptRepository) (JudgeService, repository.SentimentCacheRepository) {
	log := zap.NewNop().Sugar()
	cache := repository.NewSentimentCacheRepository(filepath.Join(t.TempDir(), "cache.json"), log)
	return judgeServiceHandler{
		Cache:   cache,
		Gpt:     gpt,
		Timeout: time.Second,
		log:     log,
	}, cache
}

func testArticle() domain.Article {
	return domain.Article{
		Title:       "Company reports record profits",
		Description: "Quarterly earnings beat analyst expectations",
		PublishedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestJudge(t *testing.T) {
	t.Run("parses a clean judgment and caches it", func(t *testing.T) {
		gpt := &fakeGpt{response: `{"sentiment_label": "Positive", "sentiment_score": 0.9, "confidence": 0.8}`}
		judge, cache := newTestJudge(t, gpt)

		got := judge.Judge(context.Background(), testArticle())
		require.Equal(t, domain.SentimentJudgment{
			Score:      0.9,
			Confidence: 0.8,
			Label:      domain.SentimentLabel_Positive,
		}, got)
		require.Equal(t, 1, cache.Len())
	})

	t.Run("cache hit skips the model entirely", func(t *testing.T) {
		gpt := &fakeGpt{response: `{"sentiment_label": "Positive", "sentiment_score": 0.9, "confidence": 0.8}`}
		judge, _ := newTestJudge(t, gpt)

		first := judge.Judge(context.Background(), testArticle())
		second := judge.Judge(context.Background(), testArticle())
		require.Equal(t, first, second)
		require.Equal(t, 1, gpt.calls)
	})

	t.Run("generation error degrades to neutral and is not cached", func(t *testing.T) {
		gpt := &fakeGpt{err: errors.New("model unavailable")}
		judge, cache := newTestJudge(t, gpt)

		got := judge.Judge(context.Background(), testArticle())
		require.Equal(t, domain.NeutralJudgment(), got)
		require.Equal(t, 0, cache.Len())

		// a later call retries rather than serving the failure
		judge.Judge(context.Background(), testArticle())
		require.Equal(t, 2, gpt.calls)
	})

	t.Run("unparseable output degrades to neutral", func(t *testing.T) {
		gpt := &fakeGpt{response: "I am unable to assess this headline."}
		judge, cache := newTestJudge(t, gpt)

		got := judge.Judge(context.Background(), testArticle())
		require.Equal(t, domain.NeutralJudgment(), got)
		require.Equal(t, 0, cache.Len())
	})
}

func TestParseJudgment(t *testing.T) {
	t.Run("extracts the object from noisy output", func(t *testing.T) {
		raw := "Sure! Here is the analysis:\n{\"sentiment_label\": \"Negative\", \"sentiment_score\": -0.8, \"confidence\": 0.9}\nLet me know if you need more."
		got, err := parseJudgment(raw)
		require.NoError(t, err)
		require.Equal(t, domain.SentimentLabel_Negative, got.Label)
		require.InDelta(t, -0.8, got.Score, 1e-9)
	})

	t.Run("skips a malformed leading brace", func(t *testing.T) {
		raw := `{oops} {"sentiment_label": "Positive", "sentiment_score": 0.5, "confidence": 0.6}`
		got, err := parseJudgment(raw)
		require.NoError(t, err)
		require.Equal(t, domain.SentimentLabel_Positive, got.Label)
	})

	t.Run("clamps out-of-range values", func(t *testing.T) {
		raw := `{"sentiment_label": "Positive", "sentiment_score": 1.7, "confidence": 1.4}`
		got, err := parseJudgment(raw)
		require.NoError(t, err)
		require.Equal(t, 1.0, got.Score)
		require.Equal(t, 1.0, got.Confidence)
	})

	t.Run("unknown label falls back to neutral", func(t *testing.T) {
		raw := `{"sentiment_label": "Bullish?", "sentiment_score": 0.4, "confidence": 0.5}`
		got, err := parseJudgment(raw)
		require.NoError(t, err)
		require.Equal(t, domain.SentimentLabel_Neutral, got.Label)
	})

	t.Run("truncated object is a parse failure", func(t *testing.T) {
		_, err := parseJudgment(`{"sentiment_label": "Posi`)
		require.ErrorIs(t, err, domain.ErrMalformedJudgment)
	})

	t.Run("no object at all is a parse failure", func(t *testing.T) {
		_, err := parseJudgment("no json here")
		require.ErrorIs(t, err, domain.ErrMalformedJudgment)
	})
}
