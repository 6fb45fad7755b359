package repository

import (
	"os"
	"path/filepath"
	"testing"

	"newsalpha/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFingerprint(t *testing.T) {
	t.Run("deterministic for identical text", func(t *testing.T) {
		require.Equal(t, Fingerprint("Apple beats estimates. Shares rally."), Fingerprint("Apple beats estimates. Shares rally."))
	})

	t.Run("distinct for distinct text", func(t *testing.T) {
		require.NotEqual(t, Fingerprint("Apple beats estimates"), Fingerprint("Apple misses estimates"))
	})
}

func TestSentimentCache(t *testing.T) {
	log := zap.NewNop().Sugar()

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		cache := NewSentimentCacheRepository(path, log)

		judgment := domain.SentimentJudgment{
			Score:      0.8,
			Confidence: 0.9,
			Label:      domain.SentimentLabel_Positive,
		}
		require.NoError(t, cache.Put("some headline. some summary", judgment))

		got, ok := cache.Get("some headline. some summary")
		require.True(t, ok)
		require.Equal(t, judgment, got)

		_, ok = cache.Get("different text")
		require.False(t, ok)
	})

	t.Run("persists across reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		cache := NewSentimentCacheRepository(path, log)

		judgment := domain.SentimentJudgment{
			Score:      -0.5,
			Confidence: 0.7,
			Label:      domain.SentimentLabel_Negative,
		}
		require.NoError(t, cache.Put("ceo resigns", judgment))

		reopened := NewSentimentCacheRepository(path, log)
		got, ok := reopened.Get("ceo resigns")
		require.True(t, ok)
		require.Equal(t, judgment, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		cache := NewSentimentCacheRepository(path, log)

		first := domain.SentimentJudgment{Score: 0.2, Confidence: 0.3, Label: domain.SentimentLabel_Neutral}
		second := domain.SentimentJudgment{Score: 0.9, Confidence: 0.9, Label: domain.SentimentLabel_Positive}
		require.NoError(t, cache.Put("text", first))
		require.NoError(t, cache.Put("text", second))

		got, ok := cache.Get("text")
		require.True(t, ok)
		require.Equal(t, second, got)
		require.Equal(t, 1, cache.Len())
	})

	t.Run("repeated equal puts leave one entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		cache := NewSentimentCacheRepository(path, log)

		judgment := domain.SentimentJudgment{Score: 0.1, Confidence: 0.4, Label: domain.SentimentLabel_Neutral}
		require.NoError(t, cache.Put("text", judgment))
		require.NoError(t, cache.Put("text", judgment))
		require.Equal(t, 1, cache.Len())
	})

	t.Run("corrupt file initializes empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		cache := NewSentimentCacheRepository(path, log)
		require.Equal(t, 0, cache.Len())

		// and is writable again afterwards
		require.NoError(t, cache.Put("text", domain.NeutralJudgment()))
		require.Equal(t, 1, cache.Len())
	})
}
