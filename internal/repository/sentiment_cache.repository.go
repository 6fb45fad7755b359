package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"newsalpha/internal/domain"

	"go.uber.org/zap"
)

// Fingerprint is the cache key for an article's normalized text: the
// SHA-256 digest of its UTF-8 bytes, hex encoded. Deterministic and
// collision-resistant, so two distinct judged texts never silently
// overwrite each other.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

type SentimentCacheRepository interface {
	Get(text string) (domain.SentimentJudgment, bool)
	Put(text string, judgment domain.SentimentJudgment) error
	Len() int
}

type sentimentCacheHandler struct {
	mu      sync.Mutex
	path    string
	entries map[string]domain.SentimentJudgment
	log     *zap.SugaredLogger
}

// NewSentimentCacheRepository loads the persisted cache wholesale. An
// unreadable or corrupt file initializes an empty cache instead of
// failing the caller: a lost cache costs recomputation, not incorrect
// results, so availability wins over durability here.
func NewSentimentCacheRepository(path string, log *zap.SugaredLogger) SentimentCacheRepository {
	entries := map[string]domain.SentimentJudgment{}

	bytes, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		log.Warnf("sentiment cache unreadable, starting empty: %v", fmt.Errorf("%w: %s", domain.ErrDataIntegrity, err))
	} else if err == nil {
		if err := json.Unmarshal(bytes, &entries); err != nil {
			log.Warnf("sentiment cache corrupt, starting empty: %v", fmt.Errorf("%w: %s", domain.ErrDataIntegrity, err))
			entries = map[string]domain.SentimentJudgment{}
		}
	}

	return &sentimentCacheHandler{
		path:    path,
		entries: entries,
		log:     log,
	}
}

func (h *sentimentCacheHandler) Get(text string) (domain.SentimentJudgment, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	judgment, ok := h.entries[Fingerprint(text)]
	return judgment, ok
}

// Put stores the judgment and persists the entire key space to disk, so
// a crash between puts loses at most the entry being written. Repeat
// puts with the same judgment are idempotent; a different judgment for
// the same text overwrites, last write wins.
func (h *sentimentCacheHandler) Put(text string, judgment domain.SentimentJudgment) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[Fingerprint(text)] = judgment
	if err := h.persistLocked(); err != nil {
		return fmt.Errorf("failed to persist sentiment cache: %w", err)
	}
	return nil
}

func (h *sentimentCacheHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// persistLocked writes the full cache to a temp file and renames it over
// the old one, so a reader never observes a half-written cache.
func (h *sentimentCacheHandler) persistLocked() error {
	bytes, err := json.MarshalIndent(h.entries, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), filepath.Base(h.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), h.path)
}
