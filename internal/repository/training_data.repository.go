package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"newsalpha/internal/domain"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

type TrainingDataRepository interface {
	// AppendRow adds one feature row and returns the total row count
	// after dedup. Rerunning a simulation step overwrites the prior row
	// for the same (date, instrument) instead of duplicating it.
	AppendRow(row domain.FeatureRow) (int, error)
	List() ([]domain.FeatureRow, error)
}

type trainingDataHandler struct {
	mu   sync.Mutex
	path string
	log  *zap.SugaredLogger
}

func NewTrainingDataRepository(path string, log *zap.SugaredLogger) TrainingDataRepository {
	return &trainingDataHandler{
		path: path,
		log:  log,
	}
}

func (h *trainingDataHandler) AppendRow(row domain.FeatureRow) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing := h.loadLocked()
	updated := dedupeKeepLast(append(existing, row))

	if err := h.persistLocked(updated); err != nil {
		return 0, fmt.Errorf("failed to persist training data: %w", err)
	}
	return len(updated), nil
}

func (h *trainingDataHandler) List() ([]domain.FeatureRow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadLocked(), nil
}

// loadLocked reads the full table. A missing or corrupt file yields an
// empty table with a warning - the dataset is rebuilt by rerunning the
// backfill, never by failing the run.
func (h *trainingDataHandler) loadLocked() []domain.FeatureRow {
	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return []domain.FeatureRow{}
	} else if err != nil {
		h.log.Warnf("training data unreadable, starting empty: %v", fmt.Errorf("%w: %s", domain.ErrDataIntegrity, err))
		return []domain.FeatureRow{}
	}
	defer f.Close()

	rows := []domain.FeatureRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		h.log.Warnf("training data corrupt, starting empty: %v", fmt.Errorf("%w: %s", domain.ErrDataIntegrity, err))
		return []domain.FeatureRow{}
	}
	return rows
}

// persistLocked writes the whole table to a temp file then atomically
// replaces the prior file, so a reader never sees a half-written table.
func (h *trainingDataHandler) persistLocked(rows []domain.FeatureRow) error {
	tmp, err := os.CreateTemp(filepath.Dir(h.path), filepath.Base(h.path)+".tmp-*")
	if err != nil {
		return err
	}

	if err := gocsv.MarshalFile(&rows, tmp); err != nil {
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

func dedupeKeepLast(rows []domain.FeatureRow) []domain.FeatureRow {
	lastIdx := map[string]int{}
	for i, row := range rows {
		lastIdx[row.Key()] = i
	}

	out := []domain.FeatureRow{}
	for i, row := range rows {
		if lastIdx[row.Key()] == i {
			out = append(out, row)
		}
	}
	return out
}
