package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsalpha/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

type PriceRepository interface {
	// GetHistory returns daily bars for the symbol over [start, end],
	// oldest first, one per trading day.
	GetHistory(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error)
}

func NewPriceRepository() PriceRepository {
	return &priceRepositoryHandler{
		cache: map[string]domain.PriceSeries{},
		mu:    &sync.RWMutex{},
	}
}

type priceRepositoryHandler struct {
	cache map[string]domain.PriceSeries
	mu    *sync.RWMutex
}

func (h *priceRepositoryHandler) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

func (h *priceRepositoryHandler) GetHistory(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	key := h.cacheKey(symbol, start, end)
	h.mu.RLock()
	if series, ok := h.cache[key]; ok {
		h.mu.RUnlock()
		return series, nil
	}
	h.mu.RUnlock()

	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	params.Context = &ctx
	iter := chart.Get(params)

	series := domain.PriceSeries{}
	for iter.Next() {
		bar := iter.Bar()
		series = append(series, domain.PricePoint{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:  bar.Open.InexactFloat64(),
			Close: bar.Close.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to get prices for %s: %s", domain.ErrTransientProvider, symbol, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no price history returned for %s", symbol)
	}

	h.mu.Lock()
	h.cache[key] = series
	h.mu.Unlock()

	return series, nil
}
