package repository

import (
	"context"
	"fmt"

	"newsalpha/internal/domain"
	"newsalpha/pkg/finnhub"
)

type AnalystRepository interface {
	// GetConsensus returns the mean analyst rating for the symbol on the
	// 1 (strong buy) to 5 (strong sell) scale. A symbol with no coverage
	// returns the zero consensus, not an error.
	GetConsensus(ctx context.Context, symbol string) (domain.AnalystConsensus, error)
}

func NewAnalystRepository(client *finnhub.Client) AnalystRepository {
	return analystRepositoryHandler{
		Client: client,
	}
}

type analystRepositoryHandler struct {
	Client *finnhub.Client
}

func (h analystRepositoryHandler) GetConsensus(ctx context.Context, symbol string) (domain.AnalystConsensus, error) {
	trends, err := h.Client.RecommendationTrends(ctx, symbol)
	if err != nil {
		return domain.AnalystConsensus{}, fmt.Errorf("%w: failed to fetch recommendations for %s: %s", domain.ErrTransientProvider, symbol, err)
	}
	if len(trends) == 0 {
		return domain.AnalystConsensus{}, nil
	}

	// newest period first
	latest := trends[0]
	total := latest.StrongBuy + latest.Buy + latest.Hold + latest.Sell + latest.StrongSell
	if total == 0 {
		return domain.AnalystConsensus{}, nil
	}

	weighted := 1*latest.StrongBuy + 2*latest.Buy + 3*latest.Hold + 4*latest.Sell + 5*latest.StrongSell
	return domain.AnalystConsensus{
		MeanRating:  float64(weighted) / float64(total),
		NumAnalysts: total,
	}, nil
}
