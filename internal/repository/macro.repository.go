package repository

import (
	"context"
	"fmt"

	"newsalpha/internal/domain"
	"newsalpha/pkg/fred"
)

type MacroRepository interface {
	GetIndicators(ctx context.Context) (domain.MacroIndicators, error)
}

func NewMacroRepository(client *fred.Client) MacroRepository {
	return macroRepositoryHandler{
		Client: client,
	}
}

type macroRepositoryHandler struct {
	Client *fred.Client
}

func (h macroRepositoryHandler) GetIndicators(ctx context.Context) (domain.MacroIndicators, error) {
	unemployment, err := h.Client.Latest(ctx, "UNRATE")
	if err != nil {
		return domain.MacroIndicators{}, fmt.Errorf("%w: failed to fetch unemployment: %s", domain.ErrTransientProvider, err)
	}

	// 13 monthly observations give the current value plus the one a
	// year earlier
	cpi, err := h.Client.SeriesValues(ctx, "CPIAUCSL", 13)
	if err != nil {
		return domain.MacroIndicators{}, fmt.Errorf("%w: failed to fetch cpi: %s", domain.ErrTransientProvider, err)
	}
	if len(cpi) < 13 {
		return domain.MacroIndicators{}, fmt.Errorf("need 13 months of cpi, got %d", len(cpi))
	}
	cpiYoY := (cpi[len(cpi)-1] - cpi[0]) / cpi[0]

	interestRate, err := h.Client.Latest(ctx, "FEDFUNDS")
	if err != nil {
		return domain.MacroIndicators{}, fmt.Errorf("%w: failed to fetch fed funds rate: %s", domain.ErrTransientProvider, err)
	}

	return domain.MacroIndicators{
		Unemployment: unemployment,
		CpiYoY:       cpiYoY,
		InterestRate: interestRate,
	}, nil
}
