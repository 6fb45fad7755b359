package repository

import (
	"fmt"

	"newsalpha/internal/domain"

	"github.com/piquette/finance-go/equity"
)

// EquitySnapshot is the slim slice of quote data the fundamentals
// computation needs. Fields the provider could not populate are zero.
type EquitySnapshot struct {
	Symbol      string
	CompanyName string
	Price       float64
	MarketCap   float64
	TrailingPE  float64
	ForwardPE   float64
	EpsTrailing float64
	EpsForward  float64
}

type EquityRepository interface {
	GetSnapshot(symbol string) (*EquitySnapshot, error)
}

func NewEquityRepository() EquityRepository {
	return equityRepositoryHandler{}
}

type equityRepositoryHandler struct{}

func (h equityRepositoryHandler) GetSnapshot(symbol string) (*EquitySnapshot, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get quote for %s: %s", domain.ErrTransientProvider, symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}

	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	if name == "" {
		name = symbol
	}

	return &EquitySnapshot{
		Symbol:      symbol,
		CompanyName: name,
		Price:       q.RegularMarketPrice,
		MarketCap:   float64(q.MarketCap),
		TrailingPE:  q.TrailingPE,
		ForwardPE:   q.ForwardPE,
		EpsTrailing: q.EpsTrailingTwelveMonths,
		EpsForward:  q.EpsForward,
	}, nil
}
