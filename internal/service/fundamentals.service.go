package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/internal/repository"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// FundamentalsService derives the six normalized fundamentals components
// from quote data and a year of price history for the instrument and its
// sector ETF.
type FundamentalsService interface {
	Compute(ctx context.Context, symbol, sector string) (domain.FundamentalsVector, *repository.EquitySnapshot, error)
}

func NewFundamentalsService(
	equityRepository repository.EquityRepository,
	priceRepository repository.PriceRepository,
	analystRepository repository.AnalystRepository,
	log *zap.SugaredLogger,
) FundamentalsService {
	return fundamentalsServiceHandler{
		EquityRepository:  equityRepository,
		PriceRepository:   priceRepository,
		AnalystRepository: analystRepository,
		log:               log,
	}
}

type fundamentalsServiceHandler struct {
	EquityRepository  repository.EquityRepository
	PriceRepository   repository.PriceRepository
	AnalystRepository repository.AnalystRepository
	log               *zap.SugaredLogger
}

func (h fundamentalsServiceHandler) Compute(ctx context.Context, symbol, sector string) (domain.FundamentalsVector, *repository.EquitySnapshot, error) {
	snapshot, err := h.EquityRepository.GetSnapshot(symbol)
	if err != nil {
		return domain.FundamentalsVector{}, nil, err
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)

	hist, err := h.PriceRepository.GetHistory(ctx, symbol, start, end)
	if err != nil {
		return domain.FundamentalsVector{}, nil, fmt.Errorf("failed to load history for %s: %w", symbol, err)
	}
	etfHist, err := h.PriceRepository.GetHistory(ctx, sectorEtf(sector), start, end)
	if err != nil {
		return domain.FundamentalsVector{}, nil, fmt.Errorf("failed to load sector etf history: %w", err)
	}

	// coverage data is nice to have - a symbol nobody rates still gets
	// scored, with A at exactly neutral
	consensus, err := h.AnalystRepository.GetConsensus(ctx, symbol)
	if err != nil {
		h.log.Warnf("analyst consensus unavailable for %s, using neutral: %v", symbol, err)
		consensus = domain.AnalystConsensus{}
	}

	vector := domain.FundamentalsVector{
		EarningsGrowth:    calcEarningsGrowth(snapshot),
		Valuation:         calcValuation(snapshot, h.peerPeAverage(sector)),
		MomentumStability: calcMomentumStability(hist, etfHist),
		AnalystSentiment:  calcAnalystSentiment(consensus.MeanRating, consensus.NumAnalysts),
		SectorHealth:      calcSectorHealth(etfHist),
		CompanyMaturity:   calcCompanyMaturity(snapshot.MarketCap),
	}

	return vector, snapshot, nil
}

// peerPeAverage prices the sector off its large-cap peers' live forward
// P/Es, falling back to the static table when no peer quote resolves.
func (h fundamentalsServiceHandler) peerPeAverage(sector string) float64 {
	pes := []float64{}
	for _, peer := range sectorTickers(sector) {
		peerSnapshot, err := h.EquityRepository.GetSnapshot(peer)
		if err != nil {
			continue
		}
		if peerSnapshot.ForwardPE > 0 {
			pes = append(pes, peerSnapshot.ForwardPE)
		} else if peerSnapshot.TrailingPE > 0 {
			pes = append(pes, peerSnapshot.TrailingPE)
		}
	}
	if len(pes) == 0 {
		return sectorPe(sector)
	}

	mean, err := stats.Mean(pes)
	if err != nil {
		return sectorPe(sector)
	}
	return mean
}

// calcEarningsGrowth normalizes forward-vs-trailing EPS growth, capped
// to [-20%, +30%], onto [0, 1].
func calcEarningsGrowth(snapshot *repository.EquitySnapshot) float64 {
	growth := 0.0
	if snapshot.EpsTrailing != 0 {
		growth = (snapshot.EpsForward - snapshot.EpsTrailing) / math.Abs(snapshot.EpsTrailing)
	}
	return interp(clamp(growth, -0.2, 0.3), -0.2, 0.3, 0, 1)
}

// calcValuation compares the stock's P/E against the sector average.
// Cheaper than the sector approaches 1, richer approaches 0.
func calcValuation(snapshot *repository.EquitySnapshot, peAvg float64) float64 {
	pe := peAvg
	if snapshot.ForwardPE > 0 {
		pe = snapshot.ForwardPE
	} else if snapshot.TrailingPE > 0 {
		pe = snapshot.TrailingPE
	}

	return clamp(peAvg/pe, 0, 1)
}

// calcMomentumStability blends volatility relative to the sector ETF
// with max drawdown. Low relative volatility and shallow drawdowns score
// high.
func calcMomentumStability(hist, etfHist domain.PriceSeries) float64 {
	closes := closesOf(hist)
	etfCloses := closesOf(etfHist)
	if len(closes) < 2 || len(etfCloses) < 2 {
		return 0.5
	}

	vols := []float64{}
	for _, lag := range []int{21, 63, 252} {
		if len(closes) > lag {
			if v, err := stats.StandardDeviation(pctChanges(closes, lag)); err == nil {
				vols = append(vols, v)
			}
		}
	}
	volatility := 0.02
	if len(vols) > 0 {
		volatility, _ = stats.Mean(vols)
	}

	etfVol, err := stats.StandardDeviation(pctChanges(etfCloses, 1))
	if err != nil || etfVol == 0 {
		return 0.5
	}
	relVolatility := volatility / etfVol

	maxDrawdown := 0.0
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if dd := (peak - c) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	mVol := interp(relVolatility, 0.5, 1.5, 1, 0)
	mDd := 1 - clamp(maxDrawdown/0.5, 0, 1)

	return clamp(0.7*mVol+0.3*mDd, 0, 1)
}

// calcAnalystSentiment maps a 1 (strong buy) to 5 (strong sell) mean
// rating onto [0, 1] and shrinks toward neutral when coverage is thin.
// With no coverage at all the result is exactly neutral.
func calcAnalystSentiment(meanRating float64, numAnalysts int) float64 {
	if meanRating <= 0 {
		return 0.5
	}

	a := clamp(1-(meanRating-1)/4, 0, 1)
	confidenceWeight := math.Min(float64(numAnalysts)/20, 1)
	return a*confidenceWeight + 0.5*(1-confidenceWeight)
}

// calcSectorHealth maps the sector ETF's period return from [-0.5, 1.0]
// onto [0, 1].
func calcSectorHealth(etfHist domain.PriceSeries) float64 {
	if len(etfHist) < 2 {
		return 0.5
	}
	first := etfHist[0].Close
	last := etfHist[len(etfHist)-1].Close
	if first == 0 {
		return 0.5
	}
	health := (last - first) / first
	return clamp((health+0.5)/1.5, 0, 1)
}

// calcCompanyMaturity interpolates log market cap between $1B and $2T.
func calcCompanyMaturity(marketCap float64) float64 {
	if marketCap <= 0 {
		return 0
	}
	return interp(math.Log(marketCap), math.Log(1e9), math.Log(2e12), 0, 1)
}

func closesOf(series domain.PriceSeries) []float64 {
	closes := make([]float64, 0, len(series))
	for _, p := range series {
		closes = append(closes, p.Close)
	}
	return closes
}

// pctChanges returns percentage changes over the given lag, skipping
// zero-price bars.
func pctChanges(values []float64, lag int) []float64 {
	changes := []float64{}
	for i := lag; i < len(values); i++ {
		if values[i-lag] == 0 {
			continue
		}
		changes = append(changes, (values[i]-values[i-lag])/values[i-lag])
	}
	return changes
}

// interp linearly maps x from [x0, x1] onto [y0, y1], clamping at the
// ends.
func interp(x, x0, x1, y0, y1 float64) float64 {
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
