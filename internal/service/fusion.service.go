package service

import (
	"math"

	"newsalpha/internal/domain"
	"newsalpha/internal/util"
)

// FusionService owns every weighted combination in the pipeline. The
// label thresholds in particular must come from exactly one place -
// earlier revisions of this system hardcoded them at call sites with
// drifting values.
type FusionService interface {
	FundamentalScore(v domain.FundamentalsVector) float64
	MacroScore(indicators domain.MacroIndicators) float64
	HybridSentiment(classifierScore, judgmentScore, judgmentConfidence float64) float64
	FinalScore(fundamentalScore, sentimentScore, macroScore float64) float64
	Label(score float64) domain.Recommendation
}

func NewFusionService(cfg *util.ScoringConfig) FusionService {
	return fusionServiceHandler{
		cfg: cfg,
	}
}

type fusionServiceHandler struct {
	cfg *util.ScoringConfig
}

func (h fusionServiceHandler) FundamentalScore(v domain.FundamentalsVector) float64 {
	w := h.cfg.FundWeights
	return v.EarningsGrowth*w.EarningsGrowth +
		v.Valuation*w.Valuation +
		v.MomentumStability*w.MomentumStability +
		v.AnalystSentiment*w.AnalystSentiment +
		v.CompanyMaturity*w.CompanyMaturity +
		v.SectorHealth*w.SectorHealth
}

// MacroScore squashes each indicator through tanh around a neutral
// anchor of 5 so that one extreme reading saturates instead of dominating
// the composite.
func (h fusionServiceHandler) MacroScore(indicators domain.MacroIndicators) float64 {
	interestRateScore := math.Tanh((5 - indicators.InterestRate) / 2)
	cpiScore := math.Tanh((5 - indicators.CpiYoY*100) / 2)
	unemploymentScore := math.Tanh((5 - indicators.Unemployment) / 2)

	return 0.4*interestRateScore + 0.4*cpiScore + 0.2*unemploymentScore
}

// HybridSentiment mixes the classifier score with the judgment score.
// Confidence scales the judgment's influence down, never up - a
// low-confidence judgment should barely move the needle.
func (h fusionServiceHandler) HybridSentiment(classifierScore, judgmentScore, judgmentConfidence float64) float64 {
	w := h.cfg.SentimentSplit.Classifier
	return w*classifierScore + (1-w)*judgmentScore*judgmentConfidence
}

func (h fusionServiceHandler) FinalScore(fundamentalScore, sentimentScore, macroScore float64) float64 {
	w := h.cfg.Weights
	score := w.Fundamentals*fundamentalScore + w.Sentiment*sentimentScore + w.Macro*macroScore
	return clamp(score, -1, 1)
}

func (h fusionServiceHandler) Label(score float64) domain.Recommendation {
	switch {
	case score > h.cfg.Thresholds.Buy:
		return domain.Recommendation_Buy
	case score < h.cfg.Thresholds.Sell:
		return domain.Recommendation_Sell
	default:
		return domain.Recommendation_Hold
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
