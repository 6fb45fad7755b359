package service

import (
	"math"
	"testing"

	"newsalpha/internal/domain"
	"newsalpha/internal/util"

	"github.com/stretchr/testify/require"
)

func defaultFusion() FusionService {
	cfg := util.DefaultScoringConfig()
	return NewFusionService(&cfg)
}

func TestFundamentalScore(t *testing.T) {
	fusion := defaultFusion()

	t.Run("default weights sum to one", func(t *testing.T) {
		allOnes := domain.FundamentalsVector{
			EarningsGrowth:    1,
			Valuation:         1,
			MomentumStability: 1,
			AnalystSentiment:  1,
			SectorHealth:      1,
			CompanyMaturity:   1,
		}
		require.InDelta(t, 1.0, fusion.FundamentalScore(allOnes), 1e-9)
	})

	t.Run("weighted combination", func(t *testing.T) {
		v := domain.FundamentalsVector{EarningsGrowth: 1}
		require.InDelta(t, 0.4, fusion.FundamentalScore(v), 1e-9)
	})
}

func TestFinalScore(t *testing.T) {
	fusion := defaultFusion()

	t.Run("clamps to upper bound at extremes", func(t *testing.T) {
		require.Equal(t, 1.0, fusion.FinalScore(1.5, 1.0, 1.0))
	})

	t.Run("clamps to lower bound at extremes", func(t *testing.T) {
		require.Equal(t, -1.0, fusion.FinalScore(-1.5, -1.0, -1.0))
	})

	t.Run("default weights", func(t *testing.T) {
		// 0.7*0.5 + 0.2*1.0 + 0.1*(-1.0)
		require.InDelta(t, 0.45, fusion.FinalScore(0.5, 1.0, -1.0), 1e-9)
	})

	t.Run("always bounded", func(t *testing.T) {
		for _, f := range []float64{-2, -1, 0, 1, 2} {
			for _, s := range []float64{-1, 0, 1} {
				for _, m := range []float64{-1, 0, 1} {
					score := fusion.FinalScore(f, s, m)
					require.GreaterOrEqual(t, score, -1.0)
					require.LessOrEqual(t, score, 1.0)
				}
			}
		}
	})
}

func TestLabel(t *testing.T) {
	fusion := defaultFusion()

	tests := []struct {
		score float64
		want  domain.Recommendation
	}{
		{0.31, domain.Recommendation_Buy},
		{1.0, domain.Recommendation_Buy},
		{0.3, domain.Recommendation_Hold},
		{0.0, domain.Recommendation_Hold},
		{-0.3, domain.Recommendation_Hold},
		{-0.31, domain.Recommendation_Sell},
		{-1.0, domain.Recommendation_Sell},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, fusion.Label(tc.score), "score %v", tc.score)
	}
}

func TestHybridSentiment(t *testing.T) {
	fusion := defaultFusion()

	t.Run("reference example", func(t *testing.T) {
		// 0.7*1.0 + 0.3*(-1.0)*0.5
		require.InDelta(t, 0.55, fusion.HybridSentiment(1.0, -1.0, 0.5), 1e-9)
	})

	t.Run("zero confidence removes the judgment entirely", func(t *testing.T) {
		require.InDelta(t, 0.7, fusion.HybridSentiment(1.0, -1.0, 0), 1e-9)
	})

	t.Run("confidence only ever discounts", func(t *testing.T) {
		full := fusion.HybridSentiment(0, 1.0, 1.0)
		half := fusion.HybridSentiment(0, 1.0, 0.5)
		require.Less(t, half, full)
	})
}

func TestMacroScore(t *testing.T) {
	fusion := defaultFusion()

	t.Run("matches the tanh formula", func(t *testing.T) {
		indicators := domain.MacroIndicators{
			Unemployment: 4.0,
			CpiYoY:       0.03,
			InterestRate: 5.0,
		}
		want := 0.4*math.Tanh((5-5.0)/2) + 0.4*math.Tanh((5-3.0)/2) + 0.2*math.Tanh((5-4.0)/2)
		require.InDelta(t, want, fusion.MacroScore(indicators), 1e-9)
	})

	t.Run("easy conditions score higher than tight ones", func(t *testing.T) {
		easy := fusion.MacroScore(domain.MacroIndicators{Unemployment: 3, CpiYoY: 0.01, InterestRate: 1})
		tight := fusion.MacroScore(domain.MacroIndicators{Unemployment: 8, CpiYoY: 0.09, InterestRate: 8})
		require.Greater(t, easy, tight)
	})
}
