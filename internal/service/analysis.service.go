package service

import (
	"context"
	"fmt"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/internal/repository"
	"newsalpha/internal/util"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

const (
	liveNewsWindowDays = 30
	liveMaxArticles    = 20
)

// AnalysisResult is the full live picture for one instrument: the
// component signals, the fused score, and the recommendation.
type AnalysisResult struct {
	Symbol      string
	CompanyName string
	Price       float64

	Fundamentals     domain.FundamentalsVector
	FundamentalScore float64

	Macro      domain.MacroIndicators
	MacroScore float64

	NumArticles         int
	ClassifierSentiment float64
	JudgmentSentiment   float64
	JudgmentConfidence  float64
	CombinedSentiment   float64

	FinalScore     float64
	Recommendation domain.Recommendation
}

// AnalysisService runs the live pipeline: same scoring path as the
// backtester, pointed at today instead of a simulated date.
type AnalysisService interface {
	Analyze(ctx context.Context, symbol, sector string) (*AnalysisResult, error)
}

func NewAnalysisService(
	newsRepository repository.NewsRepository,
	classifierRepository repository.ClassifierRepository,
	macroRepository repository.MacroRepository,
	judgeService JudgeService,
	fundamentalsService FundamentalsService,
	fusionService FusionService,
	log *zap.SugaredLogger,
) AnalysisService {
	return analysisServiceHandler{
		NewsRepository:       newsRepository,
		ClassifierRepository: classifierRepository,
		MacroRepository:      macroRepository,
		JudgeService:         judgeService,
		FundamentalsService:  fundamentalsService,
		FusionService:        fusionService,
		log:                  log,
	}
}

type analysisServiceHandler struct {
	NewsRepository       repository.NewsRepository
	ClassifierRepository repository.ClassifierRepository
	MacroRepository      repository.MacroRepository
	JudgeService         JudgeService
	FundamentalsService  FundamentalsService
	FusionService        FusionService
	log                  *zap.SugaredLogger
}

func (h analysisServiceHandler) Analyze(ctx context.Context, symbol, sector string) (*AnalysisResult, error) {
	vector, snapshot, err := h.FundamentalsService.Compute(ctx, symbol, sector)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fundamentals: %w", err)
	}
	fundamentalScore := h.FusionService.FundamentalScore(vector)

	indicators, err := h.MacroRepository.GetIndicators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch macro indicators: %w", err)
	}
	macroScore := h.FusionService.MacroScore(indicators)

	result := &AnalysisResult{
		Symbol:           symbol,
		CompanyName:      snapshot.CompanyName,
		Price:            snapshot.Price,
		Fundamentals:     vector,
		FundamentalScore: fundamentalScore,
		Macro:            indicators,
		MacroScore:       macroScore,
	}

	// the relevance filter matches the name as a substring, so it gets
	// the cleaned form, not the registered "Apple Inc."
	if err := h.scoreSentiment(ctx, symbol, util.ExtractCompanyName(snapshot.CompanyName), result); err != nil {
		return nil, err
	}

	result.FinalScore = h.FusionService.FinalScore(fundamentalScore, result.CombinedSentiment, macroScore)
	result.Recommendation = h.FusionService.Label(result.FinalScore)

	h.log.Infow("analysis complete",
		"symbol", symbol,
		"finalScore", fmt.Sprintf("%.2f", result.FinalScore),
		"recommendation", result.Recommendation,
		"articles", result.NumArticles,
	)

	return result, nil
}

// scoreSentiment computes the hybrid sentiment over the most recent news
// window. No news is not an error - sentiment just contributes nothing.
func (h analysisServiceHandler) scoreSentiment(ctx context.Context, symbol, companyName string, result *AnalysisResult) error {
	now := time.Now().UTC()
	articles, err := h.NewsRepository.GetNews(ctx, symbol, companyName, now.AddDate(0, 0, -liveNewsWindowDays), now, liveMaxArticles)
	if err != nil {
		return fmt.Errorf("failed to fetch news: %w", err)
	}
	result.NumArticles = len(articles)
	if len(articles) == 0 {
		return nil
	}

	texts := make([]string, 0, len(articles))
	for _, a := range articles {
		texts = append(texts, a.Text())
	}
	probs, err := h.ClassifierRepository.Classify(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to classify news: %w", err)
	}

	classifierScores := make([]float64, 0, len(probs))
	for _, p := range probs {
		classifierScores = append(classifierScores, p.Score())
	}

	judgmentScores := make([]float64, 0, len(articles))
	confidences := make([]float64, 0, len(articles))
	for _, article := range articles {
		judgment := h.JudgeService.Judge(ctx, article)
		judgmentScores = append(judgmentScores, judgment.Score)
		confidences = append(confidences, judgment.Confidence)
	}

	result.ClassifierSentiment, _ = stats.Mean(classifierScores)
	result.JudgmentSentiment, _ = stats.Mean(judgmentScores)
	result.JudgmentConfidence, _ = stats.Mean(confidences)
	result.CombinedSentiment = h.FusionService.HybridSentiment(
		result.ClassifierSentiment,
		result.JudgmentSentiment,
		result.JudgmentConfidence,
	)

	return nil
}
