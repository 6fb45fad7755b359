package service

import (
	"fmt"

	"newsalpha/internal/repository"
	"newsalpha/internal/util"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// macroReserve is the fusion weight held back for the macro signal. The
// backfill runs with a constant macro score, so regression can say
// nothing about it.
const macroReserve = 0.1

const minCalibrationRows = 10

type CalibrationResult struct {
	Rows int

	// raw per-feature regression slopes, floored at zero - a negative
	// weight would mean "good news, so sell", which is not a signal
	// this system trades on
	FundSlope       float64
	ClassifierSlope float64
	JudgmentSlope   float64

	Weights        util.FusionWeights
	SentimentSplit util.SentimentSplit
}

// CalibrationService fits the training dataset and turns the fit into
// suggested fusion weights.
type CalibrationService interface {
	Calibrate() (*CalibrationResult, error)
	Apply(result *CalibrationResult, cfg *util.ScoringConfig, configPath string) error
}

func NewCalibrationService(
	trainingDataRepository repository.TrainingDataRepository,
	log *zap.SugaredLogger,
) CalibrationService {
	return calibrationServiceHandler{
		TrainingDataRepository: trainingDataRepository,
		log:                    log,
	}
}

type calibrationServiceHandler struct {
	TrainingDataRepository repository.TrainingDataRepository
	log                    *zap.SugaredLogger
}

func (h calibrationServiceHandler) Calibrate() (*CalibrationResult, error) {
	rows, err := h.TrainingDataRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load training data: %w", err)
	}
	if len(rows) < minCalibrationRows {
		return nil, fmt.Errorf("need at least %d rows to calibrate, have %d", minCalibrationRows, len(rows))
	}

	returns := make([]float64, 0, len(rows))
	fund := make([]float64, 0, len(rows))
	classifier := make([]float64, 0, len(rows))
	judgment := make([]float64, 0, len(rows))
	for _, row := range rows {
		returns = append(returns, row.ForwardReturn)
		fund = append(fund, row.FundamentalScore)
		classifier = append(classifier, row.ClassifierSentiment)
		judgment = append(judgment, row.JudgmentSentiment)
	}

	result := &CalibrationResult{
		Rows:            len(rows),
		FundSlope:       max(0, slope(fund, returns)),
		ClassifierSlope: max(0, slope(classifier, returns)),
		JudgmentSlope:   max(0, slope(judgment, returns)),
	}

	total := result.FundSlope + result.ClassifierSlope + result.JudgmentSlope
	if total == 0 {
		return nil, fmt.Errorf("no signal found in %d rows, keeping current weights", len(rows))
	}

	// distribute everything but the macro reserve in proportion to the
	// learned slopes
	available := 1 - macroReserve
	sentimentTotal := result.ClassifierSlope + result.JudgmentSlope

	result.Weights = util.FusionWeights{
		Fundamentals: result.FundSlope / total * available,
		Sentiment:    sentimentTotal / total * available,
		Macro:        macroReserve,
	}

	classifierSplit := 0.5
	if sentimentTotal > 0 {
		classifierSplit = result.ClassifierSlope / sentimentTotal
	}
	result.SentimentSplit = util.SentimentSplit{
		Classifier: classifierSplit,
		Judgment:   1 - classifierSplit,
	}

	h.log.Infow("calibration complete",
		"rows", result.Rows,
		"fundamentals", fmt.Sprintf("%.2f", result.Weights.Fundamentals),
		"sentiment", fmt.Sprintf("%.2f", result.Weights.Sentiment),
		"classifierSplit", fmt.Sprintf("%.2f", result.SentimentSplit.Classifier),
	)

	return result, nil
}

// Apply writes the calibrated weights into the config file.
func (h calibrationServiceHandler) Apply(result *CalibrationResult, cfg *util.ScoringConfig, configPath string) error {
	cfg.Weights = result.Weights
	cfg.SentimentSplit = result.SentimentSplit

	if err := util.SaveScoringConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save calibrated config: %w", err)
	}
	return nil
}

// minFeatureVariance separates a feature that actually moves from one
// that is constant up to floating-point noise. Dividing by a near-zero
// variance would manufacture a slope out of rounding error.
const minFeatureVariance = 1e-9

// slope is the simple least-squares slope of y on x. Both moments use
// the same n-1 normalization so they cancel correctly in the ratio.
func slope(x, y []float64) float64 {
	cov, err := stats.Covariance(x, y)
	if err != nil {
		return 0
	}
	varX, err := stats.SampleVariance(x)
	if err != nil || varX < minFeatureVariance {
		return 0
	}
	return cov / varX
}
