package util

import (
	"encoding/json"
	"fmt"
	"os"

	"newsalpha/internal/domain"
)

// ScoringConfig carries every weight and threshold used by score fusion.
// It is constructed once at startup and passed into services by
// reference - there is no process-wide mutable config.
type ScoringConfig struct {
	Weights        FusionWeights      `json:"weights"`
	FundWeights    FundamentalWeights `json:"fundWeights"`
	Thresholds     LabelThresholds    `json:"thresholds"`
	SentimentSplit SentimentSplit     `json:"sentimentSplit"`
}

type FusionWeights struct {
	Fundamentals float64 `json:"fundamentals"`
	Sentiment    float64 `json:"sentiment"`
	Macro        float64 `json:"macro"`
}

type FundamentalWeights struct {
	EarningsGrowth    float64 `json:"E"`
	Valuation         float64 `json:"V"`
	MomentumStability float64 `json:"M"`
	AnalystSentiment  float64 `json:"A"`
	CompanyMaturity   float64 `json:"C"`
	SectorHealth      float64 `json:"S"`
}

type LabelThresholds struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// SentimentSplit controls the classifier/judgment mix in the hybrid
// sentiment. Classifier + Judgment should sum to 1 by convention.
type SentimentSplit struct {
	Classifier float64 `json:"classifier"`
	Judgment   float64 `json:"judgment"`
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: FusionWeights{
			Fundamentals: 0.7,
			Sentiment:    0.2,
			Macro:        0.1,
		},
		FundWeights: FundamentalWeights{
			EarningsGrowth:    0.4,
			Valuation:         0.2,
			MomentumStability: 0.15,
			AnalystSentiment:  0.1,
			CompanyMaturity:   0.05,
			SectorHealth:      0.1,
		},
		Thresholds: LabelThresholds{
			Buy:  0.3,
			Sell: -0.3,
		},
		SentimentSplit: SentimentSplit{
			Classifier: 0.7,
			Judgment:   0.3,
		},
	}
}

// LoadScoringConfig reads the config file, falling back to defaults when
// the file is absent. A present-but-unparseable file is a configuration
// error - silently ignoring it would run with weights the operator did
// not choose.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	cfg := DefaultScoringConfig()

	f, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %s", domain.ErrConfiguration, path, err)
	}

	if err := json.Unmarshal(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: could not parse %s: %s", domain.ErrConfiguration, path, err)
	}

	return &cfg, nil
}

// SaveScoringConfig writes calibrated weights back to the config file.
func SaveScoringConfig(path string, cfg *ScoringConfig) error {
	bytes, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}
	return nil
}
