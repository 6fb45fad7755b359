package domain

// FundamentalsVector holds the six normalized fundamentals components,
// each in [0, 1]: earnings growth, valuation, momentum stability, analyst
// sentiment, sector health, and company maturity.
type FundamentalsVector struct {
	EarningsGrowth    float64 `json:"E"`
	Valuation         float64 `json:"V"`
	MomentumStability float64 `json:"M"`
	AnalystSentiment  float64 `json:"A"`
	SectorHealth      float64 `json:"S"`
	CompanyMaturity   float64 `json:"C"`
}

// AnalystConsensus summarizes current analyst coverage: a mean rating
// on the 1 (strong buy) to 5 (strong sell) scale and how many analysts
// it aggregates. The zero value means no coverage data.
type AnalystConsensus struct {
	MeanRating  float64
	NumAnalysts int
}

// MacroIndicators are the raw macro series values used for the macro
// score.
type MacroIndicators struct {
	Unemployment float64 `json:"unemployment"`
	CpiYoY       float64 `json:"cpi_yoy"`
	InterestRate float64 `json:"interest_rate"`
}
