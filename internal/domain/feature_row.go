package domain

// FeatureRow is one simulated historical observation: the signals that
// were knowable at the simulated date paired with the realized forward
// return over the holding period. These rows form the training dataset
// for weight calibration.
type FeatureRow struct {
	Date                string  `csv:"date"`
	Instrument          string  `csv:"instrument"`
	FundamentalScore    float64 `csv:"fundamentalScore"`
	ClassifierSentiment float64 `csv:"classifierSentiment"`
	JudgmentSentiment   float64 `csv:"judgmentSentiment"`
	PriceAtEntry        float64 `csv:"priceAtEntry"`
	ForwardReturn       float64 `csv:"forwardReturn"`
}

// Key is the dedup key for the dataset - a rerun over the same date and
// instrument replaces the prior row instead of duplicating it.
func (r FeatureRow) Key() string {
	return r.Date + "|" + r.Instrument
}
