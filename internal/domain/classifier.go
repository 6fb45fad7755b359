package domain

// ClassProbabilities is a classifier's per-class distribution over one
// article text.
type ClassProbabilities struct {
	Negative float64 `json:"probabilityNegative"`
	Neutral  float64 `json:"probabilityNeutral"`
	Positive float64 `json:"probabilityPositive"`
}

// Score maps the distribution onto [-0.5, 1.5] with the fixed linear map
// used everywhere a classifier probability becomes a sentiment score.
// Positive probability is deliberately over-weighted relative to
// negative.
func (p ClassProbabilities) Score() float64 {
	return -0.5*p.Negative + 0*p.Neutral + 1.5*p.Positive
}
