package domain

type SentimentLabel string

const (
	SentimentLabel_Positive SentimentLabel = "Positive"
	SentimentLabel_Neutral  SentimentLabel = "Neutral"
	SentimentLabel_Negative SentimentLabel = "Negative"
)

// SentimentJudgment is the model's verdict on one article. Score is in
// [-1, 1], confidence in [0, 1]. Judgments are computed once per distinct
// article text and cached forever - the text never changes meaning.
type SentimentJudgment struct {
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
	Label      SentimentLabel `json:"label"`
}

// NeutralJudgment is the degraded result for any article whose judgment
// call failed. Zero confidence removes it from weighted averages.
func NeutralJudgment() SentimentJudgment {
	return SentimentJudgment{
		Score:      0,
		Confidence: 0,
		Label:      SentimentLabel_Neutral,
	}
}

type Recommendation string

const (
	Recommendation_Buy  Recommendation = "Buy"
	Recommendation_Hold Recommendation = "Hold"
	Recommendation_Sell Recommendation = "Sell"
)
