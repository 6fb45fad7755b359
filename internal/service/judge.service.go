package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/internal/repository"

	"go.uber.org/zap"
)

const judgmentTimeout = 30 * time.Second

const judgmentPromptTemplate = `Act as a financial analyst. Analyze the sentiment of the news headline below.
Return a JSON object with keys: "sentiment_label", "sentiment_score", "confidence".
sentiment_score is between -1 and 1, confidence is between 0 and 1, and
sentiment_label is one of "Positive", "Neutral", "Negative".

Examples:
Input: "Company reports record profits."
Output: { "sentiment_label": "Positive", "sentiment_score": 0.9, "confidence": 0.9 }

Input: "CEO steps down amid scandal."
Output: { "sentiment_label": "Negative", "sentiment_score": -0.8, "confidence": 0.9 }

Input: "%s"
Output:`

// JudgeService produces one sentiment judgment per article, consulting
// the content cache before paying for a model call. A single bad article
// must never abort a batch, so every failure mode degrades to the
// neutral judgment.
type JudgeService interface {
	Judge(ctx context.Context, article domain.Article) domain.SentimentJudgment
}

func NewJudgeService(
	cache repository.SentimentCacheRepository,
	gptRepository repository.GptRepository,
	log *zap.SugaredLogger,
) JudgeService {
	return judgeServiceHandler{
		Cache:   cache,
		Gpt:     gptRepository,
		Timeout: judgmentTimeout,
		log:     log,
	}
}

type judgeServiceHandler struct {
	Cache   repository.SentimentCacheRepository
	Gpt     repository.GptRepository
	Timeout time.Duration
	log     *zap.SugaredLogger
}

func (h judgeServiceHandler) Judge(ctx context.Context, article domain.Article) domain.SentimentJudgment {
	text := article.Text()

	if judgment, ok := h.Cache.Get(text); ok {
		return judgment
	}

	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	raw, err := h.Gpt.Generate(ctx, buildJudgmentPrompt(text))
	if err != nil {
		h.log.Warnf("judgment call failed for %q, using neutral: %v", truncate(article.Title, 40), err)
		return domain.NeutralJudgment()
	}

	judgment, err := parseJudgment(raw)
	if err != nil {
		h.log.Warnf("judgment output unparseable for %q, using neutral: %v", truncate(article.Title, 40), err)
		return domain.NeutralJudgment()
	}

	// transient failures are never cached - only real judgments are a
	// property of the text
	if err := h.Cache.Put(text, judgment); err != nil {
		h.log.Warnf("failed to cache judgment: %v", err)
	}

	return judgment
}

func buildJudgmentPrompt(text string) string {
	// keep quotes and newlines out of the quoted input
	clean := strings.NewReplacer(`"`, "'", "\n", " ").Replace(text)
	return fmt.Sprintf(judgmentPromptTemplate, clean)
}

type rawJudgment struct {
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	Confidence     float64 `json:"confidence"`
}

// parseJudgment locates the first well-formed JSON object inside the raw
// model output - completions routinely arrive truncated or preceded by
// extraneous tokens - and normalizes it into a judgment. A parse failure
// is a value, not an exception.
func parseJudgment(raw string) (domain.SentimentJudgment, error) {
	for offset := 0; offset < len(raw); {
		start := strings.Index(raw[offset:], "{")
		if start < 0 {
			break
		}
		start += offset

		decoder := json.NewDecoder(strings.NewReader(raw[start:]))
		var parsed rawJudgment
		if err := decoder.Decode(&parsed); err == nil {
			return normalizeJudgment(parsed), nil
		}
		offset = start + 1
	}

	return domain.SentimentJudgment{}, fmt.Errorf("%w: no JSON object found in %q", domain.ErrMalformedJudgment, truncate(raw, 120))
}

func normalizeJudgment(parsed rawJudgment) domain.SentimentJudgment {
	label := domain.SentimentLabel_Neutral
	switch strings.ToLower(strings.TrimSpace(parsed.SentimentLabel)) {
	case "positive":
		label = domain.SentimentLabel_Positive
	case "negative":
		label = domain.SentimentLabel_Negative
	}

	return domain.SentimentJudgment{
		Score:      clamp(parsed.SentimentScore, -1, 1),
		Confidence: clamp(parsed.Confidence, 0, 1),
		Label:      label,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
