package service

import (
	"context"
	"fmt"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/internal/repository"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

type BackfillInput struct {
	Symbol      string
	CompanyName string
	Sector      string

	LookbackDays      int
	StepDays          int
	HoldingPeriodDays int
	NewsWindowDays    int
	MaxArticles       int

	// Now anchors the walk; zero means the wall clock.
	Now time.Time
}

// BackfillReport describes how far a run progressed. Every committed row
// survives whatever ended the run, including user interruption.
type BackfillReport struct {
	RunId       uuid.UUID
	Symbol      string
	Steps       int
	RowsWritten int
	TotalRows   int

	SkippedNoTradingDay     int
	SkippedIncompleteWindow int
	SkippedNoNews           int
	SkippedClassifier       int

	LastSimulatedDate time.Time
}

// BackfillService replays history for one instrument: a date cursor
// walks forward in fixed steps, and at each step the signals knowable at
// that date are paired with the realized return over the holding period
// and appended to the training dataset.
type BackfillService interface {
	Backfill(ctx context.Context, in BackfillInput) (*BackfillReport, error)
}

func NewBackfillService(
	priceRepository repository.PriceRepository,
	newsRepository repository.NewsRepository,
	classifierRepository repository.ClassifierRepository,
	judgeService JudgeService,
	fundamentalsService FundamentalsService,
	fusionService FusionService,
	trainingDataRepository repository.TrainingDataRepository,
	log *zap.SugaredLogger,
) BackfillService {
	return backfillServiceHandler{
		PriceRepository:        priceRepository,
		NewsRepository:         newsRepository,
		ClassifierRepository:   classifierRepository,
		JudgeService:           judgeService,
		FundamentalsService:    fundamentalsService,
		FusionService:          fusionService,
		TrainingDataRepository: trainingDataRepository,
		log:                    log,
	}
}

type backfillServiceHandler struct {
	PriceRepository        repository.PriceRepository
	NewsRepository         repository.NewsRepository
	ClassifierRepository   repository.ClassifierRepository
	JudgeService           JudgeService
	FundamentalsService    FundamentalsService
	FusionService          FusionService
	TrainingDataRepository repository.TrainingDataRepository
	log                    *zap.SugaredLogger
}

func (h backfillServiceHandler) Backfill(ctx context.Context, in BackfillInput) (*BackfillReport, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	report := &BackfillReport{
		RunId:  uuid.New(),
		Symbol: in.Symbol,
	}

	// price and news fetch failures are fatal - without either series
	// there is nothing to simulate
	histStart := now.AddDate(-2, 0, 0)
	hist, err := h.PriceRepository.GetHistory(ctx, in.Symbol, histStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", in.Symbol, err)
	}

	newsStart := now.AddDate(0, 0, -(in.LookbackDays + in.NewsWindowDays))
	allNews, err := h.NewsRepository.GetNews(ctx, in.Symbol, in.CompanyName, newsStart, now, in.MaxArticles)
	if err != nil {
		return nil, fmt.Errorf("failed to load news history for %s: %w", in.Symbol, err)
	}
	if len(allNews) == 0 {
		return nil, fmt.Errorf("no news found for %s over the lookback window", in.Symbol)
	}
	h.log.Infow("loaded backfill inputs",
		"symbol", in.Symbol,
		"tradingDays", len(hist),
		"articles", len(allNews),
		"newest", allNews[0].PublishedAt.Format(time.DateOnly),
		"oldest", allNews[len(allNews)-1].PublishedAt.Format(time.DateOnly),
	)

	vector, _, err := h.FundamentalsService.Compute(ctx, in.Symbol, in.Sector)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fundamentals for %s: %w", in.Symbol, err)
	}
	fundamentalScore := h.FusionService.FundamentalScore(vector)

	cursor := now.AddDate(0, 0, -in.LookbackDays)
	end := now.AddDate(0, 0, -in.HoldingPeriodDays)

	// the cursor advances unconditionally, so the walk terminates in at
	// most lookbackDays/stepDays iterations no matter how many steps
	// skip
	for ; cursor.Before(end); cursor = cursor.AddDate(0, 0, in.StepDays) {
		if err := ctx.Err(); err != nil {
			h.log.Infow("backfill interrupted, committed rows are intact",
				"symbol", in.Symbol,
				"lastSimulatedDate", report.LastSimulatedDate.Format(time.DateOnly),
				"rowsWritten", report.RowsWritten,
			)
			return report, err
		}

		report.Steps++
		report.LastSimulatedDate = cursor

		row, skip := h.simulateStep(ctx, in, report, hist, allNews, cursor, fundamentalScore)
		if skip {
			continue
		}

		totalRows, err := h.TrainingDataRepository.AppendRow(*row)
		if err != nil {
			return report, fmt.Errorf("failed to append feature row for %s: %w", row.Date, err)
		}
		report.RowsWritten++
		report.TotalRows = totalRows

		h.log.Infow("saved feature row",
			"date", row.Date,
			"judgmentSentiment", fmt.Sprintf("%.2f", row.JudgmentSentiment),
			"classifierSentiment", fmt.Sprintf("%.2f", row.ClassifierSentiment),
			"forwardReturn", fmt.Sprintf("%.2f%%", row.ForwardReturn*100),
			"totalRows", totalRows,
		)
	}

	return report, nil
}

// simulateStep evaluates one simulated date. All step-level failures are
// absorbed here as skips - the walk continues past them.
func (h backfillServiceHandler) simulateStep(
	ctx context.Context,
	in BackfillInput,
	report *BackfillReport,
	hist domain.PriceSeries,
	allNews []domain.Article,
	cursor time.Time,
	fundamentalScore float64,
) (*domain.FeatureRow, bool) {
	startIdx := hist.IndexAtOrAfter(cursor)
	if startIdx < 0 {
		report.SkippedNoTradingDay++
		return nil, true
	}

	entryIdx := startIdx + 1
	exitIdx := entryIdx + in.HoldingPeriodDays
	if exitIdx >= len(hist) {
		// incomplete window near the end of history
		report.SkippedIncompleteWindow++
		return nil, true
	}

	windowStart := cursor.AddDate(0, 0, -in.NewsWindowDays)
	window := articlesInWindow(allNews, windowStart, cursor)
	if len(window) == 0 {
		report.SkippedNoNews++
		return nil, true
	}

	classifierSentiment, err := h.classifierSentiment(ctx, window)
	if err != nil {
		h.log.Warnf("classifier failed on %s, skipping step: %v", cursor.Format(time.DateOnly), err)
		report.SkippedClassifier++
		return nil, true
	}

	judgmentScores := make([]float64, 0, len(window))
	for _, article := range window {
		judgment := h.JudgeService.Judge(ctx, article)
		judgmentScores = append(judgmentScores, judgment.Score*judgment.Confidence)
	}
	judgmentSentiment, _ := stats.Mean(judgmentScores)

	priceAtEntry := hist[entryIdx].Open
	priceAtExit := hist[exitIdx].Open

	return &domain.FeatureRow{
		Date:                cursor.Format(time.DateOnly),
		Instrument:          in.Symbol,
		FundamentalScore:    fundamentalScore,
		ClassifierSentiment: classifierSentiment,
		JudgmentSentiment:   judgmentSentiment,
		PriceAtEntry:        priceAtEntry,
		ForwardReturn:       (priceAtExit - priceAtEntry) / priceAtEntry,
	}, false
}

func (h backfillServiceHandler) classifierSentiment(ctx context.Context, window []domain.Article) (float64, error) {
	texts := make([]string, 0, len(window))
	for _, article := range window {
		texts = append(texts, article.Text())
	}

	probs, err := h.ClassifierRepository.Classify(ctx, texts)
	if err != nil {
		return 0, err
	}

	scores := make([]float64, 0, len(probs))
	for _, p := range probs {
		scores = append(scores, p.Score())
	}
	return stats.Mean(scores)
}

func articlesInWindow(articles []domain.Article, start, end time.Time) []domain.Article {
	window := []domain.Article{}
	for _, a := range articles {
		if !a.PublishedAt.Before(start) && !a.PublishedAt.After(end) {
			window = append(window, a)
		}
	}
	return window
}
