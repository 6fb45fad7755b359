package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"newsalpha/internal/repository"
	"newsalpha/internal/service"
	"newsalpha/internal/util"
	"newsalpha/pkg/finnhub"
	"newsalpha/pkg/fred"

	"go.uber.org/zap"
)

type Dependencies struct {
	Secrets *util.Secrets
	Config  *util.ScoringConfig
	Log     *zap.SugaredLogger

	EquityRepository       repository.EquityRepository
	PriceRepository        repository.PriceRepository
	NewsRepository         repository.NewsRepository
	AnalystRepository      repository.AnalystRepository
	MacroRepository        repository.MacroRepository
	ClassifierRepository   repository.ClassifierRepository
	SentimentCache         repository.SentimentCacheRepository
	TrainingDataRepository repository.TrainingDataRepository

	JudgeService        service.JudgeService
	FusionService       service.FusionService
	FundamentalsService service.FundamentalsService
	AnalysisService     service.AnalysisService
	BackfillService     service.BackfillService
	CalibrationService  service.CalibrationService
}

func InitializeDependencies(configPath, dataDir string, log *zap.SugaredLogger) (*Dependencies, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, err
	}
	if err := util.RequireSecret("FINNHUB_API_KEY", secrets.FinnhubApiKey); err != nil {
		return nil, err
	}
	if err := util.RequireSecret("OPENAI_API_KEY", secrets.ChatGPTApiKey); err != nil {
		return nil, err
	}
	if err := util.RequireSecret("NEWSALPHA_INFERENCE_URL", secrets.InferenceUrl); err != nil {
		return nil, err
	}

	cfg, err := util.LoadScoringConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create data dir %s: %w", dataDir, err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	gptRepository, err := repository.NewGptRepository(secrets.ChatGPTApiKey)
	if err != nil {
		return nil, err
	}

	finnhubClient := finnhub.NewClient(httpClient, secrets.FinnhubApiKey)

	equityRepository := repository.NewEquityRepository()
	priceRepository := repository.NewPriceRepository()
	newsRepository := repository.NewNewsRepository(finnhubClient)
	analystRepository := repository.NewAnalystRepository(finnhubClient)
	macroRepository := repository.NewMacroRepository(fred.NewClient(httpClient, secrets.FredApiKey))
	classifierRepository := repository.NewClassifierRepository(httpClient, secrets.InferenceUrl)
	sentimentCache := repository.NewSentimentCacheRepository(filepath.Join(dataDir, "sentiment_cache.json"), log)
	trainingDataRepository := repository.NewTrainingDataRepository(filepath.Join(dataDir, "training_data.csv"), log)

	judgeService := service.NewJudgeService(sentimentCache, gptRepository, log)
	fusionService := service.NewFusionService(cfg)
	fundamentalsService := service.NewFundamentalsService(equityRepository, priceRepository, analystRepository, log)
	analysisService := service.NewAnalysisService(
		newsRepository,
		classifierRepository,
		macroRepository,
		judgeService,
		fundamentalsService,
		fusionService,
		log,
	)
	backfillService := service.NewBackfillService(
		priceRepository,
		newsRepository,
		classifierRepository,
		judgeService,
		fundamentalsService,
		fusionService,
		trainingDataRepository,
		log,
	)
	calibrationService := service.NewCalibrationService(trainingDataRepository, log)

	return &Dependencies{
		Secrets:                secrets,
		Config:                 cfg,
		Log:                    log,
		EquityRepository:       equityRepository,
		PriceRepository:        priceRepository,
		NewsRepository:         newsRepository,
		AnalystRepository:      analystRepository,
		MacroRepository:        macroRepository,
		ClassifierRepository:   classifierRepository,
		SentimentCache:         sentimentCache,
		TrainingDataRepository: trainingDataRepository,
		JudgeService:           judgeService,
		FusionService:          fusionService,
		FundamentalsService:    fundamentalsService,
		AnalysisService:        analysisService,
		BackfillService:        backfillService,
		CalibrationService:     calibrationService,
	}, nil
}
