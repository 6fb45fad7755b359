package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"newsalpha/internal/logger"
	"newsalpha/internal/service"
	"newsalpha/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagDataDir    string
)

func main() {
	log := logger.New()
	defer log.Sync()

	// ctrl-c cancels between steps; committed rows stay intact
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.AddToContext(ctx, log)

	root := &cobra.Command{
		Use:           "newsalpha",
		Short:         "news sentiment + fundamentals stock signal with a temporal backtester",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "config.json", "scoring config file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "data", "directory for the sentiment cache and training dataset")

	root.AddCommand(newAnalyzeCmd(), newBackfillCmd(), newCalibrateCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var sector string

	cmd := &cobra.Command{
		Use:   "analyze TICKER",
		Short: "run the live analysis pipeline for one instrument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := InitializeDependencies(flagConfigPath, flagDataDir, logger.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			if err := util.RequireSecret("FRED_API_KEY", deps.Secrets.FredApiKey); err != nil {
				return err
			}

			result, err := deps.AnalysisService.Analyze(cmd.Context(), strings.ToUpper(args[0]), sector)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (%s) @ %.2f\n", result.CompanyName, result.Symbol, result.Price)
			fmt.Printf("  fundamentals: %.2f  sentiment: %.2f (%d articles)  macro: %.2f\n",
				result.FundamentalScore, result.CombinedSentiment, result.NumArticles, result.MacroScore)
			fmt.Printf("  final score:  %.2f -> %s\n", result.FinalScore, result.Recommendation)
			return nil
		},
	}
	cmd.Flags().StringVar(&sector, "sector", "", "sector name for valuation and ETF comparison")

	return cmd
}

func newBackfillCmd() *cobra.Command {
	var (
		sector      string
		lookback    int
		step        int
		holding     int
		newsWindow  int
		maxArticles int
	)

	cmd := &cobra.Command{
		Use:   "backfill TICKER [TICKER...]",
		Short: "replay history and append feature rows to the training dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := InitializeDependencies(flagConfigPath, flagDataDir, logger.FromContext(cmd.Context()))
			if err != nil {
				return err
			}

			for _, ticker := range args {
				ticker = strings.ToUpper(ticker)

				companyName := ticker
				if snapshot, err := deps.EquityRepository.GetSnapshot(ticker); err == nil {
					companyName = util.ExtractCompanyName(snapshot.CompanyName)
				}

				report, err := deps.BackfillService.Backfill(cmd.Context(), service.BackfillInput{
					Symbol:            ticker,
					CompanyName:       companyName,
					Sector:            sector,
					LookbackDays:      lookback,
					StepDays:          step,
					HoldingPeriodDays: holding,
					NewsWindowDays:    newsWindow,
					MaxArticles:       maxArticles,
				})
				if report != nil {
					fmt.Printf("%s: run %s reached %s, %d/%d steps wrote rows (%d total in dataset)\n",
						ticker, report.RunId, report.LastSimulatedDate.Format(time.DateOnly),
						report.RowsWritten, report.Steps, report.TotalRows)
				}
				if errors.Is(err, context.Canceled) {
					fmt.Println("stopped by user - all committed rows were saved")
					return nil
				}
				if err != nil {
					deps.Log.Errorf("backfill failed for %s: %v", ticker, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sector, "sector", "", "sector name for valuation and ETF comparison")
	cmd.Flags().IntVar(&lookback, "lookback", 365, "how many days of history to replay")
	cmd.Flags().IntVar(&step, "step", 7, "days between simulated entries")
	cmd.Flags().IntVar(&holding, "holding", 14, "holding period in trading days")
	cmd.Flags().IntVar(&newsWindow, "news-window", 30, "days of news feeding each simulated entry")
	cmd.Flags().IntVar(&maxArticles, "max-articles", 1000, "cap on fetched articles per ticker")

	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "fit fusion weights to the training dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := InitializeDependencies(flagConfigPath, flagDataDir, logger.FromContext(cmd.Context()))
			if err != nil {
				return err
			}

			result, err := deps.CalibrationService.Calibrate()
			if err != nil {
				return err
			}

			fmt.Printf("fit over %d rows\n", result.Rows)
			fmt.Printf("  fundamentals: %.2f\n", result.Weights.Fundamentals)
			fmt.Printf("  sentiment:    %.2f (classifier %.2f / judgment %.2f)\n",
				result.Weights.Sentiment, result.SentimentSplit.Classifier, result.SentimentSplit.Judgment)
			fmt.Printf("  macro:        %.2f (fixed)\n", result.Weights.Macro)

			if apply {
				if err := deps.CalibrationService.Apply(result, deps.Config, flagConfigPath); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", flagConfigPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "write the fitted weights back to the config file")

	return cmd
}
