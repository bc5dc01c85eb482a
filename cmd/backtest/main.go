package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
	"github.com/cryptoalpha/alpha-agent/internal/engine"
	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/logger"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/config"
	"github.com/cryptoalpha/alpha-agent/pkg/data"
	"github.com/cryptoalpha/alpha-agent/pkg/reporting"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

func main() {
	var (
		scenario  = flag.String("scenario", "trend_reversal", "Scenario to run: trend_reversal or historical")
		days      = flag.Int("days", 30, "Days of generated data for the historical scenario")
		seed      = flag.Int64("seed", 42, "Random seed for generated data")
		dataFile  = flag.String("data", "", "CSV data file (overrides the scenario)")
		symbol    = flag.String("symbol", "BTC/USD", "Trading pair")
		envFile   = flag.String("env", "", "Env file to load before reading configuration")
		jsonPath  = flag.String("json", "", "Write a JSON report to this path")
		excelPath = flag.String("excel", "", "Write an Excel report to this path")
	)
	flag.Parse()

	if err := run(*scenario, *days, *seed, *dataFile, *symbol, *envFile, *jsonPath, *excelPath); err != nil {
		fmt.Fprintf(os.Stderr, "backtest failed: %v\n", err)
		os.Exit(1)
	}
}

func run(scenario string, days int, seed int64, dataFile, symbol, envFile, jsonPath, excelPath string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment == "development")
	if err != nil {
		return err
	}
	defer log.Sync()

	bars, err := loadBars(scenario, days, seed, dataFile, symbol)
	if err != nil {
		return err
	}
	if err := data.ValidateData(bars); err != nil {
		return fmt.Errorf("invalid input data: %w", err)
	}

	sim := backtest.NewSimulator(buildEngine(cfg, log), cfg.Trading.InitialPortfolioValue, log)
	results := sim.Run(scenario, bars)

	reporting.NewConsoleReporter().OutputResults(results)

	if jsonPath != "" {
		if err := reporting.WriteJSONReport(results, jsonPath); err != nil {
			return err
		}
		log.Info("JSON report written", zap.String("path", jsonPath))
	}
	if excelPath != "" {
		if err := reporting.WriteExcelReport(results, excelPath); err != nil {
			return err
		}
		log.Info("Excel report written", zap.String("path", excelPath))
	}
	return nil
}

func loadBars(scenario string, days int, seed int64, dataFile, symbol string) ([]types.OHLCV, error) {
	if dataFile != "" {
		return data.NewCSVProvider(symbol).LoadData(dataFile)
	}

	switch scenario {
	case "trend_reversal":
		return data.TrendReversalScenario(symbol), nil
	case "historical":
		return data.GenerateSampleData(symbol, days, seed), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}
}

func buildEngine(cfg *config.Config, log *zap.Logger) *engine.Engine {
	riskMgr := risk.NewManager(risk.Params{
		MaxPositionSize: cfg.Trading.MaxPositionSize,
		MaxDailyLoss:    cfg.Risk.MaxDailyLoss,
		PortfolioValue:  cfg.Trading.InitialPortfolioValue,
	}, log)

	providers := []strategy.SignalProvider{
		strategy.NewMomentum(log),
		strategy.NewMeanReversion(log),
		strategy.NewBreakout(log),
	}

	return engine.NewEngine(
		engine.Config{
			MaxPositionSize: cfg.Trading.MaxPositionSize,
			StopLossPct:     cfg.Risk.StopLossPct,
			TakeProfitPct:   cfg.Risk.TakeProfitPct,
		},
		indicators.NewAnalyzer(log),
		prediction.NewPredictor(log),
		riskMgr,
		providers,
		log,
	)
}
