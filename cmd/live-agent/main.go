package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/engine"
	"github.com/cryptoalpha/alpha-agent/internal/exchange/bybit"
	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/logger"
	"github.com/cryptoalpha/alpha-agent/internal/monitoring"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/recall"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/config"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const klineWindow = 100

func main() {
	var (
		envFile  = flag.String("env", "", "Env file to load before reading configuration")
		interval = flag.Duration("interval", time.Minute, "Delay between analysis cycles")
	)
	flag.Parse()

	if err := run(*envFile, *interval); err != nil {
		fmt.Fprintf(os.Stderr, "agent failed: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string, interval time.Duration) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agent := newAgent(cfg, log)
	agent.startMonitoring(cfg.Monitoring)

	log.Info("agent started",
		zap.Strings("pairs", cfg.Trading.Pairs),
		zap.Bool("live_trading", cfg.Trading.EnableLiveTrading),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		agent.cycle(ctx)

		select {
		case <-ctx.Done():
			log.Info("agent stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// agent owns one decision engine per trading pair. Breakout level
// history and the shared risk manager's daily P&L are the only state
// carried between cycles besides the position ledger.
type agent struct {
	cfg     *config.Config
	log     *zap.Logger
	engines map[string]*engine.Engine
	riskMgr *risk.Manager
	market  *bybit.Client
	recall  *recall.Client
	health  *monitoring.HealthChecker

	positions types.Positions
	avgCosts  map[string]float64
}

func newAgent(cfg *config.Config, log *zap.Logger) *agent {
	riskMgr := risk.NewManager(risk.Params{
		MaxPositionSize: cfg.Trading.MaxPositionSize,
		MaxDailyLoss:    cfg.Risk.MaxDailyLoss,
		PortfolioValue:  cfg.Trading.InitialPortfolioValue,
	}, log)

	engines := make(map[string]*engine.Engine, len(cfg.Trading.Pairs))
	for _, pair := range cfg.Trading.Pairs {
		providers := []strategy.SignalProvider{
			strategy.NewMomentum(log),
			strategy.NewMeanReversion(log),
			strategy.NewBreakout(log),
		}
		engines[pair] = engine.NewEngine(
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

	return &agent{
		cfg:     cfg,
		log:     log,
		engines: engines,
		riskMgr: riskMgr,
		market: bybit.NewClient(bybit.Config{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.Secret,
			Testnet:   cfg.Exchange.Testnet,
		}),
		recall:    recall.NewClient(cfg.Recall.APIKey, cfg.Recall.BaseURL, cfg.Trading.AgentName, log),
		health:    monitoring.NewHealthChecker(),
		positions: types.Positions{},
		avgCosts:  map[string]float64{},
	}
}

func (a *agent) startMonitoring(cfg config.MonitoringConfig) {
	go a.serve(cfg.PrometheusPort, "/metrics", monitoring.NewMetricsHandler())
	go a.serve(cfg.HealthPort, "/health", a.health)
}

func (a *agent) serve(port int, path string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	addr := fmt.Sprintf(":%d", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.log.Error("monitoring server stopped", zap.String("addr", addr), zap.Error(err))
	}
}

func (a *agent) cycle(ctx context.Context) {
	for _, pair := range a.cfg.Trading.Pairs {
		if ctx.Err() != nil {
			return
		}
		a.analyzePair(ctx, pair)
	}
}

func (a *agent) analyzePair(ctx context.Context, pair string) {
	bars, err := a.market.GetKlines(ctx, bybit.KlineParams{
		Pair:     pair,
		Interval: bybit.Interval1h,
		Limit:    klineWindow,
	})
	if err != nil {
		a.health.SetConnected(false)
		monitoring.RecordError("market_data")
		a.log.Error("failed to fetch market data", zap.String("pair", pair), zap.Error(err))
		return
	}
	a.health.SetConnected(true)

	eng := a.engines[pair]
	analysis := eng.AnalyzeMarket(bars, a.positions.Clone())
	if analysis.Err != nil {
		monitoring.RecordError("analysis")
		return
	}

	a.health.RecordAnalysis(analysis.CurrentPrice)
	monitoring.UpdatePrice(pair, analysis.CurrentPrice)
	monitoring.UpdateRiskScore(analysis.Risk.RiskScore)
	for _, rec := range analysis.Recommendations {
		monitoring.UpdateStrategyStrength(rec.Strategy, rec.Recommendation.Strength)
	}

	decision := eng.MakeTradingDecision(analysis)
	if decision == nil {
		return
	}

	if !a.cfg.Trading.EnableLiveTrading {
		a.log.Info("dry run: trade not submitted",
			zap.String("pair", pair),
			zap.String("action", decision.Action.String()),
			zap.Float64("quantity", decision.Quantity),
		)
		return
	}

	if err := a.recall.ExecuteTrade(ctx, decision); err != nil {
		monitoring.RecordError("trade_submission")
		a.log.Error("trade submission failed", zap.Error(err))
		return
	}

	a.applyFill(decision, analysis.CurrentPrice)
	monitoring.RecordTrade(decision.Symbol, decision.Action.String(), decision.Quantity)
}

// applyFill mirrors the submitted trade into the local ledger and feeds
// realized P&L into the risk manager's daily total.
func (a *agent) applyFill(decision *engine.TradeDecision, price float64) {
	held := a.positions[decision.Symbol]

	if decision.Action == strategy.SignalBuy {
		total := held + decision.Quantity
		if total > 0 {
			a.avgCosts[decision.Symbol] = (a.avgCosts[decision.Symbol]*held + price*decision.Quantity) / total
		}
		a.positions[decision.Symbol] = total
		return
	}

	sold := decision.Quantity
	if sold > held {
		sold = held
	}
	if sold <= 0 {
		return
	}
	a.positions[decision.Symbol] = held - sold
	realized := (price - a.avgCosts[decision.Symbol]) * sold
	a.riskMgr.UpdateDailyPnL(risk.TradeResult{PnL: realized, HasPnL: true})
}
