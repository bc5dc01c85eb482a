package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// Signal weights for the overall weighted vote.
const (
	indicatorWeight = 0.3
	strategyWeight  = 0.2
)

// Size tiers applied to the configured max position size.
const (
	sizeLarge  = 0.75
	sizeMedium = 0.5
)

// Config holds the decision parameters of the engine.
type Config struct {
	MaxPositionSize float64
	StopLossPct     float64
	TakeProfitPct   float64
}

// Engine combines technical indicators, price prediction, risk
// assessment and strategy recommendations into trading decisions.
type Engine struct {
	cfg       Config
	analyzer  *indicators.Analyzer
	predictor *prediction.Predictor
	riskMgr   *risk.Manager
	providers []strategy.SignalProvider
	logger    *zap.Logger
}

// NewEngine creates a decision engine over the given signal sources.
func NewEngine(
	cfg Config,
	analyzer *indicators.Analyzer,
	predictor *prediction.Predictor,
	riskMgr *risk.Manager,
	providers []strategy.SignalProvider,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		analyzer:  analyzer,
		predictor: predictor,
		riskMgr:   riskMgr,
		providers: providers,
		logger:    logger,
	}
}

// AnalyzeMarket runs every signal source over the window and aggregates
// the signals into one overall verdict. A failed price prediction is
// tolerated; the analysis proceeds without it.
func (e *Engine) AnalyzeMarket(window []types.OHLCV, positions types.Positions) *Analysis {
	analysis := &Analysis{Timestamp: time.Now()}

	if len(window) == 0 {
		analysis.Err = errors.New("empty market data window")
		return analysis
	}

	last := window[len(window)-1]
	analysis.Symbol = last.Symbol
	analysis.CurrentPrice = last.Close

	analysis.Indicators = e.analyzer.Analyze(window)

	if pred, err := e.predictor.Predict(window); err != nil {
		e.logger.Warn("price prediction unavailable", zap.Error(err))
	} else {
		analysis.Prediction = &pred
	}

	analysis.Risk = e.riskMgr.AssessRisk(window, positions)

	for _, provider := range e.providers {
		rec := provider.Analyze(window, analysis.Indicators)
		analysis.Recommendations = append(analysis.Recommendations, StrategyRecommendation{
			Strategy:       provider.Name(),
			Recommendation: rec,
		})
	}

	analysis.Overall = e.overallSignal(analysis)

	e.logger.Info("market analysis completed",
		zap.String("symbol", analysis.Symbol),
		zap.String("overall_signal", analysis.Overall.String()),
		zap.Float64("risk_score", analysis.Risk.RiskScore),
	)
	return analysis
}

// MakeTradingDecision turns an analysis into a trade decision, or nil
// when no trade should happen: the analysis failed, risk management
// blocks trading, or the overall signal is HOLD.
func (e *Engine) MakeTradingDecision(analysis *Analysis) *TradeDecision {
	if analysis.Err != nil {
		e.logger.Warn("skipping trade decision due to analysis error", zap.Error(analysis.Err))
		return nil
	}

	if !e.riskMgr.CanTrade(analysis.Risk) {
		e.logger.Info("trade blocked by risk management")
		return nil
	}

	var action strategy.Signal
	var tier float64

	switch analysis.Overall {
	case strategy.SignalStrongBuy:
		action, tier = strategy.SignalBuy, sizeLarge
	case strategy.SignalBuy:
		action, tier = strategy.SignalBuy, sizeMedium
	case strategy.SignalStrongSell:
		action, tier = strategy.SignalSell, sizeLarge
	case strategy.SignalSell:
		action, tier = strategy.SignalSell, sizeMedium
	default:
		return nil
	}

	decision := &TradeDecision{
		Timestamp:  time.Now(),
		Action:     action,
		Symbol:     analysis.Symbol,
		Quantity:   e.cfg.MaxPositionSize * tier,
		Confidence: decisionConfidence(analysis.Prediction),
		Reason:     decisionReason(action),
		StopLoss:   analysis.CurrentPrice * (1 - e.cfg.StopLossPct),
		TakeProfit: analysis.CurrentPrice * (1 + e.cfg.TakeProfitPct),
		RiskScore:  analysis.Risk.RiskScore,
	}

	e.logger.Info("trading decision made",
		zap.String("symbol", decision.Symbol),
		zap.String("action", decision.Action.String()),
		zap.Float64("quantity", decision.Quantity),
		zap.Float64("stop_loss", decision.StopLoss),
		zap.Float64("take_profit", decision.TakeProfit),
	)
	return decision
}

// overallSignal computes the weighted vote: RSI and MACD indicator
// signals weigh 0.3 each, every strategy recommendation weighs 0.2.
// Absent indicators simply do not vote.
func (e *Engine) overallSignal(analysis *Analysis) strategy.Signal {
	sum := 0.0
	voted := false

	if snap := analysis.Indicators; snap != nil {
		if snap.HasRSI {
			sum += snap.RSISignal.Direction() * indicatorWeight
			voted = true
		}
		if snap.HasMACD {
			sum += snap.MACDSignal.Direction() * indicatorWeight
			voted = true
		}
	}

	for _, rec := range analysis.Recommendations {
		sum += rec.Recommendation.Signal.Direction() * strategyWeight
		voted = true
	}

	if !voted {
		return strategy.SignalHold
	}

	switch {
	case sum > 0.8:
		return strategy.SignalStrongBuy
	case sum > 0.5:
		return strategy.SignalBuy
	case sum < -0.8:
		return strategy.SignalStrongSell
	case sum < -0.5:
		return strategy.SignalSell
	default:
		return strategy.SignalHold
	}
}

func decisionConfidence(pred *prediction.Prediction) float64 {
	if pred == nil {
		return 0.5
	}
	return pred.Confidence / 100
}

func decisionReason(action strategy.Signal) string {
	if action == strategy.SignalBuy {
		return "Strong buy signal from multiple indicators"
	}
	return "Strong sell signal from multiple indicators"
}
