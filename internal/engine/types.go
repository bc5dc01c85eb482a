package engine

import (
	"time"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
)

// StrategyRecommendation pairs a strategy name with its recommendation.
type StrategyRecommendation struct {
	Strategy       string
	Recommendation strategy.Recommendation
}

// Analysis is the full result of one market analysis pass. Prediction is
// nil when the predictor could not produce one; that alone does not
// invalidate the analysis. Err is set only when the pass itself failed,
// in which case no trade decision may be derived from it.
type Analysis struct {
	Timestamp    time.Time
	Symbol       string
	CurrentPrice float64

	Indicators      *indicators.Snapshot
	Prediction      *prediction.Prediction
	Risk            risk.Assessment
	Recommendations []StrategyRecommendation

	Overall strategy.Signal
	Err     error
}

// TradeDecision is an actionable order proposal. Action is always BUY or
// SELL; a HOLD analysis produces no decision at all.
type TradeDecision struct {
	Timestamp  time.Time
	Action     strategy.Signal
	Symbol     string
	Quantity   float64
	Confidence float64 // 0..1
	Reason     string
	StopLoss   float64
	TakeProfit float64
	RiskScore  float64
}
