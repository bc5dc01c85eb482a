package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	logger := zap.NewNop()
	riskMgr := risk.NewManager(risk.Params{
		MaxPositionSize: 0.1,
		MaxDailyLoss:    0.03,
		PortfolioValue:  10000,
	}, logger)

	providers := []strategy.SignalProvider{
		strategy.NewMomentum(logger),
		strategy.NewMeanReversion(logger),
		strategy.NewBreakout(logger),
	}

	return NewEngine(
		Config{MaxPositionSize: 0.1, StopLossPct: 0.05, TakeProfitPct: 0.15},
		indicators.NewAnalyzer(logger),
		prediction.NewPredictor(logger),
		riskMgr,
		providers,
		logger,
	)
}

func bars(closes []float64) []types.OHLCV {
	out := make([]types.OHLCV, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c * 1.005,
			Low:       c * 0.995,
			Close:     c,
			Volume:    1000,
			Symbol:    "BTC/USD",
		}
	}
	return out
}

func flatBars(n int) []types.OHLCV {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return bars(closes)
}

func risingBars(n int) []types.OHLCV {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i))
	}
	return bars(closes)
}

func snapshotVote(rsi, macd indicators.SignalType) *indicators.Snapshot {
	return &indicators.Snapshot{
		RSISignal:  rsi,
		HasRSI:     true,
		MACDSignal: macd,
		HasMACD:    true,
	}
}

func recommendations(signals ...strategy.Signal) []StrategyRecommendation {
	out := make([]StrategyRecommendation, len(signals))
	for i, s := range signals {
		out[i] = StrategyRecommendation{
			Strategy:       "test",
			Recommendation: strategy.Recommendation{Signal: s},
		}
	}
	return out
}

func TestOverallSignal_NoVotes(t *testing.T) {
	e := newTestEngine(t)

	got := e.overallSignal(&Analysis{})
	assert.Equal(t, strategy.SignalHold, got)
}

func TestOverallSignal_Boundaries(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		name     string
		analysis *Analysis
		want     strategy.Signal
	}{
		{
			// 0.3 + 0.2 = 0.5, not strictly above the BUY boundary
			name: "sum exactly 0.5 holds",
			analysis: &Analysis{
				Indicators:      &indicators.Snapshot{RSISignal: indicators.SignalBuy, HasRSI: true},
				Recommendations: recommendations(strategy.SignalBuy),
			},
			want: strategy.SignalHold,
		},
		{
			// 0.3 + 0.3 = 0.6
			name:     "both indicators buy",
			analysis: &Analysis{Indicators: snapshotVote(indicators.SignalBuy, indicators.SignalBuy)},
			want:     strategy.SignalBuy,
		},
		{
			// 0.3 + 0.3 + 0.2 = 0.8, not strictly above the strong boundary
			name: "sum exactly 0.8 stays plain buy",
			analysis: &Analysis{
				Indicators:      snapshotVote(indicators.SignalBuy, indicators.SignalBuy),
				Recommendations: recommendations(strategy.SignalBuy),
			},
			want: strategy.SignalBuy,
		},
		{
			// 0.3 + 0.3 + 0.2 + 0.2 = 1.0
			name: "unanimous buy is strong",
			analysis: &Analysis{
				Indicators:      snapshotVote(indicators.SignalBuy, indicators.SignalBuy),
				Recommendations: recommendations(strategy.SignalBuy, strategy.SignalBuy),
			},
			want: strategy.SignalStrongBuy,
		},
		{
			name: "sum exactly -0.5 holds",
			analysis: &Analysis{
				Indicators:      &indicators.Snapshot{RSISignal: indicators.SignalSell, HasRSI: true},
				Recommendations: recommendations(strategy.SignalSell),
			},
			want: strategy.SignalHold,
		},
		{
			name:     "both indicators sell",
			analysis: &Analysis{Indicators: snapshotVote(indicators.SignalSell, indicators.SignalSell)},
			want:     strategy.SignalSell,
		},
		{
			name: "sum exactly -0.8 stays plain sell",
			analysis: &Analysis{
				Indicators:      snapshotVote(indicators.SignalSell, indicators.SignalSell),
				Recommendations: recommendations(strategy.SignalSell),
			},
			want: strategy.SignalSell,
		},
		{
			name: "unanimous sell is strong",
			analysis: &Analysis{
				Indicators:      snapshotVote(indicators.SignalSell, indicators.SignalSell),
				Recommendations: recommendations(strategy.SignalSell, strategy.SignalSell),
			},
			want: strategy.SignalStrongSell,
		},
		{
			name: "conflicting votes cancel",
			analysis: &Analysis{
				Indicators:      snapshotVote(indicators.SignalBuy, indicators.SignalSell),
				Recommendations: recommendations(strategy.SignalBuy, strategy.SignalSell, strategy.SignalHold),
			},
			want: strategy.SignalHold,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.overallSignal(tc.analysis))
		})
	}
}

func TestAnalyzeMarket_EmptyWindow(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.AnalyzeMarket(nil, types.Positions{})
	assert.Error(t, analysis.Err)
	assert.Nil(t, e.MakeTradingDecision(analysis))
}

func TestAnalyzeMarket_FlatSeriesHolds(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.AnalyzeMarket(flatBars(100), types.Positions{})
	require.NoError(t, analysis.Err)
	assert.Equal(t, strategy.SignalHold, analysis.Overall)
	assert.Len(t, analysis.Recommendations, 3)
	assert.Nil(t, e.MakeTradingDecision(analysis))
}

func TestAnalyzeMarket_SteadyRiseVotesCancel(t *testing.T) {
	e := newTestEngine(t)

	// On a monotone rise RSI pegs at 100 and votes SELL against MACD's
	// BUY, and mean reversion's overextension SELL offsets momentum's
	// BUY, so the weighted sum stays inside the HOLD band.
	analysis := e.AnalyzeMarket(risingBars(100), types.Positions{})
	require.NoError(t, analysis.Err)
	assert.Equal(t, indicators.SignalSell, analysis.Indicators.RSISignal)
	assert.Equal(t, indicators.SignalBuy, analysis.Indicators.MACDSignal)
	assert.Equal(t, strategy.SignalHold, analysis.Overall)
	assert.Nil(t, e.MakeTradingDecision(analysis))
}

func TestAnalyzeMarket_ToleratesPredictionFailure(t *testing.T) {
	e := newTestEngine(t)

	// 24 bars is enough for risk assessment but below the predictor's
	// minimum window.
	analysis := e.AnalyzeMarket(flatBars(24), types.Positions{})
	assert.NoError(t, analysis.Err)
	assert.Nil(t, analysis.Prediction)
}

func TestAnalyzeMarket_PopulatesContext(t *testing.T) {
	e := newTestEngine(t)

	window := risingBars(100)
	analysis := e.AnalyzeMarket(window, types.Positions{"BTC/USD": 2})
	require.NoError(t, analysis.Err)
	assert.Equal(t, "BTC/USD", analysis.Symbol)
	assert.Equal(t, window[len(window)-1].Close, analysis.CurrentPrice)
	assert.NotNil(t, analysis.Indicators)
	assert.NotNil(t, analysis.Prediction)
	assert.GreaterOrEqual(t, analysis.Risk.RiskScore, 0.0)
	assert.LessOrEqual(t, analysis.Risk.RiskScore, 1.0)
}

func TestMakeTradingDecision_BuyTiers(t *testing.T) {
	e := newTestEngine(t)

	calm := risk.Assessment{RiskScore: 0.2}

	strong := e.MakeTradingDecision(&Analysis{
		Symbol:       "BTC/USD",
		CurrentPrice: 50000,
		Risk:         calm,
		Overall:      strategy.SignalStrongBuy,
	})
	require.NotNil(t, strong)
	assert.Equal(t, strategy.SignalBuy, strong.Action)
	assert.InDelta(t, 0.075, strong.Quantity, 1e-9)

	medium := e.MakeTradingDecision(&Analysis{
		Symbol:       "BTC/USD",
		CurrentPrice: 50000,
		Risk:         calm,
		Overall:      strategy.SignalBuy,
	})
	require.NotNil(t, medium)
	assert.Equal(t, strategy.SignalBuy, medium.Action)
	assert.InDelta(t, 0.05, medium.Quantity, 1e-9)
}

func TestMakeTradingDecision_SellLevels(t *testing.T) {
	e := newTestEngine(t)

	decision := e.MakeTradingDecision(&Analysis{
		Symbol:       "ETH/USD",
		CurrentPrice: 2000,
		Risk:         risk.Assessment{RiskScore: 0.3},
		Overall:      strategy.SignalStrongSell,
	})
	require.NotNil(t, decision)
	assert.Equal(t, strategy.SignalSell, decision.Action)
	assert.InDelta(t, 0.075, decision.Quantity, 1e-9)
	assert.InDelta(t, 2000*0.95, decision.StopLoss, 1e-9)
	assert.InDelta(t, 2000*1.15, decision.TakeProfit, 1e-9)
	assert.Equal(t, 0.3, decision.RiskScore)
}

func TestMakeTradingDecision_ConfidenceFallback(t *testing.T) {
	e := newTestEngine(t)

	withPrediction := e.MakeTradingDecision(&Analysis{
		Symbol:       "BTC/USD",
		CurrentPrice: 100,
		Risk:         risk.Assessment{},
		Overall:      strategy.SignalBuy,
		Prediction:   &prediction.Prediction{Confidence: 30},
	})
	require.NotNil(t, withPrediction)
	assert.InDelta(t, 0.3, withPrediction.Confidence, 1e-9)

	withoutPrediction := e.MakeTradingDecision(&Analysis{
		Symbol:       "BTC/USD",
		CurrentPrice: 100,
		Risk:         risk.Assessment{},
		Overall:      strategy.SignalBuy,
	})
	require.NotNil(t, withoutPrediction)
	assert.Equal(t, 0.5, withoutPrediction.Confidence)
}

func TestMakeTradingDecision_RiskBlocked(t *testing.T) {
	e := newTestEngine(t)

	decision := e.MakeTradingDecision(&Analysis{
		Symbol:       "BTC/USD",
		CurrentPrice: 100,
		Risk:         risk.Assessment{RiskScore: 0.9},
		Overall:      strategy.SignalStrongBuy,
	})
	assert.Nil(t, decision)
}

func TestMakeTradingDecision_HoldYieldsNothing(t *testing.T) {
	e := newTestEngine(t)

	decision := e.MakeTradingDecision(&Analysis{
		Symbol:  "BTC/USD",
		Risk:    risk.Assessment{},
		Overall: strategy.SignalHold,
	})
	assert.Nil(t, decision)
}
