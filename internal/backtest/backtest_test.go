package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/engine"
	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/internal/prediction"
	"github.com/cryptoalpha/alpha-agent/internal/risk"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	logger := zap.NewNop()

	riskMgr := risk.NewManager(risk.Params{
		MaxPositionSize: 0.1,
		MaxDailyLoss:    0.03,
		PortfolioValue:  10000,
	}, logger)

	eng := engine.NewEngine(
		engine.Config{MaxPositionSize: 0.1, StopLossPct: 0.05, TakeProfitPct: 0.15},
		indicators.NewAnalyzer(logger),
		prediction.NewPredictor(logger),
		riskMgr,
		[]strategy.SignalProvider{
			strategy.NewMomentum(logger),
			strategy.NewMeanReversion(logger),
			strategy.NewBreakout(logger),
		},
		logger,
	)

	return NewSimulator(eng, 10000, logger)
}

func flatSeries(n int) []types.OHLCV {
	out := make([]types.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      100,
			High:      100.5,
			Low:       99.5,
			Close:     100,
			Volume:    1000,
			Symbol:    "BTC/USD",
		}
	}
	return out
}

func TestSimulator_FlatSeriesNoTrades(t *testing.T) {
	sim := newTestSimulator(t)

	results := sim.Run("flat", flatSeries(100))

	// 100 bars yield four full 24-bar chunks; the trailing 4 bars are
	// below the minimum and skipped.
	assert.Len(t, results.Snapshots, 4)
	assert.Empty(t, results.Trades)
	assert.Equal(t, 10000.0, results.FinalValue)
	for _, snap := range results.Snapshots {
		assert.Equal(t, 10000.0, snap.Value)
		assert.Equal(t, 100.0, snap.ReferencePrice)
	}
}

func TestSimulator_ShortTrailingChunkSkipped(t *testing.T) {
	sim := newTestSimulator(t)

	results := sim.Run("short-tail", flatSeries(30))
	assert.Len(t, results.Snapshots, 1)
}

func TestSimulator_TenBarChunkProcessed(t *testing.T) {
	sim := newTestSimulator(t)

	results := sim.Run("exact-minimum", flatSeries(34))
	assert.Len(t, results.Snapshots, 2)
}

func TestSimulator_EmptyData(t *testing.T) {
	sim := newTestSimulator(t)

	results := sim.Run("empty", nil)
	assert.Empty(t, results.Snapshots)
	assert.Equal(t, 10000.0, results.FinalValue)
	assert.Equal(t, Metrics{}, results.Metrics())
}

func TestFill_BuyAccumulates(t *testing.T) {
	sim := newTestSimulator(t)
	positions := types.Positions{}
	bar := types.OHLCV{Timestamp: time.Now(), Close: 100, Symbol: "BTC/USD"}

	decision := &engine.TradeDecision{Action: strategy.SignalBuy, Symbol: "BTC/USD", Quantity: 0.05}
	sim.fill(positions, decision, bar)
	trade := sim.fill(positions, decision, bar)

	assert.InDelta(t, 0.1, positions["BTC/USD"], 1e-9)
	assert.Equal(t, 0.05, trade.FilledQuantity)
	assert.Equal(t, 100.0, trade.Price)
}

func TestFill_SellClampsAtZero(t *testing.T) {
	sim := newTestSimulator(t)
	positions := types.Positions{"BTC/USD": 0.05}
	bar := types.OHLCV{Timestamp: time.Now(), Close: 100, Symbol: "BTC/USD"}

	trade := sim.fill(positions, &engine.TradeDecision{
		Action:   strategy.SignalSell,
		Symbol:   "BTC/USD",
		Quantity: 0.075,
	}, bar)

	assert.Equal(t, 0.0, positions["BTC/USD"])
	assert.Equal(t, 0.075, trade.Quantity)
	assert.InDelta(t, 0.05, trade.FilledQuantity, 1e-9)

	// Selling with nothing held stays at zero.
	again := sim.fill(positions, &engine.TradeDecision{
		Action:   strategy.SignalSell,
		Symbol:   "BTC/USD",
		Quantity: 0.05,
	}, bar)
	assert.Equal(t, 0.0, positions["BTC/USD"])
	assert.Equal(t, 0.0, again.FilledQuantity)
}

func snapshotSeries(values ...float64) []PortfolioSnapshot {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]PortfolioSnapshot, len(values))
	for i, v := range values {
		out[i] = PortfolioSnapshot{
			Timestamp:      start.AddDate(0, 0, i),
			Value:          v,
			ReferencePrice: 100,
		}
	}
	return out
}

func TestMetrics_TotalReturnAndDrawdown(t *testing.T) {
	r := &Results{Snapshots: snapshotSeries(10000, 11000, 10500, 12000)}

	m := r.Metrics()
	assert.InDelta(t, 0.2, m.TotalReturn, 1e-9)
	assert.InDelta(t, 500.0/11000.0, m.MaxDrawdown, 1e-9)
	assert.Equal(t, 12000.0, m.FinalValue)
	assert.Equal(t, 0, m.TotalTrades)
}

func TestMetrics_SharpeZeroOnFlatValues(t *testing.T) {
	r := &Results{Snapshots: snapshotSeries(10000, 10000, 10000)}

	m := r.Metrics()
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestMetrics_SharpePositiveOnSteadyGrowth(t *testing.T) {
	r := &Results{Snapshots: snapshotSeries(10000, 10100, 10250, 10400)}

	assert.Greater(t, r.Metrics().SharpeRatio, 0.0)
}

func tradeAt(day int, action strategy.Signal, qty, filled, price float64) Trade {
	return Trade{
		Timestamp:      time.Date(2024, 1, 1+day, 0, 0, 0, 0, time.UTC),
		Action:         action,
		Symbol:         "BTC/USD",
		Quantity:       qty,
		FilledQuantity: filled,
		Price:          price,
	}
}

func TestWinRate_RealizedProfit(t *testing.T) {
	r := &Results{
		Snapshots: snapshotSeries(10000, 10010),
		Trades: []Trade{
			tradeAt(0, strategy.SignalBuy, 1, 1, 100),
			tradeAt(1, strategy.SignalSell, 1, 1, 110),
		},
	}

	assert.Equal(t, 1.0, r.Metrics().WinRate)
}

func TestWinRate_RealizedLoss(t *testing.T) {
	r := &Results{
		Snapshots: snapshotSeries(10000, 9990),
		Trades: []Trade{
			tradeAt(0, strategy.SignalBuy, 1, 1, 100),
			tradeAt(1, strategy.SignalSell, 1, 1, 90),
		},
	}

	assert.Equal(t, 0.0, r.Metrics().WinRate)
}

func TestWinRate_AverageCostBasis(t *testing.T) {
	// Two buys at 100 and 200 average to 150; selling at 160 wins,
	// selling the rest at 140 loses.
	r := &Results{
		Snapshots: snapshotSeries(10000, 10000),
		Trades: []Trade{
			tradeAt(0, strategy.SignalBuy, 1, 1, 100),
			tradeAt(1, strategy.SignalBuy, 1, 1, 200),
			tradeAt(2, strategy.SignalSell, 1, 1, 160),
			tradeAt(3, strategy.SignalSell, 1, 1, 140),
		},
	}

	assert.Equal(t, 0.5, r.Metrics().WinRate)
}

func TestWinRate_OpenPositionMarkedAtFinalPrice(t *testing.T) {
	snaps := snapshotSeries(10000, 10120)
	snaps[len(snaps)-1].ReferencePrice = 120

	r := &Results{
		Snapshots: snaps,
		Trades: []Trade{
			tradeAt(0, strategy.SignalBuy, 1, 1, 100),
		},
	}

	assert.Equal(t, 1.0, r.Metrics().WinRate)
}

func TestWinRate_UnfilledSellIgnored(t *testing.T) {
	r := &Results{
		Snapshots: snapshotSeries(10000, 10000),
		Trades: []Trade{
			tradeAt(0, strategy.SignalSell, 1, 0, 100),
		},
	}

	assert.Equal(t, 0.0, r.Metrics().WinRate)
}
