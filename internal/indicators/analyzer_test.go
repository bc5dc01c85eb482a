package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

func makeBars(n int, close func(i int) float64) []types.OHLCV {
	bars := make([]types.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := close(i)
		bars[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c * 1.005,
			Low:       c * 0.995,
			Close:     c,
			Volume:    1000,
			Symbol:    "BTC/USD",
		}
	}
	return bars
}

func TestAnalyzer_Analyze_FullWindow(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())

	bars := makeBars(100, func(i int) float64 { return 100 + float64(i) })
	snap := analyzer.Analyze(bars)

	assert.True(t, snap.HasRSI)
	assert.True(t, snap.HasMACD)
	assert.True(t, snap.HasBB)
	assert.True(t, snap.HasMA)
	assert.True(t, snap.HasVolume)

	// Rising series: moving averages aligned bullishly
	assert.Equal(t, SignalBuy, snap.MASignal)
	assert.Greater(t, snap.SMA20, snap.SMA50)
}

func TestAnalyzer_Analyze_ShortWindow(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())

	bars := makeBars(5, func(i int) float64 { return 100 })
	snap := analyzer.Analyze(bars)

	assert.False(t, snap.HasRSI)
	assert.False(t, snap.HasMACD)
	assert.False(t, snap.HasBB)
	assert.False(t, snap.HasMA)
	assert.Equal(t, 50.0, snap.RSIValue())
}

func TestAnalyzer_Analyze_Empty(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())

	snap := analyzer.Analyze(nil)
	assert.NotNil(t, snap)
	assert.False(t, snap.HasRSI)
}

func TestAnalyzer_Analyze_NoVolume(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())

	bars := makeBars(60, func(i int) float64 { return 100 + float64(i) })
	for i := range bars {
		bars[i].Volume = 0
	}

	snap := analyzer.Analyze(bars)
	assert.False(t, snap.HasVolume)
}
