package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const hoursPerDay = 24

// GenerateSampleData produces a synthetic hourly bar series via
// geometric Brownian motion, seeded for reproducibility.
func GenerateSampleData(symbol string, days int, seed int64) []types.OHLCV {
	rng := rand.New(rand.NewSource(seed))

	periods := days * hoursPerDay
	start := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Truncate(time.Hour)

	const (
		initialPrice = 45000.0
		drift        = 0.0001
		volatility   = 0.02
	)
	dt := 1.0 / hoursPerDay

	bars := make([]types.OHLCV, 0, periods)
	price := initialPrice
	prevClose := initialPrice

	for i := 0; i < periods; i++ {
		logReturn := (drift-0.5*volatility*volatility)*dt + volatility*math.Sqrt(dt)*rng.NormFloat64()
		price *= math.Exp(logReturn)

		const intraday = 0.005
		high := price * (1 + math.Abs(rng.NormFloat64()*intraday))
		low := price * (1 - math.Abs(rng.NormFloat64()*intraday))

		volumeMult := 1 + math.Abs(logReturn)*10
		volume := math.Floor(1000 * volumeMult * (0.5 + 1.5*rng.Float64()))

		bars = append(bars, types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      prevClose,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    volume,
			Symbol:    symbol,
		})
		prevClose = price
	}
	return bars
}

// TrendReversalScenario builds a deterministic 4-phase price path:
// uptrend, reversal, downtrend, recovery. Trend change points carry
// elevated volume.
func TrendReversalScenario(symbol string) []types.OHLCV {
	rng := rand.New(rand.NewSource(42))

	const basePrice = 40000.0
	var closes []float64

	// Phase 1: steady uptrend
	for i := 0; i < 30; i++ {
		closes = append(closes, basePrice*(1+float64(i)*0.005))
	}

	// Phase 2: reversal off the peak
	peak := closes[len(closes)-1]
	for i := 0; i < 20; i++ {
		closes = append(closes, peak*(1-float64(i)*0.003))
	}

	// Phase 3: grinding downtrend
	for i := 0; i < 30; i++ {
		closes = append(closes, closes[len(closes)-1]*(1-0.002))
	}

	// Phase 4: recovery
	for i := 0; i < 19; i++ {
		closes = append(closes, closes[len(closes)-1]*(1+0.004))
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		const intraday = 0.003
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		volume := 2000.0
		if i == 30 || i == 50 || i == 80 {
			volume = 5000
		}

		bars[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      open,
			High:      c * (1 + math.Abs(rng.NormFloat64()*intraday)),
			Low:       c * (1 - math.Abs(rng.NormFloat64()*intraday)),
			Close:     c,
			Volume:    volume,
			Symbol:    symbol,
		}
	}
	return bars
}
