package strategy

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// Momentum identifies and follows price trends: multi-period momentum
// weighted toward the short end, confirmed by trend slope and volume.
type Momentum struct {
	lookbackPeriod    int
	momentumThreshold float64
	volumeThreshold   float64
	logger            *zap.Logger
}

// NewMomentum creates a momentum strategy with the standard parameters.
func NewMomentum(logger *zap.Logger) *Momentum {
	return &Momentum{
		lookbackPeriod:    lookbackPeriod,
		momentumThreshold: 0.02,
		volumeThreshold:   1.5,
		logger:            logger,
	}
}

// Name returns the strategy name.
func (m *Momentum) Name() string {
	return "Momentum Strategy"
}

// Analyze scores the window's momentum and returns a recommendation.
func (m *Momentum) Analyze(window []types.OHLCV, _ *indicators.Snapshot) Recommendation {
	if len(window) < m.lookbackPeriod {
		return holdInsufficientData()
	}
	return safeAnalyze(func() Recommendation {
		momentum := m.momentumScore(window)
		volumeConfirmed := volumeConfirmation(window, m.lookbackPeriod, m.volumeThreshold)
		trend := m.trendStrength(window)

		signal, strength := m.classify(momentum, volumeConfirmed, trend)

		m.logger.Debug("momentum analysis",
			zap.Float64("momentum_score", momentum),
			zap.Float64("trend_strength", trend),
			zap.Bool("volume_confirmed", volumeConfirmed),
			zap.String("signal", signal.String()),
		)

		return Recommendation{
			Signal:   signal,
			Strength: strength,
			Reason:   m.reason(signal, momentum, trend),
			Diagnostics: Diagnostics{
				MomentumScore:   momentum,
				TrendStrength:   trend,
				VolumeConfirmed: volumeConfirmed,
			},
		}
	})
}

// momentumScore combines momentum over 5, 10 and lookback bars, weighting
// the shorter periods highest.
func (m *Momentum) momentumScore(window []types.OHLCV) float64 {
	currentPrice := window[len(window)-1].Close
	periods := []int{5, 10, m.lookbackPeriod}
	weights := []float64{0.5, 0.3, 0.2}

	weighted := 0.0
	for i, period := range periods {
		if len(window) <= period {
			continue
		}
		pastPrice := window[len(window)-period-1].Close
		weighted += (currentPrice - pastPrice) / pastPrice * weights[i]
	}
	return weighted
}

// trendStrength is the least-squares slope of the closing price over the
// lookback window, expressed as a percentage of the window's first price.
func (m *Momentum) trendStrength(window []types.OHLCV) float64 {
	recent := window[len(window)-m.lookbackPeriod:]

	n := float64(len(recent))
	var sumX, sumY, sumXY, sumXX float64
	for i, bar := range recent {
		x := float64(i)
		sumX += x
		sumY += bar.Close
		sumXY += x * bar.Close
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom

	first := recent[0].Close
	if first == 0 {
		return 0
	}
	return slope / first * 100
}

func (m *Momentum) classify(momentum float64, volumeConfirmed bool, trend float64) (Signal, float64) {
	switch {
	case momentum > m.momentumThreshold && volumeConfirmed && trend > 1:
		return SignalBuy, math.Min(math.Abs(momentum)*100, 100)
	case momentum < -m.momentumThreshold && volumeConfirmed && trend < -1:
		return SignalSell, math.Min(math.Abs(momentum)*100, 100)
	case math.Abs(momentum) > m.momentumThreshold/2:
		if momentum > 0 {
			return SignalBuy, math.Abs(momentum) * 50
		}
		return SignalSell, math.Abs(momentum) * 50
	default:
		return SignalHold, 0
	}
}

func (m *Momentum) reason(signal Signal, momentum, trend float64) string {
	switch signal {
	case SignalBuy:
		return fmt.Sprintf("Strong upward momentum (%.2f%%) with positive trend (%.2f%%)", momentum*100, trend)
	case SignalSell:
		return fmt.Sprintf("Strong downward momentum (%.2f%%) with negative trend (%.2f%%)", momentum*100, trend)
	default:
		return "Insufficient momentum or conflicting signals"
	}
}

// volumeConfirmation reports whether the latest bar's volume is at least
// threshold times the rolling average. Windows without volume data count
// as confirmed.
func volumeConfirmation(window []types.OHLCV, period int, threshold float64) bool {
	if !types.HasVolume(window) {
		return true
	}

	sum := 0.0
	for i := len(window) - period; i < len(window); i++ {
		sum += window[i].Volume
	}
	avgVolume := sum / float64(period)

	ratio := 1.0
	if avgVolume > 0 {
		ratio = window[len(window)-1].Volume / avgVolume
	}
	return ratio >= threshold
}
