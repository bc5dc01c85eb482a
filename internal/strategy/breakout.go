package strategy

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const maxTrackedLevels = 10

// Breakout trades price escapes from support and resistance. Discovered
// levels persist across calls, capped to the most recent ten of each; a
// Breakout instance therefore belongs to exactly one symbol and must not
// be shared.
type Breakout struct {
	lookbackPeriod    int
	breakoutThreshold float64
	volumeThreshold   float64

	resistanceLevels []float64
	supportLevels    []float64

	logger *zap.Logger
}

// NewBreakout creates a breakout strategy with the standard parameters.
func NewBreakout(logger *zap.Logger) *Breakout {
	return &Breakout{
		lookbackPeriod:    lookbackPeriod,
		breakoutThreshold: 0.02,
		volumeThreshold:   1.5,
		logger:            logger,
	}
}

// Name returns the strategy name.
func (b *Breakout) Name() string {
	return "Breakout Strategy"
}

// Levels returns the currently tracked support and resistance levels.
func (b *Breakout) Levels() (support, resistance []float64) {
	return append([]float64(nil), b.supportLevels...),
		append([]float64(nil), b.resistanceLevels...)
}

// Analyze refreshes the level history from the window and scores any
// breakout beyond a tracked level.
func (b *Breakout) Analyze(window []types.OHLCV, _ *indicators.Snapshot) Recommendation {
	if len(window) < b.lookbackPeriod {
		return holdInsufficientData()
	}
	return safeAnalyze(func() Recommendation {
		b.identifyLevels(window)

		diag := b.checkBreakouts(window)
		diag.VolumeConfirmed = volumeConfirmation(window, b.lookbackPeriod, b.volumeThreshold)

		signal, strength := b.classify(diag)

		b.logger.Debug("breakout analysis",
			zap.Float64("breakout_strength", diag.BreakoutStrength),
			zap.Bool("resistance_breakout", diag.ResistanceBreakout),
			zap.Bool("support_breakout", diag.SupportBreakout),
			zap.Int("tracked_resistance", len(b.resistanceLevels)),
			zap.Int("tracked_support", len(b.supportLevels)),
			zap.String("signal", signal.String()),
		)

		return Recommendation{
			Signal:      signal,
			Strength:    strength,
			Reason:      b.reason(signal, diag),
			Diagnostics: diag,
		}
	})
}

// identifyLevels finds local extrema: a bar whose high (low) equals the
// 5-bar centered rolling max (min) and strictly exceeds (undercuts) the
// highs (lows) of its immediate neighbor bars.
func (b *Breakout) identifyLevels(window []types.OHLCV) {
	n := len(window)
	if n < b.lookbackPeriod {
		return
	}

	rollMax := func(i int) float64 {
		max := window[i-2].High
		for j := i - 1; j <= i+2; j++ {
			if window[j].High > max {
				max = window[j].High
			}
		}
		return max
	}
	rollMin := func(i int) float64 {
		min := window[i-2].Low
		for j := i - 1; j <= i+2; j++ {
			if window[j].Low < min {
				min = window[j].Low
			}
		}
		return min
	}

	for i := 2; i <= n-3; i++ {
		if rollMax(i) == window[i].High && window[i].High > window[i-1].High && window[i].High > window[i+1].High {
			b.resistanceLevels = appendLevel(b.resistanceLevels, window[i].High)
		}
		if rollMin(i) == window[i].Low && window[i].Low < window[i-1].Low && window[i].Low < window[i+1].Low {
			b.supportLevels = appendLevel(b.supportLevels, window[i].Low)
		}
	}

	if len(b.resistanceLevels) > maxTrackedLevels {
		b.resistanceLevels = b.resistanceLevels[len(b.resistanceLevels)-maxTrackedLevels:]
	}
	if len(b.supportLevels) > maxTrackedLevels {
		b.supportLevels = b.supportLevels[len(b.supportLevels)-maxTrackedLevels:]
	}
}

func appendLevel(levels []float64, level float64) []float64 {
	for _, existing := range levels {
		if existing == level {
			return levels
		}
	}
	return append(levels, level)
}

func (b *Breakout) checkBreakouts(window []types.OHLCV) Diagnostics {
	currentPrice := window[len(window)-1].Close
	currentHigh := window[len(window)-1].High
	currentLow := window[len(window)-1].Low

	diag := Diagnostics{}

	for _, resistance := range b.resistanceLevels {
		if currentHigh > resistance*(1+b.breakoutThreshold) {
			diag.ResistanceBreakout = true
			diag.BreakoutStrength = (currentHigh - resistance) / resistance
			break
		}
	}

	for _, support := range b.supportLevels {
		if currentLow < support*(1-b.breakoutThreshold) {
			diag.SupportBreakout = true
			diag.BreakoutStrength = (support - currentLow) / support
			break
		}
	}

	diag.NearestResistance = nearestLevel(b.resistanceLevels, currentPrice)
	diag.NearestSupport = nearestLevel(b.supportLevels, currentPrice)
	return diag
}

func nearestLevel(levels []float64, price float64) float64 {
	nearest := 0.0
	best := math.Inf(1)
	for _, level := range levels {
		if d := math.Abs(level - price); d < best {
			best = d
			nearest = level
		}
	}
	return nearest
}

func (b *Breakout) classify(diag Diagnostics) (Signal, float64) {
	switch {
	case diag.ResistanceBreakout && diag.VolumeConfirmed && diag.BreakoutStrength > b.breakoutThreshold:
		return SignalBuy, math.Min(diag.BreakoutStrength*100, 100)
	case diag.SupportBreakout && diag.VolumeConfirmed && diag.BreakoutStrength > b.breakoutThreshold:
		return SignalSell, math.Min(diag.BreakoutStrength*100, 100)
	case diag.ResistanceBreakout && diag.BreakoutStrength > 0.01:
		return SignalBuy, diag.BreakoutStrength * 50
	case diag.SupportBreakout && diag.BreakoutStrength > 0.01:
		return SignalSell, diag.BreakoutStrength * 50
	default:
		return SignalHold, 0
	}
}

func (b *Breakout) reason(signal Signal, diag Diagnostics) string {
	switch signal {
	case SignalBuy:
		return fmt.Sprintf("Resistance breakout detected (strength: %.2f%%)", diag.BreakoutStrength*100)
	case SignalSell:
		return fmt.Sprintf("Support breakout detected (strength: %.2f%%)", diag.BreakoutStrength*100)
	default:
		return "No significant breakouts detected"
	}
}
