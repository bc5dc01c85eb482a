package strategy

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// MeanReversion trades against stretched prices: z-score and Bollinger
// position locate the stretch, RSI extremes from the technical snapshot
// confirm it.
type MeanReversion struct {
	lookbackPeriod int
	zScoreLimit    float64
	bbPeriod       int
	bbStdDev       float64
	logger         *zap.Logger
}

// NewMeanReversion creates a mean reversion strategy with the standard parameters.
func NewMeanReversion(logger *zap.Logger) *MeanReversion {
	return &MeanReversion{
		lookbackPeriod: lookbackPeriod,
		zScoreLimit:    2.0,
		bbPeriod:       20,
		bbStdDev:       2,
		logger:         logger,
	}
}

// Name returns the strategy name.
func (s *MeanReversion) Name() string {
	return "Mean Reversion Strategy"
}

// Analyze scores the window for reversion opportunities.
func (s *MeanReversion) Analyze(window []types.OHLCV, snap *indicators.Snapshot) Recommendation {
	if len(window) < s.lookbackPeriod {
		return holdInsufficientData()
	}
	return safeAnalyze(func() Recommendation {
		zScore := s.zScore(window)
		bbPosition := s.bollingerPosition(window)

		rsi := snap.RSIValue()
		diag := Diagnostics{
			ZScore:            zScore,
			BollingerPosition: bbPosition,
			Oversold:          rsi < 30,
			Overbought:        rsi > 70,
			ExtremeOversold:   rsi < 20,
			ExtremeOverbought: rsi > 80,
		}

		signal, strength := s.classify(zScore, bbPosition, diag)

		s.logger.Debug("mean reversion analysis",
			zap.Float64("z_score", zScore),
			zap.Float64("bollinger_position", bbPosition),
			zap.Float64("rsi", rsi),
			zap.String("signal", signal.String()),
		)

		return Recommendation{
			Signal:      signal,
			Strength:    strength,
			Reason:      s.reason(signal, zScore, bbPosition),
			Diagnostics: diag,
		}
	})
}

func (s *MeanReversion) zScore(window []types.OHLCV) float64 {
	recent := window[len(window)-s.lookbackPeriod:]
	currentPrice := recent[len(recent)-1].Close

	sum := 0.0
	for _, bar := range recent {
		sum += bar.Close
	}
	avg := sum / float64(len(recent))

	variance := 0.0
	for _, bar := range recent {
		d := bar.Close - avg
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(len(recent)))
	if sd == 0 {
		return 0
	}
	return (currentPrice - avg) / sd
}

func (s *MeanReversion) bollingerPosition(window []types.OHLCV) float64 {
	recent := window[len(window)-s.bbPeriod:]
	currentPrice := recent[len(recent)-1].Close

	sum := 0.0
	for _, bar := range recent {
		sum += bar.Close
	}
	sma := sum / float64(len(recent))

	variance := 0.0
	for _, bar := range recent {
		d := bar.Close - sma
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(len(recent)))

	upper := sma + sd*s.bbStdDev
	lower := sma - sd*s.bbStdDev
	if upper == lower {
		return 0.5
	}
	return (currentPrice - lower) / (upper - lower)
}

func (s *MeanReversion) classify(zScore, bbPosition float64, diag Diagnostics) (Signal, float64) {
	switch {
	case zScore > s.zScoreLimit || bbPosition > 0.8 || diag.ExtremeOverbought:
		return SignalSell, math.Min(math.Abs(zScore)*25, 100)
	case zScore < -s.zScoreLimit || bbPosition < 0.2 || diag.ExtremeOversold:
		return SignalBuy, math.Min(math.Abs(zScore)*25, 100)
	case math.Abs(zScore) > s.zScoreLimit/2:
		if zScore > 0 {
			return SignalSell, math.Abs(zScore) * 15
		}
		return SignalBuy, math.Abs(zScore) * 15
	case bbPosition > 0.7:
		return SignalSell, (bbPosition - 0.5) * 100
	case bbPosition < 0.3:
		return SignalBuy, (0.5 - bbPosition) * 100
	case diag.Overbought:
		return SignalSell, 60
	case diag.Oversold:
		return SignalBuy, 60
	default:
		return SignalHold, 0
	}
}

func (s *MeanReversion) reason(signal Signal, zScore, bbPosition float64) string {
	switch signal {
	case SignalBuy:
		if zScore < -s.zScoreLimit {
			return fmt.Sprintf("Strong oversold condition (Z-score: %.2f)", zScore)
		}
		if bbPosition < 0.3 {
			return fmt.Sprintf("Price near lower Bollinger Band (position: %.2f)", bbPosition)
		}
		return "Multiple oversold indicators detected"
	case SignalSell:
		if zScore > s.zScoreLimit {
			return fmt.Sprintf("Strong overbought condition (Z-score: %.2f)", zScore)
		}
		if bbPosition > 0.7 {
			return fmt.Sprintf("Price near upper Bollinger Band (position: %.2f)", bbPosition)
		}
		return "Multiple overbought indicators detected"
	default:
		return "Price within normal range, no mean reversion opportunity"
	}
}
