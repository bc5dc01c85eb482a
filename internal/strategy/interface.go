package strategy

import (
	"fmt"

	"github.com/cryptoalpha/alpha-agent/internal/indicators"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// Signal is a discrete trading signal.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
	SignalStrongBuy
	SignalStrongSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	case SignalStrongBuy:
		return "STRONG_BUY"
	case SignalStrongSell:
		return "STRONG_SELL"
	default:
		return "HOLD"
	}
}

// Direction maps a signal to its trade direction: +1 buy, -1 sell, 0 hold.
func (s Signal) Direction() float64 {
	switch s {
	case SignalBuy, SignalStrongBuy:
		return 1
	case SignalSell, SignalStrongSell:
		return -1
	default:
		return 0
	}
}

// Diagnostics carries strategy-specific measurements for explainability.
// Only the fields relevant to the emitting strategy are populated; values
// here must never drive control flow outside the owning strategy.
type Diagnostics struct {
	MomentumScore   float64
	TrendStrength   float64
	VolumeConfirmed bool

	ZScore            float64
	BollingerPosition float64
	Oversold          bool
	Overbought        bool
	ExtremeOversold   bool
	ExtremeOverbought bool

	BreakoutStrength   float64
	ResistanceBreakout bool
	SupportBreakout    bool
	NearestResistance  float64
	NearestSupport     float64
}

// Recommendation is the outcome of one strategy analysis pass.
type Recommendation struct {
	Signal      Signal
	Strength    float64 // 0..100
	Reason      string
	Diagnostics Diagnostics
}

// SignalProvider analyzes a market data window together with the current
// technical snapshot and produces a recommendation. Implementations never
// fail: insufficient data and internal errors both degrade to HOLD.
type SignalProvider interface {
	Analyze(window []types.OHLCV, snap *indicators.Snapshot) Recommendation
	Name() string
}

const lookbackPeriod = 20

func holdInsufficientData() Recommendation {
	return Recommendation{Signal: SignalHold, Strength: 0, Reason: "Insufficient data"}
}

// safeAnalyze runs fn and converts a panic into a neutral HOLD
// recommendation, keeping provider failures at the provider boundary.
func safeAnalyze(fn func() Recommendation) (rec Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			rec = Recommendation{
				Signal:   SignalHold,
				Strength: 0,
				Reason:   fmt.Sprintf("Analysis error: %v", r),
			}
		}
	}()
	return fn()
}
