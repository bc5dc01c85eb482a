package risk

import "time"

// Trend labels the window's overall price direction.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// MarketRisk captures market-wide risk factors.
type MarketRisk struct {
	Volatility  float64 // annualized
	Trend       Trend
	PriceChange float64
}

// PositionRisk captures risk from the currently held positions.
type PositionRisk struct {
	ConcentrationRisk float64
	TotalExposure     float64
	PositionCount     int
}

// PortfolioRisk captures portfolio-level exposure.
type PortfolioRisk struct {
	ExposureRatio float64
	Overexposed   bool
	LeverageRatio float64
}

// LiquidityRisk captures how liquid the market currently is.
type LiquidityRisk struct {
	LiquidityScore float64
	VolumeRatio    float64
}

// Assessment is a full risk picture for one analysis pass.
// RiskScore is OverallRisk clamped to [0,1].
type Assessment struct {
	Timestamp   time.Time
	Market      MarketRisk
	Position    PositionRisk
	Portfolio   PortfolioRisk
	Liquidity   LiquidityRisk
	OverallRisk float64
	RiskScore   float64
}

// TradeResult reports the outcome of an executed trade back to the
// risk manager. HasPnL distinguishes "no realized P&L yet" from zero.
type TradeResult struct {
	PnL    float64
	HasPnL bool
}

// Summary is the manager's current risk-tracking state.
type Summary struct {
	DailyPnL      float64
	MaxDailyLoss  float64
	LastResetDate time.Time
}
