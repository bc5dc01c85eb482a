package risk

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const tradingDaysPerYear = 252

// Params configures a Manager.
type Params struct {
	MaxPositionSize float64 // fraction of portfolio per position
	MaxDailyLoss    float64 // daily loss at which trading stops
	PortfolioValue  float64 // reference portfolio value for exposure ratios
}

// Manager scores market, position, portfolio and liquidity risk, gates
// trades, and sizes positions. It owns the daily P&L state; concurrent
// callers are serialized internally.
type Manager struct {
	params Params
	logger *zap.Logger

	mu            sync.Mutex
	dailyPnL      float64
	lastResetDate time.Time

	now func() time.Time
}

// NewManager creates a risk manager with the given parameters.
func NewManager(params Params, logger *zap.Logger) *Manager {
	m := &Manager{
		params: params,
		logger: logger,
		now:    time.Now,
	}
	m.lastResetDate = dateOf(m.now())
	return m
}

// AssessRisk produces a full risk assessment for the window and the
// currently held positions. It reads no mutable state: identical inputs
// yield identical assessments.
func (m *Manager) AssessRisk(window []types.OHLCV, positions types.Positions) Assessment {
	assessment := Assessment{
		Timestamp: m.now(),
		Market:    m.assessMarketRisk(window),
		Position:  m.assessPositionRisk(positions),
		Portfolio: m.assessPortfolioRisk(positions),
		Liquidity: m.assessLiquidityRisk(window),
	}

	assessment.OverallRisk = 0.3*assessment.Market.Volatility +
		0.25*assessment.Position.ConcentrationRisk +
		0.25*assessment.Portfolio.ExposureRatio +
		0.2*(2.0-assessment.Liquidity.LiquidityScore)
	assessment.RiskScore = clamp(assessment.OverallRisk, 0, 1)

	m.logger.Debug("risk assessment",
		zap.Float64("volatility", assessment.Market.Volatility),
		zap.String("trend", string(assessment.Market.Trend)),
		zap.Float64("risk_score", assessment.RiskScore),
	)

	return assessment
}

// CanTrade reports whether trading is allowed. Each gate is individually
// sufficient to block: daily loss limit, overall risk score, volatility.
func (m *Manager) CanTrade(assessment Assessment) bool {
	m.mu.Lock()
	dailyPnL := m.dailyPnL
	m.mu.Unlock()

	switch {
	case dailyPnL <= -m.params.MaxDailyLoss:
		m.logger.Info("trading blocked: daily loss limit reached",
			zap.Float64("daily_pnl", dailyPnL))
		return false
	case assessment.RiskScore > 0.8:
		m.logger.Info("trading blocked: risk score too high",
			zap.Float64("risk_score", assessment.RiskScore))
		return false
	case assessment.Market.Volatility > 0.10:
		m.logger.Info("trading blocked: market too volatile",
			zap.Float64("volatility", assessment.Market.Volatility))
		return false
	default:
		return true
	}
}

// CalculatePositionSize returns a position size scaled by signal strength
// and reduced by the current risk score, clamped to [0.01, max].
func (m *Manager) CalculatePositionSize(signalStrength float64, assessment Assessment) float64 {
	size := m.params.MaxPositionSize *
		math.Min(signalStrength, 1.0) *
		(1.0 - assessment.RiskScore)
	return clamp(size, 0.01, m.params.MaxPositionSize)
}

// UpdateDailyPnL folds a trade result into the daily P&L, resetting the
// accumulator when the local date has rolled over.
func (m *Manager) UpdateDailyPnL(result TradeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := dateOf(m.now())
	if !today.Equal(m.lastResetDate) {
		m.dailyPnL = 0
		m.lastResetDate = today
	}

	if result.HasPnL {
		m.dailyPnL += result.PnL
	}
}

// Summary returns the current risk-tracking state.
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		DailyPnL:      m.dailyPnL,
		MaxDailyLoss:  m.params.MaxDailyLoss,
		LastResetDate: m.lastResetDate,
	}
}

func (m *Manager) assessMarketRisk(window []types.OHLCV) MarketRisk {
	if len(window) == 0 {
		return MarketRisk{Trend: TrendNeutral}
	}

	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev != 0 {
			returns = append(returns, (window[i].Close-prev)/prev)
		}
	}

	volatility := 0.0
	if len(returns) > 0 {
		avg := 0.0
		for _, r := range returns {
			avg += r
		}
		avg /= float64(len(returns))
		variance := 0.0
		for _, r := range returns {
			d := r - avg
			variance += d * d
		}
		volatility = math.Sqrt(variance/float64(len(returns))) * math.Sqrt(tradingDaysPerYear)
	}

	first := window[0].Close
	priceChange := 0.0
	if first != 0 {
		priceChange = (window[len(window)-1].Close - first) / first
	}

	trend := TrendNeutral
	if priceChange > 0.02 {
		trend = TrendBullish
	} else if priceChange < -0.02 {
		trend = TrendBearish
	}

	return MarketRisk{Volatility: volatility, Trend: trend, PriceChange: priceChange}
}

func (m *Manager) assessPositionRisk(positions types.Positions) PositionRisk {
	if len(positions) == 0 {
		return PositionRisk{}
	}

	totalExposure := positions.TotalExposure()
	concentration := 0.0
	if totalExposure > 0 {
		concentration = positions.MaxPosition() / totalExposure
	}

	return PositionRisk{
		ConcentrationRisk: concentration,
		TotalExposure:     totalExposure,
		PositionCount:     len(positions),
	}
}

func (m *Manager) assessPortfolioRisk(positions types.Positions) PortfolioRisk {
	exposureRatio := 0.0
	if m.params.PortfolioValue > 0 {
		exposureRatio = positions.TotalExposure() / m.params.PortfolioValue
	}

	return PortfolioRisk{
		ExposureRatio: exposureRatio,
		Overexposed:   exposureRatio > m.params.MaxPositionSize*2,
		LeverageRatio: exposureRatio,
	}
}

func (m *Manager) assessLiquidityRisk(window []types.OHLCV) LiquidityRisk {
	if len(window) == 0 || !types.HasVolume(window) {
		return LiquidityRisk{LiquidityScore: 1.0}
	}

	sum := 0.0
	for _, bar := range window {
		sum += bar.Volume
	}
	avgVolume := sum / float64(len(window))

	ratio := 1.0
	if avgVolume > 0 {
		ratio = window[len(window)-1].Volume / avgVolume
	}

	return LiquidityRisk{
		LiquidityScore: math.Min(ratio, 2.0),
		VolumeRatio:    ratio,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
