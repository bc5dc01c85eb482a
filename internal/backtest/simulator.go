package backtest

import (
	"time"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/internal/engine"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const (
	// chunkSize is the number of bars handed to the engine per decision
	// cycle, simulating periodic re-analysis of a live feed.
	chunkSize = 24

	// minChunkBars is the minimum chunk length worth analyzing; shorter
	// trailing chunks are skipped.
	minChunkBars = 10
)

// Trade is one filled order in the simulation. Quantity is the requested
// size; FilledQuantity is what the ledger actually absorbed (SELL orders
// cannot take a position below zero).
type Trade struct {
	Timestamp      time.Time
	Action         strategy.Signal
	Symbol         string
	Quantity       float64
	FilledQuantity float64
	Price          float64
	Confidence     float64
}

// PortfolioSnapshot records the portfolio value after one processed
// chunk, marked at that chunk's closing price.
type PortfolioSnapshot struct {
	Timestamp      time.Time
	Value          float64
	ReferencePrice float64
}

// Results holds the full output of one simulation run.
type Results struct {
	Name         string
	InitialValue float64
	FinalValue   float64
	Snapshots    []PortfolioSnapshot
	Trades       []Trade
	Positions    types.Positions
}

// Simulator replays historical data through a decision engine chunk by
// chunk, maintaining the position ledger and portfolio history. One
// simulator run is strictly sequential; each chunk's fill precedes the
// next chunk's analysis.
type Simulator struct {
	engine       *engine.Engine
	initialValue float64
	logger       *zap.Logger
}

// NewSimulator creates a backtest simulator around a decision engine.
// initialValue is the fixed cash base of the simulated portfolio.
func NewSimulator(eng *engine.Engine, initialValue float64, logger *zap.Logger) *Simulator {
	return &Simulator{
		engine:       eng,
		initialValue: initialValue,
		logger:       logger,
	}
}

// Run executes the simulation over the full data set.
func (s *Simulator) Run(name string, data []types.OHLCV) *Results {
	positions := types.Positions{}
	results := &Results{
		Name:         name,
		InitialValue: s.initialValue,
		FinalValue:   s.initialValue,
		Positions:    positions,
	}

	s.logger.Info("backtest started",
		zap.String("name", name),
		zap.Int("bars", len(data)),
	)

	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[start:end]
		if len(chunk) < minChunkBars {
			continue
		}

		// Analysis sees a copy of the ledger; only fill mutates it.
		analysis := s.engine.AnalyzeMarket(chunk, positions.Clone())
		decision := s.engine.MakeTradingDecision(analysis)

		last := chunk[len(chunk)-1]
		if decision != nil {
			results.Trades = append(results.Trades, s.fill(positions, decision, last))
		}

		results.Snapshots = append(results.Snapshots, PortfolioSnapshot{
			Timestamp:      last.Timestamp,
			Value:          s.portfolioValue(positions, last.Close),
			ReferencePrice: last.Close,
		})
	}

	if len(results.Snapshots) > 0 {
		results.FinalValue = results.Snapshots[len(results.Snapshots)-1].Value
	}

	s.logger.Info("backtest finished",
		zap.String("name", name),
		zap.Int("trades", len(results.Trades)),
		zap.Float64("final_value", results.FinalValue),
	)
	return results
}

// fill applies a decision to the ledger at the chunk's closing price.
// BUY adds the quantity; SELL removes it but clamps the position at
// zero, so the ledger never goes short.
func (s *Simulator) fill(positions types.Positions, decision *engine.TradeDecision, bar types.OHLCV) Trade {
	held := positions[decision.Symbol]
	filled := decision.Quantity

	switch decision.Action {
	case strategy.SignalBuy:
		positions[decision.Symbol] = held + decision.Quantity
	case strategy.SignalSell:
		if decision.Quantity > held {
			filled = held
		}
		positions[decision.Symbol] = held - filled
	}

	s.logger.Debug("trade filled",
		zap.String("action", decision.Action.String()),
		zap.String("symbol", decision.Symbol),
		zap.Float64("quantity", decision.Quantity),
		zap.Float64("filled", filled),
		zap.Float64("price", bar.Close),
	)

	return Trade{
		Timestamp:      bar.Timestamp,
		Action:         decision.Action,
		Symbol:         decision.Symbol,
		Quantity:       decision.Quantity,
		FilledQuantity: filled,
		Price:          bar.Close,
		Confidence:     decision.Confidence,
	}
}

func (s *Simulator) portfolioValue(positions types.Positions, price float64) float64 {
	value := s.initialValue
	for _, qty := range positions {
		value += qty * price
	}
	return value
}
