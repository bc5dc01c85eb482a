package types

import "time"

// OHLCV is a single market data bar for a fixed interval.
type OHLCV struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Symbol    string
}

// Positions maps a symbol to the quantity currently held.
// The simulated ledger never goes negative: sells clamp at zero.
type Positions map[string]float64

// TotalExposure returns the sum of absolute position sizes.
func (p Positions) TotalExposure() float64 {
	total := 0.0
	for _, qty := range p {
		if qty < 0 {
			total -= qty
		} else {
			total += qty
		}
	}
	return total
}

// MaxPosition returns the largest absolute position size.
func (p Positions) MaxPosition() float64 {
	max := 0.0
	for _, qty := range p {
		abs := qty
		if abs < 0 {
			abs = -abs
		}
		if abs > max {
			max = abs
		}
	}
	return max
}

// Clone returns an independent copy of the position map.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for sym, qty := range p {
		out[sym] = qty
	}
	return out
}

// Closes extracts the close price series from a window of bars.
func Closes(data []OHLCV) []float64 {
	closes := make([]float64, len(data))
	for i, bar := range data {
		closes[i] = bar.Close
	}
	return closes
}

// HasVolume reports whether any bar in the window carries volume data.
func HasVolume(data []OHLCV) bool {
	for _, bar := range data {
		if bar.Volume > 0 {
			return true
		}
	}
	return false
}
