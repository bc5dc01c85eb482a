package indicators

import (
	"errors"
	"math"
)

// RSI calculates the Relative Strength Index.
type RSI struct {
	period int
}

// NewRSI creates a new RSI instance with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Calculate computes the RSI value over the given close price series.
func (r *RSI) Calculate(prices []float64) (float64, error) {
	if len(prices) < r.period+1 {
		return 0, errors.New("insufficient data for RSI calculation")
	}

	changes := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	gains := make([]float64, len(changes))
	losses := make([]float64, len(changes))
	for i, change := range changes {
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = math.Abs(change)
		}
	}

	avgGain := mean(gains[len(gains)-r.period:])
	avgLoss := mean(losses[len(losses)-r.period:])

	if avgLoss == 0 {
		// A window with no losses at all is either flat (neutral) or
		// pure gains (maximally overbought).
		if avgGain == 0 {
			return 50, nil
		}
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// Signal maps an RSI value to a verdict: oversold buys, overbought sells.
func (r *RSI) Signal(rsi float64) SignalType {
	switch {
	case rsi > 70:
		return SignalSell
	case rsi < 30:
		return SignalBuy
	default:
		return SignalHold
	}
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (r *RSI) GetRequiredPeriods() int {
	return r.period + 1
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - avg
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
