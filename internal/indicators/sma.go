package indicators

import "errors"

// SMA represents the Simple Moving Average indicator.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Calculate computes the SMA over the most recent period of the series.
func (s *SMA) Calculate(prices []float64) (float64, error) {
	if len(prices) < s.period {
		return 0, errors.New("insufficient data for SMA calculation")
	}
	return mean(prices[len(prices)-s.period:]), nil
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}

// CrossSignal returns a verdict from price alignment against two SMAs:
// price above the short SMA above the long SMA is bullish, the mirrored
// alignment is bearish.
func CrossSignal(price, smaShort, smaLong float64) SignalType {
	switch {
	case price > smaShort && smaShort > smaLong:
		return SignalBuy
	case price < smaShort && smaShort < smaLong:
		return SignalSell
	default:
		return SignalHold
	}
}
