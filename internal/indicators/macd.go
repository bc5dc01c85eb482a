package indicators

import "errors"

// MACD calculates the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD instance with the given fast, slow and signal periods.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Calculate computes the MACD line, signal line, and histogram for the
// last bar of the series. The signal line is an EMA of the MACD series.
func (m *MACD) Calculate(prices []float64) (macdLine, signalLine, histogram float64, err error) {
	if len(prices) < m.slowPeriod {
		return 0, 0, 0, errors.New("insufficient data for MACD calculation")
	}

	fastEMA := emaSeries(prices, m.fastPeriod)
	slowEMA := emaSeries(prices, m.slowPeriod)

	macdSeries := make([]float64, len(prices))
	for i := range prices {
		macdSeries[i] = fastEMA[i] - slowEMA[i]
	}

	signalSeries := emaSeries(macdSeries, m.signalPeriod)

	last := len(prices) - 1
	macdLine = macdSeries[last]
	signalLine = signalSeries[last]
	histogram = macdLine - signalLine
	return macdLine, signalLine, histogram, nil
}

// Signal returns a verdict from the current MACD/signal/histogram values.
func (m *MACD) Signal(macdLine, signalLine, histogram float64) SignalType {
	switch {
	case macdLine > signalLine && histogram > 0:
		return SignalBuy
	case macdLine < signalLine && histogram < 0:
		return SignalSell
	default:
		return SignalHold
	}
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (m *MACD) GetRequiredPeriods() int {
	return m.slowPeriod
}

func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if period <= 1 {
		copy(out, values)
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
