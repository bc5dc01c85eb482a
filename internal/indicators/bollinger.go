package indicators

import "errors"

// BollingerBands represents the Bollinger Bands indicator.
type BollingerBands struct {
	period         int
	stdDevMultiple float64
}

// NewBollingerBands creates a new BollingerBands instance with the given
// period and standard deviation multiplier.
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{
		period:         period,
		stdDevMultiple: stdDev,
	}
}

// Calculate computes the upper, middle and lower bands plus the position
// of the current price within the bands (0 = lower band, 1 = upper band).
func (bb *BollingerBands) Calculate(prices []float64) (upper, middle, lower, position float64, err error) {
	if len(prices) < bb.period {
		return 0, 0, 0, 0, errors.New("insufficient data for Bollinger Bands calculation")
	}

	recent := prices[len(prices)-bb.period:]
	middle = mean(recent)
	sd := stdDev(recent, middle)

	upper = middle + (bb.stdDevMultiple * sd)
	lower = middle - (bb.stdDevMultiple * sd)

	currentPrice := prices[len(prices)-1]
	if upper == lower {
		position = 0.5
	} else {
		position = (currentPrice - lower) / (upper - lower)
	}
	return upper, middle, lower, position, nil
}

// Signal returns a verdict from the current price against the bands.
func (bb *BollingerBands) Signal(price, upper, lower float64) SignalType {
	switch {
	case price >= upper:
		return SignalSell
	case price <= lower:
		return SignalBuy
	default:
		return SignalHold
	}
}

// GetRequiredPeriods returns the minimum number of bars needed.
func (bb *BollingerBands) GetRequiredPeriods() int {
	return bb.period
}
