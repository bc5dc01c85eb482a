package prediction

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

const minWindow = 50

// ErrInsufficientData is returned when the window is too short to build
// a feature vector.
var ErrInsufficientData = errors.New("insufficient data for prediction")

// Prediction is the output of one prediction pass.
type Prediction struct {
	PredictedPrice     float64
	Confidence         float64 // 0..100
	CurrentPrice       float64
	PriceChange        float64
	PriceChangePercent float64
}

// Features is the vector extracted from a window: current prices, moving
// averages, RSI, multi-period momentum and rolling volatility.
type Features struct {
	Close  float64
	High   float64
	Low    float64
	Volume float64

	SMA20 float64
	SMA50 float64
	RSI   float64

	Momentum   [4]float64 // 1, 5, 10, 20 bars
	Volatility [3]float64 // 5, 10, 20 bars
}

// Predictor estimates the next price from a market data window. Without a
// trained model it falls back to a momentum-adjusted heuristic with a
// fixed low confidence; model training is an external concern.
type Predictor struct {
	logger *zap.Logger
}

// NewPredictor creates a price predictor.
func NewPredictor(logger *zap.Logger) *Predictor {
	return &Predictor{logger: logger}
}

// Predict returns a price prediction for the window, or
// ErrInsufficientData when fewer than 50 bars are available.
func (p *Predictor) Predict(window []types.OHLCV) (Prediction, error) {
	if len(window) < minWindow {
		return Prediction{}, ErrInsufficientData
	}

	features := p.extractFeatures(window)
	currentPrice := features.Close

	// Heuristic: project the short-term momentum forward, damped.
	predicted := currentPrice * (1 + features.Momentum[1]*0.1)

	change := predicted - currentPrice
	changePercent := 0.0
	if currentPrice != 0 {
		changePercent = change / currentPrice * 100
	}

	p.logger.Debug("price prediction",
		zap.Float64("current", currentPrice),
		zap.Float64("predicted", predicted),
		zap.Float64("change_percent", changePercent),
	)

	return Prediction{
		PredictedPrice:     predicted,
		Confidence:         30.0,
		CurrentPrice:       currentPrice,
		PriceChange:        change,
		PriceChangePercent: changePercent,
	}, nil
}

func (p *Predictor) extractFeatures(window []types.OHLCV) Features {
	last := window[len(window)-1]
	closes := types.Closes(window)

	f := Features{
		Close:  last.Close,
		High:   last.High,
		Low:    last.Low,
		Volume: last.Volume,
		SMA20:  tailMean(closes, 20),
		SMA50:  tailMean(closes, 50),
		RSI:    rsi14(closes),
	}

	momentumPeriods := [4]int{1, 5, 10, 20}
	for i, period := range momentumPeriods {
		if len(closes) > period {
			past := closes[len(closes)-period-1]
			if past != 0 {
				f.Momentum[i] = (last.Close - past) / past
			}
		}
	}

	volatilityPeriods := [3]int{5, 10, 20}
	for i, period := range volatilityPeriods {
		f.Volatility[i] = rollingReturnStdDev(closes, period)
	}

	return f
}

func tailMean(values []float64, period int) float64 {
	if len(values) < period {
		return values[len(values)-1]
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

func rsi14(closes []float64) float64 {
	const period = 14
	if len(closes) < period+1 {
		return 50
	}

	gains, losses := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		return 100
	}
	rs := gains / losses
	return 100 - (100 / (1 + rs))
}

func rollingReturnStdDev(closes []float64, period int) float64 {
	if len(closes) <= period {
		return 0
	}

	returns := make([]float64, 0, period)
	for i := len(closes) - period; i < len(closes); i++ {
		prev := closes[i-1]
		if prev != 0 {
			returns = append(returns, (closes[i]-prev)/prev)
		}
	}
	if len(returns) == 0 {
		return 0
	}

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
	return math.Sqrt(variance / float64(len(returns)))
}
