package indicators

import (
	"go.uber.org/zap"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// Analyzer computes the full technical snapshot for a market data window
// using the standard parameter set: RSI(14), MACD(12,26,9), Bollinger(20,2),
// SMA(20/50) and a 20-bar volume ratio.
type Analyzer struct {
	rsi       *RSI
	macd      *MACD
	bollinger *BollingerBands
	smaShort  *SMA
	smaLong   *SMA
	volPeriod int
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer with the standard indicator parameters.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{
		rsi:       NewRSI(14),
		macd:      NewMACD(12, 26, 9),
		bollinger: NewBollingerBands(20, 2.0),
		smaShort:  NewSMA(20),
		smaLong:   NewSMA(50),
		volPeriod: 20,
		logger:    logger,
	}
}

// Analyze produces a Snapshot for the window. Indicators whose period
// exceeds the window length are left absent; short windows never fail.
func (a *Analyzer) Analyze(data []types.OHLCV) *Snapshot {
	snap := &Snapshot{}
	if len(data) == 0 {
		return snap
	}

	closes := types.Closes(data)
	currentPrice := closes[len(closes)-1]

	if rsi, err := a.rsi.Calculate(closes); err == nil {
		snap.RSI = rsi
		snap.RSISignal = a.rsi.Signal(rsi)
		snap.HasRSI = true
	}

	if macdLine, signalLine, histogram, err := a.macd.Calculate(closes); err == nil {
		snap.MACD = macdLine
		snap.MACDSignalValue = signalLine
		snap.MACDHistogram = histogram
		snap.MACDSignal = a.macd.Signal(macdLine, signalLine, histogram)
		snap.HasMACD = true
	}

	if upper, middle, lower, position, err := a.bollinger.Calculate(closes); err == nil {
		snap.BBUpper = upper
		snap.BBMiddle = middle
		snap.BBLower = lower
		snap.BBPosition = position
		snap.BBSignal = a.bollinger.Signal(currentPrice, upper, lower)
		snap.HasBB = true
	}

	smaShort, errShort := a.smaShort.Calculate(closes)
	smaLong, errLong := a.smaLong.Calculate(closes)
	if errShort == nil && errLong == nil {
		snap.SMA20 = smaShort
		snap.SMA50 = smaLong
		snap.MASignal = CrossSignal(currentPrice, smaShort, smaLong)
		snap.HasMA = true
	}

	a.analyzeVolume(data, snap)

	a.logger.Debug("technical analysis complete",
		zap.Float64("rsi", snap.RSI),
		zap.String("rsi_signal", snap.RSISignal.String()),
		zap.String("macd_signal", snap.MACDSignal.String()),
		zap.Float64("bb_position", snap.BBPosition),
	)

	return snap
}

func (a *Analyzer) analyzeVolume(data []types.OHLCV, snap *Snapshot) {
	if len(data) < a.volPeriod || !types.HasVolume(data) {
		return
	}

	sum := 0.0
	for i := len(data) - a.volPeriod; i < len(data); i++ {
		sum += data[i].Volume
	}
	avgVolume := sum / float64(a.volPeriod)

	ratio := 1.0
	if avgVolume > 0 {
		ratio = data[len(data)-1].Volume / avgVolume
	}

	snap.VolumeRatio = ratio
	snap.HasVolume = true
	switch {
	case ratio > 1.5:
		snap.VolumeSignal = SignalBuy
	case ratio < 0.5:
		snap.VolumeSignal = SignalSell
	default:
		snap.VolumeSignal = SignalHold
	}
}
