package indicators

// SignalType is the discrete verdict a single indicator emits.
type SignalType int

const (
	SignalHold SignalType = iota
	SignalBuy
	SignalSell
)

// Direction maps the signal to +1, -1 or 0 for weighted aggregation.
func (s SignalType) Direction() float64 {
	switch s {
	case SignalBuy:
		return 1
	case SignalSell:
		return -1
	default:
		return 0
	}
}

func (s SignalType) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Snapshot is the full technical picture of one market data window.
// Value fields are only meaningful when the matching Has* flag is set;
// a window shorter than an indicator's period leaves that indicator
// absent rather than failing the whole analysis.
type Snapshot struct {
	RSI       float64
	RSISignal SignalType
	HasRSI    bool

	MACD            float64
	MACDSignalValue float64
	MACDHistogram   float64
	MACDSignal      SignalType
	HasMACD         bool

	BBUpper    float64
	BBLower    float64
	BBMiddle   float64
	BBPosition float64
	BBSignal   SignalType
	HasBB      bool

	SMA20    float64
	SMA50    float64
	MASignal SignalType
	HasMA    bool

	VolumeRatio  float64
	VolumeSignal SignalType
	HasVolume    bool
}

// RSIValue returns the snapshot RSI, or a neutral 50 when the window
// was too short to compute one.
func (s *Snapshot) RSIValue() float64 {
	if s == nil || !s.HasRSI {
		return 50
	}
	return s.RSI
}
