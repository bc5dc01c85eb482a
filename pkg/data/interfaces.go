package data

import (
	"fmt"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// Provider loads historical market data from some source.
type Provider interface {
	// LoadData loads all bars from the given source identifier.
	LoadData(source string) ([]types.OHLCV, error)

	// GetName returns a human-readable provider name.
	GetName() string
}

// ValidateData checks basic integrity of a bar series: positive prices,
// non-negative volume, high/low envelope and monotonic timestamps.
func ValidateData(bars []types.OHLCV) error {
	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("non-positive price at bar %d", i)
		}
		if bar.Volume < 0 {
			return fmt.Errorf("negative volume at bar %d", i)
		}
		if bar.High < bar.Low {
			return fmt.Errorf("high below low at bar %d", i)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(bar.Timestamp) {
			return fmt.Errorf("non-monotonic timestamp at bar %d", i)
		}
	}
	return nil
}
