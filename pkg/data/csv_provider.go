package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cryptoalpha/alpha-agent/pkg/types"
)

// CSVColumnMapping defines the column positions and date layout of a
// CSV data file.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCSVFormat matches "timestamp,open,high,low,close,volume".
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02 15:04:05",
}

// CSVProvider implements Provider for CSV files.
type CSVProvider struct {
	format CSVColumnMapping
	symbol string
}

// NewCSVProvider creates a CSV data provider with the default format.
// Loaded bars carry the given symbol.
func NewCSVProvider(symbol string) *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat, symbol: symbol}
}

// NewCSVProviderWithFormat creates a CSV data provider with a custom
// column mapping.
func NewCSVProviderWithFormat(symbol string, format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format, symbol: symbol}
}

// GetName returns the name of the data provider.
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file. Rows with malformed
// fields are skipped rather than failing the whole load.
func (p *CSVProvider) LoadData(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var bars []types.OHLCV
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		bar, ok := p.parseRecord(record)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid bars in %s", filename)
	}
	return bars, nil
}

func (p *CSVProvider) parseRecord(record []string) (types.OHLCV, bool) {
	if len(record) < p.format.MinColumns {
		return types.OHLCV{}, false
	}

	timestamp, err := time.Parse(p.format.DateFormat, record[p.format.TimestampCol])
	if err != nil {
		return types.OHLCV{}, false
	}

	fields := [5]float64{}
	for i, col := range [5]int{p.format.OpenCol, p.format.HighCol, p.format.LowCol, p.format.CloseCol, p.format.VolumeCol} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.OHLCV{}, false
		}
		fields[i] = v
	}

	return types.OHLCV{
		Timestamp: timestamp,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
		Symbol:    p.symbol,
	}, true
}
