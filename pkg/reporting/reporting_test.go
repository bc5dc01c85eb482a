package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
	"github.com/cryptoalpha/alpha-agent/internal/strategy"
)

func sampleResults() *backtest.Results {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &backtest.Results{
		Name:         "trend_reversal",
		InitialValue: 10000,
		FinalValue:   10150,
		Snapshots: []backtest.PortfolioSnapshot{
			{Timestamp: start, Value: 10000, ReferencePrice: 40000},
			{Timestamp: start.AddDate(0, 0, 1), Value: 10150, ReferencePrice: 43000},
		},
		Trades: []backtest.Trade{
			{
				Timestamp:      start.Add(23 * time.Hour),
				Action:         strategy.SignalBuy,
				Symbol:         "BTC/USD",
				Quantity:       0.05,
				FilledQuantity: 0.05,
				Price:          41000,
				Confidence:     0.3,
			},
		},
	}
}

func TestConsoleReporter_OutputResults(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).OutputResults(sampleResults())

	out := buf.String()
	assert.Contains(t, out, "BACKTEST RESULTS: trend_reversal")
	assert.Contains(t, out, "Total Return")
	assert.Contains(t, out, "RECENT TRADES")
	assert.Contains(t, out, "BUY")
}

func TestConsoleReporter_NoTrades(t *testing.T) {
	results := sampleResults()
	results.Trades = nil

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).OutputResults(results)
	assert.Contains(t, buf.String(), "No trades executed.")
}

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "backtest.json")
	require.NoError(t, WriteJSONReport(sampleResults(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "trend_reversal", report.Name)
	assert.Equal(t, 10000.0, report.InitialValue)
	require.Len(t, report.Trades, 1)
	assert.Equal(t, "BUY", report.Trades[0].Action)
	assert.Len(t, report.Snapshots, 2)
	assert.InDelta(t, 0.015, report.Metrics.TotalReturn, 1e-9)
}

func TestWriteExcelReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backtest.xlsx")
	require.NoError(t, WriteExcelReport(sampleResults(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.ElementsMatch(t, []string{"Summary", "Trades", "Portfolio"}, fx.GetSheetList())

	run, err := fx.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "trend_reversal", run)

	action, err := fx.GetCellValue("Trades", "B2")
	require.NoError(t, err)
	assert.Equal(t, "BUY", action)
}
