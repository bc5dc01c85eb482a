package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
)

type jsonTrade struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	Symbol         string    `json:"symbol"`
	Quantity       float64   `json:"quantity"`
	FilledQuantity float64   `json:"filled_quantity"`
	Price          float64   `json:"price"`
}

type jsonSnapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Value          float64   `json:"value"`
	ReferencePrice float64   `json:"reference_price"`
}

type jsonReport struct {
	Name         string           `json:"name"`
	GeneratedAt  time.Time        `json:"generated_at"`
	InitialValue float64          `json:"initial_value"`
	Metrics      backtest.Metrics `json:"metrics"`
	Trades       []jsonTrade      `json:"trades"`
	Snapshots    []jsonSnapshot   `json:"snapshots"`
}

// WriteJSONReport writes the full backtest results to a JSON file,
// creating parent directories as needed.
func WriteJSONReport(results *backtest.Results, path string) error {
	report := jsonReport{
		Name:         results.Name,
		GeneratedAt:  time.Now(),
		InitialValue: results.InitialValue,
		Metrics:      results.Metrics(),
		Trades:       make([]jsonTrade, 0, len(results.Trades)),
		Snapshots:    make([]jsonSnapshot, 0, len(results.Snapshots)),
	}

	for _, trade := range results.Trades {
		report.Trades = append(report.Trades, jsonTrade{
			Timestamp:      trade.Timestamp,
			Action:         trade.Action.String(),
			Symbol:         trade.Symbol,
			Quantity:       trade.Quantity,
			FilledQuantity: trade.FilledQuantity,
			Price:          trade.Price,
		})
	}
	for _, snap := range results.Snapshots {
		report.Snapshots = append(report.Snapshots, jsonSnapshot{
			Timestamp:      snap.Timestamp,
			Value:          snap.Value,
			ReferencePrice: snap.ReferencePrice,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
