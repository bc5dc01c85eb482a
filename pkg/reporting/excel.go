package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
)

// WriteExcelReport writes backtest results to an Excel workbook with
// summary, trade and portfolio sheets.
func WriteExcelReport(results *backtest.Results, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(fx, results, headerStyle); err != nil {
		return err
	}
	if err := writeTradesSheet(fx, results, headerStyle); err != nil {
		return err
	}
	if err := writePortfolioSheet(fx, results, headerStyle); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(fx *excelize.File, results *backtest.Results, headerStyle int) error {
	const sheet = "Summary"
	if err := fx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	metrics := results.Metrics()
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Run", results.Name},
		{"Initial Value", results.InitialValue},
		{"Final Value", metrics.FinalValue},
		{"Total Return", metrics.TotalReturn},
		{"Sharpe Ratio", metrics.SharpeRatio},
		{"Max Drawdown", metrics.MaxDrawdown},
		{"Total Trades", metrics.TotalTrades},
		{"Win Rate", metrics.WinRate},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(sheet, "A1", "B1", headerStyle)
}

func writeTradesSheet(fx *excelize.File, results *backtest.Results, headerStyle int) error {
	const sheet = "Trades"
	if _, err := fx.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Timestamp", "Action", "Symbol", "Quantity", "Filled", "Price", "Confidence"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, trade := range results.Trades {
		row := []interface{}{
			trade.Timestamp.Format("2006-01-02 15:04:05"),
			trade.Action.String(),
			trade.Symbol,
			trade.Quantity,
			trade.FilledQuantity,
			trade.Price,
			trade.Confidence,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(sheet, "A1", "G1", headerStyle)
}

func writePortfolioSheet(fx *excelize.File, results *backtest.Results, headerStyle int) error {
	const sheet = "Portfolio"
	if _, err := fx.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Timestamp", "Value", "Reference Price"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, snap := range results.Snapshots {
		row := []interface{}{
			snap.Timestamp.Format("2006-01-02 15:04:05"),
			snap.Value,
			snap.ReferencePrice,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(sheet, "A1", "C1", headerStyle)
}
