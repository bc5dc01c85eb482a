package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cryptoalpha/alpha-agent/internal/backtest"
)

// ConsoleReporter prints backtest results as rounded tables.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a console reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a console reporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// OutputResults prints the result summary and the most recent trades.
func (r *ConsoleReporter) OutputResults(results *backtest.Results) {
	metrics := results.Metrics()

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("BACKTEST RESULTS: %s", results.Name))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"💰 Initial Value", fmt.Sprintf("$%.2f", results.InitialValue)},
		{"💰 Final Value", fmt.Sprintf("$%.2f", metrics.FinalValue)},
		{"📈 Total Return", fmt.Sprintf("%.2f%%", metrics.TotalReturn*100)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.3f", metrics.SharpeRatio)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", metrics.MaxDrawdown*100)},
		{"🔄 Total Trades", fmt.Sprintf("%d", metrics.TotalTrades)},
		{"✅ Win Rate", fmt.Sprintf("%.1f%%", metrics.WinRate*100)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 15, Align: text.AlignRight},
	})

	t.Render()
	r.printRecentTrades(results)
}

// printRecentTrades shows up to the last five trades of the run.
func (r *ConsoleReporter) printRecentTrades(results *backtest.Results) {
	if len(results.Trades) == 0 {
		fmt.Fprintln(r.out, "No trades executed.")
		return
	}

	trades := results.Trades
	if len(trades) > 5 {
		trades = trades[len(trades)-5:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("RECENT TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Action", "Symbol", "Quantity", "Price"})

	for _, trade := range trades {
		t.AppendRow(table.Row{
			trade.Timestamp.Format("2006-01-02 15:04"),
			trade.Action.String(),
			trade.Symbol,
			fmt.Sprintf("%.4f", trade.FilledQuantity),
			fmt.Sprintf("$%.2f", trade.Price),
		})
	}
	t.Render()
}
