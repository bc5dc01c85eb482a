package backtest

import "math"

// Metrics summarizes a simulation run over its snapshot and trade
// sequences.
type Metrics struct {
	TotalReturn float64 `json:"total_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
	TotalTrades int     `json:"total_trades"`
	WinRate     float64 `json:"win_rate"`
	FinalValue  float64 `json:"final_value"`
}

// Metrics computes the performance summary. Returns a zero value when
// the run produced no snapshots.
func (r *Results) Metrics() Metrics {
	if len(r.Snapshots) == 0 {
		return Metrics{}
	}

	first := r.Snapshots[0].Value
	final := r.Snapshots[len(r.Snapshots)-1].Value

	return Metrics{
		TotalReturn: (final - first) / first,
		SharpeRatio: r.sharpeRatio(),
		MaxDrawdown: r.maxDrawdown(),
		TotalTrades: len(r.Trades),
		WinRate:     r.winRate(),
		FinalValue:  final,
	}
}

// sharpeRatio is the mean per-snapshot return over its standard
// deviation, risk-free rate assumed zero. Zero when the deviation is
// zero or fewer than two snapshots exist.
func (r *Results) sharpeRatio() float64 {
	var returns []float64
	for i := 1; i < len(r.Snapshots); i++ {
		prev := r.Snapshots[i-1].Value
		if prev != 0 {
			returns = append(returns, (r.Snapshots[i].Value-prev)/prev)
		}
	}
	if len(returns) == 0 {
		return 0
	}

	avg := 0.0
	for _, ret := range returns {
		avg += ret
	}
	avg /= float64(len(returns))

	variance := 0.0
	for _, ret := range returns {
		d := ret - avg
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(returns)))

	if stdDev < 1e-10 {
		return 0
	}
	return avg / stdDev
}

// maxDrawdown is the largest relative decline from the running peak
// portfolio value, in [0,1].
func (r *Results) maxDrawdown() float64 {
	peak := r.Snapshots[0].Value
	maxDD := 0.0
	for _, snap := range r.Snapshots {
		if snap.Value > peak {
			peak = snap.Value
		}
		if peak > 0 {
			dd := (peak - snap.Value) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

type costBasis struct {
	quantity float64
	avgCost  float64
}

// winRate attributes P&L to individual trades using an average-cost
// basis: every SELL realizes (price - avgCost) x filled quantity, and
// positions still open at the end are marked at the final reference
// price. A trade counts as a win when its attributed P&L is positive.
func (r *Results) winRate() float64 {
	if len(r.Trades) == 0 {
		return 0
	}

	basis := map[string]*costBasis{}
	wins, counted := 0, 0

	for _, trade := range r.Trades {
		b := basis[trade.Symbol]
		if b == nil {
			b = &costBasis{}
			basis[trade.Symbol] = b
		}

		if trade.Action.Direction() > 0 {
			total := b.quantity + trade.FilledQuantity
			if total > 0 {
				b.avgCost = (b.avgCost*b.quantity + trade.Price*trade.FilledQuantity) / total
			}
			b.quantity = total
			continue
		}

		// SELL against nothing held realizes nothing.
		if trade.FilledQuantity <= 0 {
			continue
		}
		counted++
		if (trade.Price-b.avgCost)*trade.FilledQuantity > 0 {
			wins++
		}
		b.quantity -= trade.FilledQuantity
	}

	finalPrice := r.Snapshots[len(r.Snapshots)-1].ReferencePrice
	for _, b := range basis {
		if b.quantity <= 0 {
			continue
		}
		counted++
		if finalPrice > b.avgCost {
			wins++
		}
	}

	if counted == 0 {
		return 0
	}
	return float64(wins) / float64(counted)
}
