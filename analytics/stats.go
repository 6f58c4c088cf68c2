package analytics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// Tally is the single-pass fold both statistics paths start from.
// A trade is a win when NetProfit > 0 and a loss when NetProfit < 0; the
// user-entered Status is ignored and breakeven trades count only toward
// Total.
type Tally struct {
	Total       int
	Wins        int
	Losses      int
	GrossProfit float64
	GrossLoss   float64 // absolute value, always >= 0
}

func NewTally(trades []journal.TradeRecord) Tally {
	var t Tally
	var lossSum float64
	t.Total = len(trades)
	for _, tr := range trades {
		switch {
		case tr.NetProfit > 0:
			t.Wins++
			t.GrossProfit += tr.NetProfit
		case tr.NetProfit < 0:
			t.Losses++
			lossSum += tr.NetProfit
		}
	}
	t.GrossLoss = math.Abs(lossSum)
	return t
}

func (t Tally) WinRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Total)
}

func (t Tally) LossRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Losses) / float64(t.Total)
}

func (t Tally) ProfitFactor() float64 {
	if t.GrossLoss > 0 {
		return t.GrossProfit / t.GrossLoss
	}
	return 0
}

func (t Tally) AvgWin() float64 {
	if t.Wins == 0 {
		return 0
	}
	return t.GrossProfit / float64(t.Wins)
}

func (t Tally) AvgLoss() float64 {
	if t.Losses == 0 {
		return 0
	}
	return t.GrossLoss / float64(t.Losses)
}

func (t Tally) Expectancy() float64 {
	return t.WinRate()*t.AvgWin() - t.LossRate()*t.AvgLoss()
}

// ComputeStatistics summarizes trades in any order.
func ComputeStatistics(trades []journal.TradeRecord) Statistics {
	t := NewTally(trades)
	return Statistics{
		TotalTrades:  t.Total,
		WinRate:      t.WinRate(),
		ProfitFactor: t.ProfitFactor(),
		Expectancy:   t.Expectancy(),
	}
}
