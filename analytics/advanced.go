package analytics

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

// Analyze computes the extended metrics and chart series. trades must be
// sorted by ascending EntryTime: the equity curve, drawdown and streaks
// are defined over that order.
func Analyze(trades []journal.TradeRecord) Analysis {
	return Analysis{
		Metrics: computeMetrics(trades),
		Charts:  computeCharts(trades),
	}
}

func computeMetrics(trades []journal.TradeRecord) Metrics {
	if len(trades) == 0 {
		return Metrics{
			AvgWinLoss:  formatWinLoss(0, 0),
			AvgDuration: "N/A",
		}
	}

	t := NewTally(trades)
	winPct := t.WinRate() * 100
	lossPct := t.LossRate() * 100
	avgWin, avgLoss := t.AvgWin(), t.AvgLoss()

	var rr float64
	if avgLoss != 0 {
		rr = avgWin / avgLoss
	}

	wins, losses := streaks(trades)

	return Metrics{
		TradeCount:     t.Total,
		WinRate:        winPct,
		RiskReward:     rr,
		AvgWinLoss:     formatWinLoss(avgWin, avgLoss),
		ProfitFactor:   t.ProfitFactor(),
		Expectancy:     winPct/100*avgWin - lossPct/100*avgLoss,
		AvgDuration:    averageDuration(trades),
		MaxWinStreak:   wins,
		MaxLossStreak:  losses,
		KellyCriterion: round2(risk.Kelly(winPct/100, lossPct/100, rr) * 100),
	}
}

func formatWinLoss(avgWin, avgLoss float64) string {
	return fmt.Sprintf("%.2f / %.2f", avgWin, avgLoss)
}

// streaks returns the longest runs of consecutive wins and losses. A
// breakeven trade ends both runs.
func streaks(trades []journal.TradeRecord) (maxWin, maxLoss int) {
	var win, loss int
	for _, tr := range trades {
		switch {
		case tr.NetProfit > 0:
			win++
			loss = 0
		case tr.NetProfit < 0:
			loss++
			win = 0
		default:
			win, loss = 0, 0
		}
		maxWin = max(maxWin, win)
		maxLoss = max(maxLoss, loss)
	}
	return maxWin, maxLoss
}

// averageDuration renders the mean holding time as "{d}d {h}h {m}m",
// truncating toward the earlier minute.
func averageDuration(trades []journal.TradeRecord) string {
	if len(trades) == 0 {
		return "N/A"
	}

	var total float64
	for _, tr := range trades {
		total += tr.ExitTime.Sub(tr.EntryTime).Seconds()
	}
	secs := int64(math.Floor(total / float64(len(trades))))

	days := floorDiv(secs, 86400)
	rem := secs - days*86400
	hours := rem / 3600
	minutes := (rem % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// floorDiv divides rounding toward negative infinity so a negative mean
// (exit recorded before entry) still yields non-negative hours and minutes.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
