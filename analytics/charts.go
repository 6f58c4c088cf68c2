package analytics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

// ContractSize converts PositionSize (lots) into units when estimating the
// money at risk for R multiples. It assumes a standard 100k FX lot for
// every instrument, which overstates risk on metals and indices. Changing
// it would change every historical R distribution, so it stays fixed.
const ContractSize = 100000

const dayLayout = "2006-01-02"

// RBuckets are the R-distribution bins, lowest first:
// (-inf,-2] (-2,-1] (-1,0) [0,1) [1,2) [2,+inf)
var RBuckets = []string{"<= -2R", "-2R to -1R", "-1R to 0R", "0R to 1R", "1R to 2R", ">= 2R"}

func computeCharts(trades []journal.TradeRecord) Charts {
	equity, drawdown := equityAndDrawdown(trades)
	return Charts{
		EquityCurve:        equity,
		Drawdown:           drawdown,
		MonthlyPerformance: monthlyPerformance(trades),
		WinLoss:            winLoss(trades),
		RDistribution:      rDistribution(trades),
	}
}

// equityAndDrawdown builds the cumulative P/L curve and, for each point,
// the percentage below the running peak. The peak starts at zero, so
// points are never in drawdown until equity has been positive.
func equityAndDrawdown(trades []journal.TradeRecord) (Series, Series) {
	equity := newSeries(len(trades))
	drawdown := newSeries(len(trades))

	var cum, peak float64
	for _, tr := range trades {
		label := tr.EntryTime.Format(dayLayout)
		cum += tr.NetProfit
		peak = max(peak, cum)

		var dd float64
		if peak > 0 {
			dd = (peak - cum) / peak * 100
		}

		equity.Labels = append(equity.Labels, label)
		equity.Values = append(equity.Values, cum)
		drawdown.Labels = append(drawdown.Labels, label)
		drawdown.Values = append(drawdown.Values, dd)
	}
	return equity, drawdown
}

// monthlyPerformance sums NetProfit per calendar month of entry. Keys are
// YYYY-MM, so sorting them as strings sorts them chronologically.
func monthlyPerformance(trades []journal.TradeRecord) Series {
	sums := make(map[string]float64)
	for _, tr := range trades {
		sums[tr.EntryTime.Format("2006-01")] += tr.NetProfit
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := newSeries(len(months))
	for _, m := range months {
		out.Labels = append(out.Labels, m)
		out.Values = append(out.Values, sums[m])
	}
	return out
}

func winLoss(trades []journal.TradeRecord) WinLoss {
	t := NewTally(trades)
	return WinLoss{Wins: t.Wins, Losses: t.Losses}
}

// InitialRisk is the money at risk between entry and the initial stop.
func InitialRisk(tr journal.TradeRecord) float64 {
	return risk.PlannedRisk(tr.EntryPrice, tr.StopLoss, tr.PositionSize, ContractSize)
}

// rBucket maps an R multiple to its index in RBuckets. Zero belongs to
// the [0,1) bucket.
func rBucket(r float64) int {
	switch {
	case r <= -2:
		return 0
	case r <= -1:
		return 1
	case r < 0:
		return 2
	case r < 1:
		return 3
	case r < 2:
		return 4
	default:
		return 5
	}
}

// rDistribution counts realized R multiples per bucket. Trades with no
// initial risk have no R multiple and are left out of this chart only.
func rDistribution(trades []journal.TradeRecord) Histogram {
	if len(trades) == 0 {
		return Histogram{Labels: []string{}, Counts: []int{}}
	}

	counts := make([]int, len(RBuckets))
	for _, tr := range trades {
		r, ok := risk.RMultiple(tr.NetProfit, InitialRisk(tr))
		if !ok {
			continue
		}
		counts[rBucket(r)]++
	}

	labels := make([]string, len(RBuckets))
	copy(labels, RBuckets)
	return Histogram{Labels: labels, Counts: counts}
}
