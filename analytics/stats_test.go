package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// tradesFromProfits builds one trade per day, one hour long, with the given
// net profits in order.
func tradesFromProfits(profits ...float64) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(profits))
	for i, p := range profits {
		entry := baseTime.Add(time.Duration(i) * 24 * time.Hour)
		out[i] = journal.TradeRecord{
			TradeID:      string(rune('A' + i)),
			EntryTime:    entry,
			ExitTime:     entry.Add(time.Hour),
			Instrument:   "EUR/USD",
			OrderType:    journal.Buy,
			EntryPrice:   1.1000,
			ExitPrice:    1.1010,
			StopLoss:     1.0950,
			TakeProfit:   1.1100,
			PositionSize: 1.0,
			Status:       journal.StatusWin,
			NetProfit:    p,
		}
	}
	return out
}

func TestComputeStatisticsEmpty(t *testing.T) {
	t.Parallel()

	got := ComputeStatistics(nil)
	assert.Equal(t, Statistics{}, got)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_trades":0,"win_rate":0,"profit_factor":0,"expectancy":0}`, string(b))
}

func TestComputeStatisticsMixed(t *testing.T) {
	t.Parallel()

	got := ComputeStatistics(tradesFromProfits(100, -50, 0, 30))

	assert.Equal(t, 4, got.TotalTrades)
	assert.InDelta(t, 0.5, got.WinRate, 1e-12)
	assert.InDelta(t, 2.6, got.ProfitFactor, 1e-12)
	// 0.5*65 - 0.25*50
	assert.InDelta(t, 20.0, got.Expectancy, 1e-12)
}

func TestComputeStatisticsIgnoresStatus(t *testing.T) {
	t.Parallel()

	trades := tradesFromProfits(-10, 20)
	// status says the opposite of the profit
	trades[0].Status = journal.StatusWin
	trades[1].Status = journal.StatusLoss

	tally := NewTally(trades)
	assert.Equal(t, 1, tally.Wins)
	assert.Equal(t, 1, tally.Losses)
	assert.InDelta(t, 20.0, tally.GrossProfit, 1e-12)
	assert.InDelta(t, 10.0, tally.GrossLoss, 1e-12)
}

func TestComputeStatisticsAllBreakeven(t *testing.T) {
	t.Parallel()

	trades := tradesFromProfits(0, 0, 0)
	got := ComputeStatistics(trades)

	assert.Equal(t, 3, got.TotalTrades)
	assert.Equal(t, 0.0, got.WinRate)
	assert.Equal(t, 0.0, got.ProfitFactor)
	assert.Equal(t, 0.0, got.Expectancy)
	assert.Equal(t, WinLoss{}, Analyze(trades).Charts.WinLoss)
}

func TestProfitFactorZeroWithoutLosses(t *testing.T) {
	t.Parallel()

	got := ComputeStatistics(tradesFromProfits(100, 250, 0))
	assert.Equal(t, 0.0, got.ProfitFactor)
	assert.InDelta(t, 2.0/3.0, got.WinRate, 1e-12)
}

func TestTallyCountsNeverExceedTotal(t *testing.T) {
	t.Parallel()

	cases := [][]float64{
		{},
		{0},
		{1, -1, 0},
		{0, 0, 5, -5, 0, 3},
	}
	for _, profits := range cases {
		tally := NewTally(tradesFromProfits(profits...))
		assert.LessOrEqual(t, tally.Wins+tally.Losses, tally.Total)
		assert.GreaterOrEqual(t, tally.GrossLoss, 0.0)
	}
}

func TestComputeStatisticsOrderIndependent(t *testing.T) {
	t.Parallel()

	a := tradesFromProfits(100, -50, 0, 30)
	b := []journal.TradeRecord{a[3], a[1], a[0], a[2]}
	assert.Equal(t, ComputeStatistics(a), ComputeStatistics(b))
}
