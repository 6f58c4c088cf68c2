package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	trades := tradesFromProfits(10, 20, 30, 40, 50)
	trades[1].EntryTime = time.Time{}
	trades[2].NetProfit = math.NaN()
	trades[3].PositionSize = math.Inf(1)

	valid, rejected := Sanitize(trades)

	require.Len(t, valid, 2)
	assert.Equal(t, "A", valid[0].TradeID)
	assert.Equal(t, "E", valid[1].TradeID)

	require.Len(t, rejected, 3)
	assert.Equal(t, Rejected{TradeID: "B", Reason: "missing entry time"}, rejected[0])
	assert.Equal(t, "net_profit is not a finite number", rejected[1].Reason)
	assert.Equal(t, "trade D: position_size is not a finite number", rejected[2].String())
}

func TestSanitizeThenAnalyze(t *testing.T) {
	t.Parallel()

	trades := tradesFromProfits(100, -50, 0, 30)
	bad := tradesFromProfits(1)[0]
	bad.TradeID = "bad"
	bad.ExitTime = time.Time{}
	trades = append(trades, bad)

	valid, rejected := Sanitize(trades)
	assert.Len(t, rejected, 1)

	got := Analyze(valid)
	assert.Equal(t, 4, got.Metrics.TradeCount)
	assert.Equal(t, []float64{100, 50, 50, 80}, got.Charts.EquityCurve.Values)
}

func TestSanitizeEmpty(t *testing.T) {
	t.Parallel()

	valid, rejected := Sanitize(nil)
	assert.Empty(t, valid)
	assert.Empty(t, rejected)
}
