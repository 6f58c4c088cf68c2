package analytics

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// Rejected names a trade left out of a computation and why.
type Rejected struct {
	TradeID string
	Reason  string
}

func (r Rejected) String() string {
	return fmt.Sprintf("trade %s: %s", r.TradeID, r.Reason)
}

// Sanitize splits trades into records the engine can use and records it
// cannot (missing timestamps, non-finite numbers). Order is preserved.
// One bad record never affects the others.
func Sanitize(trades []journal.TradeRecord) ([]journal.TradeRecord, []Rejected) {
	valid := make([]journal.TradeRecord, 0, len(trades))
	var rejected []Rejected
	for _, tr := range trades {
		if reason := check(tr); reason != "" {
			rejected = append(rejected, Rejected{TradeID: tr.TradeID, Reason: reason})
			continue
		}
		valid = append(valid, tr)
	}
	return valid, rejected
}

func check(tr journal.TradeRecord) string {
	if tr.EntryTime.IsZero() {
		return "missing entry time"
	}
	if tr.ExitTime.IsZero() {
		return "missing exit time"
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"entry_price", tr.EntryPrice},
		{"exit_price", tr.ExitPrice},
		{"initial_stop_loss", tr.StopLoss},
		{"initial_take_profit", tr.TakeProfit},
		{"position_size", tr.PositionSize},
		{"net_profit", tr.NetProfit},
		{"r_value", tr.RValue},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return f.name + " is not a finite number"
		}
	}
	return ""
}
