// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/risk"
)

// ExportHeader is the column order shared by the CSV and XLSX exports.
var ExportHeader = []string{
	"trade_id", "entry_datetime", "exit_datetime", "instrument", "order_type",
	"entry_price", "exit_price", "initial_stop_loss", "initial_take_profit",
	"position_size", "planned_rr", "status", "net_profit", "r_value",
	"emotions", "tags", "rationale", "review",
}

// exportRow renders one trade in ExportHeader order.
func exportRow(t TradeRecord) []string {
	return []string{
		t.TradeID,
		t.EntryTime.UTC().Format(time.RFC3339),
		t.ExitTime.UTC().Format(time.RFC3339),
		t.Instrument,
		string(t.OrderType),
		price(t.EntryPrice),
		price(t.ExitPrice),
		price(t.StopLoss),
		price(t.TakeProfit),
		f(t.PositionSize),
		f(risk.RR(t.EntryPrice, t.StopLoss, t.TakeProfit)),
		string(t.Status),
		f(t.NetProfit),
		f(t.RValue),
		t.Emotions,
		t.Tags,
		t.Rationale,
		t.Review,
	}
}

// WriteCSV writes trades with a header row.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(exportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func price(x float64) string {
	return strconv.FormatFloat(x, 'f', 5, 64)
}
