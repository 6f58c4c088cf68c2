package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/risk"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for pasting into a journal.
// Structured facts go in the PROPERTIES drawer; the narrative fields become sub-headings.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Instrument, t.OrderType, shortID(t.TradeID))
	entry := t.EntryTime.UTC().Format(time.RFC3339)
	exit := t.ExitTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.TradeID))
	b.WriteString(fmt.Sprintf(":INSTRUMENT: %s\n", t.Instrument))
	b.WriteString(fmt.Sprintf(":ORDER_TYPE: %s\n", t.OrderType))
	b.WriteString(fmt.Sprintf(":POSITION_SIZE: %.2f\n", t.PositionSize))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", t.ExitPrice))
	b.WriteString(fmt.Sprintf(":STOP_LOSS: %.5f\n", t.StopLoss))
	b.WriteString(fmt.Sprintf(":TAKE_PROFIT: %.5f\n", t.TakeProfit))
	b.WriteString(fmt.Sprintf(":PLANNED_RR: %.2f\n", risk.RR(t.EntryPrice, t.StopLoss, t.TakeProfit)))
	b.WriteString(fmt.Sprintf(":ENTRY_TIME: %s\n", entry))
	b.WriteString(fmt.Sprintf(":EXIT_TIME: %s\n", exit))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":NET_PROFIT: %.2f\n", t.NetProfit))
	b.WriteString(fmt.Sprintf(":R_VALUE: %.2f\n", t.RValue))
	if t.Emotions != "" {
		b.WriteString(fmt.Sprintf(":EMOTIONS: %s\n", t.Emotions))
	}
	if t.Tags != "" {
		b.WriteString(fmt.Sprintf(":TAGS: %s\n", t.Tags))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Rationale\n")
	b.WriteString(orgBody(t.Rationale))
	b.WriteString("\n*** Review\n")
	b.WriteString(orgBody(t.Review))
	for _, img := range t.Images {
		b.WriteString(fmt.Sprintf("\n[[file:%s][%s]]\n", img.Path, img.Kind))
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func orgBody(s string) string {
	if strings.TrimSpace(s) == "" {
		return "- \n"
	}
	return "- " + strings.TrimSpace(s) + "\n"
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
