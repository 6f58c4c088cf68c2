// Package report renders journal analytics for the terminal and as Org
// documents.
package report

import (
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

// Report is a snapshot of the journal's performance.
type Report struct {
	Title   string
	Created time.Time

	// first and last entry in the analysed set
	Start time.Time
	End   time.Time

	NetPL    float64
	MaxDDPct float64

	Stats    analytics.Statistics
	Analysis analytics.Analysis
	Rejected []analytics.Rejected
}

// Build analyses trades, which must be ordered by entry time.
func Build(title string, trades []journal.TradeRecord, now time.Time) Report {
	valid, rejected := analytics.Sanitize(trades)

	r := Report{
		Title:    title,
		Created:  now,
		Stats:    analytics.ComputeStatistics(valid),
		Analysis: analytics.Analyze(valid),
		Rejected: rejected,
	}
	if len(valid) > 0 {
		r.Start = valid[0].EntryTime
		r.End = valid[len(valid)-1].EntryTime
	}
	for _, tr := range valid {
		r.NetPL += tr.NetProfit
	}
	for _, dd := range r.Analysis.Charts.Drawdown.Values {
		r.MaxDDPct = max(r.MaxDDPct, dd)
	}
	return r
}
