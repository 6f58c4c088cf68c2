package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

const rule = "--------------------------------------------------"

func section(w io.Writer, name string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(name))
	fmt.Fprintln(w, rule)
}

func money(x float64) string {
	s := fmt.Sprintf("%.2f", x)
	switch {
	case x > 0:
		return winStyle.Render(s)
	case x < 0:
		return lossStyle.Render(s)
	}
	return s
}

// Print writes a plain-text summary of r.
func Print(w io.Writer, r Report) {
	m := r.Analysis.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, titleStyle.Render(r.Title))
	fmt.Fprintln(w, "==================================================")

	if r.Stats.TotalTrades == 0 {
		fmt.Fprintln(w, "No trades recorded.")
		printRejected(w, r)
		fmt.Fprintln(w)
		return
	}

	section(w, "Period")
	fmt.Fprintf(w, "First entry:   %s\n", r.Start.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Last entry:    %s\n", r.End.Format("2006-01-02 15:04"))

	section(w, "Trade Statistics")
	fmt.Fprintf(w, "Trades:        %d\n", r.Stats.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Analysis.Charts.WinLoss.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Analysis.Charts.WinLoss.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate)
	fmt.Fprintf(w, "Avg Win/Loss:  %s\n", m.AvgWinLoss)
	fmt.Fprintf(w, "Risk/Reward:   %.2f\n", m.RiskReward)
	fmt.Fprintf(w, "Avg Duration:  %s\n", m.AvgDuration)
	fmt.Fprintf(w, "Win Streak:    %d\n", m.MaxWinStreak)
	fmt.Fprintf(w, "Loss Streak:   %d\n", m.MaxLossStreak)

	section(w, "Performance")
	fmt.Fprintf(w, "Net P/L:       %s\n", money(r.NetPL))
	fmt.Fprintf(w, "Expectancy:    %s\n", money(m.Expectancy))
	if m.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	}
	if r.MaxDDPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDDPct)
	}
	fmt.Fprintf(w, "Kelly:         %.2f%%\n", m.KellyCriterion)

	monthly := r.Analysis.Charts.MonthlyPerformance
	if len(monthly.Labels) > 0 {
		section(w, "Monthly P/L")
		for i, label := range monthly.Labels {
			fmt.Fprintf(w, "%-14s %s\n", label, money(monthly.Values[i]))
		}
	}

	rd := r.Analysis.Charts.RDistribution
	if len(rd.Labels) > 0 {
		section(w, "R Distribution")
		for i, label := range rd.Labels {
			fmt.Fprintf(w, "%-14s %d\n", label, rd.Counts[i])
		}
	}

	printRejected(w, r)
	fmt.Fprintln(w)
}

func printRejected(w io.Writer, r Report) {
	if len(r.Rejected) == 0 {
		return
	}
	section(w, "Skipped Records")
	for _, rej := range r.Rejected {
		fmt.Fprintf(w, "- %s\n", rej)
	}
}
