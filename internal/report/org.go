package report

import (
	"fmt"
	"io"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"pair": func(labels []string, i int) string { return labels[i] },
}

var orgTemplate = template.Must(template.New("report").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an Org document.
func WriteOrg(w io.Writer, r Report) error {
	if err := orgTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

// WriteOrgFile renders r into path.
func WriteOrgFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOrg(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const OrgTemplate = `* JOURNAL: {{.Title}}
:PROPERTIES:
:START_DATE:  {{if .Start.IsZero}}(none){{else}}{{.Start.Format "2006-01-02"}}{{end}}
:END_DATE:    {{if .End.IsZero}}(none){{else}}{{.End.Format "2006-01-02"}}{{end}}
:TRADES:      {{.Stats.TotalTrades}}
:WINS:        {{.Analysis.Charts.WinLoss.Wins}}
:LOSSES:      {{.Analysis.Charts.WinLoss.Losses}}
:WIN_RATE:    {{printf "%.2f" .Analysis.Metrics.WinRate}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:MAX_DD_PCT:  {{if ne .MaxDDPct 0.0}}{{printf "%.2f" .MaxDDPct}}{{else}}(max-dd?){{end}}
:PROFIT_FAC:  {{if ne .Stats.ProfitFactor 0.0}}{{printf "%.2f" .Stats.ProfitFactor}}{{else}}(profit-factor?){{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetPL}}*
- Expectancy:       *{{printf "%.2f" .Stats.Expectancy}}*
- Avg Win / Loss:   *{{.Analysis.Metrics.AvgWinLoss}}*
- Risk/Reward:      *{{printf "%.2f" .Analysis.Metrics.RiskReward}}*
- Avg Duration:     *{{.Analysis.Metrics.AvgDuration}}*
- Kelly:            *{{printf "%.2f" .Analysis.Metrics.KellyCriterion}}%*
- Streaks:          *{{.Analysis.Metrics.MaxWinStreak}} wins / {{.Analysis.Metrics.MaxLossStreak}} losses*

** Monthly Performance
| Month   | Net P/L |
|---------+---------|
{{- $m := .Analysis.Charts.MonthlyPerformance}}
{{- range $i, $v := $m.Values}}
| {{pair $m.Labels $i}} | {{printf "%.2f" $v}} |
{{- end}}

** R Distribution
| Bucket     | Count |
|------------+-------|
{{- $rd := .Analysis.Charts.RDistribution}}
{{- range $i, $c := $rd.Counts}}
| {{pair $rd.Labels $i}} | {{$c}} |
{{- end}}

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Analysis.Charts.WinLoss.Wins}} |
| Losses  | {{.Analysis.Charts.WinLoss.Losses}} |
| Total   | {{.Stats.TotalTrades}} |
{{- if .Rejected}}

** Skipped Records
{{- range .Rejected}}
- {{.}}
{{- end}}
{{- end}}
`
