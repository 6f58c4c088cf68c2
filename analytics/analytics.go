// Package analytics derives performance statistics and chart series from a
// trade history. Every function is a pure fold over the trades it is given;
// nothing is cached between calls.
package analytics

// Statistics is the basic summary served by /api/statistics.
type Statistics struct {
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
}

// Metrics is the extended summary of the advanced analysis. WinRate is a
// percentage here, unlike Statistics.WinRate which is a fraction.
type Metrics struct {
	TradeCount     int     `json:"trade_count"`
	WinRate        float64 `json:"win_rate"`
	RiskReward     float64 `json:"risk_reward"`
	AvgWinLoss     string  `json:"avg_win_loss"`
	ProfitFactor   float64 `json:"profit_factor"`
	Expectancy     float64 `json:"expectancy"`
	AvgDuration    string  `json:"avg_duration"`
	MaxWinStreak   int     `json:"max_win_streak"`
	MaxLossStreak  int     `json:"max_loss_streak"`
	KellyCriterion float64 `json:"kelly_criterion"`
}

// Series is a labelled chart line.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"data"`
}

// Histogram is a labelled bar chart of counts.
type Histogram struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"data"`
}

type WinLoss struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type Charts struct {
	EquityCurve        Series    `json:"equity_curve"`
	Drawdown           Series    `json:"drawdown"`
	MonthlyPerformance Series    `json:"monthly_performance"`
	WinLoss            WinLoss   `json:"win_loss"`
	RDistribution      Histogram `json:"r_distribution"`
}

// Analysis is the payload of /api/advanced-analysis.
type Analysis struct {
	Metrics Metrics `json:"metrics"`
	Charts  Charts  `json:"charts"`
}

func newSeries(n int) Series {
	return Series{
		Labels: make([]string, 0, n),
		Values: make([]float64, 0, n),
	}
}
