// Package seed generates plausible FX trades for demos and manual testing.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

var (
	Instruments   = []string{"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD", "XAU/USD"}
	PositionSizes = []float64{0.01, 0.02, 0.05, 0.1, 0.5, 1.0}
	Emotions      = []string{"Confident", "Anxious", "Neutral", "Greedy"}
	Tags          = []string{"Trend Following", "Breakout", "Scalping", "News Trade"}
)

// PipValuePerLot is the account value of one pip on one standard lot of a
// USD-quoted pair.
const PipValuePerLot = 10

type Options struct {
	Count int
	Days  int       // entries are spread over the Days before Now
	Now   time.Time // defaults to time.Now()
	Rand  *rand.Rand
}

// Recorder is the part of journal.Store the seeder writes to.
type Recorder interface {
	RecordTrade(ctx context.Context, t *journal.TradeRecord) error
}

// PipSize is 0.01 for JPY pairs and 0.0001 otherwise.
func PipSize(instrument string) float64 {
	if isJPY(instrument) {
		return 0.01
	}
	return 0.0001
}

func isJPY(instrument string) bool {
	return strings.Contains(strings.ToLower(instrument), "jpy")
}

// Profit is the account P/L of a trade, rounded to cents.
func Profit(entry, exit, size float64, side journal.OrderType, instrument string) float64 {
	pips := (exit - entry) / PipSize(instrument)
	if side == journal.Sell {
		pips = -pips
	}
	return round(pips*PipValuePerLot*size, 2)
}

// Generate returns opts.Count trades. The same Rand seed gives the same
// trades.
func Generate(opts Options) []journal.TradeRecord {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Days <= 0 {
		opts.Days = 180
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	start := opts.Now.UTC().AddDate(0, 0, -opts.Days)
	out := make([]journal.TradeRecord, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		out = append(out, fakeTrade(opts.Rand, start, opts.Days))
	}
	return out
}

func fakeTrade(rng *rand.Rand, start time.Time, days int) journal.TradeRecord {
	instrument := pick(rng, Instruments)
	side := pick(rng, []journal.OrderType{journal.Buy, journal.Sell})
	status := pick(rng, []journal.Status{journal.StatusWin, journal.StatusLoss, journal.StatusBreakeven})

	entryTime := start.
		AddDate(0, 0, rng.Intn(days)).
		Add(time.Duration(rng.Intn(24)) * time.Hour).
		Add(time.Duration(rng.Intn(60)) * time.Minute)
	exitTime := entryTime.Add(time.Duration(between(rng, 5, 240)) * time.Minute)

	pip := PipSize(instrument)
	decimals := 4
	var entry float64
	if isJPY(instrument) {
		decimals = 2
		entry = round(100+rng.Float64()*50, decimals)
	} else {
		entry = round(1.05+rng.Float64()*0.30, decimals)
	}
	size := pick(rng, PositionSizes)

	// direction of the move in price terms: +1 up, -1 down
	dir := 1.0
	if side == journal.Sell {
		dir = -1
	}
	moved := float64(between(rng, 5, 150)) * pip
	exit := entry
	switch status {
	case journal.StatusWin:
		exit = entry + dir*moved
	case journal.StatusLoss:
		exit = entry - dir*moved
	}
	exit = round(exit, decimals)

	slPips := float64(between(rng, 10, 50))
	tpPips := float64(between(rng, 20, 200))
	stop := round(entry-dir*slPips*pip, decimals)
	target := round(entry+dir*tpPips*pip, decimals)

	net := Profit(entry, exit, size, side, instrument)
	var r float64
	if slPips > 0 && size > 0 {
		r = round(net/(slPips*PipValuePerLot*size), 2)
	}

	return journal.TradeRecord{
		EntryTime:    entryTime,
		ExitTime:     exitTime,
		Instrument:   instrument,
		OrderType:    side,
		EntryPrice:   entry,
		ExitPrice:    exit,
		StopLoss:     stop,
		TakeProfit:   target,
		PositionSize: size,
		Status:       status,
		NetProfit:    net,
		RValue:       r,
		Rationale:    "Generated rationale for the trade setup.",
		Review:       "Generated review of the trade outcome.",
		Emotions:     pick(rng, Emotions),
		Tags:         pick(rng, Tags),
	}
}

// Insert records every trade, stopping at the first failure.
func Insert(ctx context.Context, store Recorder, trades []journal.TradeRecord) error {
	for i := range trades {
		if err := store.RecordTrade(ctx, &trades[i]); err != nil {
			return fmt.Errorf("seed trade %d: %w", i+1, err)
		}
	}
	return nil
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.Intn(len(xs))]
}

// between returns an int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
