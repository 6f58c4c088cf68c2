// Package service runs analytics over the stored journal.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/journal"
)

// ErrAnalysisFailed wraps any store error or panic raised while computing
// analytics. Callers should not show its details to users.
var ErrAnalysisFailed = errors.New("analysis failed")

// TradeLister is the slice of journal.Store the service reads from.
type TradeLister interface {
	ListTrades(ctx context.Context, order journal.Order) ([]journal.TradeRecord, error)
}

type Service struct {
	store   TradeLister
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds a Service. logger and m may be nil.
func New(store TradeLister, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:   store,
		logger:  logger.With("component", "analytics"),
		metrics: m,
	}
}

// Statistics computes the basic summary over every stored trade.
func (s *Service) Statistics(ctx context.Context) (stats analytics.Statistics, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveAnalysis(metrics.KindStatistics, start, err) }()
	defer s.recoverInto(&err)

	trades, err := s.load(ctx, journal.OrderNone)
	if err != nil {
		return analytics.Statistics{}, err
	}
	return analytics.ComputeStatistics(trades), nil
}

// AdvancedAnalysis computes metrics and chart series over every stored
// trade in entry order.
func (s *Service) AdvancedAnalysis(ctx context.Context) (a analytics.Analysis, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveAnalysis(metrics.KindAdvanced, start, err) }()
	defer s.recoverInto(&err)

	trades, err := s.load(ctx, journal.OrderAsc)
	if err != nil {
		return analytics.Analysis{}, err
	}
	return analytics.Analyze(trades), nil
}

// load fetches trades and drops the ones the engine cannot use.
func (s *Service) load(ctx context.Context, order journal.Order) ([]journal.TradeRecord, error) {
	trades, err := s.store.ListTrades(ctx, order)
	if err != nil {
		s.logger.Error("list trades", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: list trades: %w", ErrAnalysisFailed, err)
	}

	valid, rejected := analytics.Sanitize(trades)
	for _, r := range rejected {
		s.logger.Warn("skipping malformed trade",
			slog.String("trade_id", r.TradeID),
			slog.String("reason", r.Reason),
		)
	}
	s.metrics.Skipped(len(rejected))
	return valid, nil
}

func (s *Service) recoverInto(err *error) {
	if r := recover(); r != nil {
		s.logger.Error("analytics panic", slog.Any("panic", r))
		*err = fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
	}
}

// SkipCounter returns a journal skip hook that feeds the skipped-records
// counter, for stores opened with journal.WithSkipHook.
func SkipCounter(m *metrics.Metrics) func(journal.SkippedRow) {
	return func(journal.SkippedRow) { m.Skipped(1) }
}
