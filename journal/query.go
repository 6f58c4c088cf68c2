package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

const tradeColumns = `trade_id, entry_datetime, exit_datetime, instrument, order_type,
	entry_price, exit_price, initial_stop_loss, initial_take_profit, position_size,
	status, net_profit, r_value, rationale, review, emotions, tags, created_at, updated_at`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// tradeRow receives a trades row with every column nullable so a damaged
// row can be reported instead of failing the whole query.
type tradeRow struct {
	tradeID      string
	entry, exit  sql.NullTime
	instrument   sql.NullString
	orderType    sql.NullString
	entryPrice   sql.NullFloat64
	exitPrice    sql.NullFloat64
	stopLoss     sql.NullFloat64
	takeProfit   sql.NullFloat64
	positionSize sql.NullFloat64
	status       sql.NullString
	netProfit    sql.NullFloat64
	rValue       sql.NullFloat64
	rationale    sql.NullString
	review       sql.NullString
	emotions     sql.NullString
	tags         sql.NullString
	created      sql.NullTime
	updated      sql.NullTime
}

func (r *tradeRow) dest() []any {
	return []any{
		&r.tradeID, &r.entry, &r.exit, &r.instrument, &r.orderType,
		&r.entryPrice, &r.exitPrice, &r.stopLoss, &r.takeProfit, &r.positionSize,
		&r.status, &r.netProfit, &r.rValue, &r.rationale, &r.review, &r.emotions, &r.tags,
		&r.created, &r.updated,
	}
}

func (r *tradeRow) record() (TradeRecord, error) {
	entry, err := validTime("entry_datetime", r.entry)
	if err != nil {
		return TradeRecord{}, err
	}
	exit, err := validTime("exit_datetime", r.exit)
	if err != nil {
		return TradeRecord{}, err
	}

	nums := []struct {
		name string
		v    sql.NullFloat64
	}{
		{"entry_price", r.entryPrice},
		{"exit_price", r.exitPrice},
		{"initial_stop_loss", r.stopLoss},
		{"initial_take_profit", r.takeProfit},
		{"position_size", r.positionSize},
		{"net_profit", r.netProfit},
		{"r_value", r.rValue},
	}
	for _, n := range nums {
		if !n.v.Valid {
			return TradeRecord{}, fmt.Errorf("%s is missing", n.name)
		}
		if math.IsNaN(n.v.Float64) || math.IsInf(n.v.Float64, 0) {
			return TradeRecord{}, fmt.Errorf("%s is not finite", n.name)
		}
	}

	ot := OrderType(r.orderType.String)
	if !ot.Valid() {
		return TradeRecord{}, fmt.Errorf("unknown order_type %q", r.orderType.String)
	}

	return TradeRecord{
		TradeID:      r.tradeID,
		EntryTime:    entry,
		ExitTime:     exit,
		Instrument:   r.instrument.String,
		OrderType:    ot,
		EntryPrice:   r.entryPrice.Float64,
		ExitPrice:    r.exitPrice.Float64,
		StopLoss:     r.stopLoss.Float64,
		TakeProfit:   r.takeProfit.Float64,
		PositionSize: r.positionSize.Float64,
		Status:       Status(r.status.String),
		NetProfit:    r.netProfit.Float64,
		RValue:       r.rValue.Float64,
		Rationale:    r.rationale.String,
		Review:       r.review.String,
		Emotions:     r.emotions.String,
		Tags:         r.tags.String,
		CreatedAt:    r.created.Time.UTC(),
		UpdatedAt:    r.updated.Time.UTC(),
	}, nil
}

// The sqlite3 driver hands back the zero time for DATETIME text it
// cannot parse, so zero is treated as unparseable.
func validTime(name string, t sql.NullTime) (time.Time, error) {
	if !t.Valid {
		return time.Time{}, fmt.Errorf("%s is missing", name)
	}
	if t.Time.IsZero() {
		return time.Time{}, fmt.Errorf("%s is not a valid timestamp", name)
	}
	return t.Time.UTC(), nil
}

// GetTrade returns a single trade record, with its images, by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	var row tradeRow
	err := j.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID,
	).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, err)
	}

	rec, err := row.record()
	if err != nil {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, err)
	}

	rec.Images, err = j.ListImages(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every loadable trade in the requested entry-time
// order. Rows that cannot be loaded are skipped and reported.
func (j *SQLite) ListTrades(ctx context.Context, order Order) ([]TradeRecord, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades`
	switch order {
	case OrderAsc:
		q += ` ORDER BY entry_datetime ASC, trade_id ASC`
	case OrderDesc:
		q += ` ORDER BY entry_datetime DESC, trade_id DESC`
	}
	return j.listTrades(ctx, q)
}

// ListTradesEnteredBetween returns trades whose entry_datetime is within
// [start, end), oldest first.
func (j *SQLite) ListTradesEnteredBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades
		WHERE entry_datetime >= ? AND entry_datetime < ?
		ORDER BY entry_datetime ASC, trade_id ASC`
	return j.listTrades(ctx, q, start.UTC(), end.UTC())
}

func (j *SQLite) listTrades(ctx context.Context, q string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TradeRecord{}
	for rows.Next() {
		var row tradeRow
		if err := rows.Scan(row.dest()...); err != nil {
			j.skip(SkippedRow{TradeID: row.tradeID, Err: err})
			continue
		}
		rec, err := row.record()
		if err != nil {
			j.skip(SkippedRow{TradeID: row.tradeID, Err: err})
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	images, err := j.imagesByTrade(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Images = images[out[i].TradeID]
		if out[i].Images == nil {
			out[i].Images = []TradeImage{}
		}
	}
	return out, nil
}
