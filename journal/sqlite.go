package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// SQLite is the file-backed trade store.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
	onSkip func(SkippedRow)
	now    func() time.Time
}

type Option func(*SQLite)

// WithLogger sets the logger used to report skipped rows.
func WithLogger(l *slog.Logger) Option {
	return func(j *SQLite) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithSkipHook registers a callback invoked for every row that fails to
// load. The row is still skipped.
func WithSkipHook(fn func(SkippedRow)) Option {
	return func(j *SQLite) { j.onSkip = fn }
}

func NewSQLite(path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	j := &SQLite{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

// RecordTrade inserts t, assigning TradeID and the bookkeeping timestamps
// when they are unset.
func (j *SQLite) RecordTrade(ctx context.Context, t *TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	now := j.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, entry_datetime, exit_datetime, instrument, order_type,
		 entry_price, exit_price, initial_stop_loss, initial_take_profit, position_size,
		 status, net_profit, r_value, rationale, review, emotions, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.EntryTime.UTC(), t.ExitTime.UTC(), t.Instrument, string(t.OrderType),
		t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit, t.PositionSize,
		string(t.Status), t.NetProfit, t.RValue, t.Rationale, t.Review, t.Emotions, t.Tags,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert trade %q: %w", t.TradeID, err)
	}
	return nil
}

// UpdateTrade replaces every mutable field of the stored trade.
func (j *SQLite) UpdateTrade(ctx context.Context, t TradeRecord) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET
			entry_datetime = ?, exit_datetime = ?, instrument = ?, order_type = ?,
			entry_price = ?, exit_price = ?, initial_stop_loss = ?, initial_take_profit = ?,
			position_size = ?, status = ?, net_profit = ?, r_value = ?,
			rationale = ?, review = ?, emotions = ?, tags = ?, updated_at = ?
		WHERE trade_id = ?`,
		t.EntryTime.UTC(), t.ExitTime.UTC(), t.Instrument, string(t.OrderType),
		t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit,
		t.PositionSize, string(t.Status), t.NetProfit, t.RValue,
		t.Rationale, t.Review, t.Emotions, t.Tags, j.now().UTC(),
		t.TradeID,
	)
	if err != nil {
		return fmt.Errorf("update trade %q: %w", t.TradeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q: %w", t.TradeID, ErrNotFound)
	}
	return nil
}

// DeleteTrade removes a trade and its image rows in one transaction and
// returns the removed images so the caller can delete the files.
func (j *SQLite) DeleteTrade(ctx context.Context, tradeID string) ([]TradeImage, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	images, err := queryImages(ctx, tx, `
		SELECT image_id, trade_id, image_path, image_type, description, created_at
		FROM trade_images WHERE trade_id = ?`, tradeID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trade_images WHERE trade_id = ?`, tradeID); err != nil {
		return nil, fmt.Errorf("delete images of %q: %w", tradeID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("delete trade %q: %w", tradeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteAllTrades empties the journal and returns every removed image.
func (j *SQLite) DeleteAllTrades(ctx context.Context) ([]TradeImage, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	images, err := queryImages(ctx, tx, `
		SELECT image_id, trade_id, image_path, image_type, description, created_at
		FROM trade_images`)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trade_images`); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func (j *SQLite) skip(row SkippedRow) {
	j.logger.Warn("skipping malformed trade row",
		slog.String("trade_id", row.TradeID),
		slog.String("error", row.Err.Error()),
	)
	if j.onSkip != nil {
		j.onSkip(row)
	}
}
