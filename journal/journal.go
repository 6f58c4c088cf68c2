// journal/journal.go
package journal

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a trade or image does not exist.
var ErrNotFound = errors.New("not found")

type OrderType string

const (
	Buy  OrderType = "BUY"
	Sell OrderType = "SELL"
)

// Status is the outcome the user assigned to a trade. Analytics never
// reads it; NetProfit decides wins and losses.
type Status string

const (
	StatusWin       Status = "WIN"
	StatusLoss      Status = "LOSS"
	StatusBreakeven Status = "BREAKEVEN"
)

type ImageKind string

const (
	ImageEntry ImageKind = "ENTRY"
	ImageExit  ImageKind = "EXIT"
)

// Order selects how ListTrades sorts on entry time.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

// TradeRecord is one closed trade in the journal.
type TradeRecord struct {
	TradeID      string       `json:"id"`
	EntryTime    time.Time    `json:"entry_datetime"`
	ExitTime     time.Time    `json:"exit_datetime"`
	Instrument   string       `json:"instrument"`
	OrderType    OrderType    `json:"order_type"`
	EntryPrice   float64      `json:"entry_price"`
	ExitPrice    float64      `json:"exit_price"`
	StopLoss     float64      `json:"initial_stop_loss"`
	TakeProfit   float64      `json:"initial_take_profit"`
	PositionSize float64      `json:"position_size"`
	Status       Status       `json:"status"`
	NetProfit    float64      `json:"net_profit"`
	RValue       float64      `json:"r_value"`
	Rationale    string       `json:"rationale"`
	Review       string       `json:"review"`
	Emotions     string       `json:"emotions"`
	Tags         string       `json:"tags"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Images       []TradeImage `json:"images"`
}

// TradeImage is a screenshot attached to a trade.
type TradeImage struct {
	ImageID     string    `json:"id"`
	TradeID     string    `json:"trade_id"`
	Path        string    `json:"image_path"`
	Kind        ImageKind `json:"image_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SkippedRow describes a stored row that could not be turned into a
// TradeRecord.
type SkippedRow struct {
	TradeID string
	Err     error
}

// Store is the persistence surface the API and CLI work against.
type Store interface {
	RecordTrade(ctx context.Context, t *TradeRecord) error
	UpdateTrade(ctx context.Context, t TradeRecord) error
	DeleteTrade(ctx context.Context, tradeID string) ([]TradeImage, error)
	GetTrade(ctx context.Context, tradeID string) (TradeRecord, error)
	ListTrades(ctx context.Context, order Order) ([]TradeRecord, error)
	AddImage(ctx context.Context, img *TradeImage) error
	ListImages(ctx context.Context, tradeID string) ([]TradeImage, error)
	Close() error
}

func (o OrderType) Valid() bool {
	return o == Buy || o == Sell
}

func (s Status) Valid() bool {
	switch s {
	case StatusWin, StatusLoss, StatusBreakeven:
		return true
	}
	return false
}

func (k ImageKind) Valid() bool {
	return k == ImageEntry || k == ImageExit
}
