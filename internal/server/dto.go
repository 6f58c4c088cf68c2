package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rustyeddy/tradejournal/internal/apierrors"
	"github.com/rustyeddy/tradejournal/journal"
)

// timeLayouts are tried in order. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// tradeRequest is the body of POST and PUT /api/trades. Numbers are
// pointers so a missing field fails "required" instead of reading as 0.
type tradeRequest struct {
	EntryDatetime     string   `json:"entry_datetime" validate:"required,datetime_any"`
	ExitDatetime      string   `json:"exit_datetime" validate:"required,datetime_any"`
	Instrument        string   `json:"instrument" validate:"required,max=32"`
	OrderType         string   `json:"order_type" validate:"required,oneof=BUY SELL"`
	EntryPrice        *float64 `json:"entry_price" validate:"required,gt=0"`
	ExitPrice         *float64 `json:"exit_price" validate:"required,gt=0"`
	InitialStopLoss   *float64 `json:"initial_stop_loss" validate:"required,gte=0"`
	InitialTakeProfit *float64 `json:"initial_take_profit" validate:"required,gte=0"`
	PositionSize      *float64 `json:"position_size" validate:"required,gt=0"`
	Status            string   `json:"status" validate:"required,oneof=WIN LOSS BREAKEVEN"`
	NetProfit         *float64 `json:"net_profit" validate:"required"`
	RValue            *float64 `json:"r_value" validate:"required"`
	Rationale         string   `json:"rationale" validate:"max=10000"`
	Review            string   `json:"review" validate:"max=10000"`
	Emotions          string   `json:"emotions" validate:"max=256"`
	Tags              string   `json:"tags" validate:"max=256"`
}

// record converts a validated request.
func (req tradeRequest) record() journal.TradeRecord {
	entry, _ := parseTime(req.EntryDatetime)
	exit, _ := parseTime(req.ExitDatetime)
	return journal.TradeRecord{
		EntryTime:    entry,
		ExitTime:     exit,
		Instrument:   strings.TrimSpace(req.Instrument),
		OrderType:    journal.OrderType(req.OrderType),
		EntryPrice:   *req.EntryPrice,
		ExitPrice:    *req.ExitPrice,
		StopLoss:     *req.InitialStopLoss,
		TakeProfit:   *req.InitialTakeProfit,
		PositionSize: *req.PositionSize,
		Status:       journal.Status(req.Status),
		NetProfit:    *req.NetProfit,
		RValue:       *req.RValue,
		Rationale:    req.Rationale,
		Review:       req.Review,
		Emotions:     req.Emotions,
		Tags:         req.Tags,
	}
}

type tradeValidator struct {
	v *validator.Validate
}

func newTradeValidator() *tradeValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("datetime_any", func(fl validator.FieldLevel) bool {
		_, err := parseTime(fl.Field().String())
		return err == nil
	})

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &tradeValidator{v: v}
}

// check returns nil or a VALIDATION_FAILED error listing every bad field.
func (tv *tradeValidator) check(req *tradeRequest) *apierrors.APIError {
	err := tv.v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequest(err)
	}
	fields := make([]apierrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apierrors.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime_any":
		return "must be an ISO 8601 datetime"
	default:
		return "is invalid"
	}
}
