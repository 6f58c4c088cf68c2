package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/internal/apierrors"
	"github.com/rustyeddy/tradejournal/journal"
)

func parseOrder(s string) (journal.Order, bool) {
	switch s {
	case "":
		return journal.OrderNone, true
	case "asc":
		return journal.OrderAsc, true
	case "desc":
		return journal.OrderDesc, true
	}
	return journal.OrderNone, false
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	order, ok := parseOrder(r.URL.Query().Get("order"))
	if !ok {
		apierrors.Write(w, r, apierrors.Validation([]apierrors.FieldError{
			{Field: "order", Message: "must be one of: asc desc"},
		}))
		return
	}

	trades, err := s.store.ListTrades(r.Context(), order)
	if err != nil {
		s.internalError(w, r, "list trades", err)
		return
	}
	render.JSON(w, r, trades)
}

func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTrade(w, r)
	if !ok {
		return
	}

	rec := req.record()
	if err := s.store.RecordTrade(r.Context(), &rec); err != nil {
		s.internalError(w, r, "record trade", err)
		return
	}

	rec.Images = []journal.TradeImage{}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rec)
}

func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetTrade(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, "get trade", err)
		return
	}
	render.JSON(w, r, rec)
}

// updateTrade replaces the whole trade; partial bodies fail validation.
func (s *Server) updateTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := s.decodeTrade(w, r)
	if !ok {
		return
	}

	rec := req.record()
	rec.TradeID = id
	if err := s.store.UpdateTrade(r.Context(), rec); err != nil {
		s.storeError(w, r, "update trade", err)
		return
	}

	updated, err := s.store.GetTrade(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get trade", err)
		return
	}
	render.JSON(w, r, updated)
}

// deleteTrade removes the trade, its image rows and the image files.
// A file that cannot be removed is logged; the trade is gone either way.
func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	images, err := s.store.DeleteTrade(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "delete trade", err)
		return
	}

	for _, img := range images {
		if err := s.uploads.Remove(img.Path); err != nil {
			s.logger.WarnContext(r.Context(), "remove image file",
				slog.String("trade_id", id),
				slog.String("image_path", img.Path),
				slog.String("error", err.Error()),
			)
		}
	}
	render.JSON(w, r, map[string]string{"message": "Trade deleted successfully"})
}

func (s *Server) decodeTrade(w http.ResponseWriter, r *http.Request) (tradeRequest, bool) {
	var req tradeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.Write(w, r, apierrors.InvalidRequest(err))
		return req, false
	}
	if apiErr := s.validate.check(&req); apiErr != nil {
		apierrors.Write(w, r, apiErr)
		return req, false
	}
	return req, true
}

// storeError maps journal.ErrNotFound to 404 and anything else to 500.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, journal.ErrNotFound) {
		apierrors.Write(w, r, apierrors.NotFound("trade"))
		return
	}
	s.internalError(w, r, op, err)
}

// internalError logs the cause and returns a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.ErrorContext(r.Context(), op,
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)
	apierrors.Write(w, r, apierrors.Internal())
}
