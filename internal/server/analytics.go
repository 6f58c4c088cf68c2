package server

import (
	"net/http"

	"github.com/go-chi/render"
)

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics(r.Context())
	if err != nil {
		s.internalError(w, r, "statistics", err)
		return
	}
	render.JSON(w, r, stats)
}

func (s *Server) advancedAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.AdvancedAnalysis(r.Context())
	if err != nil {
		s.internalError(w, r, "advanced analysis", err)
		return
	}
	render.JSON(w, r, a)
}
