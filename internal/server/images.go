package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/internal/apierrors"
	"github.com/rustyeddy/tradejournal/internal/uploads"
	"github.com/rustyeddy/tradejournal/journal"
)

// multipartOverhead is headroom for the form fields around the file.
const multipartOverhead = 1 << 20

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetTrade(r.Context(), id); err != nil {
		s.storeError(w, r, "get trade", err)
		return
	}

	limit := s.uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			apierrors.Write(w, r, apierrors.TooLarge(limit))
			return
		}
		apierrors.Write(w, r, apierrors.InvalidRequest(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		apierrors.Write(w, r, apierrors.Validation([]apierrors.FieldError{
			{Field: "image", Message: "No image file provided"},
		}))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		apierrors.Write(w, r, apierrors.Validation([]apierrors.FieldError{
			{Field: "image", Message: "No selected file"},
		}))
		return
	}

	kind := journal.ImageKind(r.FormValue("image_type"))
	if kind == "" {
		kind = journal.ImageEntry
	}
	if !kind.Valid() {
		apierrors.Write(w, r, apierrors.Validation([]apierrors.FieldError{
			{Field: "image_type", Message: "must be one of: ENTRY EXIT"},
		}))
		return
	}

	name, err := s.uploads.Save(header.Filename, file)
	switch {
	case errors.Is(err, uploads.ErrUnsupportedType), errors.Is(err, uploads.ErrInvalidName):
		apierrors.Write(w, r, apierrors.Validation([]apierrors.FieldError{
			{Field: "image", Message: "Invalid file type"},
		}))
		return
	case errors.Is(err, uploads.ErrTooLarge):
		apierrors.Write(w, r, apierrors.TooLarge(limit))
		return
	case err != nil:
		s.internalError(w, r, "save image", err)
		return
	}

	img := journal.TradeImage{
		TradeID:     id,
		Path:        name,
		Kind:        kind,
		Description: r.FormValue("description"),
	}
	if err := s.store.AddImage(r.Context(), &img); err != nil {
		if rmErr := s.uploads.Remove(name); rmErr != nil {
			s.logger.WarnContext(r.Context(), "remove orphaned image", slog.String("image_path", name))
		}
		s.storeError(w, r, "add image", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, img)
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetTrade(r.Context(), id); err != nil {
		s.storeError(w, r, "get trade", err)
		return
	}

	images, err := s.store.ListImages(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "list images", err)
		return
	}
	render.JSON(w, r, images)
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	p, err := s.uploads.Path(chi.URLParam(r, "filename"))
	if err != nil {
		apierrors.Write(w, r, apierrors.NotFound("image"))
		return
	}
	if _, err := os.Stat(p); err != nil {
		apierrors.Write(w, r, apierrors.NotFound("image"))
		return
	}
	http.ServeFile(w, r, p)
}
