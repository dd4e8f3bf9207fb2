package handler

import (
	"errors"
	"net/http"

	"github.com/traini8/traini8/internal/middleware"
	"github.com/traini8/traini8/internal/model"
	"github.com/traini8/traini8/internal/service"
)

// CreateTrainingCenter validates and stores a new training center.
//
//	201 created entity
//	400 {field: message, ...} for validation failures
//	400 {label: message} or {"error": "Duplicate entry detected."} for uniqueness conflicts
//	500 {"error": "Something went wrong: ..."}
func (h *Handler) CreateTrainingCenter(w http.ResponseWriter, r *http.Request) {
	var tc model.TrainingCenter
	if err := readJSON(w, r, &tc); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.centerSvc.Create(r.Context(), &tc, service.RequestMeta{
		IPAddress: middleware.IPKey(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		var (
			verr   *service.ValidationError
			dupErr *service.DuplicateFieldError
		)
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, verr.Fields)
		case errors.As(err, &dupErr):
			writeJSON(w, http.StatusBadRequest, map[string]string{dupErr.Label: dupErr.Message})
		case errors.Is(err, service.ErrDuplicateEntry):
			writeError(w, http.StatusBadRequest, "Duplicate entry detected.")
		default:
			h.log.WithRequestID(middleware.GetRequestID(r.Context())).Error().Err(err).Msg("failed to create training center")
			writeError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// ListTrainingCenters returns every stored training center as a JSON array
func (h *Handler) ListTrainingCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.centerSvc.List(r.Context())
	if err != nil {
		h.log.WithRequestID(middleware.GetRequestID(r.Context())).Error().Err(err).Msg("failed to list training centers")
		writeError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, centers)
}
