package handler

import (
	"net/http"
	"strconv"

	"heritage-api/internal/model"
	"heritage-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler serves the read-only historical catalog.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListFigures handles GET /api/figures requests.
func (h *CatalogHandler) ListFigures(w http.ResponseWriter, r *http.Request) {
	figures, err := h.service.ListFigures(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, figures)
}

// GetFigure handles GET /api/figures/{id} requests.
func (h *CatalogHandler) GetFigure(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid figure id", h.logger)
		return
	}

	figure, err := h.service.GetFigure(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if figure == nil {
		writeError(w, http.StatusNotFound, "FIGURE_NOT_FOUND", "Historical figure not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, figure)
}

// ListEvents handles GET /api/events requests.
func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id} requests.
func (h *CatalogHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid event id", h.logger)
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "EVENT_NOT_FOUND", "Historical event not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Categories handles GET /api/categories requests.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CategoriesResponse{Categories: categories})
}
