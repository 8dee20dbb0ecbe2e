package handler

import (
	"net/http"
	"strconv"

	"heritage-api/internal/middleware"
	"heritage-api/internal/model"
	"heritage-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All routes require authentication.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// List handles GET /api/cart requests.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	lines, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, lines)
}

// Add handles POST /api/cart requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req model.CartAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	line, err := h.service.Add(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, line)
}

// Update handles PUT /api/cart/{id} requests. An update to a quantity of
// zero or below removes the item and reports that as a success.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid cart item id", h.logger)
		return
	}

	var req model.CartUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	line, removed, err := h.service.Update(r.Context(), user.ID, itemID, req.Quantity)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if removed {
		writeJSON(w, http.StatusOK, model.CartRemovedResponse{Removed: true, ID: itemID})
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// Remove handles DELETE /api/cart/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid cart item id", h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), user.ID, itemID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartRemovedResponse{Removed: true, ID: itemID})
}
