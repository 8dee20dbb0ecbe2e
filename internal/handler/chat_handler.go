package handler

import (
	"net/http"

	"heritage-api/internal/chat"
	"heritage-api/internal/model"

	"github.com/rs/zerolog"
)

// ChatHandler proxies single-turn questions to the upstream completion
// endpoint.
type ChatHandler struct {
	client *chat.Client
	logger zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(client *chat.Client, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		logger: logger.With().Str("handler", "chat").Logger(),
	}
}

// chatRequest is the payload for POST /api/ai/chat.
type chatRequest struct {
	Message     string   `json:"message"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Thinking    bool     `json:"thinking"`
}

// chatResponse carries the upstream completion back to the caller.
type chatResponse struct {
	Response string `json:"response"`
}

// Complete handles POST /api/ai/chat requests.
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if !h.client.Configured() {
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeExternalService,
			"chat is not configured", h.logger)
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "message is required", h.logger)
		return
	}

	completion := chat.CompletionRequest{
		Message:     req.Message,
		Temperature: 0.6,
		TopP:        0.95,
		MaxTokens:   4096,
		Thinking:    req.Thinking,
	}
	if req.Temperature != nil {
		completion.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		completion.TopP = *req.TopP
	}
	if req.MaxTokens != nil {
		completion.MaxTokens = *req.MaxTokens
	}

	answer, err := h.client.Complete(r.Context(), completion)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}
