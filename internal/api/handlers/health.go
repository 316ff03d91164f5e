package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/api/middleware"
)

// HealthHandler reports service liveness and the configured provider.
type HealthHandler struct {
	provider string
	model    string
	log      zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(provider, model string, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{provider: provider, model: model, log: log}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     ServiceName,
		"version":     Version,
		"ai_provider": h.provider,
		"model":       h.model,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
