package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/api/middleware"
	"github.com/ican-capital/treasury-ai/internal/pipeline"
)

// TransactionsHandler handles the NLP transaction-parsing endpoint.
type TransactionsHandler struct {
	parser transactionParser
	log    zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(parser transactionParser, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{parser: parser, log: log}
}

type parseTransactionRequest struct {
	Text *string `json:"text"`
}

// ParseTransaction handles POST /api/ai/parse_transaction.
//
// Input errors surface as 400 with a stable code and never reach the
// remote adapter. Once input passes, the caller always gets a 200 with
// a transaction: the pipeline degrades to the deterministic fallback
// on any remote failure and reports that through ai_confidence.
func (h *TransactionsHandler) ParseTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req parseTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required field: text", "MISSING_TEXT")
		return
	}

	text := strings.TrimSpace(*req.Text)
	if text == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Empty text provided", "EMPTY_TEXT")
		return
	}

	h.log.Info().Str("text", text).Msg("Processing transaction text")

	result, err := h.parser.Parse(ctx, text)
	if err != nil {
		var vErr *pipeline.ValidationError
		if errors.As(err, &vErr) {
			h.log.Error().Err(err).Msg("Transaction validation failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Transaction validation failed: "+vErr.Error(), "VALIDATION_ERROR")
			return
		}
		h.log.Error().Err(err).Msg("Transaction processing failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process transaction", "PROCESSING_ERROR")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"transaction":     result.Transaction,
		"ai_confidence":   result.Confidence,
		"processing_time": formatDuration(time.Since(start)),
		"original_text":   text,
		"api_version":     Version,
	})
}
