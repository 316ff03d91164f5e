package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/api/middleware"
)

// sampleTexts is the fixed diagnostic corpus. The same inputs are
// covered by package tests; this endpoint exists so a deployed instance
// can be probed end to end.
var sampleTexts = []string{
	"bought groceries 50000 at shoprite",
	"salary 2.5M monthly payment",
	"borrowed 1.2M for business",
	"tithe 100k church offering",
	"lunch 15000 at cafe javas",
}

// SelfTestHandler runs the fixed samples through the transaction
// pipeline in-process and reports pass/fail counts.
type SelfTestHandler struct {
	parser transactionParser
	log    zerolog.Logger
}

// NewSelfTestHandler creates a new self-test handler.
func NewSelfTestHandler(parser transactionParser, log zerolog.Logger) *SelfTestHandler {
	return &SelfTestHandler{parser: parser, log: log}
}

// SelfTest handles POST /api/test.
func (h *SelfTestHandler) SelfTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := make([]map[string]any, 0, len(sampleTexts))
	passed := 0

	for _, text := range sampleTexts {
		result, err := h.parser.Parse(ctx, text)
		if err != nil {
			results = append(results, map[string]any{
				"input":  text,
				"passed": false,
				"error":  err.Error(),
			})
			continue
		}

		ok := result.Transaction.Validate() == nil
		if ok {
			passed++
		}
		results = append(results, map[string]any{
			"input":         text,
			"passed":        ok,
			"transaction":   result.Transaction,
			"ai_confidence": result.Confidence,
		})
	}

	h.log.Info().Int("passed", passed).Int("total", len(sampleTexts)).Msg("Self-test complete")

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"test_results": results,
		"total_tests":  len(sampleTexts),
		"passed":       passed,
		"failed":       len(sampleTexts) - passed,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
