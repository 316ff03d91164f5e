package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ican-capital/treasury-ai/internal/logger"
	"github.com/ican-capital/treasury-ai/internal/pipeline"
)

// stubParser is a canned transactionParser for handler tests.
type stubParser struct {
	result pipeline.ParseResult
	err    error
	calls  int
}

func (s *stubParser) Parse(ctx context.Context, text string) (pipeline.ParseResult, error) {
	s.calls++
	return s.result, s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/parse_transaction", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestParseTransactionSuccess(t *testing.T) {
	parser := &stubParser{
		result: pipeline.ParseResult{
			Transaction: pipeline.Transaction{
				Type:        pipeline.TypeExpense,
				AmountUGX:   45000,
				AmountUSD:   12.5,
				Currency:    "UGX",
				Category:    "Grocery Shopping",
				Description: "Groceries at Nakumatt",
				Date:        "2026-03-14",
			},
			Confidence: pipeline.ConfidenceHigh,
		},
	}
	h := NewTransactionsHandler(parser, logger.NewWithWriter(nil))

	rec := postJSON(t, h.ParseTransaction, `{"text": "bought groceries worth 45000 at nakumatt"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "high", body["ai_confidence"])
	assert.NotEmpty(t, body["processing_time"])

	tx := body["transaction"].(map[string]any)
	assert.Equal(t, "EXPENSE", tx["type"])
	assert.Equal(t, float64(45000), tx["amount_ugx"])
}

func TestParseTransactionInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing field", `{}`, "MISSING_TEXT"},
		{"invalid body", `not json`, "MISSING_TEXT"},
		{"empty text", `{"text": ""}`, "EMPTY_TEXT"},
		{"whitespace text", `{"text": "   "}`, "EMPTY_TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &stubParser{}
			h := NewTransactionsHandler(parser, logger.NewWithWriter(nil))

			rec := postJSON(t, h.ParseTransaction, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Zero(t, parser.calls, "input errors must never reach the pipeline")
		})
	}
}

func TestParseTransactionFallbackConfidence(t *testing.T) {
	parser := &stubParser{
		result: pipeline.ParseResult{
			Transaction: pipeline.Transaction{
				Type:      pipeline.TypeExpense,
				AmountUGX: 50000,
				Source:    pipeline.SourceFallback,
			},
			Confidence: pipeline.ConfidenceFallback,
		},
	}
	h := NewTransactionsHandler(parser, logger.NewWithWriter(nil))

	rec := postJSON(t, h.ParseTransaction, `{"text": "bought groceries 50000"}`)

	assert.Equal(t, http.StatusOK, rec.Code, "fallback still answers 200")
	body := decodeBody(t, rec)
	assert.Equal(t, "fallback", body["ai_confidence"])
	tx := body["transaction"].(map[string]any)
	assert.Equal(t, pipeline.SourceFallback, tx["source"])
}

func TestParseTransactionPipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"validation error", &pipeline.ValidationError{Field: "amount_ugx", Reason: "must be positive"}, "VALIDATION_ERROR"},
		{"unexpected error", errors.New("boom"), "PROCESSING_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &stubParser{err: tt.err}
			h := NewTransactionsHandler(parser, logger.NewWithWriter(nil))

			rec := postJSON(t, h.ParseTransaction, `{"text": "something"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}
