package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/api/middleware"
	"github.com/ican-capital/treasury-ai/internal/llm"
	"github.com/ican-capital/treasury-ai/internal/pipeline"
)

// ContractsHandler handles the contract vetting and summary endpoints.
// There is no fallback content here: a synthesized legal risk score is
// unsafe, so failures map to a structured error taxonomy instead.
type ContractsHandler struct {
	analyzer contractAnalyzer
	log      zerolog.Logger
}

// NewContractsHandler creates a new contracts handler.
func NewContractsHandler(analyzer contractAnalyzer, log zerolog.Logger) *ContractsHandler {
	return &ContractsHandler{analyzer: analyzer, log: log}
}

type vetContractRequest struct {
	Prompt       string `json:"prompt"`
	ContractText string `json:"contract_text"`
	FileBase64   string `json:"file_base64"`
	MIMEType     string `json:"mime_type"`
}

// VetContract handles POST /api/ai/vet_contract.
func (h *ContractsHandler) VetContract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req vetContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeContractClientError(w, "Request body must be valid JSON", "INVALID_BODY")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeContractClientError(w, "Analysis prompt is required", "MISSING_PROMPT")
		return
	}
	if req.ContractText == "" && req.FileBase64 == "" {
		writeContractClientError(w, "Contract text or file is required", "MISSING_CONTENT")
		return
	}

	vetReq := pipeline.VetRequest{
		Prompt:       req.Prompt,
		ContractText: req.ContractText,
	}
	if req.FileBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			writeContractClientError(w, "File payload is not valid base64", "INVALID_FILE_ENCODING")
			return
		}
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = "text/plain"
		}
		vetReq.Document = &llm.Document{MIMEType: mimeType, Data: data}
	}

	h.log.Info().Str("prompt", truncateForLog(req.Prompt, 100)).Msg("Analyzing contract")

	analysis, err := h.analyzer.Vet(ctx, vetReq)
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"analysis":        analysis,
		"processing_time": formatDuration(time.Since(start)),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

type contractSummaryRequest struct {
	ContractText string `json:"contract_text"`
}

// ContractSummary handles POST /api/ai/contract_summary.
func (h *ContractsHandler) ContractSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req contractSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ContractText) == "" {
		writeContractClientError(w, "Missing contract text", "MISSING_CONTENT")
		return
	}

	summary, err := h.analyzer.Summarize(ctx, req.ContractText)
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"summary":         summary,
		"processing_time": formatDuration(time.Since(start)),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// writeContractError maps pipeline failures onto the contract error
// taxonomy: 502 external API failure, 500 parse failure, 408 timeout,
// 503 network failure. The kind is never silently dropped.
func (h *ContractsHandler) writeContractError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("Contract analysis failed")

	var remoteErr *llm.RemoteError
	var malformedErr *llm.MalformedResponseError
	var invalidJSON *pipeline.InvalidJSONError

	switch {
	case llm.IsTimeout(err):
		middleware.WriteJSON(w, http.StatusRequestTimeout, map[string]any{
			"error":   "TREASURY_GUARDIAN_TIMEOUT",
			"message": "Document analysis request timed out",
			"status":  "REQUEST_TIMEOUT",
		})
	case errors.As(err, &remoteErr):
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "TREASURY_GUARDIAN_API_ERROR",
			"message": "AI analysis service returned an error",
			"status":  "EXTERNAL_API_FAILURE",
		})
	case errors.As(err, &malformedErr), errors.As(err, &invalidJSON):
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "TREASURY_GUARDIAN_PARSE_ERROR",
			"message": "Failed to parse AI analysis response",
			"status":  "RESPONSE_PARSE_FAILURE",
		})
	case llm.IsNetwork(err):
		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":   "TREASURY_GUARDIAN_NETWORK_ERROR",
			"message": "Network error during document analysis",
			"status":  "NETWORK_FAILURE",
		})
	default:
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "TREASURY_GUARDIAN_ERROR",
			"message": "Analysis failed: " + err.Error(),
			"status":  "ANALYSIS_FAILURE",
		})
	}
}

func writeContractClientError(w http.ResponseWriter, message, status string) {
	middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "TREASURY_GUARDIAN_ERROR",
		"message": message,
		"status":  status,
	})
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
