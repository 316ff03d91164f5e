package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/llm"
	"github.com/ican-capital/treasury-ai/internal/retry"
)

// ContractAnalyzer runs legal/financial risk analysis over contract
// text or an attached document. Unlike the transaction path there is no
// fallback: a synthesized risk score would be unsafe, so failures
// propagate to the caller with their kind intact.
type ContractAnalyzer struct {
	gen         llm.Generator
	retry       retry.Config
	textTimeout time.Duration
	docTimeout  time.Duration
	log         zerolog.Logger
}

// NewContractAnalyzer wires an analyzer around a provider adapter.
func NewContractAnalyzer(gen llm.Generator, retryCfg retry.Config, textTimeout, docTimeout time.Duration, log zerolog.Logger) *ContractAnalyzer {
	if textTimeout <= 0 {
		textTimeout = 30 * time.Second
	}
	if docTimeout <= 0 {
		docTimeout = 60 * time.Second
	}
	return &ContractAnalyzer{
		gen:         gen,
		retry:       retryCfg,
		textTimeout: textTimeout,
		docTimeout:  docTimeout,
		log:         log,
	}
}

// VetRequest is one vetting job: the analyst's question plus either
// inline contract text or an attached document.
type VetRequest struct {
	Prompt       string
	ContractText string
	Document     *llm.Document
}

// Vet analyzes a contract and returns a sanitized risk assessment.
func (a *ContractAnalyzer) Vet(ctx context.Context, req VetRequest) (*ContractAnalysis, error) {
	timeout := a.textTimeout
	if req.Document != nil {
		timeout = a.docTimeout
	}

	llmReq := llm.Request{
		System:      guardianSystemInstruction,
		Prompt:      buildVetPrompt(req.Prompt, req.ContractText),
		Schema:      vettingSchema(),
		Temperature: 0.2,
		MaxTokens:   2000,
		Timeout:     timeout,
		Document:    req.Document,
	}

	output, err := a.generate(ctx, llmReq)
	if err != nil {
		return nil, err
	}

	var analysis ContractAnalysis
	if err := DecodeInto(output, &analysis); err != nil {
		return nil, err
	}
	SanitizeAnalysis(&analysis)

	a.log.Info().
		Float64("safety_score", analysis.FinancialSafetyScore).
		Str("risk_category", analysis.RiskCategory).
		Msg("Contract vetting complete")

	return &analysis, nil
}

// Summarize produces an executive summary for contract text.
func (a *ContractAnalyzer) Summarize(ctx context.Context, contractText string) (*ContractSummary, error) {
	llmReq := llm.Request{
		System:      guardianSystemInstruction,
		Prompt:      buildSummaryPrompt(contractText),
		Temperature: 0.2,
		MaxTokens:   1000,
		Timeout:     a.textTimeout,
	}

	output, err := a.generate(ctx, llmReq)
	if err != nil {
		return nil, err
	}

	var summary ContractSummary
	if err := DecodeInto(output, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (a *ContractAnalyzer) generate(ctx context.Context, req llm.Request) (string, error) {
	var output string
	err := retry.Do(ctx, a.retry, func() error {
		var genErr error
		output, genErr = a.gen.Generate(ctx, req)
		return genErr
	})
	return output, err
}
