package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ican-capital/treasury-ai/internal/llm"
	"github.com/ican-capital/treasury-ai/internal/retry"
)

// Confidence markers reported alongside a parsed transaction.
const (
	ConfidenceHigh     = "high"
	ConfidenceFallback = "fallback"
)

// TransactionParser turns free-form financial text into a validated
// Transaction. The remote model is the primary path; any failure after
// input validation (remote call, extraction, JSON recovery, or strict
// output validation) routes to the deterministic fallback generator,
// so a valid input always yields a transaction.
type TransactionParser struct {
	gen     llm.Generator
	retry   retry.Config
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewTransactionParser wires a parser around a provider adapter.
func NewTransactionParser(gen llm.Generator, retryCfg retry.Config, timeout time.Duration, log zerolog.Logger) *TransactionParser {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TransactionParser{
		gen:     gen,
		retry:   retryCfg,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// ParseResult carries the transaction plus how it was derived.
type ParseResult struct {
	Transaction Transaction
	Confidence  string
}

// Parse runs the full pipeline for one text. The returned error is
// non-nil only when even the fallback record fails strict validation,
// which indicates a bug rather than bad input.
func (p *TransactionParser) Parse(ctx context.Context, text string) (ParseResult, error) {
	tx, err := p.parseRemote(ctx, text)
	if err == nil {
		return ParseResult{Transaction: tx, Confidence: ConfidenceHigh}, nil
	}

	p.log.Warn().Err(err).Str("provider", p.gen.Name()).Msg("AI parsing failed, using fallback")

	fallback := FallbackTransaction(text, p.now())
	if err := fallback.Validate(); err != nil {
		return ParseResult{}, err
	}
	return ParseResult{Transaction: fallback, Confidence: ConfidenceFallback}, nil
}

// parseRemote is the primary path: remote call with retries, JSON
// recovery, then strict validation of the model's record.
func (p *TransactionParser) parseRemote(ctx context.Context, text string) (Transaction, error) {
	req := llm.Request{
		System:      transactionSystemInstruction,
		Prompt:      buildTransactionPrompt(text),
		Schema:      transactionSchema(),
		Temperature: 0.1,
		MaxTokens:   1024,
		Timeout:     p.timeout,
	}

	var output string
	err := retry.Do(ctx, p.retry, func() error {
		var genErr error
		output, genErr = p.gen.Generate(ctx, req)
		return genErr
	})
	if err != nil {
		return Transaction{}, err
	}

	raw, err := DecodeObject(output)
	if err != nil {
		return Transaction{}, err
	}

	return ValidateTransaction(raw, p.now())
}
