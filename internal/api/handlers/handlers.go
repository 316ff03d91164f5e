// Package handlers contains the per-endpoint orchestration: validate
// input, run the pipeline, map failures, shape the response.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ican-capital/treasury-ai/internal/pipeline"
)

// Version reported by the health and self-test endpoints.
const Version = "1.0.0"

// ServiceName reported by the health endpoint.
const ServiceName = "ICAN Treasury AI Gateway"

// transactionParser is the slice of the pipeline the transaction
// endpoints need; narrowed for testability.
type transactionParser interface {
	Parse(ctx context.Context, text string) (pipeline.ParseResult, error)
}

// contractAnalyzer is the slice of the pipeline the contract endpoints
// need.
type contractAnalyzer interface {
	Vet(ctx context.Context, req pipeline.VetRequest) (*pipeline.ContractAnalysis, error)
	Summarize(ctx context.Context, contractText string) (*pipeline.ContractSummary, error)
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
