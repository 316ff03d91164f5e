// Package llm defines the vendor-neutral contract for outbound LLM
// calls. Each provider adapter builds its own wire request from a
// Request, issues one HTTP call with a bounded timeout, and returns the
// generated text extracted from the vendor envelope.
package llm

import (
	"context"
	"time"
)

// Document is an attached file to analyze alongside the prompt.
type Document struct {
	MIMEType string
	Data     []byte
}

// Request describes one generation call. Schema is an optional
// machine-checkable hint for the desired output shape; adapters that
// cannot pass it natively fall back to JSON-mode decoding plus the
// schema text already embedded in the prompt.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	Temperature float32
	MaxTokens   int32
	Timeout     time.Duration
	Document    *Document
}

// Generator produces raw model text for a request. Implementations
// return *RemoteError for transport/status failures and
// *MalformedResponseError when the vendor envelope has no usable text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Name identifies the provider for health reporting and logs.
	Name() string
	// Model identifies the configured model for health reporting.
	Model() string
}

// Schema is a minimal, vendor-neutral response-schema description.
// The Gemini adapter maps it onto the typed genai schema; the OpenAI
// adapter relies on JSON mode and the prompt text instead.
type Schema struct {
	Type        string
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// Schema type names, matching JSON Schema.
const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
	TypeNumber = "number"
)
