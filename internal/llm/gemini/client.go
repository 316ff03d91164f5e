// Package gemini adapts the llm.Generator contract onto the Google
// GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/ican-capital/treasury-ai/internal/llm"
)

const defaultTimeout = 30 * time.Second

// Client calls the Gemini API through the official SDK. The response
// schema hint is passed natively via generation config, so the model is
// constrained to emit parseable JSON.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client for the given model.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Name() string  { return "gemini" }
func (c *Client) Model() string { return c.model }

// Generate issues one generation call and returns the candidate's text.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Document != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.Document.MIMEType,
				Data:     req.Document.Data,
			},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Schema != nil {
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		// The SDK folds status and transport failures together; both
		// count as remote failures here.
		return "", &llm.RemoteError{Provider: "gemini", Body: err.Error()}
	}

	text := resp.Text()
	if text == "" {
		return "", &llm.MalformedResponseError{
			Provider: "gemini",
			Reason:   "no candidates with text content",
		}
	}
	return text, nil
}

// toGenaiSchema maps the neutral schema hint onto the SDK's typed one.
func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	switch s.Type {
	case llm.TypeObject:
		out.Type = genai.TypeObject
	case llm.TypeArray:
		out.Type = genai.TypeArray
	case llm.TypeNumber:
		out.Type = genai.TypeNumber
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
