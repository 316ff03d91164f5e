// Package openai adapts the llm.Generator contract onto the OpenAI
// chat-completions API over raw HTTP.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ican-capital/treasury-ai/internal/llm"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failed response body is kept for
// diagnostics.
const maxErrorBody = 500

// Client calls the OpenAI chat-completions endpoint. OpenAI has no
// typed response-schema parameter, so JSON output is enforced through
// response_format json_object plus the schema text inside the prompt.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates an OpenAI client. baseURL defaults to the public API.
func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		// Per-request deadlines come from the context; this is a
		// hard upper bound in case a caller forgets one.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *Client) Name() string  { return "openai" }
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int32           `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate issues one chat-completion call and returns the first
// choice's message content.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := req.Prompt
	if req.Document != nil {
		// No multimodal input on this path; fold a bounded excerpt of
		// the document into the prompt instead.
		excerpt := req.Document.Data
		if len(excerpt) > 5000 {
			excerpt = excerpt[:5000]
		}
		prompt = fmt.Sprintf("%s\n\nATTACHED DOCUMENT EXCERPT (%s):\n%s", prompt, req.Document.MIMEType, excerpt)
	}

	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body := chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Keep the transport error chain intact so callers can
		// distinguish timeouts from connectivity failures.
		return "", fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &llm.RemoteError{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Body:       truncateForLog(string(raw), maxErrorBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &llm.MalformedResponseError{
			Provider: "openai",
			Reason:   fmt.Sprintf("envelope is not JSON: %v", err),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.MalformedResponseError{Provider: "openai", Reason: "no choices returned"}
	}
	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", &llm.MalformedResponseError{Provider: "openai", Reason: "empty message content"}
	}
	return content, nil
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
