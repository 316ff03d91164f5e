package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ican-capital/treasury-ai/internal/llm"
)

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	text, err := client.Generate(context.Background(), llm.Request{
		System:      "You are a parser.",
		Prompt:      "parse this",
		Temperature: 0.1,
		MaxTokens:   500,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4-turbo-preview", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
}

func TestGenerateNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	_, err := client.Generate(context.Background(), llm.Request{Prompt: "hi"})

	var remoteErr *llm.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusTooManyRequests, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Body, "rate limited")
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	_, err := client.Generate(context.Background(), llm.Request{Prompt: "hi"})

	var malformed *llm.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	_, err := client.Generate(context.Background(), llm.Request{
		Prompt:  "hi",
		Timeout: 20 * time.Millisecond,
	})

	require.Error(t, err)
	assert.True(t, llm.IsTimeout(err), "expected a timeout classification, got %v", err)
}

func TestGenerateNetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	_, err := client.Generate(context.Background(), llm.Request{Prompt: "hi"})

	require.Error(t, err)
	assert.True(t, llm.IsNetwork(err), "expected a network classification, got %v", err)

	var remoteErr *llm.RemoteError
	assert.False(t, errors.As(err, &remoteErr), "transport failures must not masquerade as API errors")
}

func TestGenerateFoldsDocumentIntoPrompt(t *testing.T) {
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "gpt-4-turbo-preview")
	_, err := client.Generate(context.Background(), llm.Request{
		Prompt:   "vet this contract",
		Document: &llm.Document{MIMEType: "text/plain", Data: []byte("WHEREAS the parties agree")},
	})

	require.NoError(t, err)
	require.Len(t, gotBody.Messages, 1)
	assert.Contains(t, gotBody.Messages[0].Content, "WHEREAS the parties agree")
	assert.Contains(t, gotBody.Messages[0].Content, "text/plain")
}
