package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newModelServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComplete(t *testing.T) {
	server := newModelServer(t, func(w http.ResponseWriter, req chatRequest) {
		if req.Model != "gpt-4o-mini" || req.MaxTokens != 400 {
			t.Errorf("request model=%s max_tokens=%d", req.Model, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "On it! [ACTION:TASK:work:Ship it]"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	client, err := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}
	got, err := client.Complete(context.Background(), "system prompt", "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "On it! [ACTION:TASK:work:Ship it]" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestCompleteProviderError(t *testing.T) {
	server := newModelServer(t, func(w http.ResponseWriter, _ chatRequest) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	})

	client, _ := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("Complete() error = %v, want provider message", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := newModelServer(t, func(w http.ResponseWriter, _ chatRequest) {
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	})

	client, _ := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if _, err := client.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteTimeout(t *testing.T) {
	server := newModelServer(t, func(w http.ResponseWriter, _ chatRequest) {
		time.Sleep(200 * time.Millisecond)
	})

	client, _ := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1", Timeout: 20 * time.Millisecond})
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Complete() expected timeout error")
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(Config{}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewOpenAIClient() error = %v, want ErrNoAPIKey", err)
	}
}
