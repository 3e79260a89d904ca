package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("unexpected key header %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != anthropicVersion {
			t.Errorf("unexpected version header %q", got)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !strings.Contains(req.System, anthropicSystemJSONFix) {
			t.Errorf("system prompt missing JSON instruction: %q", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": `{"suggestion":`},
				{"type": "text", "text": `"joined"}`},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewAnthropic(Spec{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.backoffBase = time.Millisecond

	p, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Suggestion != "joined" {
		t.Errorf("expected text blocks concatenated, got %+v", p)
	}
}

func TestAnthropicDefaults(t *testing.T) {
	c, err := NewAnthropic(Spec{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model != defaultAnthropicModel || c.baseURL != anthropicBaseURL {
		t.Errorf("unexpected defaults: model=%s base=%s", c.model, c.baseURL)
	}
}
