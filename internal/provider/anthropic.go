package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	anthropicBaseURL       = "https://api.anthropic.com/v1"
	anthropicVersion       = "2023-06-01"
	defaultAnthropicModel  = "claude-3-haiku-20240307"
	anthropicSystemJSONFix = "You must respond with valid JSON only. No markdown, no explanation, just the JSON object."
)

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	maxRetries  uint64
	backoffBase time.Duration
	httpClient  *http.Client
}

// NewAnthropic creates a client for the Anthropic API.
func NewAnthropic(spec Spec) (*AnthropicClient, error) {
	key := spec.ResolveKey("anthropic")
	if key == "" {
		return nil, fmt.Errorf("anthropic: API key not set")
	}

	c := &AnthropicClient{
		apiKey:      key,
		model:       spec.Model,
		baseURL:     strings.TrimSuffix(spec.BaseURL, "/"),
		maxTokens:   spec.MaxTokens,
		maxRetries:  defaultMaxRetries,
		backoffBase: 500 * time.Millisecond,
	}
	if c.model == "" {
		c.model = defaultAnthropicModel
	}
	if c.baseURL == "" {
		c.baseURL = anthropicBaseURL
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if spec.MaxRetries != nil {
		c.maxRetries = uint64(*spec.MaxRetries)
	}

	timeout := time.Duration(spec.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout * time.Second
	}
	c.httpClient = &http.Client{Timeout: timeout}

	return c, nil
}

func (c *AnthropicClient) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the prompts and decodes the structured payload. The system
// prompt is extended with a JSON-only instruction; Anthropic has no native
// JSON response mode.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Payload, error) {
	system := systemPrompt + "\n\n" + anthropicSystemJSONFix
	messages := []chatMessage{{Role: "user", Content: userPrompt}}

	var lastParseErr error
	for attempt := uint64(0); attempt <= c.maxRetries; attempt++ {
		content, err := c.send(ctx, system, messages)
		if err != nil {
			return nil, err
		}

		p, err := ParsePayload(content)
		if err == nil {
			return p, nil
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Provider = "anthropic"
		}
		lastParseErr = err

		if attempt < c.maxRetries {
			messages = append(messages,
				chatMessage{Role: "assistant", Content: content},
				chatMessage{Role: "user", Content: correctionPrompt},
			)
		}
	}

	return nil, lastParseErr
}

func (c *AnthropicClient) send(ctx context.Context, system string, messages []chatMessage) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		System:      system,
		Messages:    messages,
	})
	if err != nil {
		return "", &Error{Provider: "anthropic", Err: err}
	}

	var content string
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoffBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			herr := &HTTPError{Status: resp.StatusCode, Body: truncate(string(respBody), 200)}
			if herr.Retryable() {
				return retry.RetryableError(herr)
			}
			return herr
		}

		var ar anthropicResponse
		if err := json.Unmarshal(respBody, &ar); err != nil || len(ar.Content) == 0 {
			return fmt.Errorf("empty messages response")
		}

		var b strings.Builder
		for _, block := range ar.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		content = strings.TrimSpace(b.String())
		if content == "" {
			return fmt.Errorf("no text content in response")
		}
		return nil
	})
	if err != nil {
		return "", &Error{Provider: "anthropic", Err: err}
	}

	return content, nil
}
