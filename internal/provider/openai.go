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
	openaiBaseURL = "https://api.openai.com/v1"
	groqBaseURL   = "https://api.groq.com/openai/v1"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.1-8b-instant"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
// Groq reuses it with a different base URL and default model.
type OpenAIClient struct {
	name        string
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	maxRetries  uint64
	backoffBase time.Duration
	httpClient  *http.Client
}

// NewOpenAI creates a client for the OpenAI API.
func NewOpenAI(spec Spec) (*OpenAIClient, error) {
	return newOpenAICompatible("openai", openaiBaseURL, defaultOpenAIModel, spec)
}

// NewGroq creates a client for the Groq API via its OpenAI-compatible
// endpoint.
func NewGroq(spec Spec) (*OpenAIClient, error) {
	return newOpenAICompatible("groq", groqBaseURL, defaultGroqModel, spec)
}

func newOpenAICompatible(name, baseURL, defaultModel string, spec Spec) (*OpenAIClient, error) {
	key := spec.ResolveKey(name)
	if key == "" {
		return nil, fmt.Errorf("%s: API key not set", name)
	}

	c := &OpenAIClient{
		name:        name,
		apiKey:      key,
		model:       spec.Model,
		baseURL:     strings.TrimSuffix(spec.BaseURL, "/"),
		maxTokens:   spec.MaxTokens,
		maxRetries:  defaultMaxRetries,
		backoffBase: 500 * time.Millisecond,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = baseURL
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

func (c *OpenAIClient) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompts and decodes the structured payload. Transport
// failures are retried with exponential backoff; parse failures re-prompt
// the model with an explicit correction while retries remain.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Payload, error) {
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	var lastParseErr error
	for attempt := uint64(0); attempt <= c.maxRetries; attempt++ {
		content, err := c.send(ctx, messages)
		if err != nil {
			return nil, err
		}

		p, err := ParsePayload(content)
		if err == nil {
			return p, nil
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Provider = c.name
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

func (c *OpenAIClient) send(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		MaxTokens:      c.maxTokens,
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", &Error{Provider: c.name, Err: err}
	}

	var content string
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoffBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
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

		var cr chatResponse
		if err := json.Unmarshal(respBody, &cr); err != nil || len(cr.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		content = strings.TrimSpace(cr.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", &Error{Provider: c.name, Err: err}
	}

	return content, nil
}
