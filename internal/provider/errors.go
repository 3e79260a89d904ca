package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoProviders is returned when a chain is built with zero providers.
// Configuration errors like this are fatal at startup.
var ErrNoProviders = errors.New("no providers configured")

// Error wraps a transport, auth, or rate-limit failure from one provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ParseError is returned when a provider's output stays undecodable after
// all extraction stages and correction retries. The chain treats it exactly
// like a transport failure.
type ParseError struct {
	Provider string
	Raw      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %s: unparseable structured output: %s", e.Provider, e.Raw)
}

// HTTPError carries a non-200 response status for retry classification.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Retryable reports whether the status indicates a transient condition.
func (e *HTTPError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Attempt records one provider's failure during a chain run.
type Attempt struct {
	Provider string
	Err      error
}

// ChainError aggregates every provider's failure once the whole chain is
// exhausted.
type ChainError struct {
	Attempts []Attempt
}

func (e *ChainError) Error() string {
	var b strings.Builder
	b.WriteString("all providers failed:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " [%s: %v]", a.Provider, a.Err)
	}
	return b.String()
}
