// Package provider implements the rewrite generation chain: an ordered list
// of text-completion providers tried with per-provider retry/backoff and
// staged structured-output extraction, falling back until one succeeds.
package provider

import "context"

// Provider is a single external text-completion capability. Implementations
// perform their own transient-failure retries and structured-output
// correction; a returned error means the provider is exhausted for this
// request.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Payload, error)
}

const (
	defaultMaxRetries  = 2
	defaultMaxTokens   = 160
	defaultHTTPTimeout = 5 // seconds

	// correctionPrompt is appended when a provider returns unparseable
	// output and retries remain.
	correctionPrompt = "Respond with valid JSON only, no additional text."
)
