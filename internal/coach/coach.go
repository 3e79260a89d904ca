package coach

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/complyops/draftcoach/internal/denylist"
	"github.com/complyops/draftcoach/internal/policy"
	"github.com/complyops/draftcoach/internal/provider"
	"github.com/complyops/draftcoach/internal/redact"
)

const (
	defaultBrandTone      = "professional, clear, empathetic"
	defaultDisclosureLine = "Investments may lose value."

	defaultMaxSuggestionLen   = 240
	defaultMaxSentences       = 2
	defaultVarietyProbability = 0.6

	degradedSuggestion = "I apologize, but I'm unable to process this request at the moment. Please try again."
	defaultConfidence  = 0.5
)

var degradedAlternates = [2]string{
	"I'm experiencing technical difficulties. Please retry your request.",
	"System temporarily unavailable. Please try again shortly.",
}

// Generator produces a structured rewrite payload plus the identity of the
// provider that produced it. *provider.Chain satisfies it.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*provider.Payload, string, error)
}

// Config is caller-owned orchestrator configuration. Matcher and Chain are
// required; everything else has a usable default.
type Config struct {
	Matcher  *policy.Matcher
	Chain    Generator
	Denylist *denylist.Denylist

	BrandTone         string
	DefaultDisclosure string
	MaxSuggestionLen  int
	MaxSentences      int

	// VarietyProbability is the chance of promoting an alternate to
	// primary. Nil means the default; 0 disables rotation.
	VarietyProbability *float64

	// Rand drives the variety step. Inject a seeded source to make the
	// pipeline deterministic.
	Rand *rand.Rand
}

// Coach is the suggestion orchestrator. Read-only after construction except
// for the randomness source, which is not safe for concurrent use; give each
// concurrently-used Coach its own Rand.
type Coach struct {
	matcher  *policy.Matcher
	chain    Generator
	denylist *denylist.Denylist

	brandTone         string
	defaultDisclosure string
	maxSuggestionLen  int
	maxSentences      int
	varietyProb       float64
	rand              *rand.Rand
}

// New validates the configuration and fills defaults.
func New(cfg Config) (*Coach, error) {
	if cfg.Matcher == nil {
		return nil, errors.New("coach: matcher is required")
	}
	if cfg.Chain == nil {
		return nil, errors.New("coach: provider chain is required")
	}

	c := &Coach{
		matcher:           cfg.Matcher,
		chain:             cfg.Chain,
		denylist:          cfg.Denylist,
		brandTone:         cfg.BrandTone,
		defaultDisclosure: cfg.DefaultDisclosure,
		maxSuggestionLen:  cfg.MaxSuggestionLen,
		maxSentences:      cfg.MaxSentences,
		varietyProb:       defaultVarietyProbability,
		rand:              cfg.Rand,
	}
	if c.denylist == nil {
		c.denylist = denylist.NewDefault()
	}
	if c.brandTone == "" {
		c.brandTone = defaultBrandTone
	}
	if c.defaultDisclosure == "" {
		c.defaultDisclosure = defaultDisclosureLine
	}
	if c.maxSuggestionLen <= 0 {
		c.maxSuggestionLen = defaultMaxSuggestionLen
	}
	if c.maxSentences <= 0 {
		c.maxSentences = defaultMaxSentences
	}
	if cfg.VarietyProbability != nil {
		p := *cfg.VarietyProbability
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("coach: variety probability %v out of range", p)
		}
		c.varietyProb = p
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return c, nil
}

// Suggest runs the full pipeline for one request. It never returns an error
// for provider failures; those degrade into a fixed fallback result.
func (c *Coach) Suggest(ctx context.Context, req Request) Result {
	start := time.Now()

	redacted, rmap := redact.Redact(req.Draft)
	knownIDs, spans := c.deriveEvidence(redacted, req.KnownPolicyIDs)

	brandTone := req.BrandTone
	if brandTone == "" {
		brandTone = c.brandTone
	}
	disclosure := c.defaultDisclosure
	if len(req.RequiredDisclosures) > 0 {
		disclosure = req.RequiredDisclosures[0]
	}

	system, user := buildPrompt(c.matcher, redacted, req.Context, knownIDs, brandTone, disclosure)

	payload, providerName, err := c.chain.Complete(ctx, system, user)
	if err != nil {
		return c.degraded(fmt.Sprintf("generation failed: %v", err), knownIDs, spans, start)
	}

	suggestion := payload.Suggestion
	alternates := padAlternates(payload.Alternates, suggestion)
	rationale := payload.Rationale
	policyRefs := payload.PolicyRefs
	if policyRefs == nil {
		policyRefs = knownIDs
	}
	confidence := defaultConfidence
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}

	suggestion, alternates = c.rotate(suggestion, alternates)

	// The redaction contract is the one invariant a generator is never
	// allowed to break, transport success or not.
	if leaked := rmap.Leaks(suggestion); len(leaked) > 0 {
		return c.degraded(
			fmt.Sprintf("generator echoed redaction placeholder %s", strings.Join(leaked, ", ")),
			knownIDs, spans, start)
	}

	if !c.withinBudget(suggestion) {
		suggestion = c.truncate(suggestion)
	}

	if rude, _ := c.denylist.Matches(suggestion); rude {
		suggestion = c.firstClean(alternates, func(s string) bool {
			hit, _ := c.denylist.Matches(s)
			return !hit
		}, toneFallback)
	}

	if c.stillViolates(suggestion, knownIDs) {
		suggestion = c.firstClean(alternates, func(s string) bool {
			return !c.stillViolates(s, knownIDs)
		}, reviolationFallback)
	}

	suggestion = c.injectDisclosure(suggestion)
	for i, alt := range alternates {
		alternates[i] = c.injectDisclosure(alt)
	}

	return Result{
		ID:            uuid.NewString(),
		Suggestion:    suggestion,
		Alternates:    alternates,
		Rationale:     rationale,
		PolicyRefs:    policyRefs,
		Confidence:    confidence,
		EvidenceSpans: spans,
		Provider:      providerName,
		LatencyMS:     time.Since(start).Milliseconds(),
		Degraded:      false,
	}
}

// deriveEvidence resolves the known policy ids and their evidence spans on
// the redacted draft. When no span exists the zero span stands in.
func (c *Coach) deriveEvidence(redacted string, supplied []string) ([]string, []Span) {
	hits := c.matcher.FindHits(redacted)

	knownIDs := supplied
	if len(knownIDs) == 0 {
		seen := map[string]bool{}
		for _, h := range hits {
			if !seen[h.PolicyID] {
				seen[h.PolicyID] = true
				knownIDs = append(knownIDs, h.PolicyID)
			}
		}
	}

	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	var spans []Span
	for _, h := range hits {
		if h.IsMissingDisclosure() || !known[h.PolicyID] {
			continue
		}
		spans = append(spans, Span{Start: h.Start, End: h.End})
	}
	if len(spans) == 0 {
		spans = []Span{{}}
	}

	return knownIDs, spans
}

// degraded builds the fixed fallback result. No generator text reaches it.
func (c *Coach) degraded(rationale string, knownIDs []string, spans []Span, start time.Time) Result {
	return Result{
		ID:            uuid.NewString(),
		Suggestion:    degradedSuggestion,
		Alternates:    []string{degradedAlternates[0], degradedAlternates[1]},
		Rationale:     rationale,
		PolicyRefs:    knownIDs,
		Confidence:    0,
		EvidenceSpans: spans,
		LatencyMS:     time.Since(start).Milliseconds(),
		Degraded:      true,
	}
}

// rotate occasionally promotes an alternate to primary so repeated requests
// do not read identically. Guardrails re-validate whatever it picks.
func (c *Coach) rotate(suggestion string, alternates []string) (string, []string) {
	options := dedupNonEmpty(append([]string{suggestion}, alternates...))
	if len(options) < 2 || c.rand.Float64() >= c.varietyProb {
		return suggestion, alternates
	}

	idx := c.rand.Intn(len(options))
	chosen := options[idx]
	rest := make([]string, 0, len(options)-1)
	for i, s := range options {
		if i != idx {
			rest = append(rest, s)
		}
	}
	if len(rest) > 2 {
		rest = rest[:2]
	}
	return chosen, padAlternates(rest, chosen)
}

func (c *Coach) firstClean(alternates []string, clean func(string) bool, fallback string) string {
	for _, alt := range alternates {
		if alt != "" && clean(alt) {
			return alt
		}
	}
	return fallback
}

func padAlternates(alternates []string, suggestion string) []string {
	out := make([]string, 0, 2)
	out = append(out, alternates...)
	for len(out) < 2 {
		out = append(out, suggestion)
	}
	return out[:2]
}

func dedupNonEmpty(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
