package mcp

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/complyops/draftcoach/internal/coach"
	"github.com/complyops/draftcoach/internal/policy"
	"github.com/complyops/draftcoach/internal/provider"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	return s
}

// installFakeChain swaps in a coach backed by scripted provider responses so
// suggest tests never leave the process.
func installFakeChain(t *testing.T, s *Server, responses ...string) {
	t.Helper()
	chain, err := provider.NewChainOf(provider.NewFake("fake", responses...))
	if err != nil {
		t.Fatalf("failed to build fake chain: %v", err)
	}

	zero := 0.0
	c, err := coach.New(coach.Config{
		Matcher:            s.currentMatcher(),
		Chain:              chain,
		Denylist:           s.dl,
		VarietyProbability: &zero,
		Rand:               rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("failed to build coach: %v", err)
	}

	s.mu.Lock()
	s.coach = c
	s.mu.Unlock()
}

func TestCheckFindsAdvertising(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Text: "We guarantee 12% annual returns on this investment.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, h := range out.Hits {
		if h.PolicyID == policy.PolicyAdvertising && strings.Contains(strings.ToLower(h.Matched), "guarantee") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an advertising hit, got %+v", out.Hits)
	}
	if out.ContainsPII {
		t.Error("no PII in text")
	}
	if !out.RequiresDisclosure {
		t.Error("investment text requires disclosure")
	}
	if out.HighestSeverity != string(policy.SeverityHigh) {
		t.Errorf("expected high severity, got %q", out.HighestSeverity)
	}
}

func TestCheckMissingDisclosureSentinel(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Text: "Good morning.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, h := range out.Hits {
		if h.IsMissingDisclosure() {
			found = true
			if h.Start != 0 || h.End != 0 {
				t.Errorf("sentinel hit must carry the zero span, got (%d,%d)", h.Start, h.End)
			}
		}
	}
	if !found {
		t.Errorf("expected a missing-disclosure sentinel, got %+v", out.Hits)
	}
}

func TestCheckPII(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Text: "Your SSN is 123-45-6789.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ContainsPII {
		t.Error("expected PII detection")
	}
}

func TestRedactTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleRedact(context.Background(), &mcpsdk.CallToolRequest{}, RedactInput{
		Text: "Your SSN is 123-45-6789 and account #12345678.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(out.Redacted, "123-45-6789") || strings.Contains(out.Redacted, "12345678") {
		t.Errorf("identifiers survived redaction: %q", out.Redacted)
	}
	if !strings.Contains(out.Redacted, "[SSN_REDACTED_1]") || !strings.Contains(out.Redacted, "[ACCOUNT_REDACTED_1]") {
		t.Errorf("expected category placeholders, got %q", out.Redacted)
	}
	if len(out.Entries) != 2 {
		t.Fatalf("expected 2 mapping entries, got %d", len(out.Entries))
	}
	if out.Entries[0].Value != "123-45-6789" {
		t.Errorf("unexpected entry value: %+v", out.Entries[0])
	}
}

func TestSuggestTool(t *testing.T) {
	s := newTestServer(t)
	installFakeChain(t, s,
		`{"suggestion":"Happy to walk you through our fee schedule.","alternates":["Here is an overview of our fees.","Let me outline the options."],"rationale":"removed promissory language","confidence":0.8}`)

	_, out, err := s.handleSuggest(context.Background(), &mcpsdk.CallToolRequest{}, SuggestInput{
		Draft: "We guarantee 12% annual returns on this investment.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Degraded {
		t.Fatalf("unexpected degraded result: %+v", out.Result)
	}
	if out.Suggestion != "Happy to walk you through our fee schedule." {
		t.Errorf("unexpected suggestion: %q", out.Suggestion)
	}
	if len(out.Alternates) != 2 {
		t.Errorf("expected 2 alternates, got %d", len(out.Alternates))
	}
	if out.Provider != "fake" {
		t.Errorf("expected provider identity in result, got %q", out.Provider)
	}
	if out.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", out.Confidence)
	}
}

func TestSuggestToolDegradedWithoutProviders(t *testing.T) {
	s := newTestServer(t)
	chain, err := provider.NewChainOf(provider.NewFailingFake("fake", context.DeadlineExceeded))
	if err != nil {
		t.Fatalf("failed to build chain: %v", err)
	}
	zero := 0.0
	c, err := coach.New(coach.Config{
		Matcher:            s.currentMatcher(),
		Chain:              chain,
		Denylist:           s.dl,
		VarietyProbability: &zero,
	})
	if err != nil {
		t.Fatalf("failed to build coach: %v", err)
	}
	s.mu.Lock()
	s.coach = c
	s.mu.Unlock()

	_, out, err := s.handleSuggest(context.Background(), &mcpsdk.CallToolRequest{}, SuggestInput{
		Draft: "Your SSN is 123-45-6789.",
	})
	if err != nil {
		t.Fatalf("degraded output must not surface as an error: %v", err)
	}
	if !out.Degraded || out.Confidence != 0 {
		t.Errorf("expected degraded result, got %+v", out.Result)
	}
}

func TestSwapMatcherReplacesCatalog(t *testing.T) {
	s := newTestServer(t)

	custom := &policy.Catalog{Policies: []policy.Policy{{
		ID:       "CUSTOM-1",
		Name:     "No exclamation marks",
		Severity: policy.SeverityLow,
		Patterns: []string{`!`},
	}}}
	if err := custom.Validate(); err != nil {
		t.Fatalf("test catalog invalid: %v", err)
	}

	if err := s.swapMatcher(policy.NewMatcher(custom)); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{Text: "Act now!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits) != 1 || out.Hits[0].PolicyID != "CUSTOM-1" {
		t.Errorf("expected the swapped catalog to apply, got %+v", out.Hits)
	}
}
