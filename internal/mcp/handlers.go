package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/complyops/draftcoach/internal/coach"
	"github.com/complyops/draftcoach/internal/policy"
	"github.com/complyops/draftcoach/internal/redact"
)

// --- Input/Output types ---

// SuggestInput defines parameters for the draftcoach_suggest tool.
type SuggestInput struct {
	Draft               string   `json:"draft" jsonschema:"agent draft text to rewrite"`
	Context             string   `json:"context,omitempty" jsonschema:"conversation context"`
	KnownPolicyIDs      []string `json:"known_policy_ids,omitempty" jsonschema:"policy ids already known to be violated"`
	BrandTone           string   `json:"brand_tone,omitempty" jsonschema:"desired brand tone"`
	RequiredDisclosures []string `json:"required_disclosures,omitempty" jsonschema:"disclosure phrases to include"`
}

// SuggestOutput carries the rewrite result.
type SuggestOutput struct {
	coach.Result
}

// CheckInput defines parameters for the draftcoach_check tool.
type CheckInput struct {
	Text string `json:"text" jsonschema:"text to scan against the policy catalog"`
}

// CheckOutput contains policy hits and derived flags.
type CheckOutput struct {
	Hits               []policy.Hit `json:"hits"`
	ContainsPII        bool         `json:"contains_pii"`
	RequiresDisclosure bool         `json:"requires_disclosure"`
	HasDisclosure      bool         `json:"has_disclosure"`
	HighestSeverity    string       `json:"highest_severity,omitempty"`
}

// RedactInput defines parameters for the draftcoach_redact tool.
type RedactInput struct {
	Text string `json:"text" jsonschema:"text to redact"`
}

// RedactEntry is a single placeholder mapping.
type RedactEntry struct {
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
	Kind        string `json:"kind"`
}

// RedactOutput contains the redacted text and its reversible mapping.
type RedactOutput struct {
	Redacted string        `json:"redacted"`
	Entries  []RedactEntry `json:"entries"`
}

// --- Handlers ---

func (s *Server) handleSuggest(ctx context.Context, req *mcpsdk.CallToolRequest, input SuggestInput) (*mcpsdk.CallToolResult, SuggestOutput, error) {
	res := s.currentCoach().Suggest(ctx, coach.Request{
		Draft:               input.Draft,
		Context:             input.Context,
		KnownPolicyIDs:      input.KnownPolicyIDs,
		BrandTone:           input.BrandTone,
		RequiredDisclosures: input.RequiredDisclosures,
	})
	return nil, SuggestOutput{Result: res}, nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	m := s.currentMatcher()
	hits := m.FindHits(input.Text)
	if hits == nil {
		hits = []policy.Hit{}
	}

	out := CheckOutput{
		Hits:               hits,
		ContainsPII:        m.ContainsPII(input.Text),
		RequiresDisclosure: m.RequiresDisclosure(input.Text),
		HasDisclosure:      m.HasDisclosure(input.Text),
	}
	if sev, ok := highestSeverity(hits); ok {
		out.HighestSeverity = string(sev)
	}
	return nil, out, nil
}

func (s *Server) handleRedact(ctx context.Context, req *mcpsdk.CallToolRequest, input RedactInput) (*mcpsdk.CallToolResult, RedactOutput, error) {
	redacted, rmap := redact.Redact(input.Text)

	out := RedactOutput{Redacted: redacted, Entries: []RedactEntry{}}
	for _, e := range rmap.Entries() {
		out.Entries = append(out.Entries, RedactEntry{
			Placeholder: e.Placeholder,
			Value:       e.Value,
			Kind:        string(e.Kind),
		})
	}
	return nil, out, nil
}

func highestSeverity(hits []policy.Hit) (policy.Severity, bool) {
	rank := map[policy.Severity]int{
		policy.SeverityLow:      1,
		policy.SeverityMedium:   2,
		policy.SeverityHigh:     3,
		policy.SeverityCritical: 4,
	}

	var best policy.Severity
	found := false
	for _, h := range hits {
		if !found || rank[h.Severity] > rank[best] {
			best = h.Severity
			found = true
		}
	}
	return best, found
}
