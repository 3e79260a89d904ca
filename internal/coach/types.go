// Package coach turns a risky agent draft into a compliant rewrite. The
// pipeline redacts identifiers, derives policy evidence, drives the provider
// chain, then applies ordered guardrails to whatever came back.
package coach

// Request is a single-use rewrite request.
type Request struct {
	Draft               string   `json:"draft"`
	Context             string   `json:"context,omitempty"`
	KnownPolicyIDs      []string `json:"known_policy_ids,omitempty"`
	BrandTone           string   `json:"brand_tone,omitempty"`
	RequiredDisclosures []string `json:"required_disclosures,omitempty"`
}

// Span locates evidence in the redacted draft. The zero span marks a
// required-phrase absence with no concrete location.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Result is the rewrite outcome. Alternates always has length 2. Degraded
// marks a fixed fallback produced after every provider failed or leaked a
// redaction placeholder; its text never originates from a generator.
type Result struct {
	ID            string   `json:"id"`
	Suggestion    string   `json:"suggestion"`
	Alternates    []string `json:"alternates"`
	Rationale     string   `json:"rationale"`
	PolicyRefs    []string `json:"policy_refs"`
	Confidence    float64  `json:"confidence"`
	EvidenceSpans []Span   `json:"evidence_spans"`
	Provider      string   `json:"provider,omitempty"`
	LatencyMS     int64    `json:"latency_ms"`
	Degraded      bool     `json:"degraded"`
}
