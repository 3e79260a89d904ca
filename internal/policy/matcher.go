package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// MissingDisclosureMarker is the matched-text sentinel for a hit that fires
// because a required phrase is absent rather than a pattern being present.
const MissingDisclosureMarker = "<missing_disclosure>"

// Hit is one occurrence of a policy in text. Required-phrase absences carry
// the sentinel marker and a (0,0) span.
type Hit struct {
	PolicyID   string   `json:"policy_id"`
	PolicyName string   `json:"policy_name"`
	Severity   Severity `json:"severity"`
	Matched    string   `json:"matched"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
}

// IsMissingDisclosure reports whether the hit is an absence sentinel.
func (h Hit) IsMissingDisclosure() bool {
	return h.Matched == MissingDisclosureMarker
}

// disclosureTopics are the fixed finance/risk markers that make a piece of
// text subject to disclosure requirements, present disclosure or not.
var disclosureTopics = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:return|profit|yield|gain|earning|income)s?\b`),
	regexp.MustCompile(`\b(?:invest(?:ment)?|stock|bond|fund|portfolio)\b`),
	regexp.MustCompile(`\b(?:risk|loss|lose|volatile)\b`),
	regexp.MustCompile(`\b(?:performance|historical)\b`),
}

type compiledPolicy struct {
	policy   Policy
	patterns []*regexp.Regexp
	phrases  []string // lowercased required phrases
}

// Matcher scans text against a compiled catalog. Read-only after
// construction; safe for concurrent use.
type Matcher struct {
	catalog       *Catalog
	compiled      []compiledPolicy
	piiIDs        map[string]bool
	disclosureIDs map[string]bool
}

// NewMatcher compiles the catalog's patterns. Uncompilable patterns are
// skipped with a warning; they never abort startup.
func NewMatcher(c *Catalog) *Matcher {
	m := &Matcher{
		catalog:       c,
		piiIDs:        map[string]bool{PolicySSN: true},
		disclosureIDs: map[string]bool{PolicyDisclosure: true},
	}

	for _, p := range c.Policies {
		cp := compiledPolicy{policy: p}
		for _, pat := range p.Patterns {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: policy %s: skipping pattern %q: %v\n", p.ID, pat, err)
				continue
			}
			cp.patterns = append(cp.patterns, re)
		}
		for _, phrase := range p.RequiredPhrases {
			cp.phrases = append(cp.phrases, strings.ToLower(phrase))
		}
		m.compiled = append(m.compiled, cp)
	}

	return m
}

// Catalog returns the catalog the matcher was compiled from.
func (m *Matcher) Catalog() *Catalog { return m.catalog }

// PolicyByID returns the policy with the given id, or nil.
func (m *Matcher) PolicyByID(id string) *Policy { return m.catalog.PolicyByID(id) }

// FindHits returns every policy occurrence in text. Hit order is
// deterministic: catalog order, then pattern order, then match offset.
func (m *Matcher) FindHits(text string) []Hit {
	var hits []Hit
	lower := strings.ToLower(text)

	for _, cp := range m.compiled {
		for _, re := range cp.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				hits = append(hits, Hit{
					PolicyID:   cp.policy.ID,
					PolicyName: cp.policy.Name,
					Severity:   cp.policy.Severity,
					Matched:    text[loc[0]:loc[1]],
					Start:      loc[0],
					End:        loc[1],
				})
			}
		}

		// Inverse logic for required phrases: absence triggers the hit.
		if len(cp.phrases) > 0 && !containsAny(lower, cp.phrases) {
			hits = append(hits, Hit{
				PolicyID:   cp.policy.ID,
				PolicyName: cp.policy.Name,
				Severity:   cp.policy.Severity,
				Matched:    MissingDisclosureMarker,
				Start:      0,
				End:        0,
			})
		}
	}

	return hits
}

// ContainsPII reports whether any hit belongs to a designated PII policy.
func (m *Matcher) ContainsPII(text string) bool {
	for _, h := range m.FindHits(text) {
		if m.piiIDs[h.PolicyID] {
			return true
		}
	}
	return false
}

// RequiresDisclosure reports whether text touches finance/risk topics that
// mandate a disclosure, regardless of whether one is already present.
func (m *Matcher) RequiresDisclosure(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range disclosureTopics {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// HasDisclosure reports whether any required disclosure phrase occurs.
// Vacuously true when the catalog carries no disclosure policy.
func (m *Matcher) HasDisclosure(text string) bool {
	lower := strings.ToLower(text)
	found := false
	for _, cp := range m.compiled {
		if !m.disclosureIDs[cp.policy.ID] || len(cp.phrases) == 0 {
			continue
		}
		found = true
		if containsAny(lower, cp.phrases) {
			return true
		}
	}
	return !found
}

// DisclosurePhrases returns the required phrases of all disclosure policies.
func (m *Matcher) DisclosurePhrases() []string {
	var phrases []string
	for _, p := range m.catalog.Policies {
		if m.disclosureIDs[p.ID] {
			phrases = append(phrases, p.RequiredPhrases...)
		}
	}
	return phrases
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
