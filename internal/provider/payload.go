package provider

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Payload is the structured output expected from a provider. Every field is
// optional; the orchestrator fills defaults.
type Payload struct {
	Suggestion string   `json:"suggestion"`
	Alternates []string `json:"alternates"`
	Rationale  string   `json:"rationale"`
	PolicyRefs []string `json:"policy_refs"`
	Confidence *float64 `json:"confidence"`
}

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParsePayload extracts a Payload from raw model output. Extraction is
// staged: direct parse, then fenced-block extraction, then the first
// balanced-braces object.
func ParsePayload(raw string) (*Payload, error) {
	cleaned := strings.TrimSpace(raw)

	if p, ok := tryDecode(cleaned); ok {
		return p, nil
	}

	if m := fencedRe.FindStringSubmatch(cleaned); m != nil {
		if p, ok := tryDecode(m[1]); ok {
			return p, nil
		}
	}

	if obj, ok := firstBalancedObject(cleaned); ok {
		if p, ok := tryDecode(obj); ok {
			return p, nil
		}
	}

	return nil, &ParseError{Raw: truncate(cleaned, 200)}
}

func tryDecode(s string) (*Payload, bool) {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, false
	}
	return &p, true
}

// firstBalancedObject returns the first top-level {...} region in s,
// tracking string literals and escapes so braces inside values don't count.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
