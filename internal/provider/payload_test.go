package provider

import (
	"errors"
	"testing"
)

func TestParsePayloadDirect(t *testing.T) {
	raw := `{"suggestion":"Hi","alternates":["a","b"],"rationale":"r","policy_refs":["ADV-6.2"],"confidence":0.9}`
	p, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Suggestion != "Hi" || len(p.Alternates) != 2 || p.Rationale != "r" {
		t.Errorf("unexpected payload: %+v", p)
	}
	if p.Confidence == nil || *p.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", p.Confidence)
	}
}

func TestParsePayloadFenced(t *testing.T) {
	raw := "Here you go:\n```json\n{\"suggestion\":\"Hello\"}\n```\nHope that helps."
	p, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Suggestion != "Hello" {
		t.Errorf("expected fenced extraction, got %+v", p)
	}
}

func TestParsePayloadBalancedBraces(t *testing.T) {
	raw := `Sure! The rewrite is {"suggestion":"Use caution {always}","rationale":"brace \"test\""} as requested.`
	p, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Suggestion != "Use caution {always}" {
		t.Errorf("expected balanced-brace extraction, got %+v", p)
	}
}

func TestParsePayloadMissingFields(t *testing.T) {
	p, err := ParsePayload(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Suggestion != "" || p.Alternates != nil || p.Confidence != nil {
		t.Errorf("expected zero-valued optional fields, got %+v", p)
	}
}

func TestParsePayloadGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{broken", "[1,2,3]"} {
		if _, err := ParsePayload(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		} else {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected *ParseError for %q, got %T", raw, err)
			}
		}
	}
}

func FuzzParsePayload(f *testing.F) {
	f.Add(`{"suggestion":"hi"}`)
	f.Add("```json\n{}\n```")
	f.Add(`text {"a":"{\"nested\":true}"} tail`)
	f.Add("{{{{")
	f.Add(`"unterminated`)

	f.Fuzz(func(t *testing.T, raw string) {
		// Must never panic; errors are expected for arbitrary input.
		_, _ = ParsePayload(raw)
	})
}
