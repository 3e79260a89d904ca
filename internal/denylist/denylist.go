// Package denylist holds the rude-term list enforced by the tone guardrail.
// Matching is word-boundary and case-insensitive.
package denylist

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Terms is the raw YAML shape of a denylist file.
type Terms struct {
	Terms []string `yaml:"terms"`
}

// Denylist holds compiled term patterns for fast matching.
type Denylist struct {
	terms    []string
	patterns []*regexp.Regexp
}

// DefaultTerms are the built-in rude terms.
var DefaultTerms = []string{"idiot", "stupid", "shut up", "dumb", "moron", "fool"}

// New creates a Denylist from terms, compiling word-boundary patterns.
func New(terms []string) *Denylist {
	d := &Denylist{}
	for _, term := range terms {
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		d.terms = append(d.terms, term)
		d.patterns = append(d.patterns, re)
	}
	return d
}

// NewDefault creates a Denylist with the built-in terms.
func NewDefault() *Denylist {
	return New(DefaultTerms)
}

// Load reads a denylist from a YAML file. Falls back to defaults if the file
// doesn't exist.
func Load(path string) (*Denylist, error) {
	if path == "" {
		return NewDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}

	var t Terms
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse denylist: %w", err)
	}
	if len(t.Terms) == 0 {
		return NewDefault(), nil
	}

	return New(t.Terms), nil
}

// Matches reports whether text contains a denylisted term, returning the
// first term that matched.
func (d *Denylist) Matches(text string) (bool, string) {
	for i, re := range d.patterns {
		if re.MatchString(text) {
			return true, d.terms[i]
		}
	}
	return false, ""
}

// TermList returns the configured terms.
func (d *Denylist) TermList() []string {
	return append([]string(nil), d.terms...)
}
