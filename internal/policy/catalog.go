// Package policy loads the compliance policy catalog and scans draft text
// for violations. Pattern-based policies fire on every case-insensitive
// match; required-phrase policies fire when none of their phrases occur.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Severity classifies how serious a policy violation is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Policy is a single compliance rule. Pattern policies detect forbidden
// language; required-phrase policies demand that at least one phrase occurs.
type Policy struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Severity        Severity `yaml:"severity" json:"severity"`
	Patterns        []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	RequiredPhrases []string `yaml:"required_phrases,omitempty" json:"required_phrases,omitempty"`
}

// Catalog is the full, immutable policy list. Loaded once at startup and
// read-only afterwards; safe for concurrent readers.
type Catalog struct {
	Policies []Policy `yaml:"policies" json:"policies"`
}

// LoadCatalog reads a catalog from a YAML file. An empty path or a missing
// file falls back to the built-in catalog. Malformed YAML or an invalid
// catalog is a startup error.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("read policy catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse policy catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy catalog %s: %w", path, err)
	}

	return &c, nil
}

// Validate checks catalog-level invariants: non-empty unique ids, known
// severities, and at least one of patterns/required_phrases per policy.
func (c *Catalog) Validate() error {
	if len(c.Policies) == 0 {
		return fmt.Errorf("catalog contains no policies")
	}

	seen := make(map[string]bool, len(c.Policies))
	for i, p := range c.Policies {
		if p.ID == "" {
			return fmt.Errorf("policy %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("policy %s: duplicate id", p.ID)
		}
		seen[p.ID] = true

		if p.Name == "" {
			return fmt.Errorf("policy %s: missing name", p.ID)
		}
		if !p.Severity.Valid() {
			return fmt.Errorf("policy %s: unknown severity %q", p.ID, p.Severity)
		}
		if len(p.Patterns) == 0 && len(p.RequiredPhrases) == 0 {
			return fmt.Errorf("policy %s: needs patterns or required_phrases", p.ID)
		}
	}

	return nil
}

// PolicyByID returns the policy with the given id, or nil.
func (c *Catalog) PolicyByID(id string) *Policy {
	for i := range c.Policies {
		if c.Policies[i].ID == id {
			return &c.Policies[i]
		}
	}
	return nil
}
