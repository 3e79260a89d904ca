package redact

import (
	"fmt"
	"strings"
)

// Entry maps one placeholder back to the original sensitive value.
type Entry struct {
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
	Kind        Kind   `json:"kind"`
}

// Map records placeholder allocations for a single redaction call, in
// replacement order. Caller-owned, single-request lifetime, not
// goroutine-safe.
type Map struct {
	entries  []Entry
	byToken  map[string]int
	counters map[Kind]int
}

// NewMap creates an empty redaction map.
func NewMap() *Map {
	return &Map{
		byToken:  make(map[string]int),
		counters: make(map[Kind]int),
	}
}

// allocate returns a fresh category-indexed placeholder for value. The
// counter advances past any candidate that already occurs in the source
// text, so placeholders never collide with source content.
func (m *Map) allocate(kind Kind, value, source string) string {
	for {
		m.counters[kind]++
		ph := fmt.Sprintf("[%s_REDACTED_%d]", kind, m.counters[kind])
		if strings.Contains(source, ph) {
			continue
		}
		if _, taken := m.byToken[ph]; taken {
			continue
		}
		m.byToken[ph] = len(m.entries)
		m.entries = append(m.entries, Entry{Placeholder: ph, Value: value, Kind: kind})
		return ph
	}
}

// Len returns the number of placeholder entries.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns all entries in replacement order.
func (m *Map) Entries() []Entry { return m.entries }

// Placeholders returns all placeholder strings in replacement order.
func (m *Map) Placeholders() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Placeholder
	}
	return out
}

// Resolve returns the original value for a placeholder.
func (m *Map) Resolve(placeholder string) (string, bool) {
	i, ok := m.byToken[placeholder]
	if !ok {
		return "", false
	}
	return m.entries[i].Value, true
}

// Leaks returns every placeholder that survives verbatim in text. A
// non-empty result after an external call is a hard failure for the caller.
func (m *Map) Leaks(text string) []string {
	var leaked []string
	for _, e := range m.entries {
		if strings.Contains(text, e.Placeholder) {
			leaked = append(leaked, e.Placeholder)
		}
	}
	return leaked
}

// Restore substitutes original values back for their placeholders.
func (m *Map) Restore(text string) string {
	for _, e := range m.entries {
		text = strings.ReplaceAll(text, e.Placeholder, e.Value)
	}
	return text
}
