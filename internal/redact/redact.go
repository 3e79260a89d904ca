package redact

import "strings"

// Redact replaces every sensitive span in text with a unique placeholder,
// left to right, and returns the redacted text plus the reversal map.
// Redaction must happen before text reaches any external generator.
func Redact(text string) (string, *Map) {
	m := NewMap()
	matches := Scan(text)
	if len(matches) == 0 {
		return text, m
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, match := range matches {
		b.WriteString(text[last:match.Start])
		b.WriteString(m.allocate(match.Kind, match.Value, text))
		last = match.End
	}
	b.WriteString(text[last:])

	return b.String(), m
}
