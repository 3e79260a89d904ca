// Package redact performs reversible placeholder redaction of sensitive
// substrings before any text leaves the process. The redaction map lives for
// a single request, is owned by the caller, and is never persisted.
package redact

import (
	"regexp"
	"sort"
)

// Kind identifies the category of sensitive data.
type Kind string

const (
	KindSSN     Kind = "SSN"
	KindAccount Kind = "ACCOUNT"
)

// Match is a single occurrence of sensitive data in text. For labeled
// account numbers the span covers only the digits, not the label.
type Match struct {
	Kind  Kind
	Value string
	Start int
	End   int
}

var (
	// 9-digit identifier, optionally dash-grouped 3-2-4.
	ssnRe = regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)

	// Account number labeled "account" or "acct", 6-12 digits. Only the
	// digit group is sensitive; the label stays in place.
	acctRe = regexp.MustCompile(`(?i)\b(?:account|acct)[\s#:]*(\d{6,12})\b`)
)

// Scan finds all sensitive spans in text, sorted by position. Account digits
// already covered by an SSN-shaped match are not reported twice.
func Scan(text string) []Match {
	var matches []Match

	for _, loc := range ssnRe.FindAllStringIndex(text, -1) {
		matches = append(matches, Match{
			Kind:  KindSSN,
			Value: text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}

	for _, sub := range acctRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := sub[2], sub[3]
		if overlaps(matches, start, end) {
			continue
		}
		matches = append(matches, Match{
			Kind:  KindAccount,
			Value: text[start:end],
			Start: start,
			End:   end,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return matches
}

func overlaps(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.End && end > m.Start {
			return true
		}
	}
	return false
}
