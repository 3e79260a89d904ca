package coach

import (
	"regexp"
	"strings"
)

const (
	toneFallback        = "I'd be happy to help you with that. Let me provide some information."
	reviolationFallback = "I understand your question. Let me provide you with accurate information about this."
)

var sentenceEndRe = regexp.MustCompile(`[.!?]+`)

// withinBudget reports whether text satisfies the length and sentence caps.
func (c *Coach) withinBudget(text string) bool {
	if len(text) > c.maxSuggestionLen {
		return false
	}
	return len(sentenceEndRe.FindAllString(text, -1)) <= c.maxSentences
}

// truncate cuts text to the character budget, ending at the first sentence
// boundary inside it when one exists.
func (c *Coach) truncate(text string) string {
	if len(text) > c.maxSuggestionLen {
		text = text[:c.maxSuggestionLen]
	}
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		return text[:idx+1]
	}
	return text
}

// stillViolates reports whether text reproduces a pattern hit for any of the
// known policy ids. Missing-disclosure sentinels are ignored; disclosure is
// handled by injection, not substitution.
func (c *Coach) stillViolates(text string, knownIDs []string) bool {
	if len(knownIDs) == 0 {
		return false
	}
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}
	for _, h := range c.matcher.FindHits(text) {
		if known[h.PolicyID] && !h.IsMissingDisclosure() {
			return true
		}
	}
	return false
}

// injectDisclosure appends the disclosure sentence when text discusses
// disclosure-triggering topics without carrying a disclosure phrase.
func (c *Coach) injectDisclosure(text string) string {
	if text == "" {
		return text
	}
	if !c.matcher.RequiresDisclosure(text) || c.matcher.HasDisclosure(text) {
		return text
	}
	if len(c.matcher.DisclosurePhrases()) == 0 {
		return text
	}
	return text + " " + c.defaultDisclosure
}
