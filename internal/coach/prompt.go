package coach

import (
	"fmt"
	"strings"

	"github.com/complyops/draftcoach/internal/policy"
)

const systemPrompt = "You are a compliance QA coach for financial support. Return STRICT JSON only."

const userPromptTemplate = `You rewrite risky support-agent drafts into compliant, on-brand replies.

Brand tone: %s

Policies triggered:
%s

Required disclosure: %s

Agent draft (identifiers already redacted, never invent replacements for them):
%s

Customer context: %s

Return a JSON object with exactly these fields:
{"suggestion": string, "alternates": [string, string], "rationale": string, "policy_refs": [string], "confidence": number between 0 and 1}

The suggestion must be at most 2 sentences, must not promise or guarantee outcomes, and must keep the required disclosure when discussing returns or investments.`

// buildPrompt assembles the system and user prompts from the redacted draft
// and the request's policy evidence.
func buildPrompt(m *policy.Matcher, draft, context string, policyIDs []string, brandTone, disclosure string) (string, string) {
	var lines []string
	for _, id := range policyIDs {
		if p := m.PolicyByID(id); p != nil {
			lines = append(lines, fmt.Sprintf("- %s: %s (severity: %s)", p.ID, p.Name, p.Severity))
		}
	}
	policiesText := "No specific policies triggered"
	if len(lines) > 0 {
		policiesText = strings.Join(lines, "\n")
	}

	promptContext := context
	if promptContext == "" {
		promptContext = "General inquiry"
	}

	user := fmt.Sprintf(userPromptTemplate, brandTone, policiesText, disclosure, draft, promptContext)
	if context != "" {
		user += fmt.Sprintf("\n\nIMPORTANT: The customer's situation is: %q. Tailor your response to address this specific context while remaining compliant.", context)
	}

	return systemPrompt, user
}
