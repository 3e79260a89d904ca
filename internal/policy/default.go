package policy

// Built-in policy ids referenced elsewhere in the pipeline.
const (
	PolicyAdvertising = "ADV-6.2"
	PolicySSN         = "PII-SSN"
	PolicyDisclosure  = "DISC-1.1"
	PolicyTone        = "TONE"
)

// DefaultCatalog returns the built-in compliance catalog used when no
// catalog file is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Policies: []Policy{
			{
				ID:       PolicyAdvertising,
				Name:     "Guaranteed returns or risk-free claims",
				Severity: SeverityHigh,
				Patterns: []string{
					`\bguarantee(?:d|s|ing)?\b[^.!?]*\b(?:return|profit|gain|income|yield)s?\b`,
					`\brisk[- ]free\b`,
					`\bno risk\b`,
					`\bcan(?:not|'t) lose\b`,
					`\bcertain (?:to )?(?:gain|profit|return)\b`,
				},
			},
			{
				ID:       PolicySSN,
				Name:     "Social security number in message",
				Severity: SeverityCritical,
				Patterns: []string{
					`\b\d{3}-?\d{2}-?\d{4}\b`,
				},
			},
			{
				ID:       PolicyTone,
				Name:     "Unprofessional tone",
				Severity: SeverityMedium,
				Patterns: []string{
					`\bidiot\b`,
					`\bstupid\b`,
					`\bshut up\b`,
					`\bdumb\b`,
					`\bmoron\b`,
					`\bfool\b`,
				},
			},
			{
				ID:       PolicyDisclosure,
				Name:     "Required risk disclosure",
				Severity: SeverityMedium,
				RequiredPhrases: []string{
					"investments may lose value",
					"past performance does not guarantee future results",
					"not fdic insured",
				},
			},
		},
	}
}
