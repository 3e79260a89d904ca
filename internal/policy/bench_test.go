package policy

import "testing"

func BenchmarkFindHits(b *testing.B) {
	m := NewMatcher(DefaultCatalog())
	text := "We guarantee 12% annual returns on this risk-free fund. " +
		"My SSN is 123-45-6789 and my account 12345678 is active. " +
		"Past performance does not guarantee future results."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindHits(text)
	}
}
