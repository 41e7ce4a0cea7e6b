package incidents

import (
	"sort"
	"strings"
)

// categoryRules buckets free-text categories into a small label set used to
// populate filter choices. Ordered, first match wins; unmatched categories
// pass through trimmed.
var categoryRules = []struct {
	tokens []string
	label  string
}{
	{[]string{"backup", "restore"}, "Backup/Restore"},
	{[]string{"security", "segurança"}, "IT Security"},
	{[]string{"monitor"}, "Monitoring"},
	{[]string{"rede", "network"}, "Network"},
	{[]string{"servidor", "server"}, "Server"},
	{[]string{"suporte", "support"}, "Service Support"},
	{[]string{"software", "programa"}, "Software"},
	{[]string{"hardware", "equipment"}, "Hardware"},
	{[]string{"cloud", "nuvem"}, "Cloud"},
	{[]string{"database", "banco de dados"}, "Database"},
}

// BucketCategory maps a raw category to its bucketed label. Empty input
// maps to CategoryUnknown; input matching no rule passes through trimmed.
func BucketCategory(raw string) string {
	category := strings.TrimSpace(raw)
	if category == "" {
		return CategoryUnknown
	}
	lower := strings.ToLower(category)
	for _, rule := range categoryRules {
		for _, tok := range rule.tokens {
			if strings.Contains(lower, tok) {
				return rule.label
			}
		}
	}
	return category
}

// Categories returns the sorted distinct bucketed category labels present
// in the collection.
func Categories(set []Incident) []string {
	seen := map[string]struct{}{}
	for _, in := range set {
		seen[BucketCategory(in.Category)] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
