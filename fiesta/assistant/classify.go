package assistant

import "strings"

type keywordRule struct {
	label    string
	keywords []string
}

// Evaluated top to bottom, first match wins. The order is part of the
// contract: "Kunde spørger om faktura" is kundeservice, not økonomi.
var taskTypeRules = []keywordRule{
	{"kundeservice", []string{"mail", "kunde", "forespørgsel", "svar"}},
	{"marketing", []string{"social", "facebook", "instagram", "marketing"}},
	{"planlægning", []string{"event", "booking", "kalender", "planlæg"}},
	{"økonomi", []string{"penge", "faktura", "regnskab", "økonomi"}},
	{"drift", []string{"menu", "mad", "drift", "vogn"}},
	{"seo", []string{"seo", "website", "google"}},
}

// DetectTaskType classifies a user message by keyword. Returns "" when no
// rule matches.
func DetectTaskType(content string) string {
	lower := strings.ToLower(content)
	for _, rule := range taskTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return ""
}
