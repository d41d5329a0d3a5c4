package assistant

import (
	"strings"

	"fiesta/fiesta/sources/psql/models"
)

var topicRules = []keywordRule{
	{"events", []string{"event", "booking"}},
	{"menu", []string{"menu", "mad"}},
	{"social-media", []string{"social", "facebook"}},
	{"økonomi", []string{"faktura", "penge"}},
	{"kundeservice", []string{"kunde", "mail"}},
}

// ExtractTags returns the topic tags for a set of messages: the union of
// each message's task type plus keyword-matched topics. Pure and
// deterministic; insertion order is stable for display.
func ExtractTags(messages []models.ChatMessage) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, msg := range messages {
		add(msg.TaskType)
		content := strings.ToLower(msg.Content)
		for _, rule := range topicRules {
			for _, kw := range rule.keywords {
				if strings.Contains(content, kw) {
					add(rule.label)
					break
				}
			}
		}
	}
	return tags
}
