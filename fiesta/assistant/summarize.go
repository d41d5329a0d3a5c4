package assistant

import (
	"context"
	"fmt"
	"strings"

	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/sources/psql/models"
	"fiesta/fiesta/utils/logging"

	"go.uber.org/zap"
)

const summaryModel = "gpt-4.1-mini"

// SummarizeSession asks the LLM for a short Danish summary of a session's
// opening. Returns "" on any failure: an empty summary means "not yet
// summarized" and never blocks displaying the session.
func SummarizeSession(ctx context.Context, client llm.Client, messages []models.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}

	limit := len(messages)
	if limit > 10 {
		limit = 10
	}
	lines := make([]string, 0, limit)
	for _, msg := range messages[:limit] {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, truncateRunes(msg.Content, 200)))
	}

	prompt := fmt.Sprintf("Lav en kort dansk sammenfatning (max 100 ord) af denne FiestaAI samtale:\n\n%s",
		strings.Join(lines, "\n"))

	text, err := client.Run(ctx, llm.ChatRequest{
		Model:    summaryModel,
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		logging.ErrorLogger.Error("session summary generation failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}
