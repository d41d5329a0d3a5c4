package assistant

import (
	"strings"
	"testing"
	"time"

	"fiesta/fiesta/sources/psql/models"
)

func msgAt(role, content string, at time.Time) models.ChatMessage {
	return models.ChatMessage{Role: role, Content: content, CreatedAt: at}
}

func TestDateSessionsMidnightBoundary(t *testing.T) {
	day1 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	lateDay1 := time.Date(2025, 5, 1, 23, 50, 0, 0, time.Local)
	day2 := time.Date(2025, 5, 2, 0, 5, 0, 0, time.Local)

	messages := []models.ChatMessage{
		msgAt(models.RoleUser, "Hvad er planen?", day1),
		msgAt(models.RoleAssistant, "Her er planen", lateDay1),
		msgAt(models.RoleUser, "Godmorgen", day2),
	}

	sessions := BuildSessions(messages, DateSessions{}, nil)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions across midnight, got %d", len(sessions))
	}
	// Most recent activity first
	if sessions[0].MessageCount != 1 || sessions[1].MessageCount != 2 {
		t.Errorf("expected counts [1 2], got [%d %d]", sessions[0].MessageCount, sessions[1].MessageCount)
	}
	if !sessions[0].LastMessageAt.After(sessions[1].LastMessageAt) {
		t.Error("sessions not sorted by last activity desc")
	}
}

func TestDateSessionsResolveRoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 1, 14, 30, 0, 0, time.Local)
	strategy := DateSessions{}
	id := strategy.SessionID(now, false)

	query, err := strategy.Resolve(id)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !query.ByRange {
		t.Fatal("expected a range query for date sessions")
	}
	if !query.From.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("range start = %v", query.From)
	}
	if !query.To.Before(time.Date(2025, 5, 2, 0, 0, 0, 0, time.Local)) {
		t.Errorf("range end %v leaks into the next day", query.To)
	}
}

func TestExplicitSessionsResolve(t *testing.T) {
	strategy := ExplicitSessions{}
	query, err := strategy.Resolve("session_1746092400000")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if query.ByRange || query.SessionID != "session_1746092400000" {
		t.Errorf("unexpected query: %+v", query)
	}
	if _, err := strategy.Resolve(""); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestResolveMalformedID(t *testing.T) {
	if _, err := (DateSessions{}).Resolve("not-a-session"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, err := (DateSessions{}).Resolve("session_abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestSessionTitleTruncation(t *testing.T) {
	long := "Kan du hjælpe mig med at planlægge det store sommerevent i Kongens Have?"
	msgs := []models.ChatMessage{
		msgAt(models.RoleUser, long, time.Now()),
	}
	title := SessionTitle(msgs)
	if len([]rune(title)) != 50 {
		t.Errorf("expected 50-rune title, got %d: %q", len([]rune(title)), title)
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("expected ellipsis suffix, got %q", title)
	}
	if !strings.HasPrefix(title, string([]rune(long)[:47])) {
		t.Errorf("truncation lost the prefix: %q", title)
	}
}

func TestSessionTitleFallback(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local)
	msgs := []models.ChatMessage{
		msgAt(models.RoleAssistant, "Velkommen!", at),
	}
	if got := SessionTitle(msgs); got != "Chat 1.5.2025" {
		t.Errorf("expected date fallback title, got %q", got)
	}
}

func TestBuildSessionsAttachesSummaries(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	messages := []models.ChatMessage{
		msgAt(models.RoleUser, "Hej", at),
	}
	strategy := DateSessions{}
	key := strategy.Key(messages[0])

	sessions := BuildSessions(messages, strategy, map[string]string{key: "kort resumé"})
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Summary != "kort resumé" {
		t.Errorf("summary not attached: %+v", sessions[0])
	}
}

func TestTruncateTitleShort(t *testing.T) {
	if got := TruncateTitle("kort titel"); got != "kort titel" {
		t.Errorf("short title should pass through, got %q", got)
	}
}
