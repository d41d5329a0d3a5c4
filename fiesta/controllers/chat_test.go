package controllers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fiesta/fiesta/assistant"
	"fiesta/fiesta/services/calendar"
	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/psql/models"
	"fiesta/fiesta/types"
	"fiesta/fiesta/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Fakes ---

type fakeLLM struct {
	reply  string
	chunks []string
	err    error
	last   llm.ChatRequest
}

func (f *fakeLLM) Run(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.last = req
	return f.reply, f.err
}

func (f *fakeLLM) RunStream(ctx context.Context, req llm.ChatRequest) (<-chan string, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, chunk := range f.chunks {
			ch <- chunk
		}
	}()
	return ch, nil
}

// cancelAwareLLM stops producing as soon as its stream context is cancelled,
// like the real client's read loop.
type cancelAwareLLM struct {
	chunks []string
}

func (f *cancelAwareLLM) Run(ctx context.Context, req llm.ChatRequest) (string, error) {
	return "", nil
}

func (f *cancelAwareLLM) RunStream(ctx context.Context, req llm.ChatRequest) (<-chan string, error) {
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, chunk := range f.chunks {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

type fakeCalendar struct {
	events []calendar.Event
	err    error
	calls  int
}

func (f *fakeCalendar) UpcomingEvents(ctx context.Context, userID int, horizonDays int) ([]calendar.Event, error) {
	f.calls++
	return f.events, f.err
}

// --- Helpers ---

func setupChatTest(t *testing.T, client llm.Client, provider calendar.Provider) *ChatController {
	t.Helper()
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ChatMessage{}, &models.SessionSummary{}, &models.Task{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	user := models.User{Username: "jonas", Email: "jonas@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating test user failed: %v", err)
	}

	ctrl := NewChatController(
		dao.NewChatMessageDAO(db),
		dao.NewSessionSummaryDAO(db),
		dao.NewTaskDAO(db),
		client,
		provider,
		assistant.ExplicitSessions{},
	)
	return ctrl
}

func sessionMessages(t *testing.T, ctrl *ChatController, sessionID string) []models.ChatMessage {
	t.Helper()
	msgs, err := ctrl.chatDAO.ListBySession(context.Background(), 1, sessionID)
	if err != nil {
		t.Fatalf("listing messages failed: %v", err)
	}
	return msgs
}

// --- Tests ---

func TestStartSessionPersistsWelcome(t *testing.T) {
	ctrl := setupChatTest(t, &fakeLLM{}, nil)

	resp, err := ctrl.StartSession(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	if resp.Welcome != assistant.WelcomeMessage {
		t.Error("expected welcome message for non-explicit start")
	}
	msgs := sessionMessages(t, ctrl, resp.SessionID)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleAssistant || msgs[0].Status != models.StatusCompleted {
		t.Errorf("welcome message persisted wrong: %+v", msgs[0])
	}
}

func TestStartSessionExplicit(t *testing.T) {
	ctrl := setupChatTest(t, &fakeLLM{}, nil)

	resp, err := ctrl.StartSession(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	if resp.Welcome != assistant.NewSessionMessage {
		t.Error("expected new-session message for explicit start")
	}
	if !strings.HasPrefix(resp.SessionID, "session_") {
		t.Errorf("unexpected session id: %s", resp.SessionID)
	}
}

func TestChatRoundTrip(t *testing.T) {
	client := &fakeLLM{reply: "Her er et udkast til svaret."}
	ctrl := setupChatTest(t, client, nil)

	resp, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Kan du svare på denne kunde mail?",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if resp["status"] != models.StatusCompleted {
		t.Errorf("status = %q", resp["status"])
	}
	if resp["response"] != client.reply {
		t.Errorf("response = %q", resp["response"])
	}

	msgs := sessionMessages(t, ctrl, resp["session_id"])
	if len(msgs) != 2 {
		t.Fatalf("expected user + assistant rows, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Status != models.StatusCompleted {
		t.Errorf("user row: %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != client.reply {
		t.Errorf("assistant row: %+v", msgs[1])
	}
	if msgs[1].TaskType != "kundeservice" {
		t.Errorf("task type = %q, want kundeservice", msgs[1].TaskType)
	}
}

func TestChatErrorPersistsApology(t *testing.T) {
	client := &fakeLLM{err: errors.New("upstream down")}
	ctrl := setupChatTest(t, client, nil)

	resp, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{Content: "Hej"})
	if err != nil {
		t.Fatalf("chat should degrade, not fail: %v", err)
	}
	if resp["status"] != models.StatusError {
		t.Errorf("status = %q", resp["status"])
	}
	if resp["response"] != assistant.ErrorReply {
		t.Errorf("response = %q", resp["response"])
	}

	msgs := sessionMessages(t, ctrl, resp["session_id"])
	last := msgs[len(msgs)-1]
	if last.Status != models.StatusError || last.Content != assistant.ErrorReply {
		t.Errorf("assistant row after failure: %+v", last)
	}
	if last.TaskType != "" {
		t.Errorf("failed turn must not set task type, got %q", last.TaskType)
	}
}

func TestChatStreamPersistsFullReply(t *testing.T) {
	client := &fakeLLM{chunks: []string{"Hej ", "Jonas", "!"}}
	ctrl := setupChatTest(t, client, nil)

	sessionID := "session_1746092400000"
	ch, errCh := ctrl.ChatStream(context.Background(), 1, types.ChatRequest{
		SessionID: sessionID,
		Content:   "Hej",
	})

	var got strings.Builder
	for chunk := range ch {
		got.WriteString(chunk)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if got.String() != "Hej Jonas!" {
		t.Errorf("streamed %q", got.String())
	}

	msgs := sessionMessages(t, ctrl, sessionID)
	last := msgs[len(msgs)-1]
	if last.Status != models.StatusCompleted || last.Content != "Hej Jonas!" {
		t.Errorf("assistant row after stream: %+v", last)
	}
}

func TestChatStreamSurvivesAbandonedConsumer(t *testing.T) {
	client := &cancelAwareLLM{chunks: []string{"Halvdelen af ", "svaret."}}
	ctrl := setupChatTest(t, client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sessionID := "session_1746092400003"
	ch, errCh := ctrl.ChatStream(ctx, 1, types.ChatRequest{
		SessionID: sessionID,
		Content:   "Hej",
	})

	// Read one chunk, then walk away mid-reply.
	<-ch
	cancel()
	for range ch {
	}
	<-errCh

	msgs := sessionMessages(t, ctrl, sessionID)
	last := msgs[len(msgs)-1]
	if last.Status != models.StatusCompleted {
		t.Errorf("abandoned stream finalized as %q", last.Status)
	}
	if last.Content != "Halvdelen af svaret." {
		t.Errorf("persisted %q, want the full reply", last.Content)
	}
}

func TestChatStreamEmptyBufferMarksError(t *testing.T) {
	client := &fakeLLM{chunks: nil} // stream closes without content
	ctrl := setupChatTest(t, client, nil)

	sessionID := "session_1746092400001"
	ch, errCh := ctrl.ChatStream(context.Background(), 1, types.ChatRequest{
		SessionID: sessionID,
		Content:   "Hej",
	})
	for range ch {
	}
	<-errCh

	msgs := sessionMessages(t, ctrl, sessionID)
	last := msgs[len(msgs)-1]
	if last.Status != models.StatusError || last.Content != assistant.ErrorReply {
		t.Errorf("empty stream should persist the error reply, got %+v", last)
	}
}

func TestChatStreamSetupFailureSendsApology(t *testing.T) {
	client := &fakeLLM{err: errors.New("connect refused")}
	ctrl := setupChatTest(t, client, nil)

	sessionID := "session_1746092400002"
	ch, _ := ctrl.ChatStream(context.Background(), 1, types.ChatRequest{
		SessionID: sessionID,
		Content:   "Hej",
	})
	var got strings.Builder
	for chunk := range ch {
		got.WriteString(chunk)
	}
	if got.String() != assistant.ErrorReply {
		t.Errorf("expected the apology chunk, got %q", got.String())
	}

	msgs := sessionMessages(t, ctrl, sessionID)
	last := msgs[len(msgs)-1]
	if last.Status != models.StatusError {
		t.Errorf("assistant row after setup failure: %+v", last)
	}
}

func TestFollowUpTaskCreated(t *testing.T) {
	client := &fakeLLM{reply: "Jeg har oprettet en opgave til opfølgning."}
	ctrl := setupChatTest(t, client, nil)

	_, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Planlæg et event for 200 gæster",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	tasks, err := ctrl.taskDAO.GetAllTasksByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("listing tasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 follow-up task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Type != "planlægning" {
		t.Errorf("task type = %q", task.Type)
	}
	if !strings.HasPrefix(task.Title, "AI: ") {
		t.Errorf("task title = %q", task.Title)
	}
	if task.Status != "pending" || task.Priority != "medium" {
		t.Errorf("task defaults: %+v", task)
	}
}

func TestNoFollowUpTaskWithoutKeyword(t *testing.T) {
	client := &fakeLLM{reply: "Her er svaret uden videre."}
	ctrl := setupChatTest(t, client, nil)

	_, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Planlæg et event for 200 gæster",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	tasks, _ := ctrl.taskDAO.GetAllTasksByUser(context.Background(), 1)
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestCalendarDataReachesPrompt(t *testing.T) {
	client := &fakeLLM{reply: "I morgen har du et bryllup."}
	provider := &fakeCalendar{events: []calendar.Event{
		{ID: "g1", Title: "Bryllup", Start: time.Now(), End: time.Now().Add(4 * time.Hour)},
	}}
	ctrl := setupChatTest(t, client, provider)

	_, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Hvilke events har vi i morgen?",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("calendar lookups = %d, want 1", provider.calls)
	}
	system := client.last.Messages[0].Content
	if !strings.Contains(system, "GOOGLE CALENDAR DATA") || !strings.Contains(system, "Bryllup") {
		t.Error("calendar data missing from the system prompt")
	}
}

func TestCalendarSkippedForNonCalendarQuery(t *testing.T) {
	client := &fakeLLM{reply: "Falafel rullen."}
	provider := &fakeCalendar{}
	ctrl := setupChatTest(t, client, provider)

	_, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Hvad er jeres billigste ret?",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("calendar lookups = %d, want 0", provider.calls)
	}
}

func TestCalendarFailureDegradesVisibly(t *testing.T) {
	client := &fakeLLM{reply: "Jeg kan ikke se kalenderen lige nu."}
	provider := &fakeCalendar{err: errors.New("Google Calendar ikke forbundet")}
	ctrl := setupChatTest(t, client, provider)

	_, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{
		Content: "Hvad står der i kalenderen?",
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	system := client.last.Messages[0].Content
	if !strings.Contains(system, "GOOGLE CALENDAR FEJL") {
		t.Error("calendar failure should be visible in the prompt")
	}
}

func TestDeleteSession(t *testing.T) {
	client := &fakeLLM{reply: "ok"}
	ctrl := setupChatTest(t, client, nil)

	resp, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{Content: "Hej"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	sessionID := resp["session_id"]

	if err := ctrl.DeleteSession(context.Background(), 1, sessionID); err != nil {
		t.Fatalf("delete session failed: %v", err)
	}
	if _, err := ctrl.GetMessagesForSession(context.Background(), 1, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	if err := ctrl.DeleteSession(context.Background(), 1, "session_999"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for unknown session, got %v", err)
	}
}

func TestListSessionsOrdering(t *testing.T) {
	client := &fakeLLM{reply: "ok"}
	ctrl := setupChatTest(t, client, nil)

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	tick := 0
	ctrl.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	if _, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{SessionID: "session_1", Content: "Første samtale"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{SessionID: "session_2", Content: "Anden samtale"}); err != nil {
		t.Fatal(err)
	}

	sessions, err := ctrl.ListSessions(context.Background(), 1)
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "session_2" {
		t.Errorf("most recent session first, got %s", sessions[0].ID)
	}
	if sessions[0].Title != "Anden samtale" {
		t.Errorf("session title = %q", sessions[0].Title)
	}
}

func TestSummarizeSessionCaches(t *testing.T) {
	client := &fakeLLM{reply: "Jonas spurgte om priser."}
	ctrl := setupChatTest(t, client, nil)

	resp, err := ctrl.Chat(context.Background(), 1, types.ChatRequest{Content: "Hvad koster 100 kuverter?"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	sessionID := resp["session_id"]

	summary, err := ctrl.SummarizeSession(context.Background(), 1, sessionID)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary != client.reply {
		t.Errorf("summary = %q", summary)
	}

	cached, err := ctrl.summaryDAO.GetBySessionID(context.Background(), sessionID, 1)
	if err != nil {
		t.Fatalf("loading cached summary failed: %v", err)
	}
	if cached == nil || cached.Summary != client.reply {
		t.Errorf("summary not cached: %+v", cached)
	}

	sessions, err := ctrl.ListSessions(context.Background(), 1)
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if sessions[0].Summary != client.reply {
		t.Errorf("cached summary not attached to session view: %+v", sessions[0])
	}
}
