package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"fiesta/fiesta/assistant"
	"fiesta/fiesta/services/calendar"
	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/psql/models"
	"fiesta/fiesta/types"
	"fiesta/fiesta/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	historyFetchLimit   = 1000
	recallWindowDays    = 7
	recallFetchLimit    = 20
	calendarHorizonDays = 30
)

var ErrSessionNotFound = errors.New("session not found")

type ChatController struct {
	chatDAO    *dao.ChatMessageDAO
	summaryDAO *dao.SessionSummaryDAO
	taskDAO    *dao.TaskDAO
	llm        llm.Client
	calendar   calendar.Provider
	strategy   assistant.GroupingStrategy
	now        func() time.Time
}

func NewChatController(
	chatDAO *dao.ChatMessageDAO,
	summaryDAO *dao.SessionSummaryDAO,
	taskDAO *dao.TaskDAO,
	llmClient llm.Client,
	calendarProvider calendar.Provider,
	strategy assistant.GroupingStrategy,
) *ChatController {
	return &ChatController{
		chatDAO:    chatDAO,
		summaryDAO: summaryDAO,
		taskDAO:    taskDAO,
		llm:        llmClient,
		calendar:   calendarProvider,
		strategy:   strategy,
		now:        time.Now,
	}
}

// StartSession creates a session id and persists its welcome message, so
// every session has at least one message and a non-empty title fallback.
// Two tabs racing on "new session" simply produce two sessions; ids are
// time-based and collisions are treated as negligible.
func (c *ChatController) StartSession(ctx context.Context, userID int, explicit bool) (*types.StartSessionResponse, error) {
	now := c.now()
	sessionID := c.strategy.SessionID(now, explicit)

	content := assistant.WelcomeMessage
	if explicit {
		content = assistant.NewSessionMessage
	}

	welcome := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      models.RoleAssistant,
		Content:   content,
		Mode:      assistant.ModeAuto,
		Status:    models.StatusCompleted,
		CreatedAt: now,
	}
	if err := c.chatDAO.SaveMessage(ctx, welcome); err != nil {
		return nil, err
	}

	return &types.StartSessionResponse{SessionID: sessionID, Welcome: content}, nil
}

// ListSessions builds the history view: the newest messages grouped into
// sessions, most recent activity first. Cached summaries are attached
// best-effort.
func (c *ChatController) ListSessions(ctx context.Context, userID int) ([]assistant.Session, error) {
	msgs, err := c.chatDAO.ListRecent(ctx, userID, historyFetchLimit)
	if err != nil {
		return nil, err
	}

	summaries, err := c.summaryDAO.MapByUser(ctx, userID)
	if err != nil {
		logging.ErrorLogger.Error("loading cached summaries failed", zap.Error(err))
		summaries = nil
	}

	return assistant.BuildSessions(msgs, c.strategy, summaries), nil
}

// GetMessagesForSession returns a session's messages ascending by creation
// time. Legacy date-bucket ids resolve to a day range.
func (c *ChatController) GetMessagesForSession(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	query, err := c.strategy.Resolve(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var msgs []models.ChatMessage
	if query.ByRange {
		msgs, err = c.chatDAO.ListBetween(ctx, userID, query.From, query.To)
	} else {
		msgs, err = c.chatDAO.ListBySession(ctx, userID, query.SessionID)
	}
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrSessionNotFound
	}
	return msgs, nil
}

func (c *ChatController) DeleteSession(ctx context.Context, userID int, sessionID string) error {
	query, err := c.strategy.Resolve(sessionID)
	if err != nil {
		return ErrSessionNotFound
	}

	var rows int64
	if query.ByRange {
		rows, err = c.chatDAO.DeleteBetween(ctx, userID, query.From, query.To)
	} else {
		rows, err = c.chatDAO.DeleteSession(ctx, userID, query.SessionID)
	}
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	if err := c.summaryDAO.DeleteBySessionID(ctx, sessionID, userID); err != nil {
		logging.ErrorLogger.Error("deleting cached summary failed", zap.Error(err))
	}
	return nil
}

func (c *ChatController) DeleteMessage(ctx context.Context, userID int, id uuid.UUID) error {
	return c.chatDAO.DeleteMessage(ctx, userID, id)
}

// SummarizeSession generates and caches the Danish session summary. An
// empty result means "not yet summarized"; it is lazy and retryable.
func (c *ChatController) SummarizeSession(ctx context.Context, userID int, sessionID string) (string, error) {
	msgs, err := c.GetMessagesForSession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}

	summary := assistant.SummarizeSession(ctx, c.llm, msgs)
	if summary != "" {
		if _, err := c.summaryDAO.Upsert(ctx, sessionID, userID, summary); err != nil {
			logging.ErrorLogger.Error("caching session summary failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Chat runs one non-streaming assistant turn.
func (c *ChatController) Chat(ctx context.Context, userID int, req types.ChatRequest) (map[string]string, error) {
	turn, err := c.beginTurn(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	content, err := c.llm.Run(ctx, turn.request)
	if err != nil {
		logging.ErrorLogger.Error("chat generation failed", zap.Error(err))
		c.finalizeTurn(ctx, turn, assistant.ErrorReply, models.StatusError)
		return map[string]string{
			"response":   assistant.ErrorReply,
			"session_id": turn.sessionID,
			"status":     models.StatusError,
		}, nil
	}

	c.finalizeTurn(ctx, turn, content, models.StatusCompleted)
	c.maybeCreateFollowUpTask(ctx, userID, turn.taskType, req.Content, content)

	return map[string]string{
		"response":   content,
		"session_id": turn.sessionID,
		"status":     models.StatusCompleted,
	}, nil
}

// ChatStream runs one streaming assistant turn. Chunks are forwarded in
// receipt order; the accumulated buffer is persisted when the stream ends.
// Once started, the turn runs to completion and persists even if the caller
// stops reading.
func (c *ChatController) ChatStream(ctx context.Context, userID int, req types.ChatRequest) (chan string, chan error) {
	ch := make(chan string)
	errCh := make(chan error, 1)

	turn, err := c.beginTurn(ctx, userID, req)
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}

	// Generation is detached from the caller's context: an abandoned
	// consumer must not cut the reply short before it is persisted.
	stream, err := c.llm.RunStream(context.WithoutCancel(ctx), turn.request)
	if err != nil {
		logging.ErrorLogger.Error("chat stream setup failed", zap.Error(err))
		c.finalizeTurn(ctx, turn, assistant.ErrorReply, models.StatusError)
		go func() {
			ch <- assistant.ErrorReply
			close(ch)
			close(errCh)
		}()
		return ch, errCh
	}

	go func() {
		defer close(ch)
		defer close(errCh)

		var buf strings.Builder
		for chunk := range stream {
			buf.WriteString(chunk)
			select {
			case ch <- chunk:
			case <-ctx.Done():
				// Caller went away; keep draining so the full reply is
				// persisted anyway.
			}
		}

		finalContent := buf.String()
		if finalContent == "" {
			// The stream ended without producing anything; treat it as a
			// failed generation.
			c.finalizeTurn(context.WithoutCancel(ctx), turn, assistant.ErrorReply, models.StatusError)
			return
		}

		c.finalizeTurn(context.WithoutCancel(ctx), turn, finalContent, models.StatusCompleted)
		c.maybeCreateFollowUpTask(context.WithoutCancel(ctx), userID, turn.taskType, req.Content, finalContent)
	}()

	return ch, errCh
}

// chatTurn tracks one in-flight assistant turn: the pending assistant row
// plus the assembled prompt bundle.
type chatTurn struct {
	sessionID string
	taskType  string
	pending   *models.ChatMessage
	request   llm.ChatRequest
}

func (c *ChatController) beginTurn(ctx context.Context, userID int, req types.ChatRequest) (*chatTurn, error) {
	mode := req.Mode
	if mode == "" {
		mode = assistant.ModeAuto
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.strategy.SessionID(c.now(), true)
	}

	// Load the recency window before appending the new turn so the user
	// message only appears once, as the final turn of the prompt.
	recent, err := c.chatDAO.ListBySession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      models.RoleUser,
		Content:   req.Content,
		Mode:      mode,
		Status:    models.StatusCompleted,
		CreatedAt: c.now(),
	}
	if err := c.chatDAO.SaveMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	taskType := assistant.DetectTaskType(req.Content)

	pending := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      models.RoleAssistant,
		Content:   "",
		Mode:      mode,
		Status:    models.StatusPending,
		CreatedAt: c.now(),
	}
	if err := c.chatDAO.SaveMessage(ctx, pending); err != nil {
		return nil, err
	}

	return &chatTurn{
		sessionID: sessionID,
		taskType:  taskType,
		pending:   pending,
		request: assistant.BuildContext(assistant.ContextInput{
			Mode:          mode,
			Advanced:      req.Advanced,
			UserInput:     req.Content,
			TaskType:      taskType,
			Recent:        recent,
			RecallBlock:   c.recallBlock(ctx, userID),
			CalendarBlock: c.calendarBlock(ctx, userID, req.Content),
		}),
	}, nil
}

func (c *ChatController) finalizeTurn(ctx context.Context, turn *chatTurn, content, status string) {
	updates := map[string]interface{}{
		"content": content,
		"status":  status,
	}
	if status == models.StatusCompleted && turn.taskType != "" {
		updates["task_type"] = turn.taskType
	}
	if err := c.chatDAO.UpdateMessage(ctx, turn.pending.ID, updates); err != nil {
		logging.ErrorLogger.Error("finalizing assistant message failed",
			zap.String("message_id", turn.pending.ID.String()), zap.Error(err))
	}
}

// recallBlock loads cross-session context from the trailing week. Failures
// and empty results both yield an omitted block, never an error placeholder.
func (c *ChatController) recallBlock(ctx context.Context, userID int) string {
	since := c.now().AddDate(0, 0, -recallWindowDays)
	msgs, err := c.chatDAO.ListSince(ctx, userID, since, recallFetchLimit)
	if err != nil {
		logging.ErrorLogger.Error("loading conversation context failed", zap.Error(err))
		return ""
	}
	return assistant.RecallBlock(msgs)
}

// calendarBlock fetches upcoming events when the message asks about the
// calendar. A failed lookup degrades to a visible "unavailable" block so the
// assistant can point the user at support.
func (c *ChatController) calendarBlock(ctx context.Context, userID int, userInput string) string {
	if !assistant.IsCalendarQuery(userInput) {
		return ""
	}
	if c.calendar == nil {
		return assistant.CalendarErrorBlock("Google Calendar ikke forbundet. Kontakt support for at få hjælp til opsætning.")
	}
	events, err := c.calendar.UpcomingEvents(ctx, userID, calendarHorizonDays)
	if err != nil {
		logging.ErrorLogger.Error("fetching calendar data failed", zap.Error(err))
		return assistant.CalendarErrorBlock(err.Error())
	}
	if len(events) == 0 {
		return assistant.CalendarEmptyBlock()
	}
	return assistant.CalendarDataBlock(calendar.FormatEventsForAI(events))
}

func (c *ChatController) maybeCreateFollowUpTask(ctx context.Context, userID int, taskType, userInput, reply string) {
	if c.taskDAO == nil || taskType == "" {
		return
	}
	if !strings.Contains(strings.ToLower(reply), "opgave") {
		return
	}

	description := reply
	if len([]rune(description)) > 200 {
		description = string([]rune(description)[:200]) + "..."
	}
	task := &models.Task{
		UserID:      userID,
		Type:        taskType,
		Title:       "AI: " + assistant.TruncateTitle(userInput),
		Description: description,
		Status:      "pending",
		Priority:    "medium",
	}
	if err := c.taskDAO.CreateTask(ctx, task); err != nil {
		logging.ErrorLogger.Error("creating follow-up task failed", zap.Error(err))
	}
}
