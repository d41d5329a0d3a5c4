package assistant

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fiesta/fiesta/sources/psql/models"
)

// Session is the history view's unit: a derived grouping of messages. All
// fields except the cached summary are recomputable from the message set.
type Session struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	Tags          []string  `json:"tags"`
	MessageCount  int       `json:"message_count"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// SessionQuery is the resolved lookup for one session id: either an exact
// session-id match or a creation-time window (legacy date buckets).
type SessionQuery struct {
	SessionID string
	From, To  time.Time
	ByRange   bool
}

// GroupingStrategy abstracts how the history view groups messages into
// sessions, so the legacy date-bucket path can be dropped later without
// touching call sites.
type GroupingStrategy interface {
	// Key returns the history-view session key a message belongs to.
	Key(msg models.ChatMessage) string
	// Resolve turns a session id back into a message lookup.
	Resolve(sessionID string) (SessionQuery, error)
	// SessionID returns the id for a session starting at now.
	SessionID(now time.Time, explicit bool) string
}

func NewStrategy(name string) GroupingStrategy {
	if name == "explicit" {
		return ExplicitSessions{}
	}
	return DateSessions{}
}

// DateSessions groups by local calendar date. It allows retroactive grouping
// of messages created before explicit session support existed, and gives a
// human-meaningful unit ("today's conversation") for summarization.
type DateSessions struct{}

func (DateSessions) Key(msg models.ChatMessage) string {
	return fmt.Sprintf("session_%d", startOfDay(msg.CreatedAt).UnixMilli())
}

func (DateSessions) Resolve(sessionID string) (SessionQuery, error) {
	ms, err := parseSessionMillis(sessionID)
	if err != nil {
		return SessionQuery{}, err
	}
	day := startOfDay(time.UnixMilli(ms))
	return SessionQuery{
		From:    day,
		To:      day.AddDate(0, 0, 1).Add(-time.Millisecond),
		ByRange: true,
	}, nil
}

func (DateSessions) SessionID(now time.Time, explicit bool) string {
	if explicit {
		return fmt.Sprintf("session_%d", now.UnixMilli())
	}
	return fmt.Sprintf("session_%d", startOfDay(now).UnixMilli())
}

// ExplicitSessions groups by the client-assigned session id.
type ExplicitSessions struct{}

func (ExplicitSessions) Key(msg models.ChatMessage) string {
	return msg.SessionID
}

func (ExplicitSessions) Resolve(sessionID string) (SessionQuery, error) {
	if sessionID == "" {
		return SessionQuery{}, fmt.Errorf("empty session id")
	}
	return SessionQuery{SessionID: sessionID}, nil
}

func (ExplicitSessions) SessionID(now time.Time, explicit bool) string {
	return fmt.Sprintf("session_%d", now.UnixMilli())
}

func parseSessionMillis(sessionID string) (int64, error) {
	raw, ok := strings.CutPrefix(sessionID, "session_")
	if !ok {
		return 0, fmt.Errorf("malformed session id: %s", sessionID)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed session id: %s", sessionID)
	}
	return ms, nil
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// BuildSessions partitions messages into sessions and derives the display
// fields. Cached summaries are attached by session id; sessions are returned
// most recent activity first.
func BuildSessions(messages []models.ChatMessage, strategy GroupingStrategy, summaries map[string]string) []Session {
	groups := make(map[string][]models.ChatMessage)
	var order []string
	for _, msg := range messages {
		key := strategy.Key(msg)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], msg)
	}

	sessions := make([]Session, 0, len(order))
	for _, key := range order {
		msgs := groups[key]
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		})

		session := Session{
			ID:            key,
			Title:         SessionTitle(msgs),
			Tags:          ExtractTags(msgs),
			MessageCount:  len(msgs),
			CreatedAt:     msgs[0].CreatedAt,
			LastMessageAt: msgs[len(msgs)-1].CreatedAt,
		}
		if summaries != nil {
			session.Summary = summaries[key]
		}
		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastMessageAt.After(sessions[j].LastMessageAt)
	})
	return sessions
}

// SessionTitle derives the display title: the first user message truncated
// to 50 characters, or a date label when the user hasn't written yet.
func SessionTitle(msgs []models.ChatMessage) string {
	for _, msg := range msgs {
		if msg.Role == models.RoleUser {
			return TruncateTitle(msg.Content)
		}
	}
	if len(msgs) == 0 {
		return ""
	}
	return "Chat " + msgs[0].CreatedAt.Format("2.1.2006")
}

// TruncateTitle caps a title at 50 characters, keeping 47 plus "...".
func TruncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= 50 {
		return content
	}
	return string(runes[:47]) + "..."
}
