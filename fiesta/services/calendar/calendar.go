package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   int       `json:"attendees,omitempty"`
}

// Provider is the external calendar collaborator. Independently
// authenticated per user and not required for core chat.
type Provider interface {
	UpcomingEvents(ctx context.Context, userID int, horizonDays int) ([]Event, error)
}

// FormatEventsForAI renders events as the Danish block the assistant prompt
// embeds when the user asks about the calendar.
func FormatEventsForAI(events []Event) string {
	if len(events) == 0 {
		return "Ingen events fundet i den angivne periode."
	}

	parts := make([]string, 0, len(events))
	for _, event := range events {
		location := event.Location
		if location == "" {
			location = "Ingen lokation angivet"
		}
		lines := []string{
			fmt.Sprintf("📅 **%s**", event.Title),
			fmt.Sprintf("📍 %s", location),
			fmt.Sprintf("🕐 %s %s - %s",
				event.Start.Format("2.1.2006"),
				event.Start.Format("15.04"),
				event.End.Format("15.04")),
		}
		if event.Description != "" {
			lines = append(lines, fmt.Sprintf("📝 %s", event.Description))
		}
		if event.Attendees > 0 {
			lines = append(lines, fmt.Sprintf("👥 %d deltagere", event.Attendees))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
