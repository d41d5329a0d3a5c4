package calendar

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/utils/httputils"
)

// GoogleClient reads upcoming events from the Google Calendar REST API using
// the per-user integration stored in Postgres.
type GoogleClient struct {
	baseURL        string
	integrationDAO *dao.CalendarIntegrationDAO
	now            func() time.Time
}

func NewGoogleClient(baseURL string, integrationDAO *dao.CalendarIntegrationDAO) *GoogleClient {
	return &GoogleClient{
		baseURL:        baseURL,
		integrationDAO: integrationDAO,
		now:            time.Now,
	}
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type googleEvent struct {
	ID          string          `json:"id"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Start       googleEventTime `json:"start"`
	End         googleEventTime `json:"end"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees"`
}

type googleEventsResponse struct {
	Items []googleEvent `json:"items"`
}

func (c *GoogleClient) UpcomingEvents(ctx context.Context, userID int, horizonDays int) ([]Event, error) {
	integration, err := c.integrationDAO.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if integration == nil || integration.AccessToken == "" {
		return nil, fmt.Errorf("Google Calendar ikke forbundet. Kontakt support for at få hjælp til opsætning.")
	}

	now := c.now()
	until := now.AddDate(0, 0, horizonDays)

	query := url.Values{}
	query.Set("timeMin", now.Format(time.RFC3339))
	query.Set("timeMax", until.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	query.Set("maxResults", "50")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s",
		c.baseURL, url.PathEscape(integration.CalendarID), query.Encode())

	var parsed googleEventsResponse
	if err := httputils.GetJSON(ctx, endpoint, integration.AccessToken, &parsed); err != nil {
		return nil, fmt.Errorf("Google Calendar API fejl: %w", err)
	}

	events := make([]Event, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		start, ok := parseEventTime(item.Start, now)
		if !ok {
			continue
		}
		end, _ := parseEventTime(item.End, start)
		events = append(events, Event{
			ID:          item.ID,
			Title:       eventTitle(item.Summary),
			Description: item.Description,
			Location:    item.Location,
			Start:       start,
			End:         end,
			Attendees:   len(item.Attendees),
		})
	}
	return events, nil
}

func eventTitle(summary string) string {
	if summary == "" {
		return "Untitled Event"
	}
	return summary
}

func parseEventTime(t googleEventTime, fallback time.Time) (time.Time, bool) {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed, true
		}
	}
	if t.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			return parsed, true
		}
	}
	return fallback, false
}
