package controllers

import (
	"context"
	"time"

	"fiesta/fiesta/services/calendar"
	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/psql/models"

	"github.com/google/uuid"
)

const syncHorizonDays = 30

type EventsController struct {
	eventDAO       *dao.CalendarEventDAO
	integrationDAO *dao.CalendarIntegrationDAO
	calendar       calendar.Provider
	now            func() time.Time
}

func NewEventsController(eventDAO *dao.CalendarEventDAO, integrationDAO *dao.CalendarIntegrationDAO, provider calendar.Provider) *EventsController {
	return &EventsController{
		eventDAO:       eventDAO,
		integrationDAO: integrationDAO,
		calendar:       provider,
		now:            time.Now,
	}
}

// ConnectCalendar stores or replaces the user's Google Calendar credentials.
func (c *EventsController) ConnectCalendar(ctx context.Context, userID int, calendarID, accessToken string) error {
	if calendarID == "" {
		calendarID = "primary"
	}
	return c.integrationDAO.Upsert(ctx, &models.CalendarIntegration{
		UserID:      userID,
		CalendarID:  calendarID,
		AccessToken: accessToken,
	})
}

func (c *EventsController) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	return c.eventDAO.CreateEvent(ctx, event)
}

func (c *EventsController) GetAllEventsByUser(ctx context.Context, userID int) ([]models.CalendarEvent, error) {
	return c.eventDAO.GetAllEventsByUser(ctx, userID)
}

func (c *EventsController) ListUpcoming(ctx context.Context, userID, horizonDays int) ([]models.CalendarEvent, error) {
	if horizonDays <= 0 {
		horizonDays = syncHorizonDays
	}
	return c.eventDAO.ListUpcoming(ctx, userID, c.now(), horizonDays)
}

func (c *EventsController) UpdateEvent(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return c.eventDAO.UpdateEvent(ctx, id, updates)
}

func (c *EventsController) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return c.eventDAO.DeleteEvent(ctx, id)
}

// SyncFromGoogle pulls upcoming events from the calendar provider and mirrors
// them into the local table, keyed by google_event_id. Returns how many events
// were synced.
func (c *EventsController) SyncFromGoogle(ctx context.Context, userID int) (int, error) {
	events, err := c.calendar.UpcomingEvents(ctx, userID, syncHorizonDays)
	if err != nil {
		return 0, err
	}
	synced := 0
	for _, ev := range events {
		row := &models.CalendarEvent{
			UserID:        userID,
			GoogleEventID: ev.ID,
			Title:         ev.Title,
			Description:   ev.Description,
			Location:      ev.Location,
			StartAt:       ev.Start,
			EndAt:         ev.End,
			Status:        "confirmed",
		}
		if err := c.eventDAO.UpsertByGoogleID(ctx, row); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}
