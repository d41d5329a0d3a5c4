package dao

import (
	"context"
	"time"

	"fiesta/fiesta/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarEventDAO struct {
	DB *gorm.DB
}

func NewCalendarEventDAO(db *gorm.DB) *CalendarEventDAO {
	return &CalendarEventDAO{DB: db}
}

func (dao *CalendarEventDAO) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	return dao.DB.WithContext(ctx).Create(event).Error
}

// ListUpcoming returns the user's events starting within the horizon,
// earliest first.
func (dao *CalendarEventDAO) ListUpcoming(ctx context.Context, userID int, now time.Time, horizonDays int) ([]models.CalendarEvent, error) {
	until := now.AddDate(0, 0, horizonDays)
	var events []models.CalendarEvent
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND start_at >= ? AND start_at <= ?", userID, now, until).
		Order("start_at asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (dao *CalendarEventDAO) GetAllEventsByUser(ctx context.Context, userID int) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_at asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// UpsertByGoogleID keeps a synced Google event in the local table.
func (dao *CalendarEventDAO) UpsertByGoogleID(ctx context.Context, event *models.CalendarEvent) error {
	var existing models.CalendarEvent
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND google_event_id = ?", event.UserID, event.GoogleEventID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return dao.DB.WithContext(ctx).Create(event).Error
	}
	if err != nil {
		return err
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	return dao.DB.WithContext(ctx).Save(event).Error
}

func (dao *CalendarEventDAO) UpdateEvent(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return dao.DB.WithContext(ctx).Model(&models.CalendarEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (dao *CalendarEventDAO) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.CalendarEvent{}).Error
}

type CalendarIntegrationDAO struct {
	DB *gorm.DB
}

func NewCalendarIntegrationDAO(db *gorm.DB) *CalendarIntegrationDAO {
	return &CalendarIntegrationDAO{DB: db}
}

func (dao *CalendarIntegrationDAO) GetByUser(ctx context.Context, userID int) (*models.CalendarIntegration, error) {
	var integration models.CalendarIntegration
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).First(&integration).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

func (dao *CalendarIntegrationDAO) Upsert(ctx context.Context, integration *models.CalendarIntegration) error {
	existing, err := dao.GetByUser(ctx, integration.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return dao.DB.WithContext(ctx).Create(integration).Error
	}
	integration.ID = existing.ID
	integration.CreatedAt = existing.CreatedAt
	return dao.DB.WithContext(ctx).Save(integration).Error
}
