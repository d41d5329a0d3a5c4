package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarEvent struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        int       `json:"user_id" gorm:"not null;index"`
	User          User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	GoogleEventID string    `json:"google_event_id,omitempty" gorm:"type:varchar(255);index"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location" gorm:"type:varchar(255)"`
	StartAt       time.Time `json:"start_at" gorm:"not null;index"`
	EndAt         time.Time `json:"end_at" gorm:"not null"`
	Status        string    `json:"status" gorm:"type:varchar(50);not null;default:'confirmed'"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}

func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CalendarIntegration holds the per-user Google Calendar credentials.
type CalendarIntegration struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      int       `json:"user_id" gorm:"not null;unique"`
	User        User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	CalendarID  string    `json:"calendar_id" gorm:"type:varchar(255);not null;default:'primary'"`
	AccessToken string    `json:"-" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CalendarIntegration) TableName() string {
	return "calendar_integrations"
}

func (c *CalendarIntegration) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
