package dao

import (
	"context"
	"fmt"
	"time"

	"fiesta/fiesta/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

// NewSessionID mirrors the ids the web client generates: session_<unixmilli>.
func (dao *ChatMessageDAO) NewSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d", now.UnixMilli())
}

func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return dao.DB.WithContext(ctx).Create(msg).Error
}

// UpdateMessage finalizes an assistant message created as pending. Only
// content, status and task_type are ever updated.
func (dao *ChatMessageDAO) UpdateMessage(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return dao.DB.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListBySession returns a session's messages in ascending creation order.
func (dao *ChatMessageDAO) ListBySession(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListBetween returns a user's messages inside [from, to] ascending. Used by
// the legacy date-bucket session resolution.
func (dao *ChatMessageDAO) ListBetween(ctx context.Context, userID int, from, to time.Time) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListRecent returns a user's newest messages, newest first, capped by limit.
func (dao *ChatMessageDAO) ListRecent(ctx context.Context, userID int, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListSince returns a user's messages created on or after since, newest
// first, capped by limit. Used by cross-session recall.
func (dao *ChatMessageDAO) ListSince(ctx context.Context, userID int, since time.Time, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at desc").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (dao *ChatMessageDAO) DeleteMessage(ctx context.Context, userID int, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.ChatMessage{}).Error
}

// DeleteBetween removes a user's messages inside [from, to]. Used when
// deleting a legacy date-bucket session.
func (dao *ChatMessageDAO) DeleteBetween(ctx context.Context, userID int, from, to time.Time) (int64, error) {
	res := dao.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}

// DeleteSession removes every message in a session owned by the user.
func (dao *ChatMessageDAO) DeleteSession(ctx context.Context, userID int, sessionID string) (int64, error) {
	res := dao.DB.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}
