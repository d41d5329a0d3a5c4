package dao

import (
	"context"

	"fiesta/fiesta/sources/psql/models"

	"gorm.io/gorm"
)

type SessionSummaryDAO struct {
	DB *gorm.DB
}

func NewSessionSummaryDAO(db *gorm.DB) *SessionSummaryDAO {
	return &SessionSummaryDAO{DB: db}
}

// Upsert creates or replaces the cached summary for a session.
func (dao *SessionSummaryDAO) Upsert(ctx context.Context, sessionID string, userID int, summary string) (*models.SessionSummary, error) {
	var ss models.SessionSummary
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&ss).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			newSS := models.SessionSummary{
				SessionID: sessionID,
				UserID:    userID,
				Summary:   summary,
			}
			if err := dao.DB.WithContext(ctx).Create(&newSS).Error; err != nil {
				return nil, err
			}
			return &newSS, nil
		}
		return nil, err
	}
	ss.Summary = summary
	if err := dao.DB.WithContext(ctx).Save(&ss).Error; err != nil {
		return nil, err
	}
	return &ss, nil
}

// GetBySessionID returns nil when no summary has been cached yet.
func (dao *SessionSummaryDAO) GetBySessionID(ctx context.Context, sessionID string, userID int) (*models.SessionSummary, error) {
	var ss models.SessionSummary
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&ss).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

// MapByUser returns all cached summaries keyed by session id, for attaching
// to the history listing in one query.
func (dao *SessionSummaryDAO) MapByUser(ctx context.Context, userID int) (map[string]string, error) {
	var summaries []models.SessionSummary
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(summaries))
	for _, s := range summaries {
		out[s.SessionID] = s.Summary
	}
	return out, nil
}

func (dao *SessionSummaryDAO) DeleteBySessionID(ctx context.Context, sessionID string, userID int) error {
	return dao.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionSummary{}).Error
}
