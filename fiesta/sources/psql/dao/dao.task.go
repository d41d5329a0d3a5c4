package dao

import (
	"context"

	"fiesta/fiesta/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskDAO struct {
	DB *gorm.DB
}

func NewTaskDAO(db *gorm.DB) *TaskDAO {
	return &TaskDAO{DB: db}
}

func (dao *TaskDAO) CreateTask(ctx context.Context, task *models.Task) error {
	return dao.DB.WithContext(ctx).Create(task).Error
}

func (dao *TaskDAO) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := dao.DB.WithContext(ctx).First(&task, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (dao *TaskDAO) GetAllTasksByUser(ctx context.Context, userID int) ([]models.Task, error) {
	var tasks []models.Task
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (dao *TaskDAO) UpdateTask(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return dao.DB.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
}

func (dao *TaskDAO) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}
