package controllers

import (
	"context"

	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/psql/models"

	"github.com/google/uuid"
)

type TasksController struct {
	dao *dao.TaskDAO
}

func NewTasksController(dao *dao.TaskDAO) *TasksController {
	return &TasksController{dao: dao}
}

func (c *TasksController) CreateTask(ctx context.Context, userID int, taskType, title, description, priority string) (*models.Task, error) {
	if priority == "" {
		priority = "medium"
	}
	task := &models.Task{
		UserID:      userID,
		Type:        taskType,
		Title:       title,
		Description: description,
		Status:      "pending",
		Priority:    priority,
	}
	err := c.dao.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (c *TasksController) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return c.dao.GetTaskByID(ctx, id)
}

func (c *TasksController) GetAllTasksByUser(ctx context.Context, userID int) ([]models.Task, error) {
	return c.dao.GetAllTasksByUser(ctx, userID)
}

func (c *TasksController) UpdateTask(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return c.dao.UpdateTask(ctx, id, updates)
}

func (c *TasksController) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.dao.DeleteTask(ctx, id)
}
