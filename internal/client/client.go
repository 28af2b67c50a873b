package client

import (
	"context"

	"github.com/TWRT/taskflow/internal/models"
)

// TaskAPI is the remote task store as seen from a UI session.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) (models.Task, error)
}
