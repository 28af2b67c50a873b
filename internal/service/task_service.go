package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow/internal/exception"
	"github.com/TWRT/taskflow/internal/models"
)

const (
	msgMissingFields = "Missing title or description"
	msgTaskNotFound  = "Task not found"
)

type TaskStore interface {
	Create(ctx context.Context, task models.NewTask) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, changes models.TaskChanges) (models.Task, error)
	Delete(ctx context.Context, id int64) (models.Task, error)
	Ping(ctx context.Context) error
}

type TaskService struct {
	store    TaskStore
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewTaskService(store TaskStore, validate *validator.Validate, logger *logrus.Logger) *TaskService {
	return &TaskService{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" || in.Description == "" {
		return models.Task{}, exception.Validation(msgMissingFields)
	}
	if err := s.validateStruct(in); err != nil {
		return models.Task{}, exception.Validation(err.Error())
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	task, err := s.store.Create(ctx, models.NewTask{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     due,
	})
	if err != nil {
		return models.Task{}, s.storeError(ctx, "create task", err)
	}

	s.logger.WithContext(ctx).WithField("task_id", task.ID).Info("task created")
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, s.storeError(ctx, "get task", err)
	}
	return task, nil
}

// UpdateTask applies only the fields present in patch. An empty patch still
// refreshes updatedAt.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil {
		patch.Title = models.String(strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		patch.Description = models.String(strings.TrimSpace(*patch.Description))
	}
	if err := s.validateStruct(patch); err != nil {
		return models.Task{}, exception.Validation(err.Error())
	}

	changes := models.TaskChanges{
		Title:       patch.Title,
		Description: patch.Description,
		Completed:   patch.Completed,
	}
	if patch.DueDateSet {
		due, err := parseDueDate(patch.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		changes.DueDate = due
		changes.ClearDueDate = due == nil
	}

	task, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return models.Task{}, s.storeError(ctx, "update task", err)
	}

	s.logger.WithContext(ctx).WithField("task_id", id).Info("task updated")
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.Task{}, s.storeError(ctx, "delete task", err)
	}

	s.logger.WithContext(ctx).WithField("task_id", id).Info("task deleted")
	return task, nil
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// storeError maps a repository failure onto the caller-facing taxonomy and
// logs anything that is not a plain miss.
func (s *TaskService) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, exception.ErrNotFound) {
		return exception.NotFound(msgTaskNotFound)
	}
	s.logger.WithContext(ctx).WithError(err).Errorf("%s failed", op)
	return exception.Internal(err)
}

// parseDueDate accepts YYYY-MM-DD or RFC 3339. Empty means no due date.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	due, err := models.ParseTime(raw)
	if err != nil {
		return nil, exception.Validation("Invalid due date")
	}
	return &due, nil
}
