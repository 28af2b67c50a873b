package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow/internal/models"
)

const (
	msgInvalidID   = "Invalid or missing task ID"
	msgInvalidBody = "Invalid JSON body"
)

type TaskService interface {
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) (models.Task, error)
	Ping(ctx context.Context) error
}

type TaskHandler struct {
	taskService TaskService
	logger      *logrus.Logger
}

func NewTaskHandler(taskService TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body models.CreateTaskInput
	if err := decodeJSON(w, r, &body, false); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Debug("create: bad body")
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ListTasks answers 404 with a message when the table is empty; callers
// treat that the same as an empty list.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Message: "Server error",
			Error:   "Internal Server Error",
		})
		return
	}

	if len(tasks) == 0 {
		writeJSON(w, http.StatusNotFound, errorEnvelope{Message: "No records found."})
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, Data: tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, Data: task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch, true); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Debug("update: bad body")
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, Data: task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	task, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, Message: "Task deleted", Data: task})
}

func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Ping(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Warn("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
