// Package view owns the in-memory task collection of one UI session: the
// active filter, loading state, the derived display list and counts, and the
// optimistic merge of each confirmed server response.
package view

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow/internal/client"
	"github.com/TWRT/taskflow/internal/models"
)

type Phase int

const (
	PhaseInitialLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "initial-loading"
}

const (
	MsgLoadFailed       = "Failed to load tasks"
	MsgCreated          = "Task created successfully!"
	MsgCreateFailed     = "Failed to create task"
	MsgCompleted        = "Task completed!"
	MsgMarkedIncomplete = "Task marked as incomplete"
	MsgUpdated          = "Task updated successfully!"
	MsgUpdateFailed     = "Failed to update task"
	MsgDeleted          = "Task deleted successfully!"
	MsgDeleteFailed     = "Failed to delete task"
)

type Controller struct {
	api      client.TaskAPI
	notifier Notifier
	logger   *logrus.Logger

	// mu guards the fields below. It is never held across a call to api or
	// notifier.
	mu       sync.Mutex
	phase    Phase
	creating bool
	filter   models.Filter
	tasks    []models.Task
	visible  []models.Task
}

func NewController(api client.TaskAPI, notifier Notifier, logger *logrus.Logger) *Controller {
	return &Controller{
		api:      api,
		notifier: notifier,
		logger:   logger,
		phase:    PhaseInitialLoading,
		filter:   models.FilterAll,
		tasks:    []models.Task{},
		visible:  []models.Task{},
	}
}

// Load fetches the collection. The controller is ready afterwards whether or
// not the fetch succeeded; on failure the previous collection is kept.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx)

	c.mu.Lock()
	c.phase = PhaseReady
	if err == nil {
		c.tasks = append([]models.Task(nil), tasks...)
		c.refresh()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).Error("error loading tasks")
		c.notifier.Error(MsgLoadFailed)
		return err
	}
	return nil
}

// Create inserts the confirmed row at the front of the collection without
// re-fetching.
func (c *Controller) Create(ctx context.Context, in models.CreateTaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.DueDate = strings.TrimSpace(in.DueDate)

	c.mu.Lock()
	c.creating = true
	c.mu.Unlock()

	task, err := c.api.CreateTask(ctx, in)

	c.mu.Lock()
	c.creating = false
	if err == nil {
		c.tasks = append([]models.Task{task}, c.tasks...)
		c.refresh()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).Error("error creating task")
		c.notifier.Error(MsgCreateFailed)
		return err
	}
	c.notifier.Success(MsgCreated)
	return nil
}

// Update replaces the matching item in place. The notification depends on
// whether the patch carried completed.
func (c *Controller) Update(ctx context.Context, id int64, patch models.TaskPatch) error {
	task, err := c.api.UpdateTask(ctx, id, patch)
	if err != nil {
		c.logger.WithError(err).WithField("task_id", id).Error("error updating task")
		c.notifier.Error(MsgUpdateFailed)
		return err
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i] = task
		}
	}
	c.refresh()
	c.mu.Unlock()

	switch {
	case patch.Completed == nil:
		c.notifier.Success(MsgUpdated)
	case *patch.Completed:
		c.notifier.Success(MsgCompleted)
	default:
		c.notifier.Success(MsgMarkedIncomplete)
	}
	return nil
}

// Delete drops the matching item once the server confirms. On failure the
// item stays.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if _, err := c.api.DeleteTask(ctx, id); err != nil {
		c.logger.WithError(err).WithField("task_id", id).Error("error deleting task")
		c.notifier.Error(MsgDeleteFailed)
		return err
	}

	c.mu.Lock()
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.refresh()
	c.mu.Unlock()

	c.notifier.Success(MsgDeleted)
	return nil
}

func (c *Controller) SetFilter(f models.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.refresh()
}

func (c *Controller) Filter() models.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Creating reports whether a create call is in flight.
func (c *Controller) Creating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creating
}

// Tasks returns the full collection in stored order.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.tasks...)
}

// Visible returns the filtered list, newest first.
func (c *Controller) Visible() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.visible...)
}

// Counts is computed over the full collection, independent of the filter.
func (c *Controller) Counts() models.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CountTasks(c.tasks)
}

// refresh recomputes the display list. Callers hold mu.
func (c *Controller) refresh() {
	visible := make([]models.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if c.filter.Match(t) {
			visible = append(visible, t)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	c.visible = visible
}
