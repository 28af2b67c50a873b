package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TWRT/taskflow/internal/logging"
	"github.com/TWRT/taskflow/internal/models"
)

type fakeAPI struct {
	tasks   []models.Task
	nextID  int64
	listErr error
	err     error

	lastCreate models.CreateTaskInput
	onCreate   func()
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	f.lastCreate = in
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.err != nil {
		return models.Task{}, f.err
	}
	f.nextID++
	task := models.Task{
		ID:          f.nextID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	return task, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if f.err != nil {
		return models.Task{}, f.err
	}
	for _, t := range f.tasks {
		if t.ID == id {
			if patch.Completed != nil {
				t.Completed = *patch.Completed
			}
			if patch.Title != nil {
				t.Title = *patch.Title
			}
			return t, nil
		}
	}
	return models.Task{}, errors.New("Task not found")
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) (models.Task, error) {
	if f.err != nil {
		return models.Task{}, f.err
	}
	return models.Task{ID: id}, nil
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func (n *recordingNotifier) lastSuccess() string {
	if len(n.successes) == 0 {
		return ""
	}
	return n.successes[len(n.successes)-1]
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func newTestController(api *fakeAPI) (*Controller, *recordingNotifier) {
	n := &recordingNotifier{}
	return NewController(api, n, logging.Discard()), n
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestController_FilterAndCounts(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{
		{ID: 1, Title: "A", Completed: false, CreatedAt: day(1)},
		{ID: 2, Title: "B", Completed: true, CreatedAt: day(2)},
	}}
	c, _ := newTestController(api)

	if c.Phase() != PhaseInitialLoading {
		t.Fatalf("phase=%s", c.Phase())
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("phase=%s", c.Phase())
	}

	if got := ids(c.Visible()); !equalIDs(got, []int64{2, 1}) {
		t.Fatalf("all, newest first: %v", got)
	}

	c.SetFilter(models.FilterIncomplete)
	if got := c.Visible(); len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("incomplete=%+v", got)
	}
	if c.Counts() != (models.Counts{All: 2, Completed: 1, Incomplete: 1}) {
		t.Fatalf("counts=%+v", c.Counts())
	}

	c.SetFilter(models.FilterCompleted)
	if got := ids(c.Visible()); !equalIDs(got, []int64{2}) {
		t.Fatalf("completed=%v", got)
	}
	if c.Filter() != models.FilterCompleted {
		t.Fatalf("filter=%s", c.Filter())
	}
}

func TestController_LoadFailureStillReady(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	c, n := newTestController(api)

	if err := c.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("phase=%s", c.Phase())
	}
	if len(n.errors) != 1 || n.errors[0] != MsgLoadFailed {
		t.Fatalf("errors=%v", n.errors)
	}
	if len(c.Tasks()) != 0 {
		t.Fatalf("tasks=%+v", c.Tasks())
	}
}

func TestController_CreatePrependsAndTrims(t *testing.T) {
	api := &fakeAPI{nextID: 10, tasks: []models.Task{{ID: 1, CreatedAt: day(1)}}}
	c, n := newTestController(api)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var creatingDuringCall bool
	api.onCreate = func() { creatingDuringCall = c.Creating() }

	err := c.Create(context.Background(), models.CreateTaskInput{Title: "  New ", Description: " d "})
	if err != nil {
		t.Fatal(err)
	}
	if !creatingDuringCall || c.Creating() {
		t.Fatalf("creating during=%v after=%v", creatingDuringCall, c.Creating())
	}
	if api.lastCreate.Title != "New" || api.lastCreate.Description != "d" {
		t.Fatalf("sent=%+v", api.lastCreate)
	}
	if got := ids(c.Tasks()); !equalIDs(got, []int64{11, 1}) {
		t.Fatalf("tasks=%v", got)
	}
	if n.lastSuccess() != MsgCreated {
		t.Fatalf("successes=%v", n.successes)
	}
}

func TestController_CreateFailure(t *testing.T) {
	api := &fakeAPI{}
	c, n := newTestController(api)
	_ = c.Load(context.Background())

	api.err = errors.New("Missing title or description")
	if err := c.Create(context.Background(), models.CreateTaskInput{Title: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if c.Creating() || len(c.Tasks()) != 0 {
		t.Fatalf("creating=%v tasks=%v", c.Creating(), c.Tasks())
	}
	if len(n.errors) != 1 || n.errors[0] != MsgCreateFailed {
		t.Fatalf("errors=%v", n.errors)
	}
}

func TestController_UpdateMessages(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: 1, Title: "A", CreatedAt: day(1)}}}
	c, n := newTestController(api)
	_ = c.Load(context.Background())
	ctx := context.Background()

	if err := c.Update(ctx, 1, models.TaskPatch{Completed: models.Bool(true)}); err != nil {
		t.Fatal(err)
	}
	if n.lastSuccess() != MsgCompleted || !c.Tasks()[0].Completed {
		t.Fatalf("successes=%v tasks=%+v", n.successes, c.Tasks())
	}

	if err := c.Update(ctx, 1, models.TaskPatch{Completed: models.Bool(false)}); err != nil {
		t.Fatal(err)
	}
	if n.lastSuccess() != MsgMarkedIncomplete {
		t.Fatalf("successes=%v", n.successes)
	}

	if err := c.Update(ctx, 1, models.TaskPatch{Title: models.String("A2")}); err != nil {
		t.Fatal(err)
	}
	if n.lastSuccess() != MsgUpdated || c.Tasks()[0].Title != "A2" {
		t.Fatalf("successes=%v tasks=%+v", n.successes, c.Tasks())
	}

	api.err = errors.New("boom")
	if err := c.Update(ctx, 1, models.TaskPatch{Title: models.String("A3")}); err == nil {
		t.Fatalf("expected error")
	}
	if c.Tasks()[0].Title != "A2" || len(n.errors) != 1 || n.errors[0] != MsgUpdateFailed {
		t.Fatalf("tasks=%+v errors=%v", c.Tasks(), n.errors)
	}
}

func TestController_DeleteKeepsItemOnFailure(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{
		{ID: 1, CreatedAt: day(1)},
		{ID: 2, CreatedAt: day(2)},
	}}
	c, n := newTestController(api)
	_ = c.Load(context.Background())
	ctx := context.Background()

	api.err = errors.New("Task not found")
	if err := c.Delete(ctx, 1); err == nil {
		t.Fatalf("expected error")
	}
	if len(c.Tasks()) != 2 || n.errors[0] != MsgDeleteFailed {
		t.Fatalf("tasks=%v errors=%v", c.Tasks(), n.errors)
	}

	api.err = nil
	if err := c.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if got := ids(c.Visible()); !equalIDs(got, []int64{2}) {
		t.Fatalf("visible=%v", got)
	}
	if n.lastSuccess() != MsgDeleted {
		t.Fatalf("successes=%v", n.successes)
	}
}

func TestController_StableSortOnEqualCreatedAt(t *testing.T) {
	same := day(5)
	api := &fakeAPI{tasks: []models.Task{
		{ID: 3, CreatedAt: same},
		{ID: 1, CreatedAt: same},
		{ID: 2, CreatedAt: day(6)},
	}}
	c, _ := newTestController(api)
	_ = c.Load(context.Background())

	if got := ids(c.Visible()); !equalIDs(got, []int64{2, 3, 1}) {
		t.Fatalf("visible=%v", got)
	}
}

func TestController_VisibleIsACopy(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: 1, Title: "A", CreatedAt: day(1)}}}
	c, _ := newTestController(api)
	_ = c.Load(context.Background())

	v := c.Visible()
	v[0].Title = "changed"
	if c.Visible()[0].Title != "A" {
		t.Fatalf("internal state was mutated")
	}
}

// countingNotifier reads controller state from inside the callback, the way a
// UI re-renders when a toast appears.
type countingNotifier struct {
	ctrl *Controller
	seen []models.Counts
}

func (n *countingNotifier) Success(msg string) { n.seen = append(n.seen, n.ctrl.Counts()) }
func (n *countingNotifier) Error(msg string)   { n.seen = append(n.seen, n.ctrl.Counts()) }

func TestController_NotifierCanReadState(t *testing.T) {
	api := &fakeAPI{tasks: []models.Task{{ID: 1, Title: "A", CreatedAt: day(1)}}}
	n := &countingNotifier{}
	c := NewController(api, n, logging.Discard())
	n.ctrl = c

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx := context.Background()
		_ = c.Load(ctx)
		_ = c.Create(ctx, models.CreateTaskInput{Title: "B", Description: "b"})
		_ = c.Update(ctx, 1, models.TaskPatch{Completed: models.Bool(true)})
		_ = c.Delete(ctx, 1)

		api.err = errors.New("boom")
		_ = c.Create(ctx, models.CreateTaskInput{Title: "C", Description: "c"})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("controller blocked while notifying")
	}

	if len(n.seen) != 4 {
		t.Fatalf("notifications=%d", len(n.seen))
	}
	if n.seen[0] != (models.Counts{All: 2, Completed: 0, Incomplete: 2}) {
		t.Fatalf("after create=%+v", n.seen[0])
	}
	if n.seen[2] != (models.Counts{All: 1, Completed: 0, Incomplete: 1}) {
		t.Fatalf("after delete=%+v", n.seen[2])
	}
}
