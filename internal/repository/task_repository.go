package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/taskflow/internal/exception"
	"github.com/TWRT/taskflow/internal/models"
)

const taskColumns = `id, title, description, completed, due_date, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type TaskRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewTaskRepository(db *sql.DB, dialect Dialect) *TaskRepository {
	return &TaskRepository{
		db:      db,
		dialect: dialect,
		now:     time.Now,
	}
}

// clock returns the current time at the precision every supported backend
// can store, so values read back compare equal to values written.
func (r *TaskRepository) clock() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *TaskRepository) Create(ctx context.Context, task models.NewTask) (models.Task, error) {
	now := r.clock()
	query := `
	INSERT INTO tasks (title, description, completed, due_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	args := []any{task.Title, task.Description, false, nullableTime(task.DueDate), now, now}

	var id int64
	if r.dialect.returningID {
		err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return models.Task{}, fmt.Errorf("insert task: %w", err)
		}
	} else {
		result, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
		if err != nil {
			return models.Task{}, fmt.Errorf("insert task: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return models.Task{}, fmt.Errorf("read inserted task id: %w", err)
		}
	}

	return r.get(ctx, r.db, id)
}

func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (models.Task, error) {
	return r.get(ctx, r.db, id)
}

// Update applies the non-nil changes and always refreshes updated_at.
func (r *TaskRepository) Update(ctx context.Context, id int64, changes models.TaskChanges) (models.Task, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if changes.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *changes.Title)
	}
	if changes.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *changes.Description)
	}
	if changes.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *changes.Completed)
	}
	if changes.ClearDueDate {
		sets = append(sets, "due_date = ?")
		args = append(args, nil)
	} else if changes.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, changes.DueDate.UTC())
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.clock(), id)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	var updated models.Task
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(query), args...); err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		// MySQL reports changed rather than matched rows, so existence is
		// decided by reading the row back instead of RowsAffected.
		var err error
		updated, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes the row and returns its prior contents.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (models.Task, error) {
	var deleted models.Task
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if deleted, err = r.get(ctx, tx, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return exception.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return deleted, nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *TaskRepository) get(ctx context.Context, q queryer, id int64) (models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(q.QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, exception.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *TaskRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                    models.Task
		completed            dbBool
		due, created, update dbTime
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &completed, &due, &created, &update); err != nil {
		return models.Task{}, err
	}
	t.Completed = bool(completed)
	t.DueDate = due.Ptr()
	t.CreatedAt = created.Time
	t.UpdatedAt = update.Time
	return t, nil
}
