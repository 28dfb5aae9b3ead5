package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/MemDbg/TaskManagerCLI/internal/database"
	"github.com/MemDbg/TaskManagerCLI/internal/models"
)

const taskColumns = "task_id, title, description, due_date, priority_level, status, creation_timestamp"

// TaskInput holds the values of a new task.
type TaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    models.Priority
	Status      models.Status
}

// TaskRepository translates task operations into SQL. Each method runs in
// its own scoped connection.
type TaskRepository struct {
	db *database.Manager
}

func NewTaskRepository(db *database.Manager) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Exists reports whether a task with id is stored.
func (r *TaskRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var found bool
	err := r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var one int
		err := tx.GetContext(ctx, &one, tx.Rebind("SELECT 1 FROM tasks WHERE task_id = ? LIMIT 1"), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return found, nil
}

// Create inserts a task and returns its assigned id.
func (r *TaskRepository) Create(ctx context.Context, t *TaskInput) (uint64, error) {
	priority, status := t.Priority, t.Status
	if priority == "" {
		priority = models.PriorityMedium
	}
	if status == "" {
		status = models.TaskStatusPending
	}

	var id uint64
	err := r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO tasks (title, description, due_date, priority_level, status)
			VALUES (?, ?, ?, ?, ?)
			RETURNING task_id`)
		return tx.GetContext(ctx, &id, query, t.Title, t.Description, t.DueDate, priority, status)
	})
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	log.Debug().Uint64("task_id", id).Str("op", "create").Msg("Task stored")
	return id, nil
}

// GetByID loads one task.
func (r *TaskRepository) GetByID(ctx context.Context, id uint64) (*models.Task, error) {
	var t models.Task
	err := r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &t, tx.Rebind("SELECT "+taskColumns+" FROM tasks WHERE task_id = ?"), id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// List returns one page of tasks and the total number of pages.
func (r *TaskRepository) List(ctx context.Context, filter ListFilter) ([]models.Task, int, error) {
	filter = filter.normalize()

	// Reject the sort key before touching the store.
	query, args, err := pageQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	var (
		tasks      []models.Task
		totalPages int
	)
	err = r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var totalItems int
		if err := tx.GetContext(ctx, &totalItems, "SELECT COUNT(*) AS total FROM tasks"); err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		totalPages = TotalPages(totalItems, filter.ItemsPerPage)

		if err := tx.SelectContext(ctx, &tasks, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("query tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	log.Debug().
		Int("page", filter.Page).
		Str("sort_by", string(filter.SortBy)).
		Int("rows", len(tasks)).
		Int("total_pages", totalPages).
		Msg("Tasks listed")
	return tasks, totalPages, nil
}

// Update sets the supplied fields of a task. An unknown id updates nothing
// and is not an error.
func (r *TaskRepository) Update(ctx context.Context, id uint64, input *TaskUpdateInput) error {
	query, args, err := newUpdateBuilder(input).build(id)
	if err != nil {
		return err
	}

	var affected int64
	err = r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}

	log.Debug().Uint64("task_id", id).Str("op", "update").Int64("rows", affected).Msg("Task updated")
	return nil
}

// MarkCompleted sets the task status to Completed whatever it was before.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id uint64) error {
	err := r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tasks SET status = 'Completed' WHERE task_id = ?"), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}

	log.Debug().Uint64("task_id", id).Str("op", "complete").Msg("Task marked completed")
	return nil
}

// Delete removes a task. Deleting an unknown id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithConnection(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tasks WHERE task_id = ?"), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	log.Debug().Uint64("task_id", id).Str("op", "delete").Msg("Task deleted")
	return nil
}
