package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MemDbg/TaskManagerCLI/internal/models"
)

// TaskUpdateInput carries a partial update. Nil fields are left unchanged.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Status      *models.Status
}

// updateBuilder accumulates column assignments for a single-row UPDATE.
type updateBuilder struct {
	stmt   sq.UpdateBuilder
	fields int
}

func newUpdateBuilder(in *TaskUpdateInput) *updateBuilder {
	b := &updateBuilder{stmt: sq.Update("tasks")}
	if in == nil {
		return b
	}
	if in.Title != nil {
		b.set("title", *in.Title)
	}
	if in.Description != nil {
		b.set("description", *in.Description)
	}
	if in.DueDate != nil {
		b.set("due_date", *in.DueDate)
	}
	if in.Priority != nil {
		b.set("priority_level", *in.Priority)
	}
	if in.Status != nil {
		b.set("status", *in.Status)
	}
	return b
}

func (b *updateBuilder) set(column string, value any) {
	b.stmt = b.stmt.Set(column, value)
	b.fields++
}

// build renders the statement with ? placeholders; the id is the last argument.
func (b *updateBuilder) build(id uint64) (string, []any, error) {
	if b.fields == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}
	return b.stmt.Where(sq.Eq{"task_id": id}).ToSql()
}
