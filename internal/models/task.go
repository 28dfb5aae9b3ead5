package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Priority is the importance of a task.
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Status is the progress state of a task.
type Status string

// Task status constants
const (
	TaskStatusPending    Status = "Pending"
	TaskStatusInProgress Status = "In Progress"
	TaskStatusCompleted  Status = "Completed"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string { return string(p) }

// Value implements driver.Valuer.
func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %q", string(p))
	}
	return string(p), nil
}

// Scan implements sql.Scanner.
func (p *Priority) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan priority: %w", err)
	}
	*p = Priority(s)
	return nil
}

func (s Status) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %q", string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	v, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan status: %w", err)
	}
	*s = Status(v)
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}

// Task is one row of the tasks table.
type Task struct {
	ID          uint64     `db:"task_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	Priority    Priority   `db:"priority_level"`
	Status      Status     `db:"status"`
	CreatedAt   time.Time  `db:"creation_timestamp"`
}

// DueDateString renders the due date as YYYY-MM-DD, or "None" when unset.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return "None"
	}
	return t.DueDate.Format("2006-01-02")
}

// DescriptionString returns the description, or "" when unset.
func (t Task) DescriptionString() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
