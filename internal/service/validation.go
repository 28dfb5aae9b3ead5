package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MemDbg/TaskManagerCLI/internal/models"
	"github.com/MemDbg/TaskManagerCLI/internal/repository"
)

// ErrValidation is returned for requests that fail field validation.
var ErrValidation = fmt.Errorf("%w: validation failed", repository.ErrInvalidArgument)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:       255,
		MaxDescriptionLength: 5000,
	}
}

func (v *ValidationConfig) validateCreate(req *CreateTaskRequest) error {
	var errs []string

	// Title validation
	if title := strings.TrimSpace(req.Title); title == "" {
		errs = append(errs, "title is required")
	} else if utf8.RuneCountInString(title) > v.MaxTitleLength {
		errs = append(errs, fmt.Sprintf("title too long (max %d characters)", v.MaxTitleLength))
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > v.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.MaxDescriptionLength))
	}

	if req.Priority != "" && !req.Priority.Valid() {
		errs = append(errs, fmt.Sprintf("unknown priority %q", req.Priority))
	}
	if req.Status != "" && !req.Status.Valid() {
		errs = append(errs, fmt.Sprintf("unknown status %q", req.Status))
	}

	return joinValidation(errs)
}

func (v *ValidationConfig) validateUpdate(req *UpdateTaskRequest) error {
	var errs []string

	// Title validation (if provided)
	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title == "" {
			errs = append(errs, "title cannot be empty")
		} else if utf8.RuneCountInString(title) > v.MaxTitleLength {
			errs = append(errs, fmt.Sprintf("title too long (max %d characters)", v.MaxTitleLength))
		}
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > v.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.MaxDescriptionLength))
	}

	if req.Priority != nil && !req.Priority.Valid() {
		errs = append(errs, fmt.Sprintf("unknown priority %q", *req.Priority))
	}
	if req.Status != nil && !req.Status.Valid() {
		errs = append(errs, fmt.Sprintf("unknown status %q", *req.Status))
	}

	return joinValidation(errs)
}

func joinValidation(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, "; "))
}

// IsInvalidArgument reports whether err was raised before reaching the store.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, repository.ErrInvalidArgument)
}

// dateOnly drops the clock part so the value maps onto a DATE column.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// sanitizeCreate fills in defaults the schema would apply.
func sanitizeCreate(req *CreateTaskRequest) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if req.Status == "" {
		req.Status = models.TaskStatusPending
	}
	req.DueDate = dateOnly(req.DueDate)
}
