package repository

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks requests rejected before any statement runs.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidSortField = fmt.Errorf("%w: invalid sort field", ErrInvalidArgument)
	ErrNoFieldsToUpdate = fmt.Errorf("%w: no fields provided for update", ErrInvalidArgument)
)

// ErrTaskNotFound is returned by GetByID only. Writes against a missing id
// affect zero rows and succeed.
var ErrTaskNotFound = errors.New("task not found")
