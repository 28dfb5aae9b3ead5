package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MemDbg/TaskManagerCLI/internal/models"
	"github.com/MemDbg/TaskManagerCLI/internal/repository"
)

// CreateTaskRequest describes a new task.
type CreateTaskRequest struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    models.Priority
	Status      models.Status
}

// UpdateTaskRequest describes a partial update; nil fields are kept.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Status      *models.Status
}

// ListTasksRequest selects one page of tasks.
type ListTasksRequest struct {
	Page     int
	SortBy   string
	PageSize int
}

// ListTasksResponse is one page of tasks.
type ListTasksResponse struct {
	Tasks      []models.Task
	Page       int
	TotalPages int
}

type TaskService struct {
	repo       *repository.TaskRepository
	validation *ValidationConfig
	pageSize   int
}

func NewTaskService(repo *repository.TaskRepository, validation *ValidationConfig, pageSize int) *TaskService {
	if validation == nil {
		validation = DefaultValidationConfig()
	}
	if pageSize <= 0 {
		pageSize = repository.DefaultItemsPerPage
	}
	return &TaskService{
		repo:       repo,
		validation: validation,
		pageSize:   pageSize,
	}
}

// CreateTask validates and stores a new task, returning its id.
func (s *TaskService) CreateTask(ctx context.Context, req CreateTaskRequest) (uint64, error) {
	if err := s.validation.validateCreate(&req); err != nil {
		return 0, err
	}
	sanitizeCreate(&req)

	id, err := s.repo.Create(ctx, &repository.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create task")
		return 0, err
	}

	log.Info().Uint64("task_id", id).Str("priority", req.Priority.String()).Msg("Task created")
	return id, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id uint64) (*models.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// TaskExists reports whether id names a stored task.
func (s *TaskService) TaskExists(ctx context.Context, id uint64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ListTasks retrieves a page of tasks
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	sortBy, err := repository.ParseSortField(req.SortBy)
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	tasks, totalPages, err := s.repo.List(ctx, repository.ListFilter{
		Page:         page,
		SortBy:       sortBy,
		ItemsPerPage: pageSize,
	})
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("Failed to list tasks")
		return nil, err
	}

	return &ListTasksResponse{
		Tasks:      tasks,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// UpdateTask applies the supplied fields to a task.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, req UpdateTaskRequest) error {
	if err := s.validation.validateUpdate(&req); err != nil {
		return err
	}

	input := &repository.TaskUpdateInput{
		Description: req.Description,
		DueDate:     dateOnly(req.DueDate),
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		input.Title = &title
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		if !IsInvalidArgument(err) {
			log.Error().Err(err).Uint64("task_id", id).Msg("Failed to update task")
		}
		return err
	}

	log.Info().Uint64("task_id", id).Msg("Task updated")
	return nil
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id uint64) error {
	if err := s.repo.MarkCompleted(ctx, id); err != nil {
		log.Error().Err(err).Uint64("task_id", id).Msg("Failed to complete task")
		return err
	}
	log.Info().Uint64("task_id", id).Msg("Task completed")
	return nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint64("task_id", id).Msg("Failed to delete task")
		return err
	}
	log.Info().Uint64("task_id", id).Msg("Task deleted")
	return nil
}
