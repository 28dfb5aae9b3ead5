package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MemDbg/TaskManagerCLI/internal/database"
	"github.com/MemDbg/TaskManagerCLI/internal/models"
)

// Test helpers
func setupTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	m := database.NewManager(database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "tasks.db"),
	})
	require.NoError(t, m.Bootstrap(context.Background()))
	return NewTaskRepository(m)
}

func createTestTask(t *testing.T, repo *TaskRepository, in TaskInput) uint64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &in)
	require.NoError(t, err)
	return id
}

func allTasks(t *testing.T, repo *TaskRepository, sortBy SortField) []models.Task {
	t.Helper()
	tasks, _, err := repo.List(context.Background(), ListFilter{Page: 1, SortBy: sortBy, ItemsPerPage: 1000})
	require.NoError(t, err)
	return tasks
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTaskRepository_CreateThenExists(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id := createTestTask(t, repo, TaskInput{Title: "Write report", Priority: models.PriorityHigh, Status: models.TaskStatusPending})

	ok, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, id+100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := setupTestRepo(t)

	first := createTestTask(t, repo, TaskInput{Title: "a"})
	second := createTestTask(t, repo, TaskInput{Title: "b"})
	require.NoError(t, repo.Delete(context.Background(), second))
	third := createTestTask(t, repo, TaskInput{Title: "c"})

	assert.Greater(t, second, first)
	assert.Greater(t, third, second, "ids must never be reused")
}

func TestTaskRepository_CreateDefaultsAndTimestamp(t *testing.T) {
	repo := setupTestRepo(t)
	before := time.Now().UTC().Add(-time.Minute)

	id := createTestTask(t, repo, TaskInput{Title: "defaults"})

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Equal(t, models.TaskStatusPending, got.Status)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.CreatedAt.After(before), "creation timestamp %v", got.CreatedAt)
}

func TestTaskRepository_CreateRejectsEmptyTitle(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(context.Background(), &TaskInput{Title: ""})
	require.Error(t, err)
	assert.Empty(t, allTasks(t, repo, ""))
}

func TestTaskRepository_GetByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepository_ListEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	tasks, totalPages, err := repo.List(context.Background(), ListFilter{Page: 1, ItemsPerPage: 5})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 0, totalPages)
}

func TestTaskRepository_ListPageCount(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createTestTask(t, repo, TaskInput{Title: fmt.Sprintf("task %d", i)})
	}

	_, totalPages, err := repo.List(ctx, ListFilter{Page: 1, ItemsPerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, totalPages)

	createTestTask(t, repo, TaskInput{Title: "task 5"})
	_, totalPages, err = repo.List(ctx, ListFilter{Page: 1, ItemsPerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, totalPages)
}

func TestTaskRepository_ListPagesAreDisjoint(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	priorities := []models.Priority{models.PriorityHigh, models.PriorityLow, models.PriorityMedium}
	statuses := []models.Status{models.TaskStatusInProgress, models.TaskStatusPending, models.TaskStatusCompleted}
	for i := 0; i < 7; i++ {
		in := TaskInput{
			Title:    fmt.Sprintf("task %d", i),
			Priority: priorities[i%3],
			Status:   statuses[i%3],
		}
		if i%2 == 0 {
			in.DueDate = date(2026, 12, 10-i)
		}
		createTestTask(t, repo, in)
	}

	for _, sortBy := range []SortField{"", SortByDueDate, SortByPriority, SortByStatus} {
		t.Run(string(sortBy), func(t *testing.T) {
			full := allTasks(t, repo, sortBy)
			require.Len(t, full, 7)

			var union []models.Task
			seen := map[uint64]bool{}
			for page := 1; page <= 3; page++ {
				tasks, totalPages, err := repo.List(ctx, ListFilter{Page: page, SortBy: sortBy, ItemsPerPage: 3})
				require.NoError(t, err)
				assert.Equal(t, 3, totalPages)
				for _, task := range tasks {
					assert.False(t, seen[task.ID], "task %d returned on two pages", task.ID)
					seen[task.ID] = true
				}
				union = append(union, tasks...)
			}
			assert.Equal(t, full, union)
		})
	}
}

func TestTaskRepository_ListSortOrder(t *testing.T) {
	repo := setupTestRepo(t)

	createTestTask(t, repo, TaskInput{Title: "high", Priority: models.PriorityHigh, Status: models.TaskStatusPending, DueDate: date(2026, 3, 1)})
	createTestTask(t, repo, TaskInput{Title: "low", Priority: models.PriorityLow, Status: models.TaskStatusCompleted, DueDate: date(2026, 1, 1)})
	createTestTask(t, repo, TaskInput{Title: "medium", Priority: models.PriorityMedium, Status: models.TaskStatusInProgress, DueDate: date(2026, 2, 1)})

	titles := func(tasks []models.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Title
		}
		return out
	}

	assert.Equal(t, []string{"high", "low", "medium"}, titles(allTasks(t, repo, "")))
	assert.Equal(t, []string{"low", "medium", "high"}, titles(allTasks(t, repo, SortByDueDate)))
	assert.Equal(t, []string{"low", "medium", "high"}, titles(allTasks(t, repo, SortByPriority)))
	assert.Equal(t, []string{"high", "medium", "low"}, titles(allTasks(t, repo, SortByStatus)))
}

func TestTaskRepository_ListDueDateNullsFirst(t *testing.T) {
	repo := setupTestRepo(t)

	createTestTask(t, repo, TaskInput{Title: "later", DueDate: date(2026, 5, 1)})
	undated := createTestTask(t, repo, TaskInput{Title: "someday"})
	createTestTask(t, repo, TaskInput{Title: "sooner", DueDate: date(2026, 4, 1)})

	tasks := allTasks(t, repo, SortByDueDate)
	require.Len(t, tasks, 3)
	assert.Equal(t, undated, tasks[0].ID)
	assert.Nil(t, tasks[0].DueDate)
	assert.Equal(t, "sooner", tasks[1].Title)
	assert.Equal(t, "later", tasks[2].Title)

	page, totalPages, err := repo.List(context.Background(), ListFilter{Page: 1, SortBy: SortByDueDate, ItemsPerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, totalPages)
	require.Len(t, page, 1)
	assert.Equal(t, "someday", page[0].Title)
}

func TestTaskRepository_ListPageBeyondLast(t *testing.T) {
	repo := setupTestRepo(t)
	createTestTask(t, repo, TaskInput{Title: "only"})

	tasks, totalPages, err := repo.List(context.Background(), ListFilter{Page: 5, ItemsPerPage: 5})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 1, totalPages)
}

func TestTaskRepository_ListNonPositivePageClamps(t *testing.T) {
	repo := setupTestRepo(t)
	createTestTask(t, repo, TaskInput{Title: "only"})

	for _, page := range []int{0, -3} {
		tasks, _, err := repo.List(context.Background(), ListFilter{Page: page, ItemsPerPage: 5})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "only", tasks[0].Title)
	}
}

func TestTaskRepository_ListRejectsBogusSortBeforeStore(t *testing.T) {
	// Any connection attempt against this manager fails, so an invalid
	// argument error proves no statement was attempted.
	repo := NewTaskRepository(database.NewManager(database.Config{Driver: "nosuchdriver"}))

	_, _, err := repo.List(context.Background(), ListFilter{Page: 1, SortBy: "bogus", ItemsPerPage: 5})
	assert.ErrorIs(t, err, ErrInvalidSortField)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotContains(t, err.Error(), "connect database")
}

func TestTaskRepository_UpdateNoFields(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	id := createTestTask(t, repo, TaskInput{Title: "unchanged", Description: ptr("keep")})
	before, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	err = repo.Update(ctx, id, &TaskUpdateInput{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	after, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTaskRepository_UpdatePartial(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	id := createTestTask(t, repo, TaskInput{
		Title:       "Buy milk",
		Description: ptr("2 litres"),
		DueDate:     date(2026, 10, 20),
		Priority:    models.PriorityLow,
		Status:      models.TaskStatusPending,
	})
	before, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, id, &TaskUpdateInput{Title: ptr("Buy oat milk")}))

	after, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", after.Title)
	require.NotNil(t, after.Description)
	assert.Equal(t, "2 litres", *after.Description)
	assert.Equal(t, before.DueDateString(), after.DueDateString())
	assert.Equal(t, before.Priority, after.Priority)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestTaskRepository_UpdateSeveralFields(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	id := createTestTask(t, repo, TaskInput{Title: "plan trip"})

	err := repo.Update(ctx, id, &TaskUpdateInput{
		DueDate:  date(2027, 1, 15),
		Priority: ptr(models.PriorityHigh),
		Status:   ptr(models.TaskStatusInProgress),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "plan trip", got.Title)
	assert.Equal(t, "2027-01-15", got.DueDateString())
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
}

func TestTaskRepository_UpdateUnknownIDIsSilent(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Update(context.Background(), 999, &TaskUpdateInput{Title: ptr("ghost")})
	require.NoError(t, err)
	assert.Empty(t, allTasks(t, repo, ""))
}

func TestTaskRepository_MarkCompleted(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	id := createTestTask(t, repo, TaskInput{Title: "finish", Status: models.TaskStatusPending})

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.MarkCompleted(ctx, id))
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusCompleted, got.Status)
		assert.Equal(t, "finish", got.Title)
	}

	assert.NoError(t, repo.MarkCompleted(ctx, id+1))
}

func TestTaskRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	id := createTestTask(t, repo, TaskInput{Title: "remove me"})
	keep := createTestTask(t, repo, TaskInput{Title: "keep me"})

	require.NoError(t, repo.Delete(ctx, id))

	ok, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists(ctx, keep)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, repo.Delete(ctx, 12345))
}

func TestTaskRepository_BuyMilkScenario(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &TaskInput{Title: "Buy milk", Priority: models.PriorityLow, Status: models.TaskStatusPending})
	require.NoError(t, err)

	tasks, totalPages, err := repo.List(ctx, ListFilter{Page: 1, ItemsPerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, totalPages)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, models.TaskStatusPending, tasks[0].Status)
	assert.Equal(t, models.PriorityLow, tasks[0].Priority)
	assert.Nil(t, tasks[0].DueDate)
}
