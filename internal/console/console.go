package console

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/MemDbg/TaskManagerCLI/internal/models"
	"github.com/MemDbg/TaskManagerCLI/internal/service"
)

// Statuses offered when adding or editing. Completed is reached through
// "Mark Task Completed".
var editableStatuses = []string{string(models.TaskStatusPending), string(models.TaskStatusInProgress)}

var sortChoices = map[string]string{"1": "due_date", "2": "priority", "3": "status"}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

// Console is the interactive task menu.
type Console struct {
	svc   *service.TaskService
	p     *prompter
	items []menuItem
	quit  bool
}

func New(svc *service.TaskService, in io.Reader, out io.Writer) *Console {
	c := &Console{
		svc: svc,
		p:   newPrompter(in, out),
	}
	c.items = []menuItem{
		{"1", "Add Task", c.addTask},
		{"2", "List Tasks", c.listTasks},
		{"3", "Update Task", c.updateTask},
		{"4", "Mark Task Completed", c.markCompleted},
		{"5", "Delete Task", c.deleteTask},
		{"6", "Quit", func(context.Context) error { c.quit = true; return nil }},
	}
	return c
}

// Run shows the menu until the user quits or input ends. Failed operations
// are reported and the menu continues.
func (c *Console) Run(ctx context.Context) error {
	for !c.quit {
		c.p.println()
		c.p.println("Task Manager:")
		for _, item := range c.items {
			c.p.printf("%s. %s\n", item.key, item.label)
		}

		choice, err := c.p.line("Choose an option: ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}

		item, ok := c.lookup(choice)
		if !ok {
			c.p.println("Invalid choice. Please select a valid option.")
			continue
		}

		if err := item.action(ctx); err != nil {
			if errors.Is(err, errEndOfInput) {
				return nil
			}
			log.Warn().Err(err).Str("action", item.label).Msg("Menu action failed")
			c.p.printf("Error: %v\n", err)
		}
	}
	return nil
}

func (c *Console) lookup(key string) (menuItem, bool) {
	for _, item := range c.items {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}

func (c *Console) addTask(ctx context.Context) error {
	c.p.println("\nAdd New Task:")
	title, err := c.p.nonEmpty("Title: ")
	if err != nil {
		return err
	}
	description, err := c.p.optional("Description (optional): ")
	if err != nil {
		return err
	}
	dueDate, err := c.p.date("Due Date (MM-DD-YYYY, optional): ")
	if err != nil {
		return err
	}
	priority, err := c.p.choice("Select Priority Level:", priorityOptions())
	if err != nil {
		return err
	}
	status, err := c.p.choice("Select Status:", editableStatuses)
	if err != nil {
		return err
	}

	id, err := c.svc.CreateTask(ctx, service.CreateTaskRequest{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    models.Priority(priority),
		Status:      models.Status(status),
	})
	if err != nil {
		return err
	}
	c.p.printf("Task added successfully! (ID %d)\n", id)
	return nil
}

func (c *Console) listTasks(ctx context.Context) error {
	c.p.println("\nList Tasks:")
	answer, err := c.p.line("Sort by (1: due_date, 2: priority, 3: status, leave blank for none): ")
	if err != nil {
		return err
	}
	sortBy := sortChoices[answer]

	for page := 1; ; page++ {
		resp, err := c.svc.ListTasks(ctx, service.ListTasksRequest{Page: page, SortBy: sortBy})
		if err != nil {
			return err
		}
		if len(resp.Tasks) == 0 {
			c.p.println("No tasks found.")
			return nil
		}

		c.p.println()
		renderTasks(c.p.out, resp.Tasks)
		c.p.printf("\nPage %d/%d\n", resp.Page, resp.TotalPages)
		if resp.Page >= resp.TotalPages {
			return nil
		}

		next, err := c.p.line("Press Enter for next page or 'q' to quit: ")
		if err != nil {
			return err
		}
		if next == "q" || next == "Q" {
			return nil
		}
	}
}

func (c *Console) updateTask(ctx context.Context) error {
	c.p.println("\nUpdate Task:")
	id, err := c.taskID(ctx)
	if err != nil {
		return err
	}

	var req service.UpdateTaskRequest
	if req.Title, err = c.p.optional("New Title (leave blank to keep current): "); err != nil {
		return err
	}
	if req.Description, err = c.p.optional("New Description (leave blank to keep current): "); err != nil {
		return err
	}
	if req.DueDate, err = c.p.date("New Due Date (MM-DD-YYYY, leave blank to keep current): "); err != nil {
		return err
	}

	change, err := c.p.confirm("Change priority? (y/n): ")
	if err != nil {
		return err
	}
	if change {
		v, err := c.p.choice("New Priority:", priorityOptions())
		if err != nil {
			return err
		}
		priority := models.Priority(v)
		req.Priority = &priority
	}

	change, err = c.p.confirm("Change status? (y/n): ")
	if err != nil {
		return err
	}
	if change {
		v, err := c.p.choice("New Status:", editableStatuses)
		if err != nil {
			return err
		}
		status := models.Status(v)
		req.Status = &status
	}

	if err := c.svc.UpdateTask(ctx, id, req); err != nil {
		return err
	}
	c.p.println("Task updated successfully!")
	return nil
}

func (c *Console) markCompleted(ctx context.Context) error {
	c.p.println("\nMark Task Completed:")
	id, err := c.taskID(ctx)
	if err != nil {
		return err
	}
	if err := c.svc.CompleteTask(ctx, id); err != nil {
		return err
	}
	c.p.printf("Task %d marked as completed!\n", id)
	return nil
}

func (c *Console) deleteTask(ctx context.Context) error {
	c.p.println("\nDelete Task:")
	id, err := c.taskID(ctx)
	if err != nil {
		return err
	}
	ok, err := c.p.confirm("Are you sure you want to delete task " + strconv.FormatUint(id, 10) + "? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		c.p.println("Delete cancelled.")
		return nil
	}
	if err := c.svc.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.p.println("Task deleted.")
	return nil
}

// taskID asks until the user names an existing task.
func (c *Console) taskID(ctx context.Context) (uint64, error) {
	for {
		v, err := c.p.nonEmpty("Enter Task ID: ")
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.p.println("Invalid number.")
			continue
		}
		ok, err := c.svc.TaskExists(ctx, id)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
		c.p.printf("Task with ID %d does not exist.\n", id)
	}
}

func priorityOptions() []string {
	out := make([]string, len(models.Priorities))
	for i, p := range models.Priorities {
		out[i] = string(p)
	}
	return out
}
