package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// DefaultItemsPerPage is used when a list request has no positive page size.
const DefaultItemsPerPage = 5

// SortField is a logical sort key accepted by List.
type SortField string

const (
	SortByDueDate  SortField = "due_date"
	SortByPriority SortField = "priority"
	SortByStatus   SortField = "status"
)

// sortExpressions maps each allowed key to the ORDER BY terms it renders.
// Priority and status order by rank rather than by their text. Tasks without
// a due date come first on every driver.
var sortExpressions = map[SortField][]string{
	SortByDueDate:  {"due_date IS NOT NULL", "due_date"},
	SortByPriority: {"CASE priority_level WHEN 'Low' THEN 1 WHEN 'Medium' THEN 2 WHEN 'High' THEN 3 END"},
	SortByStatus:   {"CASE status WHEN 'Pending' THEN 1 WHEN 'In Progress' THEN 2 WHEN 'Completed' THEN 3 END"},
}

// ParseSortField resolves a user-supplied key. The empty string means no sort.
func ParseSortField(s string) (SortField, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	f := SortField(s)
	if _, ok := sortExpressions[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
	return f, nil
}

// orderBy returns the ORDER BY terms for f. task_id breaks ties so pages are
// stable for a fixed sort key.
func orderBy(f SortField) ([]string, error) {
	if f == "" {
		return []string{"task_id"}, nil
	}
	terms, ok := sortExpressions[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, string(f))
	}
	return append(append([]string{}, terms...), "task_id"), nil
}

// pageQuery renders the SELECT for one page of f with ? placeholders.
// LIMIT and OFFSET come from the normalized page and page size.
func pageQuery(f ListFilter) (string, []any, error) {
	f = f.normalize()
	order, err := orderBy(f.SortBy)
	if err != nil {
		return "", nil, err
	}
	return sq.Select(taskColumns).
		From("tasks").
		OrderBy(order...).
		Limit(uint64(f.ItemsPerPage)).
		Offset(uint64(f.Offset())).
		ToSql()
}

// ListFilter selects one page of tasks.
type ListFilter struct {
	Page         int
	SortBy       SortField
	ItemsPerPage int
}

// normalize clamps the page to 1 and fills in the default page size.
func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = DefaultItemsPerPage
	}
	return f
}

// Offset is the number of rows skipped before the filter's page.
func (f ListFilter) Offset() int {
	f = f.normalize()
	return (f.Page - 1) * f.ItemsPerPage
}

// TotalPages returns ceil(totalItems / itemsPerPage). An empty table has 0 pages.
func TotalPages(totalItems, itemsPerPage int) int {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}
