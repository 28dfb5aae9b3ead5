package console

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/MemDbg/TaskManagerCLI/internal/models"
)

var tableHeaders = []string{"ID", "Title", "Description", "Status", "Priority", "Due Date"}

const (
	maxTitleWidth       = 19
	maxDescriptionWidth = 49
)

func renderTasks(w io.Writer, tasks []models.Task) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeaders)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, t := range tasks {
		desc := strings.ReplaceAll(t.DescriptionString(), "\n", " ")
		table.Append([]string{
			strconv.FormatUint(t.ID, 10),
			truncate(t.Title, maxTitleWidth),
			truncate(desc, maxDescriptionWidth),
			t.Status.String(),
			t.Priority.String(),
			t.DueDateString(),
		})
	}
	table.Render()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
