package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/app"
	"taskboard/model"
)

const shortIDLength = 8

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		model.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		model.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		model.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func renderPriority(p model.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return string(p)
	}
	return style.Render(fmt.Sprintf("%-8s", p))
}

func renderTaskLine(svc *app.Service, t model.Task) string {
	check := "[ ]"
	title := t.Title
	if t.IsCompleted() {
		check = "[x]"
		title = doneStyle.Render(title)
	}
	parts := []string{shortID(t.ID), check, renderPriority(t.Priority), title}
	if t.DueDate != nil {
		due := "due " + t.DueDate.In(svc.Location()).Format("2006-01-02")
		if svc.IsOverdue(t) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		parts = append(parts, due)
	}
	if t.CategoryID != nil {
		parts = append(parts, "@"+categoryName(svc, *t.CategoryID))
	}
	for _, tag := range t.Tags {
		parts = append(parts, tagStyle.Render("#"+tag))
	}
	return strings.Join(parts, "  ")
}

func renderTaskList(w io.Writer, svc *app.Service, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks"))
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, renderTaskLine(svc, t))
	}
}

func renderTaskDetail(w io.Writer, svc *app.Service, t model.Task) {
	loc := svc.Location()
	fmt.Fprintln(w, headerStyle.Render(t.Title))
	fmt.Fprintf(w, "ID:        %s\n", t.ID)
	fmt.Fprintf(w, "Status:    %s\n", t.Status)
	fmt.Fprintf(w, "Priority:  %s\n", renderPriority(t.Priority))
	if t.Description != "" {
		fmt.Fprintf(w, "Notes:     %s\n", t.Description)
	}
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:       %s\n", t.DueDate.In(loc).Format("2006-01-02 15:04"))
	}
	if t.CategoryID != nil {
		fmt.Fprintf(w, "Category:  %s\n", categoryName(svc, *t.CategoryID))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(w, "Created:   %s\n", t.CreatedAt.In(loc).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:   %s\n", t.UpdatedAt.In(loc).Format("2006-01-02 15:04:05"))
	if t.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", t.CompletedAt.In(loc).Format("2006-01-02 15:04:05"))
	}
}

// categoryName falls back to the raw id for dangling references.
func categoryName(svc *app.Service, id string) string {
	c, err := svc.GetCategory(id)
	if err != nil {
		return shortID(id)
	}
	return c.Name
}
