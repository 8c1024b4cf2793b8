package main

import (
	"fmt"
	"io"
	"strings"
	"todoList/internal/models/todo"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func ok(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func todoLine(t *todo.Todo) string {
	if t.Done {
		return boxChecked + " " + doneStyle.Render(t.Content) + " " + mutedStyle.Render(t.ID)
	}
	return boxUnchecked + " " + t.Content + " " + mutedStyle.Render(t.ID)
}

// renderPage печатает страницу задач. Подсказка о следующей странице
// выводится, только если pages > page.
func renderPage(w io.Writer, todos []*todo.Todo, page, pages, total int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Todos (page %d of %d, %d total)", page, max(pages, 1), total)))

	if len(todos) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  nothing here"))
	}

	lines := make([]string, 0, len(todos))
	for _, t := range todos {
		lines = append(lines, "  "+todoLine(t))
	}
	if len(lines) > 0 {
		fmt.Fprintln(w, strings.Join(lines, "\n"))
	}

	if pages > page {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  more: todo list --page %d", page+1)))
	}
}
