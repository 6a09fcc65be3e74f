// Package view renders the HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Tomlord1122/get-it-done/internal/domain"
)

// DefaultTitle is the title of the task list page.
const DefaultTitle = "Get It Done!"

//go:embed templates/*.html
var templateFS embed.FS

var todosTemplate = template.Must(template.ParseFS(templateFS, "templates/todos.html"))

// Page is the data rendered by the task list template.
type Page struct {
	Title          string
	Error          string
	Tasks          []domain.Task
	CompletedTasks []domain.Task
}

// Render writes the task list page for p.
func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if err := todosTemplate.ExecuteTemplate(w, "todos.html", p); err != nil {
		return fmt.Errorf("render todos page: %w", err)
	}
	return nil
}
