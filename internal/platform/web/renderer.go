// Package web renders the clinic's server-side HTML pages and carries
// one-shot flash notices between redirects.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/opdhq/opd/internal/platform/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer implements echo.Renderer over the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. Parsing happens once at
// startup so a broken template fails the boot, not a request.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Page is the data envelope every template receives.
type Page struct {
	Title    string
	Username string
	Flashes  []Flash
	Data     interface{}
}

// RenderPage renders a page template, filling in the signed-in doctor and
// draining any pending flash notices.
func RenderPage(c echo.Context, status int, name, title string, data interface{}) error {
	return c.Render(status, name, Page{
		Title:    title,
		Username: auth.UsernameFromContext(c.Request().Context()),
		Flashes:  PopFlashes(c),
		Data:     data,
	})
}
