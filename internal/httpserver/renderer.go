package httpserver

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"invadmin/web"
)

// PageData is the common part of every rendered page.
type PageData struct {
	Title  string
	Email  string
	APIURL string
	Error  string
}

// Renderer parses each page template together with the layout once at
// startup and renders by page name.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	tfs := web.TemplatesFS()

	layout, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"items.html",
		"item_detail.html",
		"users.html",
		"profile.html",
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		body, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}
		t, err := template.New("layout").Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parsing layout: %w", err)
		}
		if _, err := t.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
