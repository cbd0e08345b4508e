package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"halflips/internal/flash"
	"halflips/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages rendered by the handlers. Each is parsed together with layout.html.
var pages = []string{
	"home",
	"register",
	"login",
	"profile",
	"edit_profile",
	"find_people",
	"settings",
	"help",
}

// Page is the data every template receives.
type Page struct {
	Title       string
	CurrentUser *model.User
	LoggedIn    bool
	Flashes     []flash.Message
	Data        interface{}
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all pages.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"timestamp": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
		"age": func(u *model.User) int {
			return u.Age(time.Now())
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
