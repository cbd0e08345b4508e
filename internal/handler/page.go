package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"halflips/internal/flash"
	"halflips/internal/session"
	"halflips/internal/view"
)

// pageRenderer fills the data shared by every rendered page.
type pageRenderer struct {
	sessions *session.Manager
}

func (p pageRenderer) render(c echo.Context, status int, name, title string, data interface{}) error {
	user := p.sessions.Resolve(c)
	return c.Render(status, name, view.Page{
		Title:       title,
		CurrentUser: user,
		LoggedIn:    user != nil,
		Flashes:     flash.Pop(c),
		Data:        data,
	})
}

// Static returns a handler rendering a page that needs no data.
func (p pageRenderer) Static(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return p.render(c, http.StatusOK, name, title, nil)
	}
}
