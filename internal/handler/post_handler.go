package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "halflips/internal/errors"
	"halflips/internal/service"
	"halflips/internal/session"
)

// PostHandler serves the timeline and post submission.
type PostHandler struct {
	pageRenderer
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService, sessions *session.Manager) *PostHandler {
	return &PostHandler{
		pageRenderer: pageRenderer{sessions: sessions},
		postService:  postService,
	}
}

// Home lists every post, newest first.
func (h *PostHandler) Home(c echo.Context) error {
	posts, err := h.postService.ListNewestFirst(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "home", "Home", posts)
}

// CreatePost publishes the submitted content for the current user. Content
// that is empty or longer than 280 characters is dropped without a message.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := h.sessions.CurrentUser(c)
	content := c.FormValue("content")

	if _, err := h.postService.Create(c.Request().Context(), content, user); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidContent) {
			return err
		}
	}
	return c.Redirect(http.StatusFound, "/")
}
