package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"halflips/internal/errors"
	"halflips/internal/service"
)

// APIHandler exposes a read-only JSON view of posts and profiles.
type APIHandler struct {
	postService service.PostService
	userService service.UserService
}

// NewAPIHandler creates the JSON API handler.
func NewAPIHandler(postService service.PostService, userService service.UserService) *APIHandler {
	return &APIHandler{postService: postService, userService: userService}
}

// ListPosts godoc
// @Summary List posts
// @Description All posts with their authors, newest first. Not paginated.
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *APIHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.ListNewestFirst(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetUser godoc
// @Summary Get user by username
// @Description The user with their posts, newest first.
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{username} [get]
func (h *APIHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return respondError(c, err)
	}

	posts, err := h.postService.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	user.Posts = posts
	return c.JSON(http.StatusOK, user)
}

func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
