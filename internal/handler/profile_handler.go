package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "halflips/internal/errors"
	"halflips/internal/flash"
	"halflips/internal/service"
	"halflips/internal/session"
	"halflips/internal/storage"
)

// ProfileHandler serves profile pages and profile edits.
type ProfileHandler struct {
	pageRenderer
	userService service.UserService
	postService service.PostService
	pictures    service.PictureSaver
	log         logrus.FieldLogger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(
	userService service.UserService,
	postService service.PostService,
	pictures service.PictureSaver,
	sessions *session.Manager,
	log logrus.FieldLogger,
) *ProfileHandler {
	return &ProfileHandler{
		pageRenderer: pageRenderer{sessions: sessions},
		userService:  userService,
		postService:  postService,
		pictures:     pictures,
		log:          log,
	}
}

// Profile shows a user and their posts.
func (h *ProfileHandler) Profile(c echo.Context) error {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	posts, err := h.postService.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	user.Posts = posts
	return h.render(c, http.StatusOK, "profile", user.Username, user)
}

// EditProfileForm shows the profile form for the current user.
func (h *ProfileHandler) EditProfileForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "edit_profile", "Edit profile", nil)
}

// EditProfile stores display name and bio as submitted and, when a file is
// attached, the new picture.
func (h *ProfileHandler) EditProfile(c echo.Context) error {
	user := h.sessions.CurrentUser(c)
	update := service.ProfileUpdate{
		DisplayName: c.FormValue("display_name"),
		Bio:         c.FormValue("bio"),
	}

	if fh, err := c.FormFile("profile_pic"); err == nil && fh.Filename != "" {
		saved, err := h.pictures.Save(fh)
		switch {
		case err == nil:
			update.ProfilePic = &saved
		case errors.Is(err, storage.ErrInvalidFilename):
			h.log.WithField("filename", fh.Filename).Info("unusable picture filename, keeping current")
		default:
			return err
		}
	}

	if _, err := h.userService.UpdateProfile(c.Request().Context(), user, update); err != nil {
		return err
	}

	flash.Add(c, flash.Success, "Profile updated successfully!")
	return c.Redirect(http.StatusFound, "/profile/"+url.PathEscape(user.Username))
}
