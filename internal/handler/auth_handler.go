package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "halflips/internal/errors"
	"halflips/internal/flash"
	"halflips/internal/service"
	"halflips/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	pageRenderer
	authService service.AuthService
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		pageRenderer: pageRenderer{sessions: sessions},
		authService:  authService,
		log:          log,
	}
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm shows the registration page.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", "Register", nil)
}

// Register creates an account and sends the user to the login page. A taken
// username re-shows the form with a message.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		flash.Add(c, flash.Danger, "Invalid registration form.")
		return h.render(c, http.StatusBadRequest, "register", "Register", nil)
	}

	if err := c.Validate(&req); err != nil {
		flash.Add(c, flash.Danger, "A username of at most 20 characters and a password are required.")
		return h.render(c, http.StatusBadRequest, "register", "Register", nil)
	}

	picture, err := c.FormFile("profile_pic")
	if err != nil {
		picture = nil
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, picture)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			flash.Add(c, flash.Danger, "Username already taken")
			return h.render(c, http.StatusOK, "register", "Register", nil)
		}
		return err
	}

	h.log.WithField("user_id", user.ID).Info("user registered")
	flash.Add(c, flash.Success, "Registered successfully! You can now log in.")
	return c.Redirect(http.StatusFound, "/login")
}

// LoginForm shows the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", "Log in", nil)
}

// Login starts a session and sends the user home. Any failure shows the same
// message so the form does not reveal which usernames exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		req = LoginRequest{}
	}

	if _, err := h.sessions.Login(c, req.Username, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			flash.Add(c, flash.Danger, "Login failed. Check username and password.")
			return h.render(c, http.StatusOK, "login", "Log in", nil)
		}
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Logout ends the session and sends the user home.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return c.Redirect(http.StatusFound, "/")
}
