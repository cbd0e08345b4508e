package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"halflips/internal/handler"
	"halflips/internal/logging"
	"halflips/internal/session"
)

// Handlers groups the route handlers wired by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	Post    *handler.PostHandler
	Profile *handler.ProfileHandler
	API     *handler.APIHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log logrus.FieldLogger,
	sessions *session.Manager,
	uploadDir string,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(sessions.Identify())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/static/profile_pics", uploadDir)

	// Public routes
	e.GET("/", h.Post.Home)
	e.GET("/register", h.Auth.RegisterForm)
	e.POST("/register", h.Auth.Register)
	e.GET("/login", h.Auth.LoginForm)
	e.POST("/login", h.Auth.Login)

	// Read-only JSON API
	api := e.Group("/api")
	api.GET("/posts", h.API.ListPosts)
	api.GET("/users/:username", h.API.GetUser)

	// Routes requiring a logged-in user
	requireAuth := sessions.RequireAuthenticated()
	e.GET("/logout", h.Auth.Logout, requireAuth)
	e.POST("/post", h.Post.CreatePost, requireAuth)
	e.GET("/profile/:username", h.Profile.Profile, requireAuth)
	e.GET("/edit_profile", h.Profile.EditProfileForm, requireAuth)
	e.POST("/edit_profile", h.Profile.EditProfile, requireAuth)
	e.GET("/find_people", h.Post.Static("find_people", "Find people"), requireAuth)
	e.GET("/settings", h.Post.Static("settings", "Settings"), requireAuth)
	e.GET("/help", h.Post.Static("help", "Help"), requireAuth)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
