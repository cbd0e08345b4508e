// Package app assembles the HTTP application from its services.
package app

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"halflips/internal/auth"
	"halflips/internal/cache"
	"halflips/internal/config"
	"halflips/internal/handler"
	"halflips/internal/repository"
	"halflips/internal/router"
	"halflips/internal/service"
	"halflips/internal/session"
	"halflips/internal/storage"
	"halflips/internal/view"
)

// New builds the echo instance with every route registered. cacheClient may be
// nil, in which case caching and session revocation are disabled.
func New(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, log *logrus.Logger) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	pictures, err := storage.NewPictureStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("picture store: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, pictures, log)
	userService := service.NewUserService(userRepo, cacheClient)
	postService := service.NewPostService(postRepo)

	// Initialize session handling
	tokens := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	sessionStore := auth.NewSessionStore(cacheClient)
	sessions := session.NewManager(authService, userService, tokens, sessionStore, session.Options{
		SecureCookie: cfg.CookieSecure,
		Log:          log,
	})

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	router.Register(e, log, sessions, pictures.Dir(), router.Handlers{
		Auth:    handler.NewAuthHandler(authService, sessions, log),
		Post:    handler.NewPostHandler(postService, sessions),
		Profile: handler.NewProfileHandler(userService, postService, pictures, sessions, log),
		API:     handler.NewAPIHandler(postService, userService),
	})

	return e, nil
}
