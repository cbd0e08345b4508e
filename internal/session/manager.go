package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"halflips/internal/auth"
	apperrors "halflips/internal/errors"
	"halflips/internal/flash"
	"halflips/internal/model"
	"halflips/internal/service"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "session"
	// LoginPath is where anonymous requests to protected routes are sent.
	LoginPath = "/login"

	claimsKey      = "session_claims"
	currentUserKey = "current_user"
)

// Manager tracks the authenticated user of each request. A request is
// anonymous unless it carries a valid, unrevoked session cookie.
type Manager struct {
	authService service.AuthService
	userService service.UserService
	tokens      *auth.TokenService
	store       auth.SessionStoreInterface
	log         logrus.FieldLogger
	secure      bool
}

// Options configures a Manager.
type Options struct {
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
	Log          logrus.FieldLogger
}

// NewManager creates a session manager.
func NewManager(
	authService service.AuthService,
	userService service.UserService,
	tokens *auth.TokenService,
	store auth.SessionStoreInterface,
	opts Options,
) *Manager {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		authService: authService,
		userService: userService,
		tokens:      tokens,
		store:       store,
		log:         log,
		secure:      opts.SecureCookie,
	}
}

// Identify reads the session cookie on every request. Requests without a
// usable token continue as anonymous.
func (m *Manager) Identify() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:            "cookie:" + CookieName,
		ContextKey:             claimsKey,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return m.parse(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Anonymous request; nothing to report.
			return nil
		},
	})
}

func (m *Manager) parse(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// RequireAuthenticated guards a route. Anonymous requests are redirected to
// the login page without running the handler. Authenticated requests get the
// current user, read past the cache, injected; a session whose user no longer
// exists is logged out.
func (m *Manager) RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := m.claims(c)
			if claims == nil {
				return m.redirectToLogin(c)
			}

			user, err := m.resolve(c.Request().Context(), claims.UserID, m.userService.Reload)
			if err != nil {
				if errors.Is(err, apperrors.ErrSessionUserMissing) {
					m.log.WithField("user_id", claims.UserID).Warn("session refers to missing user, logging out")
					m.Logout(c)
					return m.redirectToLogin(c)
				}
				return err
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

type userLookup func(ctx context.Context, id uint) (*model.User, error)

func (m *Manager) resolve(ctx context.Context, userID uint, lookup userLookup) (*model.User, error) {
	user, err := lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrSessionUserMissing
		}
		return nil, err
	}
	return user, nil
}

func (m *Manager) redirectToLogin(c echo.Context) error {
	flash.Add(c, flash.Info, "Please log in to access this page.")
	return c.Redirect(http.StatusFound, LoginPath)
}

// Login checks the credentials and binds the session to the user. Unknown
// usernames and wrong passwords both fail with ErrInvalidCredentials.
func (m *Manager) Login(c echo.Context, username, password string) (*model.User, error) {
	user, err := m.authService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		return nil, err
	}

	token, claims, err := m.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(m.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(claimsKey, claims)
	c.Set(currentUserKey, user)
	return user, nil
}

// Logout ends the session unconditionally. The token is revoked until it
// would have expired and the cookie is cleared.
func (m *Manager) Logout(c echo.Context) {
	if claims := m.claims(c); claims != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := m.store.Revoke(c.Request().Context(), claims.ID, ttl); err != nil {
			m.log.WithError(err).Warn("revoke session")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(claimsKey, nil)
	c.Set(currentUserKey, nil)
}

// CurrentUser returns the user injected by RequireAuthenticated or Login, if any.
func (m *Manager) CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}

// Resolve returns the current user on routes that do not require a login,
// loading it from the session when needed. Any failure leaves the request
// anonymous.
func (m *Manager) Resolve(c echo.Context) *model.User {
	if user := m.CurrentUser(c); user != nil {
		return user
	}
	claims := m.claims(c)
	if claims == nil {
		return nil
	}
	user, err := m.resolve(c.Request().Context(), claims.UserID, m.userService.GetByID)
	if err != nil {
		return nil
	}
	c.Set(currentUserKey, user)
	return user
}

func (m *Manager) claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}
