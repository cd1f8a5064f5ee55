package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
)

// ContextUserKey is the echo context key the resolved user is stored under.
const ContextUserKey = "currentUser"

// UserResolver turns verified token subjects into user records.
type UserResolver interface {
	// ResolveSubject looks up the user a normal token's subject refers to.
	ResolveSubject(ctx context.Context, subject string) (*model.User, error)
	// ProvisionDevUser returns the fixed test account, creating it on first use.
	ProvisionDevUser(ctx context.Context) (*model.User, error)
}

// Middleware authenticates each request from its Authorization header:
// the bearer token is verified, its subject resolved to a user record and
// the user attached to the request context. A dev token (when the bypass is
// enabled) skips expiry handling and auto-provisions the test account.
// Missing, malformed, invalid or expired credentials produce 401 with a
// WWW-Authenticate hint; an inactive account produces 403.
func Middleware(tokens *JWTService, users UserResolver, bypassEnabled bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: ContextUserKey,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return resolveUser(c.Request().Context(), tokens, users, bypassEnabled, tokenString)
		},
		ErrorHandler: unauthorizedHandler,
	})
}

func resolveUser(ctx context.Context, tokens *JWTService, users UserResolver, bypassEnabled bool, tokenString string) (*model.User, error) {
	var (
		user *model.User
		err  error
	)

	if bypassEnabled && tokens.IsDevToken(tokenString) {
		user, err = users.ProvisionDevUser(ctx)
		if err != nil {
			return nil, apperrors.ErrNotAuthenticated
		}
	} else {
		claims, verr := tokens.ValidateToken(tokenString)
		if verr != nil {
			return nil, verr
		}
		user, err = users.ResolveSubject(ctx, claims.Subject)
		if err != nil {
			// Unknown subject is indistinguishable from a bad token to the caller.
			return nil, apperrors.ErrNotAuthenticated
		}
	}

	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}

// RequireVerified guards routes that need a completed email verification.
// It runs after Middleware and rejects users whose email is unverified
// with 403. The auto-provisioned test account is always verified.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrNotAuthenticated)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if !user.IsVerified {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrNotVerified)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

func unauthorizedHandler(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrInactiveUser) {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInactiveUser)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	domainErr := apperrors.ErrNotAuthenticated
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		domainErr = apperrors.ErrTokenExpired
	case errors.Is(err, apperrors.ErrInvalidToken):
		domainErr = apperrors.ErrInvalidToken
	}

	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	httpErr := apperrors.MapErrorToHTTP(domainErr)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// CurrentUser returns the authenticated user attached to the request context
// by Middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}
