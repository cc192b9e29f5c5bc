//nolint:varnamelen
package echo

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/fieldops/authbridge/api"
	"github.com/fieldops/authbridge/domain"
	"github.com/fieldops/authbridge/middleware"
	"github.com/fieldops/authbridge/services"
)

// LoginService is the orchestration the API depends on.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
}

// AuthAPI holds the login endpoint dependencies.
type AuthAPI struct {
	login  LoginService
	tokens *services.TokenService
}

// NewAuthAPI initializes the auth API.
func NewAuthAPI(login LoginService, tokens *services.TokenService) *AuthAPI {
	return &AuthAPI{
		login:  login,
		tokens: tokens,
	}
}

// RegisterRoutes registers the auth routes. Echo answers 405 for any other
// method on a registered path.
func (a *AuthAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/login", a.LoginHandler)
	e.GET("/api/session", a.SessionHandler, middleware.RequireAuth(a.tokens))
}

// LoginHandler runs the full login bridge and composes the response: body
// plus the service layer session cookie.
func (a *AuthAPI) LoginHandler(c echo.Context) error {
	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
	}

	result, err := a.login.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeLoginError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    result.SessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return c.JSON(http.StatusOK, api.LoginResponse{
		Message:     "Login successful",
		UID:         result.UID,
		Email:       result.Email,
		WorkerID:    result.WorkerID,
		FullName:    result.FullName,
		IsAdmin:     result.IsAdmin,
		CustomToken: result.Token.Value,
		SessionID:   result.SessionID,
	})
}

// SessionHandler reports the authenticated caller's claims. It exists so
// the dashboard can check a stored token without re-running the login.
func (a *AuthAPI) SessionHandler(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "missing authorization"})
	}
	return c.JSON(http.StatusOK, api.SessionResponse{
		UID:       claims.Subject,
		IsAdmin:   claims.Admin,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// writeLoginError maps the error taxonomy to response statuses. Credential
// rejection and missing record share one status and message so that the
// endpoint cannot be used to enumerate accounts.
func writeLoginError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
	case errors.Is(err, domain.ErrIdentityMismatch):
		return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "identity mismatch"})
	case errors.Is(err, domain.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "access denied: admins only"})
	case errors.Is(err, domain.ErrAmbiguousUser):
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "account data error"})
	case errors.Is(err, domain.ErrServiceLayer):
		return c.JSON(http.StatusBadGateway, api.ErrorResponse{Message: "service layer unavailable"})
	default:
		log.Error().Err(err).Msg("Login failed with unexpected error")
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
	}
}
