package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldops/authbridge/api"
	"github.com/fieldops/authbridge/services"
)

// claimsContextKey is the echo context key holding the validated claims.
const claimsContextKey = "authbridge.claims"

// RequireAuth validates the Bearer token on incoming requests and stores
// its claims in the echo context. Tokens are stateless: validity is the
// signature plus expiry, nothing else.
func RequireAuth(tokens *services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "missing authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid authorization header format"})
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or expired token"})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin rejects authenticated requests whose token lacks the admin
// claim. Must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "missing authorization"})
			}
			if !claims.Admin {
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "access denied: admins only"})
			}
			return next(c)
		}
	}
}

// ClaimsFromContext retrieves the validated claims stored by RequireAuth.
func ClaimsFromContext(c echo.Context) (*services.AccessTokenClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*services.AccessTokenClaims)
	return claims, ok
}
