package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// RequireAdmin authenticates the caller and then rejects non-admins with
// domain.ErrForbidden.
func RequireAdmin(authenticator ports.Authenticator) echo.MiddlewareFunc {
	authenticate := Authenticate(authenticator)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(func(c echo.Context) error {
			if user := CurrentUser(c); user == nil || !user.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		})
	}
}
