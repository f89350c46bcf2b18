package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// currentUser returns the caller resolved by the Authenticate middleware.
// A nil user means the route was registered without a guard.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// queryError turns a query binding failure into a field-level error.
func queryError(err error, msg string) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return fieldInvalid(be.Field, msg)
	}
	return err
}
