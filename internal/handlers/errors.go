package handlers

import (
	"errors"
	"net/http"

	"github.com/kjiyu/devlog/backend/internal/repositories"
	"github.com/kjiyu/devlog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError maps service and store errors onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
