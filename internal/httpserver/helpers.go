package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/internal/service"
)

func currentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get("user").(*models.User)
	if !ok || user == nil {
		return nil, errors.New("unauthorized")
	}
	return user, nil
}

// serviceError maps the service sentinel errors onto HTTP statuses and logs
// at a severity matching the status class.
func serviceError(c echo.Context, l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return c.JSON(http.StatusBadRequest, errBody(err))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op, "status", http.StatusNotFound, "error", err)
		return c.JSON(http.StatusNotFound, errBody(err))
	case errors.Is(err, service.ErrConflict):
		l.Warn(op, "status", http.StatusConflict, "error", err)
		return c.JSON(http.StatusConflict, errBody(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(op, "status", http.StatusUnauthorized, "error", err)
		return c.JSON(http.StatusUnauthorized, errBody(err))
	default:
		l.Error(op, "status", http.StatusInternalServerError, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
