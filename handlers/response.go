package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v5"

	"smart-queue/internal/status"
)

// SessionHeader carries the caller's session id. Join issues one when absent.
const SessionHeader = "X-Session-ID"

func sessionID(c echo.Context) string {
	return c.Request().Header.Get(SessionHeader)
}

func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"error": message})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, status.ErrInvalidState):
		return errorJSON(c, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "path", c.Request().URL.Path, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}
