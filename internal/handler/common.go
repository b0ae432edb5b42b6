// Package handler contains the HTTP layer: it validates inbound payloads,
// calls the repositories and maps their error contract onto transport
// status codes. Business rules live below; nothing here touches SQL.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evergreenmedia/podcast-partner-api/internal/repository"
)

// dbTimeout bounds the repository calls a single request may make.
const dbTimeout = 5 * time.Second

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// repoError translates a repository failure into an HTTP response. Infra
// errors always map to 503 regardless of the operation; business sentinels
// carry their own statuses; any remaining statement failure is reported as
// a 400 with the driver's message.
func repoError(c echo.Context, err error) error {
	if repository.IsInfra(err) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
	}
	switch {
	case errors.Is(err, repository.ErrDuplicateTitle):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNoUpdateData):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	var qe *repository.QueryError
	if errors.As(err, &qe) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": qe.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// currentUserID returns the authenticated user's id placed in the context
// by the JWT middleware.
func currentUserID(c echo.Context) (string, bool) {
	id, ok := c.Get("user_id").(string)
	return id, ok && id != ""
}
