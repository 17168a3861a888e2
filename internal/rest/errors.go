package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dreamKeys/domain"
	"dreamKeys/internal/middleware"
	"dreamKeys/pkg/logger"

	jsonres "dreamKeys/pkg/response"

	"github.com/labstack/echo/v4"
)

// writeError maps domain error kinds onto HTTP statuses. Anything unclassified is a 500
// and its text is not sent to the client.
func writeError(c echo.Context, err error) error {
	status, code := http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.Path(), "error", err)
		return c.JSON(status, jsonres.Error(code, "Internal server error", nil))
	}

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	return c.JSON(status, jsonres.Error(code, message, nil))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", message, nil))
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewError(domain.ErrInvalidArgument, "invalid "+name)
	}

	return uint(id), nil
}

func actorFrom(c echo.Context) domain.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

// emailParam normalizes an email taken from the path or query the same way tokens are.
func emailParam(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
