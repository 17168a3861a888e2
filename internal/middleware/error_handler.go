package middleware

import (
	"errors"
	"net/http"

	"dreamKeys/pkg/logger"

	jsonres "dreamKeys/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders echo errors (unknown routes, bind failures, panics) in the
// same envelope the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("Unhandled error", "path", c.Request().URL.Path, "error", err)
	}

	if err := c.JSON(code, jsonres.Error(statusCode(code), message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}

func statusCode(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	}

	return "INTERNAL_SERVER_ERROR"
}
