package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"secondhand-market/internal/auth"
	"secondhand-market/internal/client"
	"secondhand-market/internal/dto"
	"secondhand-market/internal/repository"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
)

// failure maps a service error onto an HTTP error. Anything unrecognised is
// a store failure and gets the endpoint's fixed message with a 501, the
// status the public API has always used for it.
func failure(err error, message string) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, service.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, repository.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found").SetInternal(err)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, auth.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized action attempted").SetInternal(err)
	case errors.Is(err, client.ErrProvider):
		return echo.NewHTTPError(http.StatusBadGateway, "PAYMENT INTENT CREATION FAILED").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusNotImplemented, message).SetInternal(err)
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if he.Internal != nil {
				err = he.Internal
			}
		}

		if code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "status", code, "error", err)
		} else {
			log.DebugContext(c.Request().Context(), "request rejected",
				"method", c.Request().Method, "path", c.Path(), "status", code, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, dto.ErrorResponse{Error: true, Message: message})
		}
		if writeErr != nil {
			log.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}
