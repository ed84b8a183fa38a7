package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teampulse/engagement-pulse/internal/domain"
	"github.com/teampulse/engagement-pulse/internal/platform/correlation"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// errorHandlingMiddleware translates domain sentinels into JSON error
// responses so handlers can return repository errors untouched.
func errorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			status := statusForError(err)
			if status >= http.StatusInternalServerError {
				slog.ErrorContext(c.Request().Context(), "request failed",
					"path", c.Request().URL.Path, "method", c.Request().Method, "error", err)
			} else {
				slog.InfoContext(c.Request().Context(), "request rejected",
					"path", c.Request().URL.Path, "method", c.Request().Method, "status", status, "error", err)
			}

			return c.JSON(status, map[string]string{"error": err.Error()})
		}
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrChannelNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrSummaryNotFound),
		errors.Is(err, domain.ErrInsightNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRecordExists),
		errors.Is(err, domain.ErrSummaryExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
