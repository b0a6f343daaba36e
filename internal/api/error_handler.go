package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusFor lists domain errors in match order. ErrSuperAdminProtected must
// precede ErrForbidden.
var statusFor = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrDogNotFound, http.StatusNotFound},
	{domain.ErrTaskNotFound, http.StatusNotFound},
	{domain.ErrSuperAdminProtected, http.StatusNotAcceptable},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrDogExists, http.StatusConflict},
	{domain.ErrEmptyPatch, http.StatusUnprocessableEntity},
	{domain.ErrInvalidRole, http.StatusUnprocessableEntity},
	{domain.ErrSelfPrivilege, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, validation, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.code, fromSentinel(err, m.err)
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// fromSentinel drops the operation prefixes added by wrapping, so
// "create dog: dog already exists: \"Jack\"" renders as
// "dog already exists: \"Jack\"".
func fromSentinel(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}
