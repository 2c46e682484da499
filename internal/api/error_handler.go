package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/api/middleware"
	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/gateway"
	"github.com/medportal/portal/internal/router"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler maps handler errors to responses. An expired session
// becomes a 303 to the login page; everything else is rendered as
// {"error": "<message>"}. Unexpected errors are logged and reported as 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if path, ok := loginRedirect(err, c); ok {
			_ = c.Redirect(http.StatusSeeOther, path)
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

// loginRedirect reports where to send the browser after its session ended
// mid-request. Failed logins stay on the page with a 401.
func loginRedirect(err error, c echo.Context) (string, bool) {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return "", false
	}
	if path := middleware.NavigatedTo(c); path != "" {
		return path, true
	}
	if errors.Is(err, domain.ErrSessionExpired) {
		return router.LoginPath, true
	}
	return "", false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		return apiErr.Status, msg
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidAppointment):
		return http.StatusUnprocessableEntity, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
