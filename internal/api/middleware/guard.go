package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/router"
)

const chromeKey = "chrome"

// RequireAuth lets authenticated sessions through and sends everyone else to
// the login page. It checks authentication only, never the role.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, ok := CurrentSession(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}

			d := router.Guard(store.Snapshot())
			switch d.Outcome {
			case router.OutcomeLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			case router.OutcomeRedirect:
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			return next(c)
		}
	}
}

// Chrome attaches the navigation chrome for the request path.
func Chrome() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if store, ok := CurrentSession(c); ok {
				c.Set(chromeKey, router.SelectChrome(c.Request().URL.Path, store.Snapshot()))
			}
			return next(c)
		}
	}
}

// CurrentChrome returns the chrome chosen by Chrome, defaulting to
// router.ChromeDefault.
func CurrentChrome(c echo.Context) router.Chrome {
	if ch, ok := c.Get(chromeKey).(router.Chrome); ok {
		return ch
	}
	return router.ChromeDefault
}
