package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/api/middleware"
	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/session"
)

// ctxSession returns the store installed by the Session middleware. Its
// absence is a wiring bug, not a client error.
func ctxSession(c echo.Context) (*session.Store, error) {
	store, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return store, nil
}

// ctxIdentity returns the signed-in identity. Routes behind RequireAuth always
// have one; anywhere else a missing identity is an expired session.
func ctxIdentity(c echo.Context) (*session.Store, domain.Identity, error) {
	store, err := ctxSession(c)
	if err != nil {
		return nil, domain.Identity{}, err
	}
	id, ok := store.Identity()
	if !ok {
		return nil, domain.Identity{}, domain.ErrSessionExpired
	}
	return store, id, nil
}

// render writes data wrapped in the page envelope for the current chrome.
func render(c echo.Context, status int, data any) error {
	chrome := middleware.CurrentChrome(c)
	p := page{Chrome: chrome, Links: chrome.Links(), Data: data}
	if store, ok := middleware.CurrentSession(c); ok {
		p.Session = toSessionView(store.Snapshot())
	}
	return c.JSON(status, p)
}
