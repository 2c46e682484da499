package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/gateway"
	"github.com/medportal/portal/internal/infrastructure/db"
	"github.com/medportal/portal/internal/session"
)

const (
	sessionKey    = "session"
	navigationKey = "navigation"
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Durable    ports.DurableStore
	CookieName string
	// TTL applies to credentials that do not carry their own expiry.
	TTL    time.Duration
	Secure bool
	Log    zerolog.Logger
}

// navigation records the hard navigation requested by the gateway during a
// request.
type navigation struct {
	mu   sync.Mutex
	path string
}

func (n *navigation) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

func (n *navigation) target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Session restores the browser's session from the durable store before the
// handler runs. The browser is identified by a uuid cookie issued on its
// first visit; its keys live under db.SessionPrefix(id).
//
// The restored store is available through CurrentSession and is attached to
// the request context so backend calls made with that context are decorated
// by the gateway. A gateway navigation becomes a 303 once the handler returns
// without writing a response.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "portal_sid"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c, cfg)

			store := session.NewStore(
				db.Namespace(cfg.Durable, db.SessionPrefix(sid)),
				cfg.Log.With().Str("sid", sid[:8]).Logger(),
				session.WithDefaultTTL(cfg.TTL),
			)
			req := c.Request()
			store.Init(req.Context())

			nav := &navigation{}
			ctx := gateway.WithNavigator(gateway.WithSession(req.Context(), store), nav)
			c.SetRequest(req.WithContext(ctx))
			c.Set(sessionKey, store)
			c.Set(navigationKey, nav)

			err := next(c)
			if err == nil && !c.Response().Committed {
				if path := nav.target(); path != "" {
					return c.Redirect(http.StatusSeeOther, path)
				}
			}
			return err
		}
	}
}

// sessionID returns the browser's session id, issuing a fresh one when the
// cookie is missing or not a uuid.
func sessionID(c echo.Context, cfg SessionConfig) string {
	if ck, err := c.Cookie(cfg.CookieName); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}

	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// CurrentSession returns the store installed by Session.
func CurrentSession(c echo.Context) (*session.Store, bool) {
	s, ok := c.Get(sessionKey).(*session.Store)
	return s, ok && s != nil
}

// NavigatedTo returns the path the gateway asked to navigate to during this
// request, or "".
func NavigatedTo(c echo.Context) string {
	if n, ok := c.Get(navigationKey).(*navigation); ok && n != nil {
		return n.target()
	}
	return ""
}
