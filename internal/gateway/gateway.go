// Package gateway decorates every backend call with the caller's session and
// tears the session down when the backend answers 401.
package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/metrics"
	"github.com/medportal/portal/internal/session"
)

const (
	// LoginPath is where an expired session is sent.
	LoginPath = "/login"

	HeaderAuthorization = "Authorization"
	HeaderUserID        = "X-User-Id"
)

// Session is the part of session.Store the gateway needs.
type Session interface {
	Snapshot() session.Snapshot
	Expire(ctx context.Context) error
}

// SessionSource resolves the session that owns an outbound request.
type SessionSource interface {
	SessionFor(ctx context.Context) (Session, bool)
}

// Navigator performs the hard navigation that follows a forced logout.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

type staticSource struct{ s Session }

func (st staticSource) SessionFor(context.Context) (Session, bool) { return st.s, st.s != nil }

// Static serves the same session for every request. Used by single-session
// processes and tests.
func Static(s Session) SessionSource { return staticSource{s: s} }

type sessionKey struct{}
type navigatorKey struct{}

// WithSession attaches the request's session to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session attached by WithSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}

type contextSource struct{}

func (contextSource) SessionFor(ctx context.Context) (Session, bool) { return SessionFromContext(ctx) }

// FromContext resolves the session from the request context.
func FromContext() SessionSource { return contextSource{} }

// WithNavigator overrides the gateway's navigator for calls made with ctx.
func WithNavigator(ctx context.Context, n Navigator) context.Context {
	return context.WithValue(ctx, navigatorKey{}, n)
}

// Gateway is an http.RoundTripper. It holds no per-session state and is safe
// to share across the process.
type Gateway struct {
	base      http.RoundTripper
	sessions  SessionSource
	navigator Navigator
	log       zerolog.Logger
}

type Option func(*Gateway)

// WithTransport replaces http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option { return func(g *Gateway) { g.base = rt } }

// WithDefaultNavigator is used when the request context carries none.
func WithDefaultNavigator(n Navigator) Option { return func(g *Gateway) { g.navigator = n } }

func New(sessions SessionSource, log zerolog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		base:      http.DefaultTransport,
		sessions:  sessions,
		navigator: NavigatorFunc(func(context.Context, string) {}),
		log:       log.With().Str("component", "gateway").Logger(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// RoundTrip attaches the bearer credential and user id of the current session,
// forwards the call and, on 401, expires the session and navigates to
// LoginPath. The response is always returned to the caller unchanged.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sess, hasSession := g.sessions.SessionFor(ctx)

	out := req.Clone(ctx)
	if hasSession {
		decorate(out, sess.Snapshot())
	}

	start := time.Now()
	resp, err := g.base.RoundTrip(out)
	metrics.GatewayRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	metrics.GatewayRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		g.expire(ctx, req, sess, hasSession)
	}
	return resp, nil
}

func decorate(req *http.Request, snap session.Snapshot) {
	if snap.Credential != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+snap.Credential)
	}
	if snap.Identity != nil && snap.Identity.ID != "" {
		req.Header.Set(HeaderUserID, snap.Identity.ID.String())
	}
}

func (g *Gateway) expire(ctx context.Context, req *http.Request, sess Session, hasSession bool) {
	metrics.GatewayExpiredSessionsTotal.Inc()
	g.log.Warn().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("backend rejected credential, ending session")

	if hasSession {
		if err := sess.Expire(ctx); err != nil {
			g.log.Error().Err(err).Msg("clearing expired session")
		}
	}

	nav := g.navigator
	if n, ok := ctx.Value(navigatorKey{}).(Navigator); ok && n != nil {
		nav = n
	}
	nav.Navigate(ctx, LoginPath)
}
