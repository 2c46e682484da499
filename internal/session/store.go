// Package session holds the signed-in identity and credential for one
// browser session and mirrors both into a durable key-value store so a
// reload restores the session without signing in again.
//
// Lifecycle:
//
//	Uninitialized → Loading → {Authenticated, Anonymous}
//	Authenticated → Anonymous   (Logout, Expire)
//	Anonymous     → Authenticated (Login, UpdateIdentity)
//
// Init runs exactly once; Loading reports true until it has finished.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/metrics"
)

// PlaceholderCredential is stored when the backend signs a user in without
// issuing a token. Callers that care about real authentication strength must
// compare against it explicitly.
const PlaceholderCredential = "dummy-token"

// Keys names the two durable entries a session occupies.
type Keys struct {
	Credential string
	Identity   string
}

// DefaultKeys mirrors the keys the browser build used in localStorage.
var DefaultKeys = Keys{Credential: "token", Identity: "user"}

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Snapshot is an immutable view of the store handed to subscribers.
type Snapshot struct {
	Identity   *domain.Identity
	Credential string
	State      State

	version uint64
}

func (s Snapshot) IsAuthenticated() bool { return s.Identity != nil }

func (s Snapshot) Loading() bool {
	return s.State == StateUninitialized || s.State == StateLoading
}

func (s Snapshot) IsRole(r domain.Role) bool {
	return s.Identity != nil && s.Identity.Role == r
}

var validate = validator.New()

type Option func(*Store)

// WithKeys overrides DefaultKeys.
func WithKeys(k Keys) Option { return func(s *Store) { s.keys = k } }

// WithDefaultTTL sets the expiry used for credentials that carry none.
// Zero keeps the keys until logout.
func WithDefaultTTL(d time.Duration) Option { return func(s *Store) { s.defaultTTL = d } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Store is safe for concurrent use; mutations are serialized and the last
// one wins. Durable writes happen in the same order as in-memory writes.
type Store struct {
	mu         sync.RWMutex
	durable    ports.DurableStore
	keys       Keys
	defaultTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger

	identity   *domain.Identity
	credential string
	state      State
	version    uint64

	subMu      sync.Mutex
	nextID     int
	subs       map[int]func(Snapshot)
	pending    []Snapshot
	delivering bool
	delivered  uint64
}

func NewStore(durable ports.DurableStore, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		durable: durable,
		keys:    DefaultKeys,
		now:     time.Now,
		log:     log.With().Str("component", "session").Logger(),
		subs:    make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init restores the session from the durable store. Missing or malformed
// data leaves the session anonymous; Init never fails and only the first
// call does any work.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = StateLoading
	s.mu.Unlock()

	identity, credential := s.restore(ctx)

	s.mu.Lock()
	s.identity = identity
	s.credential = credential
	s.state = s.settledState()
	snap := s.commitLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("restore", snap.State.String()).Inc()
	s.publish(snap)
}

func (s *Store) restore(ctx context.Context) (*domain.Identity, string) {
	credential, err := s.durable.Get(ctx, s.keys.Credential)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Msg("reading credential failed, starting anonymous")
		return nil, ""
	}

	raw, err := s.durable.Get(ctx, s.keys.Identity)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, credential
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("reading identity failed, starting anonymous")
		return nil, credential
	}

	identity, err := decodeIdentity(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding stored identity")
		return nil, credential
	}
	return identity, credential
}

func decodeIdentity(raw string) (*domain.Identity, error) {
	if t := strings.TrimSpace(raw); t == "" || t == "null" {
		return nil, fmt.Errorf("%w: empty", domain.ErrMalformedIdentity)
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedIdentity, err)
	}
	if err := checkIdentity(&id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedIdentity, err)
	}
	return &id, nil
}

// checkIdentity normalizes the role to its canonical spelling and rejects
// identities the store would refuse to restore. Login, UpdateIdentity and
// Init share it so that whatever is accepted survives a reload.
func checkIdentity(id *domain.Identity) error {
	if id.Role != "" {
		r, err := domain.ParseRole(string(id.Role))
		if err != nil {
			return err
		}
		id.Role = r
	}
	return validate.Struct(id)
}

// Login records identity and credential. An empty credential is replaced by
// PlaceholderCredential. An identity with an unknown role is rejected with
// domain.ErrInvalidRole and leaves the session untouched. No network call is
// made.
func (s *Store) Login(ctx context.Context, identity domain.Identity, credential string) error {
	if credential == "" {
		credential = PlaceholderCredential
	}
	id := identity
	if err := checkIdentity(&id); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	s.mu.Lock()
	s.identity = &id
	s.credential = credential
	s.state = StateAuthenticated
	snap := s.commitLocked()
	err := s.persistLocked(ctx, &id, credential)
	s.mu.Unlock()

	s.log.Info().Str("user_id", id.ID.String()).Str("role", string(id.Role)).Msg("signed in")
	metrics.SessionTransitionsTotal.WithLabelValues("login", snap.State.String()).Inc()
	s.publish(snap)
	return err
}

// Logout clears the session in memory and in the durable store. Calling it
// on an anonymous session is a no-op apart from the durable delete.
func (s *Store) Logout(ctx context.Context) error {
	return s.clear(ctx, "logout")
}

// Expire is Logout on behalf of the request gateway after a 401.
func (s *Store) Expire(ctx context.Context) error {
	return s.clear(ctx, "expire")
}

func (s *Store) clear(ctx context.Context, reason string) error {
	s.mu.Lock()
	s.identity = nil
	s.credential = ""
	s.state = StateAnonymous
	snap := s.commitLocked()
	err := s.durable.Delete(ctx, s.keys.Credential, s.keys.Identity)
	s.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("clear session: %w", err)
		s.log.Error().Err(err).Str("reason", reason).Msg("durable clear failed")
	}
	metrics.SessionTransitionsTotal.WithLabelValues(reason, snap.State.String()).Inc()
	s.publish(snap)
	return err
}

// UpdateIdentity shallow-merges patch into the current identity and
// persists the result. Without a current identity the patch alone becomes
// the identity. A merge that yields an unknown role is rejected and changes
// nothing.
func (s *Store) UpdateIdentity(ctx context.Context, patch domain.IdentityPatch) (domain.Identity, error) {
	s.mu.Lock()
	var base domain.Identity
	if s.identity != nil {
		base = *s.identity
	}
	merged := patch.Apply(base)
	if err := checkIdentity(&merged); err != nil {
		s.mu.Unlock()
		return domain.Identity{}, fmt.Errorf("update identity: %w", err)
	}
	s.identity = &merged
	s.state = StateAuthenticated

	data, err := json.Marshal(merged)
	if err == nil {
		err = s.durable.Set(ctx, s.keys.Identity, string(data), s.ttlLocked(s.credential))
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("persist identity: %w", err)
		s.log.Error().Err(err).Msg("identity update not persisted")
	}
	metrics.SessionTransitionsTotal.WithLabelValues("update", snap.State.String()).Inc()
	s.publish(snap)
	return merged, err
}

func (s *Store) persistLocked(ctx context.Context, id *domain.Identity, credential string) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	ttl := s.ttlLocked(credential)
	if err := s.durable.Set(ctx, s.keys.Credential, credential, ttl); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	if err := s.durable.Set(ctx, s.keys.Identity, string(data), ttl); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

// ttlLocked keeps the durable keys no longer than the credential is valid.
func (s *Store) ttlLocked(credential string) time.Duration {
	if exp, ok := CredentialExpiry(credential); ok {
		if ttl := exp.Sub(s.now()); ttl > 0 {
			return ttl
		}
	}
	return s.defaultTTL
}

// CredentialExpiry reads the exp claim of a JWT credential without
// verifying it. The portal never holds the signing key; the backend does.
func CredentialExpiry(credential string) (time.Time, bool) {
	if credential == "" || credential == PlaceholderCredential {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) settledState() State {
	if s.identity != nil {
		return StateAuthenticated
	}
	return StateAnonymous
}

// commitLocked stamps a state change with the next version and returns its
// snapshot for publish.
func (s *Store) commitLocked() Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Credential: s.credential, State: s.state, version: s.version}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *Store) IsRole(r domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.Role == r
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized || s.state == StateLoading
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the current identity.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Subscribe registers fn to run after every state change. Subscribers see
// changes in the order they were made; a change already superseded by the
// time it is delivered is skipped, so the last snapshot a subscriber sees
// always matches the store. fn may call back into the store. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// publish queues snap for delivery. Whichever caller finds no delivery in
// progress drains the queue; nested and concurrent callers only enqueue.
func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	s.pending = append(s.pending, snap)
	if s.delivering {
		s.subMu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		if next.version <= s.delivered {
			continue
		}
		s.delivered = next.version

		fns := make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
		s.subMu.Unlock()
		for _, fn := range fns {
			fn(next)
		}
		s.subMu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.subMu.Unlock()
}
