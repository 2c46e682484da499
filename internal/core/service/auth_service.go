package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

// AuthService signs users in and out against the backend and records the
// result in the caller's session.
type AuthService struct {
	backend ports.AuthBackend
	log     zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(backend ports.AuthBackend, log zerolog.Logger) *AuthService {
	return &AuthService{backend: backend, log: log}
}

// Login authenticates with the backend and stores identity and token in sess.
// A backend that returns no token leaves the placeholder credential behind.
func (s *AuthService) Login(ctx context.Context, sess ports.Session, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}

	identity := res.Identity
	if r, err := domain.ParseRole(string(identity.Role)); err == nil {
		identity.Role = r
	}
	if identity.Email == "" {
		identity.Email = email
	}

	if err := sess.Login(ctx, identity, res.Token); err != nil {
		return domain.Identity{}, fmt.Errorf("store session: %w", err)
	}
	if res.Token == "" {
		s.log.Warn().Str("user_id", identity.ID.String()).Msg("backend issued no token, using placeholder credential")
	}
	return identity, nil
}

// Register creates the account. The caller signs in separately.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if in.Role == "" {
		in.Role = domain.RolePatient
	}
	role, err := domain.ParseRole(string(in.Role))
	if err != nil {
		return err
	}
	in.Role = role

	if err := s.backend.Register(ctx, in); err != nil {
		return err
	}
	s.log.Info().Str("email", in.Email).Str("role", string(in.Role)).Msg("account registered")
	return nil
}

// Logout clears sess. It never talks to the backend.
func (s *AuthService) Logout(ctx context.Context, sess ports.Session) error {
	return sess.Logout(ctx)
}
