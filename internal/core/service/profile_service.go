package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

type ProfileService struct {
	backend ports.ProfileBackend
	log     zerolog.Logger
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(backend ports.ProfileBackend, log zerolog.Logger) *ProfileService {
	return &ProfileService{backend: backend, log: log}
}

func (s *ProfileService) Get(ctx context.Context) (*domain.Identity, error) {
	return s.backend.GetProfile(ctx)
}

// Update saves patch on the backend, then merges the same patch into the
// session identity so the portal reflects the change without a new login.
func (s *ProfileService) Update(ctx context.Context, sess ports.Session, patch domain.IdentityPatch) (domain.Identity, error) {
	if patch.Empty() {
		id, _ := sess.Identity()
		return id, nil
	}
	if patch.Role != nil {
		r, err := domain.ParseRole(string(*patch.Role))
		if err != nil {
			return domain.Identity{}, err
		}
		patch.Role = &r
	}

	if _, err := s.backend.UpdateProfile(ctx, patch); err != nil {
		return domain.Identity{}, err
	}

	merged, err := sess.UpdateIdentity(ctx, patch)
	if err != nil {
		return merged, fmt.Errorf("store profile: %w", err)
	}
	s.log.Info().Str("user_id", merged.ID.String()).Msg("profile updated")
	return merged, nil
}
