package ports

import (
	"context"

	"github.com/medportal/portal/internal/core/domain"
)

// Session is the per-browser session the services read and mutate.
// session.Store implements it.
type Session interface {
	Login(ctx context.Context, identity domain.Identity, credential string) error
	Logout(ctx context.Context) error
	UpdateIdentity(ctx context.Context, patch domain.IdentityPatch) (domain.Identity, error)
	Identity() (domain.Identity, bool)
}
