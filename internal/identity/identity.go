package identity

import (
	"context"

	"github.com/fieldops/authbridge/domain"
)

// Verifier turns end-user credentials into a verified principal. Password
// policy is fully delegated to the identity provider; the bridge performs
// no local checks beyond non-emptiness.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*domain.Principal, error)
}
