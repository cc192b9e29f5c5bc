package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/authbridge/domain"
	"github.com/fieldops/authbridge/internal/identity"
)

// SessionClient establishes a session against the legacy service layer
// using fixed service credentials.
type SessionClient interface {
	Login(ctx context.Context) (*domain.ServiceSession, error)
}

// LoginService chains the identity provider, the authorization record
// store and the service layer into one login operation. Every stage is a
// hard gate: the first failure aborts the rest, and nothing is persisted
// on the way.
type LoginService struct {
	verifier identity.Verifier
	users    domain.UserRepository
	sessions SessionClient
	tokens   *TokenService
}

// NewLoginService creates a LoginService.
func NewLoginService(
	verifier identity.Verifier,
	users domain.UserRepository,
	sessions SessionClient,
	tokens *TokenService,
) *LoginService {
	return &LoginService{
		verifier: verifier,
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Login runs the full bridge: verify credentials, resolve the
// authorization record, check uid consistency and the admin flag, log in to
// the service layer, and issue the access token.
func (s *LoginService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	log.Debug().Str("email", email).Msg("Login attempt")

	principal, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Login: identity verification failed")
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Login: authorization record lookup failed")
		return nil, err
	}

	// The provider uid is ground truth; a record that disagrees belongs to
	// someone else and must not be used.
	if user.UID != principal.UID {
		log.Warn().Str("uid", principal.UID).Str("email", email).Msg("Login: uid mismatch between provider and record")
		return nil, domain.ErrIdentityMismatch
	}

	if !user.IsAdmin {
		log.Warn().Str("uid", principal.UID).Msg("Login: user is not an admin")
		return nil, domain.ErrNotAdmin
	}

	session, err := s.sessions.Login(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Login: service layer session failed")
		return nil, err
	}

	token, err := s.tokens.Issue(principal.UID, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Str("uid", principal.UID).Msg("Login: token issuance failed")
		return nil, err
	}

	log.Info().Str("uid", principal.UID).Msg("Login successful")
	return &domain.LoginResult{
		UID:       principal.UID,
		Email:     principal.Email,
		WorkerID:  user.WorkerID,
		FullName:  user.FullName,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		SessionID: session.SessionID,
	}, nil
}
