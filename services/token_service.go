package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fieldops/authbridge/domain"
)

// AccessTokenTTL is fixed at thirty minutes; there is no refresh mechanism.
const AccessTokenTTL = 30 * time.Minute

var ErrInvalidToken = errors.New("invalid or expired token")

// AccessTokenClaims are the claims embedded in every issued access token.
type AccessTokenClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the bridge's stateless access tokens.
type TokenService struct {
	signer *TokenSigner
	issuer string
}

// NewTokenService creates a TokenService signing with signer's default key.
func NewTokenService(signer *TokenSigner, issuer string) *TokenService {
	return &TokenService{
		signer: signer,
		issuer: issuer,
	}
}

// Issue creates a signed token for uid. Two tokens issued for the same uid
// carry identical claim sets apart from their timestamps and jti.
func (s *TokenService) Issue(uid string, isAdmin bool) (*domain.Token, error) {
	now := time.Now()
	expiresAt := now.Add(AccessTokenTTL)

	claims := AccessTokenClaims{
		Admin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	value, err := s.signer.Sign(claims, "")
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &domain.Token{
		Value:     value,
		UID:       uid,
		IsAdmin:   isAdmin,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse validates a token's signature and expiry and returns its claims.
func (s *TokenService) Parse(value string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(value, claims, s.signer.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
