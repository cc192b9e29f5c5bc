package services

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidKeyID     = errors.New("invalid key id")
	ErrUnexpectedMethod = errors.New("unexpected signing method")
)

// TokenSigner signs and verifies tokens with named HMAC keys. The default
// key is the operator-provided secret; there is deliberately no built-in
// fallback key.
type TokenSigner struct {
	keys map[string][]byte
}

// NewTokenSigner creates an empty signer. AddKeySigner must be called with
// at least one secret before Sign can succeed.
func NewTokenSigner() *TokenSigner {
	return &TokenSigner{
		keys: make(map[string][]byte),
	}
}

// AddKeySigner registers secret as the default signing key.
func (s *TokenSigner) AddKeySigner(secret string) {
	s.keys["default"] = []byte(secret)
}

// Sign signs claims with the named key, or the default key when keyID is
// empty.
func (s *TokenSigner) Sign(claims jwt.Claims, keyID string) (string, error) {
	if keyID == "" {
		keyID = "default"
	}
	secret, ok := s.keys[keyID]
	if !ok {
		return "", ErrInvalidKeyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Keyfunc resolves the verification key for jwt.Parse, rejecting any token
// not signed with HMAC.
func (s *TokenSigner) Keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedMethod, token.Header["alg"])
	}
	secret, ok := s.keys["default"]
	if !ok {
		return nil, ErrInvalidKeyID
	}
	return secret, nil
}
