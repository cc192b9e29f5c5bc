package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService() *TokenService {
	signer := NewTokenSigner()
	signer.AddKeySigner(testSecret)
	return NewTokenService(signer, "authbridge-test")
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := newTestTokenService()

	before := time.Now()
	token, err := svc.Issue("U1", true)
	require.NoError(t, err)
	require.NotNil(t, token)

	assert.Equal(t, "U1", token.UID)
	assert.True(t, token.IsAdmin)
	assert.WithinDuration(t, token.IssuedAt.Add(AccessTokenTTL), token.ExpiresAt, time.Second)
	assert.WithinDuration(t, before.Add(AccessTokenTTL), token.ExpiresAt, 2*time.Second)

	claims, err := svc.Parse(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "U1", claims.Subject)
	assert.True(t, claims.Admin)
	assert.Equal(t, "authbridge-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenService_SuccessiveTokensDistinct(t *testing.T) {
	svc := newTestTokenService()

	first, err := svc.Issue("U1", true)
	require.NoError(t, err)
	second, err := svc.Issue("U1", true)
	require.NoError(t, err)

	assert.NotEqual(t, first.Value, second.Value)

	firstClaims, err := svc.Parse(first.Value)
	require.NoError(t, err)
	secondClaims, err := svc.Parse(second.Value)
	require.NoError(t, err)

	// Same claim set, different token identity.
	assert.Equal(t, firstClaims.Subject, secondClaims.Subject)
	assert.Equal(t, firstClaims.Admin, secondClaims.Admin)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestTokenService_ParseRejectsTampering(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("U1", false)
	require.NoError(t, err)

	tampered := token.Value[:len(token.Value)-2] + "xx"
	_, err = svc.Parse(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ParseRejectsWrongKey(t *testing.T) {
	svc := newTestTokenService()

	otherSigner := NewTokenSigner()
	otherSigner.AddKeySigner("another-secret-another-secret-32")
	other := NewTokenService(otherSigner, "authbridge-test")

	token, err := other.Issue("U1", true)
	require.NoError(t, err)

	_, err = svc.Parse(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ParseRejectsExpired(t *testing.T) {
	signer := NewTokenSigner()
	signer.AddKeySigner(testSecret)
	svc := NewTokenService(signer, "authbridge-test")

	expired := AccessTokenClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "authbridge-test",
			Subject:   "U1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Minute)),
		},
	}
	value, err := signer.Sign(expired, "")
	require.NoError(t, err)

	_, err = svc.Parse(value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSigner_NoKeyConfigured(t *testing.T) {
	signer := NewTokenSigner()

	_, err := signer.Sign(jwt.MapClaims{"sub": "U1"}, "")
	assert.ErrorIs(t, err, ErrInvalidKeyID)
}
