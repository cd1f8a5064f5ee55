package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "nutritrack/internal/errors"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	token, err := svc.GenerateAccessToken("alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateAccessToken("alice")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", 15*time.Minute)
	verifier := NewJWTService("secret-b", 15*time.Minute)

	token, err := issuer.GenerateAccessToken("alice")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_DevToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	token, err := svc.GenerateDevToken()
	assert.NoError(t, err)

	// The dev token has no expiry claim and validates like any signed token.
	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, DevSubject, claims.Subject)
	assert.Nil(t, claims.ExpiresAt)

	assert.True(t, svc.IsDevToken(token))
}

func TestJWTService_IsDevToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)
	other := NewJWTService("other-secret", 15*time.Minute)

	devToken, err := svc.GenerateDevToken()
	assert.NoError(t, err)
	normalToken, err := svc.GenerateAccessToken("alice")
	assert.NoError(t, err)
	foreignDevToken, err := other.GenerateDevToken()
	assert.NoError(t, err)

	assert.True(t, svc.IsDevToken(devToken))
	assert.False(t, svc.IsDevToken(normalToken))
	// Signature must verify even though claim validation is skipped.
	assert.False(t, svc.IsDevToken(foreignDevToken))
	assert.False(t, svc.IsDevToken("not-a-jwt"))
}

func TestJWTService_IsDevToken_IgnoresExpiry(t *testing.T) {
	// Even a service issuing already-expired access tokens recognizes its
	// dev token, which carries no expiry claim at all.
	svc := NewJWTService("test-secret", -time.Hour)

	devToken, err := svc.GenerateDevToken()
	assert.NoError(t, err)
	assert.True(t, svc.IsDevToken(devToken))

	_, err = svc.ValidateToken(devToken)
	assert.NoError(t, err)
}
