package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, issued, err := svc.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, first, err := svc.Issue(1)
	require.NoError(t, err)
	_, second, err := svc.Issue(1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenService("other-secret", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService("test-secret", time.Hour).Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewTokenService("s", 0).TTL())
}

func TestSessionStore_NilCacheNeverRevokes(t *testing.T) {
	store := NewSessionStore(nil)

	require.NoError(t, store.Revoke(context.Background(), "abc", time.Minute))
	revoked, err := store.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}
