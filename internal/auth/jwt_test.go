package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andklim/contacts-be/internal/config"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(&config.Config{
		JWTSecret:            "test-secret",
		JWTAlgorithm:         "HS256",
		JWTExpirationSeconds: 3600,
	})
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(&config.Config{JWTSecret: "s", JWTAlgorithm: "HS257"})
	require.Error(t, err)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	token, err := svc.IssueSessionToken("alice")
	require.NoError(t, err)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestSessionToken_Expired(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	token, err := svc.IssueSessionToken("alice", -time.Second)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	other, err := NewTokenService(&config.Config{
		JWTSecret:            "different-secret",
		JWTAlgorithm:         "HS256",
		JWTExpirationSeconds: 3600,
	})
	require.NoError(t, err)

	token, err := other.IssueSessionToken("alice")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	// Same secret, different signing method: must be rejected.
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
}

func TestConfirmationToken_Claims(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	token, err := svc.IssueConfirmationToken("alice@example.com")
	require.NoError(t, err)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	// The confirmation token carries issued-at and a 7-day expiry.
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}
