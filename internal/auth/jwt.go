package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andklim/contacts-be/internal/config"
)

// confirmationTTL is the fixed lifetime of email-confirmation tokens.
const confirmationTTL = 7 * 24 * time.Hour

// TokenService issues and validates the two JWT kinds used by the API:
// session tokens (subject = username) and email-confirmation tokens
// (subject = email). Both are signed with the same configured secret and
// algorithm.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	sessionTTL time.Duration
}

// NewTokenService builds a TokenService from configuration. The configured
// algorithm name must be a registered JWT signing method.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown JWT algorithm %q", cfg.JWTAlgorithm)
	}
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		method:     method,
		sessionTTL: time.Duration(cfg.JWTExpirationSeconds) * time.Second,
	}, nil
}

// IssueSessionToken creates a session token for a username. When ttl is
// omitted the configured default lifetime applies.
func (s *TokenService) IssueSessionToken(username string, ttl ...time.Duration) (string, error) {
	lifetime := s.sessionTTL
	if len(ttl) > 0 {
		lifetime = ttl[0]
	}
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// IssueConfirmationToken creates an email-confirmation token with a fixed
// 7-day lifetime. Replay before expiry re-confirms idempotently.
func (s *TokenService) IssueConfirmationToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(confirmationTTL)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify parses a token and returns its subject claim. It fails when the
// signature is invalid, the signing algorithm differs from the configured
// one, or the token has expired.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
