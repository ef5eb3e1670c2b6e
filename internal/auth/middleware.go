package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/apperr"
	"github.com/andklim/contacts-be/internal/cache"
	"github.com/andklim/contacts-be/internal/models"
)

// UserSource is the user lookup the authenticator needs; satisfied by
// services.UserService.
type UserSource interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("currentUser")

// Authenticator resolves bearer tokens to user records. Resolution failures
// are deliberately indistinguishable: an invalid or expired token and a
// token for a user that no longer exists both yield the same error.
type Authenticator struct {
	tokens   *TokenService
	users    UserSource
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewAuthenticator creates an Authenticator. The cache is consulted before
// the user directory and is best-effort.
func NewAuthenticator(tokens *TokenService, users UserSource, c cache.Cache, cacheTTL time.Duration) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, cache: c, cacheTTL: cacheTTL}
}

// ResolveUser verifies a session token and loads the user it speaks for.
func (a *Authenticator) ResolveUser(ctx context.Context, tokenStr string) (models.User, error) {
	unauthorized := apperr.New(apperr.CodeUnauthorized, "could not validate credentials")

	username, err := a.tokens.Verify(tokenStr)
	if err != nil || username == "" {
		return models.User{}, unauthorized
	}

	if cached, ok := a.cache.Get(ctx, userCacheKey(username)); ok {
		var user models.User
		if err := json.Unmarshal(cached, &user); err == nil {
			return user, nil
		}
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, unauthorized
	}

	if encoded, err := json.Marshal(user); err == nil {
		a.cache.Set(ctx, userCacheKey(username), encoded, a.cacheTTL)
	}
	return user, nil
}

// InvalidateUser drops a user's cached record after a mutation.
func (a *Authenticator) InvalidateUser(ctx context.Context, username string) {
	a.cache.Delete(ctx, userCacheKey(username))
}

// Middleware protects routes by requiring a valid bearer token and placing
// the resolved user in the request context.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeUnauthorized(w, "missing auth token")
				return
			}

			user, err := a.ResolveUser(r.Context(), tokenStr)
			if err != nil {
				log.Warn().Str("path", r.URL.Path).Msg("Rejected request with invalid token")
				writeUnauthorized(w, apperr.Message(err))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by the middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   apperr.CodeUnauthorized,
		"message": message,
	})
}

func userCacheKey(username string) string {
	return "user:" + username
}
