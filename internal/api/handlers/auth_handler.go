package handlers

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/apperr"
	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/mail"
	"github.com/andklim/contacts-be/internal/services"
)

// AuthHandler orchestrates the register, login and email-confirmation flows.
type AuthHandler struct {
	users  services.UserServiceProvider
	events services.EventServiceProvider
	tokens *auth.TokenService
	authn  *auth.Authenticator
	mailer mail.Mailer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, events services.EventServiceProvider, tokens *auth.TokenService, authn *auth.Authenticator, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{users: users, events: events, tokens: tokens, authn: authn, mailer: mailer}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RequestEmailPayload carries the address for a confirmation-mail resend.
type RequestEmailPayload struct {
	Email string `json:"email"`
}

// Register handles new user registration. The email conflict is checked
// before the username conflict, and the confirmation mail is dispatched
// without blocking the response.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		writeBadRequest(w, "username, email and password are required")
		return
	}

	ctx := r.Context()
	if _, err := h.users.GetUserByEmail(ctx, payload.Email); err == nil {
		writeError(w, apperr.New(apperr.CodeEmailExists, "user with this email already exists"))
		return
	}
	if _, err := h.users.GetUserByUsername(ctx, payload.Username); err == nil {
		writeError(w, apperr.New(apperr.CodeUsernameExists, "user with this username already exists"))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		writeError(w, err)
		return
	}

	user, err := h.users.CreateUser(ctx, payload.Username, payload.Email, hash, gravatarURL(payload.Email))
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, err)
		return
	}

	h.sendConfirmation(user.Email, user.Username)
	h.events.RecordEvent(ctx, "auth.register", "info", "user registered: "+user.Username, &user.ID)

	writeJSON(w, http.StatusCreated, user)
}

// Login authenticates a user and issues a session token. Unknown usernames
// and wrong passwords share one message to avoid user enumeration.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetUserByUsername(ctx, payload.Username)
	if err != nil || !auth.VerifyPassword(payload.Password, user.PasswordHash) {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		writeError(w, apperr.New(apperr.CodeInvalidCredentials, "the username or password is incorrect"))
		return
	}
	if !user.Confirmed {
		writeError(w, apperr.New(apperr.CodeEmailNotConfirmed, "email is not confirmed"))
		return
	}

	token, err := h.tokens.IssueSessionToken(user.Username)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue session token")
		writeError(w, err)
		return
	}

	h.events.RecordEvent(ctx, "auth.login", "info", "user logged in: "+user.Username, &user.ID)

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// ConfirmedEmail validates an email-confirmation token and flips the
// confirmed flag. Replaying a still-valid token is idempotent.
func (h *AuthHandler) ConfirmedEmail(w http.ResponseWriter, r *http.Request) {
	tokenStr := chi.URLParam(r, "token")

	email, err := h.tokens.Verify(tokenStr)
	if err != nil || email == "" {
		writeError(w, apperr.New(apperr.CodeVerificationError, "verification error"))
		return
	}

	ctx := r.Context()
	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		writeError(w, apperr.New(apperr.CodeVerificationError, "verification error"))
		return
	}
	if user.Confirmed {
		writeMessage(w, "Your email has been already confirmed")
		return
	}

	if err := h.users.ConfirmEmail(ctx, email); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to confirm email")
		writeError(w, err)
		return
	}
	h.authn.InvalidateUser(ctx, user.Username)
	h.events.RecordEvent(ctx, "auth.confirm", "info", "email confirmed: "+user.Username, &user.ID)

	writeMessage(w, "Email confirmed successfully")
}

// RequestEmail resends the confirmation mail. The response is the same
// generic message whether or not the address belongs to a user.
func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var payload RequestEmailPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), payload.Email)
	if err == nil {
		if user.Confirmed {
			writeMessage(w, "Your email has been already confirmed")
			return
		}
		h.sendConfirmation(user.Email, user.Username)
	}

	writeMessage(w, "Check your email for confirmation link")
}

// sendConfirmation issues a confirmation token and dispatches the mail on a
// goroutine. Send failures are logged inside the mailer, never surfaced.
func (h *AuthHandler) sendConfirmation(email, username string) {
	token, err := h.tokens.IssueConfirmationToken(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to issue confirmation token")
		return
	}
	go h.mailer.SendConfirmation(email, username, token)
}

// gravatarURL derives the default avatar for a new account from the Gravatar
// address hash.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x", sum)
}
