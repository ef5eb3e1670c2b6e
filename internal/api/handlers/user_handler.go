package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/services"
	"github.com/andklim/contacts-be/internal/upload"
)

// maxAvatarSize caps avatar uploads at 10 MiB.
const maxAvatarSize = 10 << 20

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	users   services.UserServiceProvider
	avatars upload.AvatarStoreProvider
	authn   *auth.Authenticator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, avatars upload.AvatarStoreProvider, authn *auth.Authenticator) *UserHandler {
	return &UserHandler{users: users, avatars: avatars, authn: authn}
}

// Me returns the currently authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from context")
		http.Error(w, "could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateAvatar accepts a multipart file upload, stores it in object storage
// and records the resulting URL on the user.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeBadRequest(w, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.avatars.Upload(r.Context(), file, header.Header.Get("Content-Type"), user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to upload avatar")
		writeError(w, err)
		return
	}

	updated, err := h.users.UpdateAvatar(r.Context(), user.Email, url)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to update avatar URL")
		writeError(w, err)
		return
	}
	h.authn.InvalidateUser(r.Context(), user.Username)

	writeJSON(w, http.StatusOK, updated)
}
