package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/services"
)

// EventHandler handles HTTP requests for the audit trail.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent returns the authenticated user's recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	events, err := h.service.GetRecentEvents(r.Context(), user.ID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
