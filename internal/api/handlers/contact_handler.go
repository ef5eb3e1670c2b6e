package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/models"
	"github.com/andklim/contacts-be/internal/services"
)

// ContactHandler handles HTTP requests for the authenticated user's
// address book.
type ContactHandler struct {
	contacts services.ContactServiceProvider
	events   services.EventServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contacts services.ContactServiceProvider, events services.EventServiceProvider) *ContactHandler {
	return &ContactHandler{contacts: contacts, events: events}
}

// ContactPayload defines the structure for contact creation requests.
type ContactPayload struct {
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phoneNumber"`
	Birthday    *models.Date `json:"birthday"`
	ExtraInfo   string       `json:"extraInfo"`
}

// List returns the user's contacts with optional name/email filters.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	skip, limit := pagination(r, 0, 100)
	filter := models.ContactFilter{
		FirstName: r.URL.Query().Get("firstName"),
		LastName:  r.URL.Query().Get("lastName"),
		Email:     r.URL.Query().Get("email"),
	}

	contacts, err := h.contacts.GetContacts(r.Context(), user.ID, skip, limit, filter)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list contacts")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// seven days.
func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	skip, limit := pagination(r, 0, 10)

	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), user.ID, skip, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list upcoming birthdays")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Get returns a single contact by id.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, err := contactID(r)
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	contact, err := h.contacts.GetContactByID(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Create adds a new contact to the user's address book.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if payload.FirstName == "" || payload.LastName == "" || payload.Email == "" ||
		payload.PhoneNumber == "" || payload.Birthday == nil {
		writeBadRequest(w, "firstName, lastName, email, phoneNumber and birthday are required")
		return
	}

	contact, err := h.contacts.CreateContact(r.Context(), user.ID, models.Contact{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
		Birthday:    *payload.Birthday,
		ExtraInfo:   payload.ExtraInfo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.events.RecordEvent(r.Context(), "contact.create", "info",
		fmt.Sprintf("contact %d created", contact.ID), &user.ID)
	writeJSON(w, http.StatusCreated, contact)
}

// Update applies a partial update to a contact.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, err := contactID(r)
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	var update models.ContactUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	contact, err := h.contacts.UpdateContact(r.Context(), user.ID, id, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Delete removes a contact and returns its prior value.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, err := contactID(r)
	if err != nil {
		writeBadRequest(w, "invalid contact id")
		return
	}

	contact, err := h.contacts.RemoveContact(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.events.RecordEvent(r.Context(), "contact.delete", "info",
		fmt.Sprintf("contact %d deleted", contact.ID), &user.ID)
	writeJSON(w, http.StatusOK, contact)
}

func contactID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pagination reads skip/limit query parameters with fallbacks.
func pagination(r *http.Request, defaultSkip, defaultLimit int) (int, int) {
	skip := defaultSkip
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		skip = v
	}
	limit := defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}
