package services

import (
	"strings"

	"github.com/andklim/contacts-be/internal/apperr"
)

// translateUnique is the single error-translation boundary wrapped around
// every mutating statement. SQLite surfaces uniqueness violations as
// "UNIQUE constraint failed: <columns>" errors; this maps each constraint to
// its domain Conflict so raw driver errors never reach the HTTP layer.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "users.email"):
		return apperr.New(apperr.CodeEmailExists, "user with this email already exists")
	case strings.Contains(msg, "users.username"):
		return apperr.New(apperr.CodeUsernameExists, "user with this username already exists")
	case strings.Contains(msg, "contacts.user_id") && strings.Contains(msg, "contacts.email"):
		return apperr.New(apperr.CodeContactEmailExists, "the contact with this email already exists")
	default:
		return apperr.New(apperr.CodeIntegrity, "the integrity error occurred")
	}
}
