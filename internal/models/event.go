package models

import "time"

// Event represents a loggable action in the system's audit trail.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "auth.register", "contact.create"
	Level     string    `json:"level"` // e.g. "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *int64    `json:"userId,omitempty"` // Nullable for anonymous events
	CreatedAt time.Time `json:"createdAt"`
}
