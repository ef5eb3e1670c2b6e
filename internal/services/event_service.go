package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andklim/contacts-be/internal/models"
)

// EventServiceProvider defines the interface for the audit-trail service.
type EventServiceProvider interface {
	RecordEvent(ctx context.Context, eventType, level, message string, userID *int64)
	GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error)
}

// EventService records auth and contact activity to the events table.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// RecordEvent logs a new event. Audit writes are best-effort: a failure is
// logged and never propagated to the request that triggered it.
func (s *EventService) RecordEvent(ctx context.Context, eventType, level, message string, userID *int64) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), eventType, level, message, userID)
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

// GetRecentEvents retrieves the most recent events recorded for one user.
// Event messages embed usernames, so the listing is owner-scoped like every
// other read.
func (s *EventService) GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, user_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
