package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/messenger-auth/internal/database"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
	GetUserEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
	PruneEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// EventService records credential activity in the events table.
type EventService struct {
	db     *sql.DB
	driver string
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, driver string) *EventService {
	return &EventService{db: db, driver: driver}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		database.Rebind(s.driver, "INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt)
	return err
}

// GetUserEvents retrieves the most recent events recorded for one user.
func (s *EventService) GetUserEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	return s.query(ctx,
		"SELECT id, type, level, message, user_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
}

func (s *EventService) query(ctx context.Context, q string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, database.Rebind(s.driver, q), args...)
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

// PruneEvents deletes events created before olderThan and returns how many went.
func (s *EventService) PruneEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, database.Rebind(s.driver, "DELETE FROM events WHERE created_at < ?"), olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// recordEvent writes an audit event. Failures are logged and never fail the
// operation being audited.
func recordEvent(ctx context.Context, events EventServiceProvider, eventType, level, message string, userID *string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
