package ports

import (
	"context"

	"github.com/eventhub/event-management/internal/core/domain"
)

// EventRepository persists events. Missing events return domain.ErrEventNotFound.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByCreatorID(ctx context.Context, creatorID int64) ([]*domain.Event, error)
	// FindByIDs returns the events whose IDs appear in ids; unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error)
}

// AttendeeRepository persists event registrations. Missing attendees return
// domain.ErrAttendeeNotFound.
type AttendeeRepository interface {
	// Create fails with domain.ErrAlreadyRegistered if the user already
	// attends the event.
	Create(ctx context.Context, attendee *domain.Attendee) (*domain.Attendee, error)
	FindByID(ctx context.Context, id int64) (*domain.Attendee, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID int64) (*domain.Attendee, error)
	FindByEventID(ctx context.Context, eventID int64) ([]*domain.Attendee, error)
	FindByUserID(ctx context.Context, userID int64) ([]*domain.Attendee, error)
	Delete(ctx context.Context, id int64) error
	DeleteByEventID(ctx context.Context, eventID int64) error
}

// AuditRepository stores the security audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, record domain.AuditRecord) error
}
