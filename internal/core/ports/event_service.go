package ports

import (
	"context"
	"time"

	"github.com/eventhub/event-management/internal/core/domain"
)

// EventInput is the DTO passed from the transport layer for create and update.
type EventInput struct {
	Title       string
	Description string
	Location    string
	EventDate   time.Time
	Capacity    int
}

// EventService implements event use cases on behalf of an authenticated caller.
type EventService interface {
	Create(ctx context.Context, caller domain.Principal, in EventInput) (*domain.Event, error)
	Update(ctx context.Context, caller domain.Principal, id int64, in EventInput) (*domain.Event, error)
	Delete(ctx context.Context, caller domain.Principal, id int64) error
	Get(ctx context.Context, caller domain.Principal, id int64) (*domain.Event, error)
	List(ctx context.Context, caller domain.Principal) ([]*domain.Event, error)
	ListByCreator(ctx context.Context, caller domain.Principal, creatorID int64) ([]*domain.Event, error)
	ListRegistered(ctx context.Context, caller domain.Principal) ([]*domain.Event, error)
}

// AttendeeService implements event registration use cases.
type AttendeeService interface {
	Register(ctx context.Context, caller domain.Principal, eventID int64) (*domain.Attendee, error)
	Cancel(ctx context.Context, caller domain.Principal, attendeeID int64) error
	ListByEvent(ctx context.Context, caller domain.Principal, eventID int64) ([]*domain.Attendee, error)
}
