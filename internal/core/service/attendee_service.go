package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/policy"
	"github.com/eventhub/event-management/internal/core/ports"
)

type attendeeService struct {
	users     ports.UserRepository
	events    ports.EventRepository
	attendees ports.AttendeeRepository
	audit     AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

// NewAttendeeService returns an AttendeeService implementation.
func NewAttendeeService(
	users ports.UserRepository,
	events ports.EventRepository,
	attendees ports.AttendeeRepository,
	audit AuditRecorder,
	log zerolog.Logger,
) ports.AttendeeService {
	return &attendeeService{
		users:     users,
		events:    events,
		attendees: attendees,
		audit:     orNopAudit(audit),
		log:       log,
		now:       time.Now,
	}
}

// Register signs the caller up for eventID.
func (s *attendeeService) Register(ctx context.Context, caller domain.Principal, eventID int64) (*domain.Attendee, error) {
	if err := policy.CanRegisterForEvent(caller.Role); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		// The token outlived the account.
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("register attendee: %w", err)
	}
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("register attendee: %w", err)
	}

	_, err = s.attendees.FindByUserAndEvent(ctx, user.ID, event.ID)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyRegistered
	case !errors.Is(err, domain.ErrAttendeeNotFound):
		return nil, fmt.Errorf("register attendee: %w", err)
	}

	created, err := s.attendees.Create(ctx, &domain.Attendee{
		UserID:     user.ID,
		Username:   user.Username,
		EventID:    event.ID,
		EventTitle: event.Title,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("register attendee: %w", err)
	}

	s.log.Info().Int64("attendee_id", created.ID).Int64("user_id", user.ID).Int64("event_id", event.ID).Msg("attendee registered")
	return created, nil
}

// Cancel deletes a registration. Ownership is not enforced: any member may
// cancel any registration. Cross-user cancellations are logged and audited.
func (s *attendeeService) Cancel(ctx context.Context, caller domain.Principal, attendeeID int64) error {
	if err := policy.CanCancelRegistration(caller.Role); err != nil {
		return err
	}

	attendee, err := s.attendees.FindByID(ctx, attendeeID)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}

	if attendee.UserID != caller.UserID && !caller.IsAdmin() {
		s.log.Debug().
			Int64("attendee_id", attendeeID).
			Int64("owner_id", attendee.UserID).
			Int64("caller_id", caller.UserID).
			Msg("registration cancelled by another user")
	}

	if err := s.attendees.Delete(ctx, attendeeID); err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}

	s.audit.Enqueue(domain.AuditRecord{
		Action:   domain.AuditCancelAttendee,
		Outcome:  domain.OutcomeSuccess,
		Username: caller.Username,
		UserID:   caller.UserID,
		Detail:   fmt.Sprintf("attendee_id=%d owner_id=%d event_id=%d", attendee.ID, attendee.UserID, attendee.EventID),
		At:       s.now(),
	})
	return nil
}

func (s *attendeeService) ListByEvent(ctx context.Context, caller domain.Principal, eventID int64) ([]*domain.Attendee, error) {
	if err := policy.CanListAttendees(caller.Role); err != nil {
		return nil, err
	}
	attendees, err := s.attendees.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}
