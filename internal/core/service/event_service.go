package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/policy"
	"github.com/eventhub/event-management/internal/core/ports"
)

type eventService struct {
	events    ports.EventRepository
	attendees ports.AttendeeRepository
	audit     AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

// NewEventService returns an EventService implementation.
func NewEventService(
	events ports.EventRepository,
	attendees ports.AttendeeRepository,
	audit AuditRecorder,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		events:    events,
		attendees: attendees,
		audit:     orNopAudit(audit),
		log:       log,
		now:       time.Now,
	}
}

// Create stores a new event owned by the caller.
func (s *eventService) Create(ctx context.Context, caller domain.Principal, in ports.EventInput) (*domain.Event, error) {
	if err := policy.CanCreateEvent(caller.Role); err != nil {
		return nil, err
	}
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &domain.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Location:        in.Location,
		EventDate:       in.EventDate.UTC(),
		Capacity:        in.Capacity,
		CreatorID:       caller.UserID,
		CreatorUsername: caller.Username,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info().Int64("event_id", created.ID).Int64("creator_id", caller.UserID).Msg("event created")
	return created, nil
}

// Update replaces the mutable fields of an event. Only its creator or an
// admin may do so; a missing event is reported before the ownership check.
func (s *eventService) Update(ctx context.Context, caller domain.Principal, id int64, in ports.EventInput) (*domain.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := policy.CanUpdateEvent(caller.UserID, caller.Role, event.CreatorID); err != nil {
		s.log.Warn().
			Int64("event_id", id).
			Int64("caller_id", caller.UserID).
			Int64("creator_id", event.CreatorID).
			Msg("event update denied")
		s.recordDecision(domain.AuditUpdateEvent, domain.OutcomeDenied, caller, id)
		return nil, err
	}

	event.Title = strings.TrimSpace(in.Title)
	event.Description = in.Description
	event.Location = in.Location
	event.EventDate = in.EventDate.UTC()
	event.Capacity = in.Capacity
	event.UpdatedAt = s.now().UTC()

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.recordDecision(domain.AuditUpdateEvent, domain.OutcomeSuccess, caller, id)
	return updated, nil
}

// Delete removes an event and its registrations. Admin only.
func (s *eventService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	if err := policy.CanDeleteEvent(caller.Role); err != nil {
		s.recordDecision(domain.AuditDeleteEvent, domain.OutcomeDenied, caller, id)
		return err
	}

	if _, err := s.events.FindByID(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := s.attendees.DeleteByEventID(ctx, id); err != nil {
		return fmt.Errorf("delete event attendees: %w", err)
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.log.Info().Int64("event_id", id).Str("deleted_by", caller.Username).Msg("event deleted")
	s.recordDecision(domain.AuditDeleteEvent, domain.OutcomeSuccess, caller, id)
	return nil
}

func (s *eventService) Get(ctx context.Context, caller domain.Principal, id int64) (*domain.Event, error) {
	if err := policy.CanViewEvents(caller.Role); err != nil {
		return nil, err
	}
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, caller domain.Principal) ([]*domain.Event, error) {
	if err := policy.CanViewEvents(caller.Role); err != nil {
		return nil, err
	}
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListByCreator(ctx context.Context, caller domain.Principal, creatorID int64) ([]*domain.Event, error) {
	if err := policy.CanViewEvents(caller.Role); err != nil {
		return nil, err
	}
	events, err := s.events.FindByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return events, nil
}

// ListRegistered returns the events the caller is registered for.
func (s *eventService) ListRegistered(ctx context.Context, caller domain.Principal) ([]*domain.Event, error) {
	if err := policy.CanViewEvents(caller.Role); err != nil {
		return nil, err
	}

	registrations, err := s.attendees.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	if len(registrations) == 0 {
		return []*domain.Event{}, nil
	}

	ids := make([]int64, 0, len(registrations))
	for _, a := range registrations {
		ids = append(ids, a.EventID)
	}

	events, err := s.events.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return events, nil
}

func (s *eventService) recordDecision(action domain.AuditAction, outcome domain.AuditOutcome, caller domain.Principal, eventID int64) {
	s.audit.Enqueue(domain.AuditRecord{
		Action:   action,
		Outcome:  outcome,
		Username: caller.Username,
		UserID:   caller.UserID,
		Detail:   fmt.Sprintf("event_id=%d", eventID),
		At:       s.now(),
	})
}

func validateEventInput(in ports.EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
