package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
)

type attendeeFixture struct {
	users     *stubUserRepo
	events    *stubEventRepo
	attendees *stubAttendeeRepo
	audit     *recordingAudit
	svc       ports.AttendeeService
}

func newAttendeeFixture() *attendeeFixture {
	f := &attendeeFixture{
		users:     newStubUserRepo(),
		events:    seededEvents(),
		attendees: newStubAttendeeRepo(),
		audit:     &recordingAudit{},
	}
	f.users.seed(&domain.User{ID: creator.UserID, Username: creator.Username, Email: "carol@x.com", Role: domain.RoleUser})
	f.users.seed(&domain.User{ID: stranger.UserID, Username: stranger.Username, Email: "sam@x.com", Role: domain.RoleUser})
	f.svc = NewAttendeeService(f.users, f.events, f.attendees, f.audit, zerolog.Nop())
	return f
}

func TestAttendeeService_Register(t *testing.T) {
	f := newAttendeeFixture()
	ctx := context.Background()

	a, err := f.svc.Register(ctx, stranger, 1)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if a.UserID != stranger.UserID || a.Username != stranger.Username || a.EventID != 1 || a.EventTitle != "Go Meetup" {
		t.Fatalf("unexpected attendee: %+v", a)
	}

	if _, err := f.svc.Register(ctx, stranger, 1); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestAttendeeService_Register_MissingResources(t *testing.T) {
	f := newAttendeeFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, stranger, 77); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

}

func TestAttendeeService_Register_DeletedCaller(t *testing.T) {
	f := newAttendeeFixture()

	ghost := domain.Principal{UserID: 42, Username: "ghost", Role: domain.RoleUser}
	_, err := f.svc.Register(context.Background(), ghost, 1)
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted caller must not surface as a missing user: %v", err)
	}
	if len(f.attendees.byID) != 0 {
		t.Fatalf("expected no registration to be stored")
	}
}

func TestAttendeeService_Cancel_AnyMemberMayCancel(t *testing.T) {
	f := newAttendeeFixture()
	ctx := context.Background()

	a, err := f.svc.Register(ctx, stranger, 1)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := f.svc.Cancel(ctx, creator, a.ID); err != nil {
		t.Fatalf("expected cross-user cancel to succeed, got %v", err)
	}
	if len(f.attendees.byID) != 0 {
		t.Fatalf("expected registration removed")
	}
	if got := f.audit.last(); got.Action != domain.AuditCancelAttendee || got.UserID != creator.UserID {
		t.Fatalf("unexpected audit record: %+v", got)
	}

	if err := f.svc.Cancel(ctx, creator, a.ID); !errors.Is(err, domain.ErrAttendeeNotFound) {
		t.Fatalf("expected ErrAttendeeNotFound, got %v", err)
	}
}

func TestAttendeeService_ListByEvent(t *testing.T) {
	f := newAttendeeFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, stranger, 1); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := f.svc.Register(ctx, creator, 1); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	list, err := f.svc.ListByEvent(ctx, stranger, 1)
	if err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(list))
	}

	empty, err := f.svc.ListByEvent(ctx, stranger, 2)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no attendees for event 2, got %d, err %v", len(empty), err)
	}
}
