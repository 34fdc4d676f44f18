package handler

import (
	"time"

	"github.com/eventhub/event-management/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type principalResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// --- Events ---

type eventRequest struct {
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location"    validate:"max=200"`
	EventDate   time.Time `json:"event_date"  validate:"required"`
	Capacity    int       `json:"capacity"    validate:"gte=0"`
}

type eventResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location,omitempty"`
	EventDate       time.Time `json:"event_date"`
	Capacity        int       `json:"capacity"`
	CreatorID       int64     `json:"creator_id"`
	CreatorUsername string    `json:"creator_username"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type attendeeResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		EventDate:       e.EventDate,
		Capacity:        e.Capacity,
		CreatorID:       e.CreatorID,
		CreatorUsername: e.CreatorUsername,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toEventResponses(events []*domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toAttendeeResponse(a *domain.Attendee) attendeeResponse {
	return attendeeResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Username:   a.Username,
		EventID:    a.EventID,
		EventTitle: a.EventTitle,
		CreatedAt:  a.CreatedAt,
	}
}

func toAttendeeResponses(attendees []*domain.Attendee) []attendeeResponse {
	out := make([]attendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, toAttendeeResponse(a))
	}
	return out
}
