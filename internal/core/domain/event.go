package domain

import "time"

// Event is something users can attend. CreatorID is the owner used by the
// update authorization check.
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	EventDate       time.Time `json:"event_date"`
	Capacity        int       `json:"capacity"`
	CreatorID       int64     `json:"creator_id"`
	CreatorUsername string    `json:"creator_username"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Attendee links a user to an event they registered for. The (UserID,
// EventID) pair is unique.
type Attendee struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	CreatedAt  time.Time `json:"created_at"`
}
