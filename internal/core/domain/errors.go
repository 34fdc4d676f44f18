package domain

import "errors"

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Authorization and bootstrap
var (
	ErrForbidden              = errors.New("access forbidden")
	ErrInvalidBootstrapToken  = errors.New("invalid token for first admin registration")
	ErrAdminAlreadyRegistered = errors.New("first admin has already been registered")
)

// Resources
var (
	ErrUserExists        = errors.New("username or email is already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrAttendeeNotFound  = errors.New("attendee not found")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrInvalidInput      = errors.New("invalid input")
)
