package ports

import (
	"context"
	"time"

	"github.com/eventhub/event-management/internal/core/domain"
)

// RegisterInput carries the fields shared by every account-creation path.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries credentials plus the client address used for rate limiting.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	RegisterAdmin(ctx context.Context, caller domain.Principal, in RegisterInput) (*domain.User, error)
}

// BootstrapService creates the very first admin account.
type BootstrapService interface {
	RegisterFirstAdmin(ctx context.Context, candidateToken string, in RegisterInput) (*domain.User, error)
}
