package ports

import (
	"context"

	"github.com/eventhub/event-management/internal/core/domain"
)

// UserRepository is the credential store. Lookups that find nothing return
// domain.ErrUserNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	ExistsByRole(ctx context.Context, role domain.Role) (bool, error)

	// Create assigns an ID and persists user. A username or email collision
	// returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// CreateFirstAdmin persists the bootstrap admin. It must fail with
	// domain.ErrAdminAlreadyRegistered if a bootstrap admin was ever created,
	// even under concurrent callers.
	CreateFirstAdmin(ctx context.Context, user *domain.User) (*domain.User, error)
}
