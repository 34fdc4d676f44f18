package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
	"github.com/eventhub/event-management/internal/core/token"
)

// IdentityResolver turns verified token claims into the request principal.
//
// By default the signed claims are trusted as-is. In strict mode the user is
// looked up again so that deleted accounts are rejected and the stored role
// wins over the one embedded at issue time.
type IdentityResolver struct {
	users  ports.UserRepository
	strict bool
}

func NewIdentityResolver(users ports.UserRepository, strict bool) *IdentityResolver {
	return &IdentityResolver{users: users, strict: strict}
}

func (r *IdentityResolver) Resolve(ctx context.Context, claims *token.Claims) (domain.Principal, error) {
	if claims == nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	p := domain.Principal{
		UserID:   claims.UserID,
		Username: claims.Username(),
		Role:     claims.Role,
	}
	if !r.strict {
		return p, nil
	}

	user, err := r.users.FindByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Principal{}, domain.ErrIdentityNotFound
		}
		return domain.Principal{}, fmt.Errorf("resolve identity: %w", err)
	}

	return domain.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
