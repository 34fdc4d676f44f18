package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
)

// BootstrapService gates creation of the first admin behind a shared secret.
// Once any admin exists the gate stays closed for good.
type BootstrapService struct {
	users  ports.UserRepository
	hasher PasswordHasher
	secret string
	audit  AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

// NewBootstrapService returns a BootstrapService. An empty secret disables
// bootstrap entirely.
func NewBootstrapService(
	users ports.UserRepository,
	hasher PasswordHasher,
	secret string,
	audit AuditRecorder,
	log zerolog.Logger,
) *BootstrapService {
	return &BootstrapService{
		users:  users,
		hasher: hasher,
		secret: secret,
		audit:  orNopAudit(audit),
		log:    log,
		now:    time.Now,
	}
}

// RegisterFirstAdmin creates the bootstrap admin when candidateToken matches
// the configured secret and no admin exists yet.
func (s *BootstrapService) RegisterFirstAdmin(ctx context.Context, candidateToken string, in ports.RegisterInput) (*domain.User, error) {
	if !s.tokenMatches(candidateToken) {
		s.record(in.Username, 0, domain.OutcomeDenied, "invalid bootstrap token")
		return nil, domain.ErrInvalidBootstrapToken
	}

	exists, err := s.users.ExistsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("register first admin: %w", err)
	}
	if exists {
		s.record(in.Username, 0, domain.OutcomeDenied, "admin already exists")
		return nil, domain.ErrAdminAlreadyRegistered
	}

	admin, err := newAccount(s.hasher, in, domain.RoleAdmin, s.now())
	if err != nil {
		return nil, err
	}

	created, err := s.users.CreateFirstAdmin(ctx, admin)
	if err != nil {
		if errors.Is(err, domain.ErrAdminAlreadyRegistered) || errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register first admin: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("first admin registered")
	s.record(created.Username, created.ID, domain.OutcomeSuccess, "")
	return created, nil
}

func (s *BootstrapService) tokenMatches(candidate string) bool {
	if s.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.secret)) == 1
}

func (s *BootstrapService) record(username string, userID int64, outcome domain.AuditOutcome, detail string) {
	s.audit.Enqueue(domain.AuditRecord{
		Action: domain.AuditBootstrapAdmin, Outcome: outcome,
		Username: username, UserID: userID, Detail: detail, At: s.now(),
	})
}
