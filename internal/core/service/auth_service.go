package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/policy"
	"github.com/eventhub/event-management/internal/core/ports"
)

// AuthService implements registration, admin creation and login.
type AuthService struct {
	users   ports.UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	limiter LoginLimiter
	audit   AuditRecorder
	log     zerolog.Logger
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires an AuthService. limiter and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	limiter LoginLimiter,
	audit AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: orNopLimiter(limiter),
		audit:   orNopAudit(audit),
		log:     log,
		now:     time.Now,
	}
}

// Register creates a USER account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := createAccount(ctx, s.users, s.hasher, in, domain.RoleUser, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	s.audit.Enqueue(domain.AuditRecord{
		Action: domain.AuditRegister, Outcome: domain.OutcomeSuccess,
		Username: user.Username, UserID: user.ID, At: s.now(),
	})
	return user, nil
}

// RegisterAdmin creates an additional ADMIN account. Only admins may call it.
func (s *AuthService) RegisterAdmin(ctx context.Context, caller domain.Principal, in ports.RegisterInput) (*domain.User, error) {
	if err := policy.CanRegisterAdmin(caller.Role); err != nil {
		s.audit.Enqueue(domain.AuditRecord{
			Action: domain.AuditRegisterAdmin, Outcome: domain.OutcomeDenied,
			Username: caller.Username, UserID: caller.UserID, Detail: in.Username, At: s.now(),
		})
		return nil, err
	}

	admin, err := createAccount(ctx, s.users, s.hasher, in, domain.RoleAdmin, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", admin.ID).
		Str("username", admin.Username).
		Str("created_by", caller.Username).
		Msg("admin registered")
	s.audit.Enqueue(domain.AuditRecord{
		Action: domain.AuditRegisterAdmin, Outcome: domain.OutcomeSuccess,
		Username: caller.Username, UserID: caller.UserID, Detail: admin.Username, At: s.now(),
	})
	return admin, nil
}

// Login verifies credentials and issues a bearer token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, _, err := s.limiter.Allow(ctx, in.Username, in.ClientIP)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("login limiter check failed, continuing")
	} else if !allowed {
		s.auditLogin(in.Username, 0, domain.OutcomeDenied, "rate limited")
		return nil, domain.ErrRateLimited
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err != nil {
		// Spend the same hashing work as a wrong password would.
		s.hasher.Verify(s.unknownUserHash(), in.Password)
		return nil, s.loginFailed(ctx, in)
	}
	if !s.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, s.loginFailed(ctx, in)
	}

	if err := s.limiter.Success(ctx, in.Username, in.ClientIP); err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to reset login limiter")
	}

	issued, err := s.tokens.Issue(user.Username, user.ID, user.Role, s.now())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
	s.auditLogin(user.Username, user.ID, domain.OutcomeSuccess, "")

	return &ports.LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, in ports.LoginInput) error {
	s.auditLogin(in.Username, 0, domain.OutcomeFailure, "invalid credentials")

	blocked, blockFor, err := s.limiter.Failure(ctx, in.Username, in.ClientIP)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to record login failure")
		return domain.ErrInvalidCredentials
	}
	if blocked {
		s.log.Warn().Str("username", in.Username).Dur("block_for", blockFor).Msg("login temporarily blocked")
		return domain.ErrRateLimited
	}
	return domain.ErrInvalidCredentials
}

func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-user-placeholder")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare placeholder hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) auditLogin(username string, userID int64, outcome domain.AuditOutcome, detail string) {
	s.audit.Enqueue(domain.AuditRecord{
		Action: domain.AuditLogin, Outcome: outcome,
		Username: username, UserID: userID, Detail: detail, At: s.now(),
	})
}

// createAccount validates in, rejects duplicates and persists a user with role.
func createAccount(
	ctx context.Context,
	users ports.UserRepository,
	hasher PasswordHasher,
	in ports.RegisterInput,
	role domain.Role,
	now time.Time,
) (*domain.User, error) {
	user, err := newAccount(hasher, in, role, now)
	if err != nil {
		return nil, err
	}

	exists, err := users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	created, err := users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

func newAccount(hasher PasswordHasher, in ports.RegisterInput, role domain.Role, now time.Time) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now.UTC(),
	}, nil
}
