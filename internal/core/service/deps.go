package service

import (
	"context"
	"time"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/token"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(subject string, userID int64, role domain.Role, now time.Time) (token.Issued, error)
}

// LoginLimiter throttles repeated login failures per (username, client).
type LoginLimiter interface {
	// Allow reports whether a login attempt may proceed and, if not, for how long.
	Allow(ctx context.Context, username, clientIP string) (bool, time.Duration, error)
	// Failure records a failed attempt and reports whether the pair is now blocked.
	Failure(ctx context.Context, username, clientIP string) (bool, time.Duration, error)
	// Success clears the failure history.
	Success(ctx context.Context, username, clientIP string) error
}

// AuditRecorder accepts security audit records for asynchronous persistence.
type AuditRecorder interface {
	Enqueue(record domain.AuditRecord)
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string, string) (bool, time.Duration, error) {
	return true, 0, nil
}

func (nopLimiter) Failure(context.Context, string, string) (bool, time.Duration, error) {
	return false, 0, nil
}

func (nopLimiter) Success(context.Context, string, string) error { return nil }

type nopAudit struct{}

func (nopAudit) Enqueue(domain.AuditRecord) {}

func orNopLimiter(l LoginLimiter) LoginLimiter {
	if l == nil {
		return nopLimiter{}
	}
	return l
}

func orNopAudit(a AuditRecorder) AuditRecorder {
	if a == nil {
		return nopAudit{}
	}
	return a
}
