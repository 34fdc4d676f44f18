package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/token"
)

func issueClaims(t *testing.T, username string, id int64, role domain.Role) *token.Claims {
	t.Helper()
	codec := newTestCodec(t)
	now := time.Now()
	issued, err := codec.Issue(username, id, role, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Parse(issued.Token, now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return claims
}

func TestIdentityResolver_NoClaims(t *testing.T) {
	r := NewIdentityResolver(newStubUserRepo(), false)
	if _, err := r.Resolve(context.Background(), nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestIdentityResolver_TrustsClaims(t *testing.T) {
	r := NewIdentityResolver(newStubUserRepo(), false)

	p, err := r.Resolve(context.Background(), issueClaims(t, "alice", 5, domain.RoleUser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != 5 || p.Username != "alice" || p.Role != domain.RoleUser {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestIdentityResolver_StrictRejectsDeletedUser(t *testing.T) {
	r := NewIdentityResolver(newStubUserRepo(), true)

	if _, err := r.Resolve(context.Background(), issueClaims(t, "ghost", 5, domain.RoleUser)); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestIdentityResolver_StrictUsesStoredIdentity(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{ID: 11, Username: "alice", Email: "alice@x.com", Role: domain.RoleUser})
	r := NewIdentityResolver(repo, true)

	p, err := r.Resolve(context.Background(), issueClaims(t, "alice", 5, domain.RoleAdmin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != 11 || p.Role != domain.RoleUser {
		t.Fatalf("expected stored identity to win, got %+v", p)
	}
}

func TestIdentityResolver_StrictStoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("timeout")
	r := NewIdentityResolver(repo, true)

	_, err := r.Resolve(context.Background(), issueClaims(t, "alice", 5, domain.RoleUser))
	if err == nil || errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
