package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-management/internal/core/domain"
)

var issuedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret", time.Hour, "events-test")
	require.NoError(t, err)
	return c
}

func TestNewCodec_RejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("", time.Hour, "")
	require.Error(t, err)
}

func TestNewCodec_Defaults(t *testing.T) {
	c, err := NewCodec("k", 0, "")
	require.NoError(t, err)
	assert.Equal(t, defaultTTL, c.TTL())
	assert.Equal(t, defaultIssuer, c.issuer)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		issued, err := c.Issue("alice", 42, role, issuedAt)
		require.NoError(t, err)
		assert.Equal(t, issuedAt.Add(time.Hour), issued.ExpiresAt)

		claims, err := c.Parse(issued.Token, issuedAt.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username())
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, role, claims.Role)
	}
}

func TestCodec_Issue_RejectsIncompleteIdentity(t *testing.T) {
	c := newTestCodec(t)

	cases := []struct {
		name    string
		subject string
		userID  int64
		role    domain.Role
	}{
		{"empty subject", "", 1, domain.RoleUser},
		{"zero id", "bob", 0, domain.RoleUser},
		{"unknown role", "bob", 1, domain.Role(9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Issue(tc.subject, tc.userID, tc.role, issuedAt)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCodec_Parse_ExpiryIsExclusive(t *testing.T) {
	c := newTestCodec(t)
	issued, err := c.Issue("alice", 1, domain.RoleUser, issuedAt)
	require.NoError(t, err)

	_, err = c.Parse(issued.Token, issued.ExpiresAt.Add(-time.Second))
	require.NoError(t, err)

	_, err = c.Parse(issued.Token, issued.ExpiresAt)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	_, err = c.Parse(issued.Token, issued.ExpiresAt.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestCodec_Parse_TamperedSignature(t *testing.T) {
	c := newTestCodec(t)
	issued, err := c.Issue("alice", 1, domain.RoleUser, issuedAt)
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for _, pos := range []int{0, len(sig) / 2} {
		tampered := append([]byte(nil), sig...)
		if tampered[pos] == 'A' {
			tampered[pos] = 'B'
		} else {
			tampered[pos] = 'A'
		}
		token := parts[0] + "." + parts[1] + "." + string(tampered)

		_, err := c.Parse(token, issuedAt)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "position %d", pos)
	}
}

func TestCodec_Parse_TamperedPayload(t *testing.T) {
	c := newTestCodec(t)
	issued, err := c.Issue("alice", 1, domain.RoleUser, issuedAt)
	require.NoError(t, err)

	forged, err := c.Issue("alice", 1, domain.RoleAdmin, issuedAt)
	require.NoError(t, err)

	orig := strings.Split(issued.Token, ".")
	other := strings.Split(forged.Token, ".")
	mixed := orig[0] + "." + other[1] + "." + orig[2]

	_, err = c.Parse(mixed, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_Parse_WrongKey(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec("another-secret", time.Hour, "events-test")
	require.NoError(t, err)

	issued, err := other.Issue("alice", 1, domain.RoleUser, issuedAt)
	require.NoError(t, err)

	_, err = c.Parse(issued.Token, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_Parse_WrongIssuer(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec("test-secret", time.Hour, "someone-else")
	require.NoError(t, err)

	issued, err := other.Issue("alice", 1, domain.RoleUser, issuedAt)
	require.NoError(t, err)

	_, err = c.Parse(issued.Token, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_Parse_Malformed(t *testing.T) {
	c := newTestCodec(t)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := c.Parse(raw, issuedAt)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, raw)
	}
}

func TestCodec_Parse_RejectsNoneAlgorithm(t *testing.T) {
	c := newTestCodec(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "mallory",
		"uid":  1,
		"role": "ADMIN",
		"iss":  "events-test",
		"exp":  issuedAt.Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Parse(raw, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_Parse_RejectsUnknownRole(t *testing.T) {
	c := newTestCodec(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "mallory",
		"uid":  1,
		"role": "ROLE_ADMIN",
		"iss":  "events-test",
		"exp":  issuedAt.Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = c.Parse(raw, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_Parse_RequiresExpiry(t *testing.T) {
	c := newTestCodec(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"uid":  1,
		"role": "USER",
		"iss":  "events-test",
	})
	raw, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = c.Parse(raw, issuedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
