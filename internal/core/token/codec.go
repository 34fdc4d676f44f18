// Package token issues and verifies the signed bearer tokens carried on
// authenticated requests. A Codec is immutable after construction and safe
// for concurrent use.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventhub/event-management/internal/core/domain"
)

const (
	defaultTTL    = 24 * time.Hour
	defaultIssuer = "event-management"
)

// Claims is the payload embedded in every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
}

// Username returns the subject the token was issued to.
func (c *Claims) Username() string {
	return c.RegisteredClaims.Subject
}

// Issued is the result of signing a new token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Codec signs and parses HS256 tokens with a single process-wide key.
type Codec struct {
	key    []byte
	ttl    time.Duration
	issuer string
}

// NewCodec returns a Codec. ttl <= 0 falls back to 24h, an empty issuer to
// the service name.
func NewCodec(secret string, ttl time.Duration, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &Codec{key: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

// TTL reports the validity window applied to newly issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject valid from now until now+TTL.
func (c *Codec) Issue(subject string, userID int64, role domain.Role, now time.Time) (Issued, error) {
	if subject == "" || userID <= 0 || !role.Valid() {
		return Issued{}, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return Issued{}, fmt.Errorf("issue token: %w", err)
	}
	return Issued{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse verifies encoding as of now. Expiry is exclusive: a token is already
// expired at its exp instant.
func (c *Codec) Parse(encoding string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(encoding, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", domain.ErrInvalidToken)
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.key, nil
}
