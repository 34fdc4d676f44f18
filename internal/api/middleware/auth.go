package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/event-management/internal/api/metrics"
	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/token"
)

// PrincipalKey is the echo context key holding the caller's domain.Principal.
const PrincipalKey = "principal"

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(encoding string, now time.Time) (*token.Claims, error)
}

// PrincipalResolver turns verified claims into the request principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *token.Claims) (domain.Principal, error)
}

// Auth validates the bearer token, resolves the caller and stores the
// principal in the echo context under PrincipalKey.
func Auth(parser TokenParser, resolver PrincipalResolver) echo.MiddlewareFunc {
	return authWithClock(parser, resolver, time.Now)
}

func authWithClock(parser TokenParser, resolver PrincipalResolver, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := parser.Parse(strings.TrimSpace(parts[1]), now())
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = "expired"
				}
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				return err
			}

			principal, err := resolver.Resolve(c.Request().Context(), claims)
			if err != nil {
				if errors.Is(err, domain.ErrIdentityNotFound) {
					metrics.TokenRejectionsTotal.WithLabelValues("unknown_identity").Inc()
				}
				return err
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}
