package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/event-management/internal/core/domain"
)

// RBAC enforces a coarse role gate on a route group. It must run after Auth;
// a request without a principal is treated as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[principal.Role]; !ok {
				return fmt.Errorf("role %s: %w", principal.Role, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
