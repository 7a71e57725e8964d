package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const stageAuthorize = "authorize"

// errMissingIdentity means RequireRoles ran without Authenticate before it.
var errMissingIdentity = errors.New("role check without authenticated identity")

// RequireRoles enforces role-based access control: the caller's role must
// equal one of roles. It must run after Authenticate.
func RequireRoles(log zerolog.Logger, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := domain.IdentityFrom(c.Request().Context())
			if !ok {
				log.Error().Str("path", c.Path()).Msg("RequireRoles used without Authenticate")
				return errMissingIdentity
			}
			if _, ok := allowed[id.Role]; !ok {
				metrics.GuardDecisionsTotal.WithLabelValues(stageAuthorize, "forbidden").Inc()
				return domain.ErrForbidden
			}
			metrics.GuardDecisionsTotal.WithLabelValues(stageAuthorize, "allowed").Inc()
			return next(c)
		}
	}
}

// Protect returns the guard chain for a protected route, in order:
// authentication, then a role check when roles is non-empty.
// Public routes take no guards at all.
func Protect(tokens ports.TokenValidator, log zerolog.Logger, roles ...domain.Role) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{Authenticate(tokens, log)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(log, roles...))
	}
	return chain
}
