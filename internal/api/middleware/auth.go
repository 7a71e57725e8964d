package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const stageAuthenticate = "authenticate"

// Authenticate validates the bearer token and attaches the caller's
// domain.Identity to the request context. Any failure ends the request with
// domain.ErrUnauthenticated; later stages never run.
func Authenticate(tokens ports.TokenValidator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.GuardDecisionsTotal.WithLabelValues(stageAuthenticate, "missing_token").Inc()
				return domain.ErrUnauthenticated
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				result := "invalid_token"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired_token"
				}
				metrics.GuardDecisionsTotal.WithLabelValues(stageAuthenticate, result).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return domain.ErrUnauthenticated
			}

			metrics.GuardDecisionsTotal.WithLabelValues(stageAuthenticate, "allowed").Inc()
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), domain.IdentityFromClaims(claims))))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
