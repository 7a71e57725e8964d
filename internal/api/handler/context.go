package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// currentIdentity returns the identity attached by the Authenticate
// middleware. Its absence means the route was registered without the guard
// chain, so the request is treated as unauthenticated.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFrom(c.Request().Context())
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
