package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AppHandler serves the sample public and protected routes.
type AppHandler struct{}

func NewAppHandler() *AppHandler {
	return &AppHandler{}
}

type protectedResponse struct {
	Message string          `json:"message"`
	User    domain.Identity `json:"user"`
}

// Hello handles GET /.
func (h *AppHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello World!")
}

// Protected handles GET /protected.
//
// @Summary      Authenticated sample route
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  map[string]string
// @Router       /protected [get]
func (h *AppHandler) Protected(c echo.Context) error {
	return h.respond(c, "This is a protected route")
}

// AdminOnly handles GET /admin-only.
//
// @Summary      Admin-only sample route
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  protectedResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin-only [get]
func (h *AppHandler) AdminOnly(c echo.Context) error {
	return h.respond(c, "This is an admin-only route")
}

func (h *AppHandler) respond(c echo.Context, msg string) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protectedResponse{Message: msg, User: id})
}
