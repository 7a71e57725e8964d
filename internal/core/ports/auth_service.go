package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// RegisterInput carries a new account's credentials. An empty Role means USER.
type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User        *domain.PublicUser `json:"user"`
	AccessToken string             `json:"accessToken"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error)
}
