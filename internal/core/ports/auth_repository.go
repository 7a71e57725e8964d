package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// CredentialStore looks up and persists user records.
//
// Lookups return domain.ErrUserNotFound when no user matches. Create returns
// domain.ErrUserExists when the email is taken and must be atomic with respect
// to concurrent creates of the same email.
type CredentialStore interface {
	// FindByEmail returns the full record, PasswordHash included. It is the
	// only lookup used for password verification.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID may return the user without PasswordHash (cached lookups do).
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
