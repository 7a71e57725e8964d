package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// PasswordHasher is a salted one-way hash with constant-time verification.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify never errors; malformed hashes simply do not match.
	Verify(ctx context.Context, plaintext, hashed string) bool
}

// TokenValidator is the read side of the token service, used by the guard chain.
type TokenValidator interface {
	// Validate returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Validate(token string) (domain.Claims, error)
}

// TokenService issues and validates signed, expiring access tokens.
type TokenService interface {
	TokenValidator
	Issue(claims domain.Claims) (string, error)
}
