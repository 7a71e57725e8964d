package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Runner executes fn off the calling goroutine; *queue.Pool satisfies it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// BcryptHasher hashes and verifies passwords with bcrypt.
type BcryptHasher struct {
	cost   int
	runner Runner
	dummy  []byte
}

// NewBcryptHasher returns a hasher with the given cost. runner may be nil, in
// which case hashing happens on the caller's goroutine.
func NewBcryptHasher(cost int, runner Runner) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt dummy hash: %w", err)
	}
	return &BcryptHasher{cost: cost, runner: runner, dummy: dummy}, nil
}

// Hash returns a salted bcrypt hash of plaintext. Passwords longer than
// domain.MaxPasswordBytes yield domain.ErrInvalidPassword.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > domain.MaxPasswordBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", domain.ErrInvalidPassword, domain.MaxPasswordBytes)
	}

	var (
		out []byte
		err error
	)
	if runErr := h.run(ctx, func() {
		out, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); runErr != nil {
		return "", runErr
	}
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPassword, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hashed. An empty hashed value is
// checked against a dummy hash so callers pay the same cost either way.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hashed string) bool {
	target := []byte(hashed)
	if hashed == "" {
		target = h.dummy
	}

	var ok bool
	if err := h.run(ctx, func() {
		ok = bcrypt.CompareHashAndPassword(target, []byte(plaintext)) == nil
	}); err != nil {
		return false
	}
	return ok && hashed != ""
}

func (h *BcryptHasher) run(ctx context.Context, fn func()) error {
	if h.runner == nil {
		fn()
		return nil
	}
	return h.runner.Do(ctx, fn)
}
