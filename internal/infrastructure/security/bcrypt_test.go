package security

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/infrastructure/queue"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost, nil)
	require.NoError(t, err)

	ctx := context.Background()
	hashed, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hashed)
	assert.True(t, h.Verify(ctx, "secret1", hashed))
	assert.False(t, h.Verify(ctx, "secret2", hashed))
}

func TestBcryptHasher_SaltedOutput(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost, nil)
	require.NoError(t, err)

	a, err := h.Hash(context.Background(), "same")
	require.NoError(t, err)
	b, err := h.Hash(context.Background(), "same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	h, err := NewBcryptHasher(5, nil)
	require.NoError(t, err)

	hashed, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasher_MalformedHashNeverMatches(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost, nil)
	require.NoError(t, err)

	for _, hashed := range []string{"", "not-a-hash", "$2a$10$short", "plaintext"} {
		assert.False(t, h.Verify(context.Background(), "plaintext", hashed), "hash %q", hashed)
	}
}

func TestBcryptHasher_RejectsCostOutOfRange(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost+1, nil)
	assert.Error(t, err)

	_, err = NewBcryptHasher(1, nil)
	assert.Error(t, err)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h, err := NewBcryptHasher(0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, h.cost)
}

func TestBcryptHasher_RunsOnPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := queue.NewPool(2, zerolog.Nop())
	pool.Start(ctx)

	h, err := NewBcryptHasher(bcrypt.MinCost, pool)
	require.NoError(t, err)

	hashed, err := h.Hash(ctx, "pooled")
	require.NoError(t, err)
	assert.True(t, h.Verify(ctx, "pooled", hashed))
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	// Pool without workers: nothing completes, so only cancellation can end the call.
	pool := queue.NewPool(1, zerolog.Nop())
	h, err := NewBcryptHasher(bcrypt.MinCost, pool)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.Verify(ctx, "pw", "$2a$04$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234"))
}

func TestBcryptHasher_PasswordLengthIsMeasuredInBytes(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost, nil)
	require.NoError(t, err)
	ctx := context.Background()

	fits := strings.Repeat("é", 36) // 72 bytes
	hashed, err := h.Hash(ctx, fits)
	require.NoError(t, err)
	assert.True(t, h.Verify(ctx, fits, hashed))

	_, err = h.Hash(ctx, strings.Repeat("é", 40)) // 40 runes, 80 bytes
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = h.Hash(ctx, strings.Repeat("a", 73))
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}
