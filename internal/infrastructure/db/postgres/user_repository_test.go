package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// testRepo connects to POSTGRES_TEST_DSN and skips when it is unset or
// PostgreSQL is not reachable.
func testRepo(t *testing.T) *UserRepository {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{DSN: dsn, Timeout: 2 * time.Second})
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}

	repo := NewUserRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(pool.Close)
	return repo
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	created, err := repo.Create(ctx, &domain.User{
		Email: "a@x.com", PasswordHash: "hash", Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Email != "a@x.com" || got.Role != domain.RoleAdmin || got.PasswordHash != "hash" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.FindByEmail(ctx, "a@x.com"); err != nil {
		t.Fatalf("find by email: %v", err)
	}
}

func TestUserRepository_DuplicateAndMissing(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	u := &domain.User{Email: "dup@x.com", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if _, err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, u); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "ghost@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
