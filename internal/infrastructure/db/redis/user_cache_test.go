package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
)

type countingStore struct {
	user  *domain.User
	calls int
}

func (s *countingStore) FindByEmail(context.Context, string) (*domain.User, error) {
	s.calls++
	return s.user, nil
}

func (s *countingStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.calls++
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	clone := *s.user
	return &clone, nil
}

func (s *countingStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.calls++
	return u, nil
}

func testCache(t *testing.T, store *countingStore) *UserCache {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15, Timeout: time.Second})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewUserCache(store, client, time.Minute, zerolog.Nop())
}

func TestUserCache_ReadThrough(t *testing.T) {
	store := &countingStore{user: &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "hash", Role: domain.RoleAdmin}}
	cache := testCache(t, store)
	ctx := context.Background()

	first, err := cache.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := cache.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	if store.calls != 1 {
		t.Fatalf("expected one store call, got %d", store.calls)
	}
	if first.Email != second.Email || second.Role != domain.RoleAdmin {
		t.Fatalf("cached user differs: %+v vs %+v", first, second)
	}
	if second.PasswordHash != "" {
		t.Fatalf("password hash must not be cached")
	}
}

func TestUserCache_MissIsNotCached(t *testing.T) {
	store := &countingStore{}
	cache := testCache(t, store)

	for i := 0; i < 2; i++ {
		if _, err := cache.FindByID(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	}
	if store.calls != 2 {
		t.Fatalf("expected two store calls, got %d", store.calls)
	}
}

func TestUserCache_EmailLookupBypassesCache(t *testing.T) {
	store := &countingStore{user: &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "hash"}}
	cache := testCache(t, store)

	u, err := cache.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if u.PasswordHash != "hash" {
		t.Fatalf("expected hash from store")
	}
}
