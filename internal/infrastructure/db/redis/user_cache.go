package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const defaultUserTTL = 5 * time.Minute

// cachedUser is what gets written to Redis. It deliberately has no password
// hash field, so users served from the cache carry an empty PasswordHash.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCache wraps a CredentialStore with a read-through Redis cache for
// FindByID. FindByEmail (used for password checks) and Create always hit the
// store. Key format: user:id:<id>
//
// Cache failures are logged and fall through to the store.
type UserCache struct {
	next   ports.CredentialStore
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

var _ ports.CredentialStore = (*UserCache)(nil)

// NewUserCache creates a UserCache in front of next. A non-positive ttl uses defaultUserTTL.
func NewUserCache(next ports.CredentialStore, client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{next: next, client: client, ttl: ttl, log: log}
}

// Ping checks connectivity for readiness probes.
func (c *UserCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *UserCache) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.next.FindByEmail(ctx, email)
}

func (c *UserCache) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return c.next.Create(ctx, user)
}

func (c *UserCache) FindByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			metrics.UserCacheTotal.WithLabelValues("hit").Inc()
			return cu.toDomain(), nil
		}
		c.log.Warn().Str("user_id", id).Msg("corrupt user cache entry, reloading")
	case errors.Is(err, redis.Nil):
		metrics.UserCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.UserCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed, using store")
	}

	user, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(fromDomain(user)); err == nil {
		if err := c.client.Set(ctx, c.key(id), b, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("user_id", id).Msg("user cache write failed")
		}
	}
	return user, nil
}

func (c *UserCache) key(id string) string {
	return "user:id:" + id
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{ID: u.ID, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (cu cachedUser) toDomain() *domain.User {
	return &domain.User{ID: cu.ID, Email: cu.Email, Role: domain.Role(cu.Role), CreatedAt: cu.CreatedAt, UpdatedAt: cu.UpdatedAt}
}
