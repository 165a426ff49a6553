package session

import (
	"CloudStore/config"
	"CloudStore/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a token references no live session.
var ErrNoSession = errors.New("no session")

const keyPrefix = "session:"

// Identity is the owner identity resolved from a live session.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// Store holds server-side session state keyed by opaque tokens.
type Store interface {
	Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (*Identity, error)
	Destroy(ctx context.Context, token string) error
}

// RedisStore implements Store on Redis with per-key expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create mints a new session token for an identity.
func (s *RedisStore) Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	data, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+token, data, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity behind a token, or ErrNoSession.
func (s *RedisStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var identity Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		return nil, ErrNoSession
	}
	return &identity, nil
}

// Destroy invalidates a token. Unknown tokens are not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, keyPrefix+token).Err()
}

// Default is the session store used by the middleware and handlers.
var Default Store

// InitSessionStore wires the default store to the shared Redis client.
func InitSessionStore() {
	Default = NewRedisStore(repo.Redis)
}

// TTL returns the configured session lifetime.
func TTL() time.Duration {
	return config.AppConfig.SessionTTL
}
