package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionKey is the key used when none is given.
const DefaultSessionKey = "pagekit:session"

// SessionBackend keeps the session snapshot in one string key.
type SessionBackend struct {
	client redis.UniversalClient
	key    string
}

// NewSessionBackend returns a backend storing the snapshot under key.
func NewSessionBackend(client redis.UniversalClient, key string) *SessionBackend {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionBackend{client: client, key: key}
}

// Load returns the stored snapshot, or nil when the key does not exist.
func (b *SessionBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Save replaces the stored snapshot. The key never expires.
func (b *SessionBackend) Save(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, b.key, data, 0).Err()
}

// Ping checks the connection.
func (b *SessionBackend) Ping(ctx context.Context) error {
	return Healthcheck(b.client)(ctx)
}
