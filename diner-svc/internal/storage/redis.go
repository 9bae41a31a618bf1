package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"qr-dine/diner-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const AuthKeyPrefix = "auth-storage:"

// RedisAuthStore keeps one auth record per diner session as a JSON string.
type RedisAuthStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAuthStore(client *redis.Client, ttl time.Duration) *RedisAuthStore {
	return &RedisAuthStore{Client: client, TTL: ttl}
}

func (s *RedisAuthStore) AuthKey(sessionID string) string {
	return AuthKeyPrefix + sessionID
}

// ForSession binds the store to one session's key.
func (s *RedisAuthStore) ForSession(sessionID string) *RedisAuthPersister {
	return &RedisAuthPersister{store: s, key: s.AuthKey(sessionID)}
}

type RedisAuthPersister struct {
	store *RedisAuthStore
	key   string
}

// Load returns nil, nil when nothing was saved for the session.
func (p *RedisAuthPersister) Load(ctx context.Context) (*domain.AuthRecord, error) {
	raw, err := p.store.Client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record domain.AuthRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *RedisAuthPersister) Save(ctx context.Context, record domain.AuthRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.store.Client.Set(ctx, p.key, payload, p.store.TTL).Err()
}

func (p *RedisAuthPersister) Clear(ctx context.Context) error {
	return p.store.Client.Del(ctx, p.key).Err()
}
