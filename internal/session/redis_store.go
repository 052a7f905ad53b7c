package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotKey is the Redis key used when none is configured.
const DefaultSnapshotKey = "docstudio:session"

// connectTimeout bounds the initial ping.
const connectTimeout = 5 * time.Second

// SnapshotStore persists a session between restarts.
type SnapshotStore interface {
	Save(ctx context.Context, s State) error
	Load(ctx context.Context) (State, error)
}

// RedisStore keeps the session snapshot as JSON under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// Compile-time interface check.
var _ SnapshotStore = (*RedisStore)(nil)

// NewRedisStore connects to redisURL and verifies the connection.
// An empty key selects DefaultSnapshotKey.
func NewRedisStore(redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %v", ErrSnapshotStore, err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: connect to redis: %v", ErrSnapshotStore, err)
	}

	return NewRedisStoreWithClient(client, key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisStore{client: client, key: key}
}

// Save stores s without expiry.
func (r *RedisStore) Save(ctx context.Context, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: marshal snapshot: %v", ErrSnapshotStore, err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: save snapshot: %v", ErrSnapshotStore, err)
	}
	return nil
}

// Load returns the stored snapshot, settled so that no request appears in
// flight. Returns ErrSnapshotNotFound when nothing was saved.
func (r *RedisStore) Load(ctx context.Context) (State, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrSnapshotNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("%w: load snapshot: %v", ErrSnapshotStore, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: unmarshal snapshot: %v", ErrSnapshotStore, err)
	}
	return s.Settle(), nil
}

// Delete removes the snapshot.
func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: delete snapshot: %v", ErrSnapshotStore, err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
