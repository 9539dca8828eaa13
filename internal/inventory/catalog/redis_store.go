package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
)

const (
	keyInventorySnapshot = "quotedesk:inventory:snapshot"
	keyInventoryLock     = "quotedesk:inventory:lock"
	lockTTL              = 30 * time.Second
)

// lockReleaseScript deletes the lock only while it still holds our token.
const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisSnapshotStore keeps the inventory as one JSON value with a TTL.
type RedisSnapshotStore struct {
	client  redis.Cmdable
	ttl     time.Duration
	release *redis.Script
}

func NewRedisSnapshotStore(client redis.Cmdable, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client:  client,
		ttl:     ttl,
		release: redis.NewScript(lockReleaseScript),
	}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]inventorydomain.Item, bool, error) {
	raw, err := s.client.Get(ctx, keyInventorySnapshot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []inventorydomain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, items []inventorydomain.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyInventorySnapshot, raw, s.ttl).Err()
}

// TryLock claims the right to fetch the inventory from the store.
func (s *RedisSnapshotStore) TryLock(ctx context.Context) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, keyInventoryLock, token, lockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (s *RedisSnapshotStore) Release(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.release.Run(ctx, s.client, []string{keyInventoryLock}, token).Err()
}
