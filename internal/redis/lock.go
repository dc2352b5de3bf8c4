package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSettlementLock attempts to acquire the settlement lock for a party
// (e.g. "rider:42"). The lock is held for the duration of a batch settlement
// so overlapping batches on the same party cannot interleave.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSettlementLock(ctx context.Context, party string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:settlement:%s", party)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSettlementLock releases the settlement lock for the given party.
func (s *LockStore) ReleaseSettlementLock(ctx context.Context, party string) error {
	key := fmt.Sprintf("lock:settlement:%s", party)

	return s.client.Del(ctx, key).Err()
}
