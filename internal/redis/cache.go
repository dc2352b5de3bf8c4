package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTL constants.
const (
	// DashboardCacheTTL keeps the dashboard summary short-lived: aggregate
	// reads may lag concurrent writers, which is acceptable for a reporting
	// dashboard but never for a settlement decision.
	DashboardCacheTTL = 10 * time.Second
)

const dashboardCacheKey = "cache:dashboard"

// CacheStore handles report caching in Redis. Payloads are stored as the
// serialized response so a cache hit skips both the query and the folds.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetDashboard retrieves the cached dashboard payload.
// Returns nil on a cache miss.
func (s *CacheStore) GetDashboard(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetDashboard stores the dashboard payload.
func (s *CacheStore) SetDashboard(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, dashboardCacheKey, data, DashboardCacheTTL).Err()
}

// InvalidateDashboard removes the cached dashboard after a settlement write.
func (s *CacheStore) InvalidateDashboard(ctx context.Context) error {
	return s.client.Del(ctx, dashboardCacheKey).Err()
}
