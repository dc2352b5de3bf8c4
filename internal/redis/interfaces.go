package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for settlement locking.
type LockStoreInterface interface {
	AcquireSettlementLock(ctx context.Context, party string, ttl time.Duration) (bool, error)
	ReleaseSettlementLock(ctx context.Context, party string) error
}

// CacheStoreInterface defines the interface for report caching.
type CacheStoreInterface interface {
	GetDashboard(ctx context.Context) ([]byte, error)
	SetDashboard(ctx context.Context, data []byte) error
	InvalidateDashboard(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
