package repository

import (
	"context"
	"time"

	"dispatch/internal/domain"
)

// DeliveryFilter restricts delivery listings.
type DeliveryFilter struct {
	State    domain.DeliveryState // empty = all states
	ClientID int64                // 0 = all clients
	RiderID  int64                // 0 = all riders
	From     time.Time            // zero = unbounded
	To       time.Time            // zero = unbounded
}

// DeliveryRepository defines the persistence operations for deliveries.
type DeliveryRepository interface {
	// Create persists a new delivery and fills in its id.
	Create(ctx context.Context, delivery *domain.Delivery) error

	// GetByID retrieves a delivery by ID.
	GetByID(ctx context.Context, id int64) (*domain.Delivery, error)

	// Update persists delivery mutations (rider assignment, state, dates).
	Update(ctx context.Context, delivery *domain.Delivery) error

	// List retrieves deliveries matching the filter, newest first.
	List(ctx context.Context, filter DeliveryFilter) ([]*domain.Delivery, error)
}
