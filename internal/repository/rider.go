package repository

import (
	"context"

	"dispatch/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// Create persists a new rider and fills in its id.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id int64) (*domain.Rider, error)

	// GetByName retrieves a rider by exact name.
	// Returns nil if no rider exists with the given name.
	GetByName(ctx context.Context, name string) (*domain.Rider, error)

	// GetAll retrieves riders, optionally restricted to active ones.
	GetAll(ctx context.Context, activeOnly bool) ([]*domain.Rider, error)
}
