package repository

import (
	"context"

	"dispatch/internal/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	// Create persists a new client and fills in its id.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID.
	GetByID(ctx context.Context, id int64) (*domain.Client, error)

	// GetByPhone retrieves a client by phone number.
	// Returns nil if no client exists with the given phone.
	GetByPhone(ctx context.Context, phone string) (*domain.Client, error)

	// GetAll retrieves clients, optionally restricted to active ones.
	GetAll(ctx context.Context, activeOnly bool) ([]*domain.Client, error)
}
