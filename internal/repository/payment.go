package repository

import (
	"context"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/settlement"
)

// RowFilter restricts settlement row listings before the calculator folds them.
type RowFilter struct {
	RiderID          int64                   // 0 = all riders
	ClientID         int64                   // 0 = all clients
	SettlementStatus domain.SettlementStatus // empty = all
	PaymentStatus    domain.PaymentStatus    // empty = all
	From             time.Time               // zero = unbounded
	To               time.Time               // zero = unbounded
}

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment and fills in its id.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)

	// Update persists the payment's mutable fields and refreshes updated_at.
	Update(ctx context.Context, payment *domain.Payment) error

	// Delete removes a payment. Administrative use only.
	Delete(ctx context.Context, id int64) error

	// ListRows retrieves payments joined with delivery and party data for
	// the settlement calculator, newest first.
	ListRows(ctx context.Context, filter RowFilter) ([]settlement.Row, error)

	// GetBatchByRider retrieves the payments among ids whose delivery
	// belongs to the given rider.
	GetBatchByRider(ctx context.Context, ids []int64, riderID int64) ([]*domain.Payment, error)

	// GetBatchByClient retrieves the payments among ids whose delivery
	// belongs to the given client.
	GetBatchByClient(ctx context.Context, ids []int64, clientID int64) ([]*domain.Payment, error)
}
