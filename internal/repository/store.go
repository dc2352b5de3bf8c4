package repository

import "context"

// StoreTx is the write surface available inside one commit boundary.
type StoreTx interface {
	Payments() PaymentRepository
	Deliveries() DeliveryRepository
}

// Store runs a function inside a single database transaction. The
// transaction commits when fn returns nil and rolls back otherwise, so a
// batch settlement either lands whole or not at all.
type Store interface {
	InTx(ctx context.Context, fn func(tx StoreTx) error) error
}
