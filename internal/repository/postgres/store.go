package postgres

import (
	"context"
	"database/sql"

	"dispatch/internal/repository"
)

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB
}

// NewStore creates a new PostgreSQL store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside a single transaction, committing on success and
// rolling back on error.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.StoreTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(storeTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

type storeTx struct {
	tx *sql.Tx
}

func (t storeTx) Payments() repository.PaymentRepository {
	return NewPaymentRepositoryWithTx(t.tx)
}

func (t storeTx) Deliveries() repository.DeliveryRepository {
	return NewDeliveryRepositoryWithTx(t.tx)
}
