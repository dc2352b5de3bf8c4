package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// DeliveryRepository is a PostgreSQL implementation of repository.DeliveryRepository.
type DeliveryRepository struct {
	q Querier
}

// NewDeliveryRepository creates a new PostgreSQL delivery repository.
func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{q: db}
}

// NewDeliveryRepositoryWithTx creates a delivery repository using a transaction.
func NewDeliveryRepositoryWithTx(tx *sql.Tx) *DeliveryRepository {
	return &DeliveryRepository{q: tx}
}

const deliveryColumns = `
	id, client_id, rider_id, package_name, receptor_name, receptor_number,
	delivery_address, state, delivery_total_amount, created_at, delivery_date
`

// Create persists a new delivery and fills in its id.
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	query := `
		INSERT INTO deliveries (client_id, rider_id, package_name, receptor_name,
			receptor_number, delivery_address, state, delivery_total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		delivery.ClientID,
		nullInt64(delivery.RiderID),
		delivery.PackageName,
		delivery.ReceptorName,
		delivery.ReceptorNumber,
		delivery.Address,
		delivery.State,
		delivery.TotalAmount,
		delivery.CreatedAt,
	).Scan(&delivery.ID)
}

// GetByID retrieves a delivery by ID.
func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	query := `SELECT` + deliveryColumns + `FROM deliveries WHERE id = $1`

	delivery, err := scanDelivery(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return delivery, nil
}

// Update persists delivery mutations.
func (r *DeliveryRepository) Update(ctx context.Context, delivery *domain.Delivery) error {
	query := `
		UPDATE deliveries
		SET rider_id = $1, state = $2, delivery_address = $3, package_name = $4,
			delivery_date = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		nullInt64(delivery.RiderID),
		delivery.State,
		delivery.Address,
		delivery.PackageName,
		nullTime(delivery.DeliveryDate),
		delivery.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List retrieves deliveries matching the filter, newest first.
func (r *DeliveryRepository) List(ctx context.Context, filter repository.DeliveryFilter) ([]*domain.Delivery, error) {
	query := `SELECT` + deliveryColumns + `FROM deliveries WHERE 1=1`
	var args []any

	if filter.State != "" {
		args = append(args, filter.State)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if filter.ClientID != 0 {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.RiderID != 0 {
		args = append(args, filter.RiderID)
		query += fmt.Sprintf(" AND rider_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*domain.Delivery
	for rows.Next() {
		delivery, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDelivery(s scanner) (*domain.Delivery, error) {
	var delivery domain.Delivery
	var riderID sql.NullInt64
	var deliveryDate sql.NullTime

	err := s.Scan(
		&delivery.ID,
		&delivery.ClientID,
		&riderID,
		&delivery.PackageName,
		&delivery.ReceptorName,
		&delivery.ReceptorNumber,
		&delivery.Address,
		&delivery.State,
		&delivery.TotalAmount,
		&delivery.CreatedAt,
		&deliveryDate,
	)
	if err != nil {
		return nil, err
	}

	if riderID.Valid {
		delivery.RiderID = riderID.Int64
	}
	if deliveryDate.Valid {
		delivery.DeliveryDate = deliveryDate.Time
	}

	return &delivery, nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
