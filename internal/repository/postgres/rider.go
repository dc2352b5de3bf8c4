package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create persists a new rider and fills in its id.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (name, phone, plate, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		rider.Name,
		rider.Phone,
		rider.Plate,
		rider.IsActive,
	).Scan(&rider.ID)
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id int64) (*domain.Rider, error) {
	query := `SELECT id, name, phone, plate, is_active FROM riders WHERE id = $1`

	var rider domain.Rider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Phone,
		&rider.Plate,
		&rider.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rider, nil
}

// GetByName retrieves a rider by exact name.
// Returns nil if no rider exists with the given name.
func (r *RiderRepository) GetByName(ctx context.Context, name string) (*domain.Rider, error) {
	query := `SELECT id, name, phone, plate, is_active FROM riders WHERE name = $1`

	var rider domain.Rider
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Phone,
		&rider.Plate,
		&rider.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &rider, nil
}

// GetAll retrieves riders, optionally restricted to active ones.
func (r *RiderRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Rider, error) {
	query := `SELECT id, name, phone, plate, is_active FROM riders`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*domain.Rider
	for rows.Next() {
		var rider domain.Rider
		if err := rows.Scan(
			&rider.ID,
			&rider.Name,
			&rider.Phone,
			&rider.Plate,
			&rider.IsActive,
		); err != nil {
			return nil, err
		}
		riders = append(riders, &rider)
	}

	return riders, rows.Err()
}
