package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// ClientRepository is a PostgreSQL implementation of repository.ClientRepository.
type ClientRepository struct {
	q Querier
}

// NewClientRepository creates a new PostgreSQL client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{q: db}
}

// NewClientRepositoryWithTx creates a client repository using a transaction.
func NewClientRepositoryWithTx(tx *sql.Tx) *ClientRepository {
	return &ClientRepository{q: tx}
}

// Create persists a new client and fills in its id.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (client_name, phone, address, bank, account_number, account_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		client.Name,
		client.Phone,
		client.Address,
		client.Bank,
		client.AccountNumber,
		client.AccountType,
		client.IsActive,
	).Scan(&client.ID)
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `
		SELECT id, client_name, phone, address, bank, account_number, account_type, is_active
		FROM clients WHERE id = $1
	`

	var client domain.Client
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Address,
		&client.Bank,
		&client.AccountNumber,
		&client.AccountType,
		&client.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &client, nil
}

// GetByPhone retrieves a client by phone number.
// Returns nil if no client exists with the given phone.
func (r *ClientRepository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	query := `
		SELECT id, client_name, phone, address, bank, account_number, account_type, is_active
		FROM clients WHERE phone = $1
	`

	var client domain.Client
	err := r.q.QueryRowContext(ctx, query, phone).Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Address,
		&client.Bank,
		&client.AccountNumber,
		&client.AccountType,
		&client.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &client, nil
}

// GetAll retrieves clients, optionally restricted to active ones.
func (r *ClientRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Client, error) {
	query := `
		SELECT id, client_name, phone, address, bank, account_number, account_type, is_active
		FROM clients
	`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Phone,
			&client.Address,
			&client.Bank,
			&client.AccountNumber,
			&client.AccountType,
			&client.IsActive,
		); err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}

	return clients, rows.Err()
}
