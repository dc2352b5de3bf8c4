package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/settlement"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, delivery_id, total_amount, rider_amount, coop_amount, payment_type,
	payment_status, settlement_status, client_settlement_status,
	payment_reference, comments, created_at, updated_at
`

// Create persists a new payment and fills in its id.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (delivery_id, total_amount, rider_amount, coop_amount,
			payment_type, payment_status, settlement_status, client_settlement_status,
			payment_reference, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		payment.DeliveryID,
		payment.TotalAmount,
		payment.RiderAmount,
		payment.CoopAmount,
		payment.PaymentType,
		payment.PaymentStatus,
		payment.SettlementStatus,
		payment.ClientSettlementStatus,
		nullString(payment.PaymentReference),
		nullString(payment.Comments),
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID)
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + `FROM payments WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// Update persists the payment's mutable fields and refreshes updated_at.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET payment_type = $1, payment_status = $2, settlement_status = $3,
			client_settlement_status = $4, payment_reference = $5, comments = $6,
			updated_at = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		payment.PaymentType,
		payment.PaymentStatus,
		payment.SettlementStatus,
		payment.ClientSettlementStatus,
		nullString(payment.PaymentReference),
		nullString(payment.Comments),
		payment.UpdatedAt,
		payment.ID,
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

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
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

// ListRows retrieves payments joined with delivery and party data for the
// settlement calculator, newest first. Status and date predicates are pushed
// down; the aggregate math stays in the settlement package.
func (r *PaymentRepository) ListRows(ctx context.Context, filter repository.RowFilter) ([]settlement.Row, error) {
	query := `
		SELECT p.id, p.delivery_id, p.total_amount, p.rider_amount, p.coop_amount,
			p.payment_type, p.payment_status, p.settlement_status,
			p.client_settlement_status, p.payment_reference, p.comments,
			p.created_at, p.updated_at,
			d.state, d.client_id, c.client_name, c.phone,
			d.rider_id, rd.name, rd.phone
		FROM payments p
		JOIN deliveries d ON p.delivery_id = d.id
		JOIN clients c ON d.client_id = c.id
		LEFT JOIN riders rd ON d.rider_id = rd.id
		WHERE 1=1
	`
	var args []any

	if filter.RiderID != 0 {
		args = append(args, filter.RiderID)
		query += fmt.Sprintf(" AND d.rider_id = $%d", len(args))
	}
	if filter.ClientID != 0 {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND d.client_id = $%d", len(args))
	}
	if filter.SettlementStatus != "" {
		args = append(args, filter.SettlementStatus)
		query += fmt.Sprintf(" AND p.settlement_status = $%d", len(args))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		query += fmt.Sprintf(" AND p.payment_status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND p.created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND p.created_at <= $%d", len(args))
	}

	query += ` ORDER BY p.created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []settlement.Row
	for rows.Next() {
		var row settlement.Row
		var reference, comments sql.NullString
		var riderID sql.NullInt64
		var riderName, riderPhone sql.NullString

		if err := rows.Scan(
			&row.Payment.ID,
			&row.Payment.DeliveryID,
			&row.Payment.TotalAmount,
			&row.Payment.RiderAmount,
			&row.Payment.CoopAmount,
			&row.Payment.PaymentType,
			&row.Payment.PaymentStatus,
			&row.Payment.SettlementStatus,
			&row.Payment.ClientSettlementStatus,
			&reference,
			&comments,
			&row.Payment.CreatedAt,
			&row.Payment.UpdatedAt,
			&row.DeliveryState,
			&row.ClientID,
			&row.ClientName,
			&row.ClientPhone,
			&riderID,
			&riderName,
			&riderPhone,
		); err != nil {
			return nil, err
		}

		row.Payment.PaymentReference = reference.String
		row.Payment.Comments = comments.String
		if riderID.Valid {
			row.RiderID = riderID.Int64
			row.RiderName = riderName.String
			row.RiderPhone = riderPhone.String
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

// GetBatchByRider retrieves the payments among ids whose delivery belongs
// to the given rider.
func (r *PaymentRepository) GetBatchByRider(ctx context.Context, ids []int64, riderID int64) ([]*domain.Payment, error) {
	query := `
		SELECT p.` + joinPaymentColumns() + `
		FROM payments p
		JOIN deliveries d ON p.delivery_id = d.id
		WHERE p.id = ANY($1) AND d.rider_id = $2
	`
	return r.queryBatch(ctx, query, pq.Array(ids), riderID)
}

// GetBatchByClient retrieves the payments among ids whose delivery belongs
// to the given client.
func (r *PaymentRepository) GetBatchByClient(ctx context.Context, ids []int64, clientID int64) ([]*domain.Payment, error) {
	query := `
		SELECT p.` + joinPaymentColumns() + `
		FROM payments p
		JOIN deliveries d ON p.delivery_id = d.id
		WHERE p.id = ANY($1) AND d.client_id = $2
	`
	return r.queryBatch(ctx, query, pq.Array(ids), clientID)
}

func (r *PaymentRepository) queryBatch(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func joinPaymentColumns() string {
	return `id, p.delivery_id, p.total_amount, p.rider_amount, p.coop_amount,
		p.payment_type, p.payment_status, p.settlement_status,
		p.client_settlement_status, p.payment_reference, p.comments,
		p.created_at, p.updated_at`
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var payment domain.Payment
	var reference, comments sql.NullString

	err := s.Scan(
		&payment.ID,
		&payment.DeliveryID,
		&payment.TotalAmount,
		&payment.RiderAmount,
		&payment.CoopAmount,
		&payment.PaymentType,
		&payment.PaymentStatus,
		&payment.SettlementStatus,
		&payment.ClientSettlementStatus,
		&reference,
		&comments,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.PaymentReference = reference.String
	payment.Comments = comments.String

	return &payment, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
