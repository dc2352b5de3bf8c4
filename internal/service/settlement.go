package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	internalRedis "dispatch/internal/redis"
	"dispatch/internal/repository"
)

// settlementLockTTL bounds how long a party lock can outlive a crashed batch.
const settlementLockTTL = 30 * time.Second

// SettlementService is the command processor for the ledger: it moves
// payments between settlement states, enforcing ownership and all-or-nothing
// batch semantics.
type SettlementService struct {
	store      repository.Store
	payments   repository.PaymentRepository
	deliveries repository.DeliveryRepository
	locks      internalRedis.LockStoreInterface
	cache      internalRedis.CacheStoreInterface
}

// NewSettlementService creates a new SettlementService. locks and cache may
// be nil; locking and dashboard invalidation are then skipped.
func NewSettlementService(
	store repository.Store,
	payments repository.PaymentRepository,
	deliveries repository.DeliveryRepository,
	locks internalRedis.LockStoreInterface,
	cache internalRedis.CacheStoreInterface,
) *SettlementService {
	return &SettlementService{
		store:      store,
		payments:   payments,
		deliveries: deliveries,
		locks:      locks,
		cache:      cache,
	}
}

// BatchResult acknowledges a batch settlement command.
type BatchResult struct {
	BatchID string
	Count   int
}

// SettleRiderPaymentsRequest contains the parameters for settling a rider's payments.
type SettleRiderPaymentsRequest struct {
	RiderID    int64
	PaymentIDs []int64
	Comments   string
}

// SettleRiderPayments marks the rider's share of every listed payment as
// settled. Every id must resolve to a payment whose delivery belongs to the
// rider; otherwise the whole batch is rejected with no writes. The batch
// commits in one transaction. Re-settling an already settled payment is a
// no-op, not an error.
func (s *SettlementService) SettleRiderPayments(ctx context.Context, req SettleRiderPaymentsRequest) (*BatchResult, error) {
	if req.RiderID <= 0 {
		return nil, ErrInvalidRiderID
	}
	if len(req.PaymentIDs) == 0 {
		return nil, ErrNoPaymentIDs
	}

	release, err := s.acquireLock(ctx, fmt.Sprintf("rider:%d", req.RiderID))
	if err != nil {
		return nil, err
	}
	defer release()

	var count int
	err = s.store.InTx(ctx, func(tx repository.StoreTx) error {
		payments, err := tx.Payments().GetBatchByRider(ctx, req.PaymentIDs, req.RiderID)
		if err != nil {
			return err
		}
		if len(payments) != len(req.PaymentIDs) {
			return fmt.Errorf("%w: requested %d, matched %d for rider %d",
				ErrPaymentSetMismatch, len(req.PaymentIDs), len(payments), req.RiderID)
		}

		now := time.Now().UTC()
		for _, payment := range payments {
			payment.SettlementStatus = domain.SettlementStatusSettled
			payment.Comments = req.Comments
			payment.UpdatedAt = now
			if err := tx.Payments().Update(ctx, payment); err != nil {
				return err
			}
		}
		count = len(payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return &BatchResult{BatchID: uuid.New().String(), Count: count}, nil
}

// ReceiveClientPaymentsRequest contains the parameters for recording money
// received from a client.
type ReceiveClientPaymentsRequest struct {
	ClientID         int64
	PaymentIDs       []int64
	PaymentType      domain.PaymentType
	PaymentReference string
	Comments         string
}

// ReceiveClientPayments records that the office received the client's money
// for every listed payment: custody moves to the received terminal for the
// collection type (cash lands at the office, a transfer lands as
// office-received-transfer). Same ownership and all-or-nothing semantics as
// rider settlement.
func (s *SettlementService) ReceiveClientPayments(ctx context.Context, req ReceiveClientPaymentsRequest) (*BatchResult, error) {
	if req.ClientID <= 0 {
		return nil, ErrInvalidClientID
	}
	if len(req.PaymentIDs) == 0 {
		return nil, ErrNoPaymentIDs
	}

	var received domain.PaymentStatus
	switch req.PaymentType {
	case domain.PaymentTypeCash:
		received = domain.PaymentStatusOffice
	case domain.PaymentTypeTransfer:
		received = domain.PaymentStatusOfficeReceivedTransfer
	default:
		return nil, ErrInvalidPaymentType
	}

	release, err := s.acquireLock(ctx, fmt.Sprintf("client:%d", req.ClientID))
	if err != nil {
		return nil, err
	}
	defer release()

	var count int
	err = s.store.InTx(ctx, func(tx repository.StoreTx) error {
		payments, err := tx.Payments().GetBatchByClient(ctx, req.PaymentIDs, req.ClientID)
		if err != nil {
			return err
		}
		if len(payments) != len(req.PaymentIDs) {
			return fmt.Errorf("%w: requested %d, matched %d for client %d",
				ErrPaymentSetMismatch, len(req.PaymentIDs), len(payments), req.ClientID)
		}

		now := time.Now().UTC()
		for _, payment := range payments {
			payment.PaymentStatus = received
			payment.PaymentType = req.PaymentType
			payment.PaymentReference = req.PaymentReference
			payment.Comments = req.Comments
			payment.UpdatedAt = now
			if err := tx.Payments().Update(ctx, payment); err != nil {
				return err
			}
		}
		count = len(payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return &BatchResult{BatchID: uuid.New().String(), Count: count}, nil
}

// UpdateClientSettlementRequest contains the parameters for moving payments
// on the client reconciliation axis.
type UpdateClientSettlementRequest struct {
	ClientID   int64
	PaymentIDs []int64
	Status     domain.ClientSettlementStatus
}

// UpdateClientSettlement sets client_settlement_status on each listed
// payment. An id that does not resolve fails the batch naming the offending
// id. Ownership against the client id is NOT checked; the caller-facing id
// is audit context only (see DESIGN.md).
func (s *SettlementService) UpdateClientSettlement(ctx context.Context, req UpdateClientSettlementRequest) (*BatchResult, error) {
	if req.ClientID <= 0 {
		return nil, ErrInvalidClientID
	}
	if len(req.PaymentIDs) == 0 {
		return nil, ErrNoPaymentIDs
	}

	var count int
	err := s.store.InTx(ctx, func(tx repository.StoreTx) error {
		now := time.Now().UTC()
		for _, id := range req.PaymentIDs {
			payment, err := tx.Payments().GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("payment %d: %w", id, repository.ErrNotFound)
				}
				return err
			}
			payment.ClientSettlementStatus = req.Status
			payment.UpdatedAt = now
			if err := tx.Payments().Update(ctx, payment); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return &BatchResult{BatchID: uuid.New().String(), Count: count}, nil
}

// PatchPaymentRequest is a partial update of a payment's mutable fields.
// Nil fields are left untouched.
type PatchPaymentRequest struct {
	SettlementStatus       *domain.SettlementStatus
	PaymentStatus          *domain.PaymentStatus
	PaymentType            *domain.PaymentType
	ClientSettlementStatus *domain.ClientSettlementStatus
	PaymentReference       *string
	Comments               *string
}

// PatchPayment applies a partial update to a single payment. Enum values are
// validated at the boundary; transition ordering is deliberately not
// enforced here, matching the bookkeeping reality that any axis may need a
// manual correction. updated_at always refreshes.
func (s *SettlementService) PatchPayment(ctx context.Context, id int64, req PatchPaymentRequest) (*domain.Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SettlementStatus != nil {
		payment.SettlementStatus = *req.SettlementStatus
	}
	if req.PaymentStatus != nil {
		payment.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentType != nil {
		payment.PaymentType = *req.PaymentType
	}
	if req.ClientSettlementStatus != nil {
		payment.ClientSettlementStatus = *req.ClientSettlementStatus
	}
	if req.PaymentReference != nil {
		payment.PaymentReference = *req.PaymentReference
	}
	if req.Comments != nil {
		payment.Comments = *req.Comments
	}
	payment.UpdatedAt = time.Now().UTC()

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return payment, nil
}

// CreatePaymentRequest contains the parameters for recording a standalone payment.
type CreatePaymentRequest struct {
	DeliveryID       int64
	TotalAmount      float64
	RiderAmount      float64
	CoopAmount       float64
	PaymentType      domain.PaymentType
	PaymentStatus    domain.PaymentStatus
	PaymentReference string
	Comments         string
}

// CreatePayment records a payment for an existing delivery. The split must
// not exceed the total: a negative spread is a data-integrity violation.
func (s *SettlementService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	if req.DeliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}
	if req.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.RiderAmount < 0 || req.CoopAmount < 0 ||
		req.TotalAmount-req.RiderAmount-req.CoopAmount < 0 {
		return nil, ErrNegativeSpread
	}

	if _, err := s.deliveries.GetByID(ctx, req.DeliveryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		DeliveryID:             req.DeliveryID,
		TotalAmount:            req.TotalAmount,
		RiderAmount:            req.RiderAmount,
		CoopAmount:             req.CoopAmount,
		PaymentType:            req.PaymentType,
		PaymentStatus:          req.PaymentStatus,
		SettlementStatus:       domain.SettlementStatusPending,
		ClientSettlementStatus: domain.ClientSettlementPending,
		PaymentReference:       req.PaymentReference,
		Comments:               req.Comments,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *SettlementService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidPaymentID
	}
	return s.payments.GetByID(ctx, id)
}

// DeletePayment removes a payment. Administrative action only; payments are
// otherwise never deleted.
func (s *SettlementService) DeletePayment(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidPaymentID
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	return nil
}

// acquireLock takes the party's settlement lock when a lock store is wired.
// The returned release func is always safe to call.
func (s *SettlementService) acquireLock(ctx context.Context, party string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	ok, err := s.locks.AcquireSettlementLock(ctx, party, settlementLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSettlementInProgress
	}

	return func() {
		_ = s.locks.ReleaseSettlementLock(ctx, party)
	}, nil
}

func (s *SettlementService) invalidateDashboard(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateDashboard(ctx)
	}
}
