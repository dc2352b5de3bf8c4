package service

import (
	"context"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// SplitPolicy carries the configuration-supplied money split. The share
// ratio has changed before, so it is never a literal in the code paths that
// apply it.
type SplitPolicy struct {
	DefaultDeliveryFee float64
	RiderShare         float64
	CoopShare          float64
}

// Split decomposes a delivery total into the rider and coop cuts.
func (p SplitPolicy) Split(total float64) (riderAmount, coopAmount float64) {
	return total * p.RiderShare, total * p.CoopShare
}

// DeliveryService handles the delivery lifecycle. Every delivery carries its
// Payment from birth: both rows are created in one transaction.
type DeliveryService struct {
	store      repository.Store
	deliveries repository.DeliveryRepository
	clients    repository.ClientRepository
	riders     repository.RiderRepository
	policy     SplitPolicy
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	store repository.Store,
	deliveries repository.DeliveryRepository,
	clients repository.ClientRepository,
	riders repository.RiderRepository,
	policy SplitPolicy,
) *DeliveryService {
	return &DeliveryService{
		store:      store,
		deliveries: deliveries,
		clients:    clients,
		riders:     riders,
		policy:     policy,
	}
}

// CreateDeliveryRequest contains the parameters for registering a delivery.
type CreateDeliveryRequest struct {
	ClientID       int64
	RiderID        int64 // 0 = not yet dispatched
	PackageName    string
	ReceptorName   string
	ReceptorNumber string
	Address        string
	TotalAmount    float64 // 0 = policy default fee
}

// CreateDeliveryResponse contains the created delivery and its payment.
type CreateDeliveryResponse struct {
	Delivery *domain.Delivery
	Payment  *domain.Payment
}

// CreateDelivery registers a delivery and its payment companion atomically.
// The payment starts as cash in courier custody with both reconciliation
// axes pending, split per the configured policy.
func (s *DeliveryService) CreateDelivery(ctx context.Context, req CreateDeliveryRequest) (*CreateDeliveryResponse, error) {
	if req.ClientID <= 0 {
		return nil, ErrInvalidClientID
	}

	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	state := domain.DeliveryStatePending
	if req.RiderID != 0 {
		if _, err := s.riders.GetByID(ctx, req.RiderID); err != nil {
			return nil, err
		}
		state = domain.DeliveryStateAssigned
	}

	total := req.TotalAmount
	if total == 0 {
		total = s.policy.DefaultDeliveryFee
	}
	if total <= 0 {
		return nil, ErrInvalidAmount
	}

	riderAmount, coopAmount := s.policy.Split(total)
	now := time.Now().UTC()

	delivery := &domain.Delivery{
		ClientID:       req.ClientID,
		RiderID:        req.RiderID,
		PackageName:    req.PackageName,
		ReceptorName:   req.ReceptorName,
		ReceptorNumber: req.ReceptorNumber,
		Address:        req.Address,
		State:          state,
		TotalAmount:    total,
		CreatedAt:      now,
	}
	payment := &domain.Payment{
		TotalAmount:            total,
		RiderAmount:            riderAmount,
		CoopAmount:             coopAmount,
		PaymentType:            domain.PaymentTypeCash,
		PaymentStatus:          domain.PaymentStatusCourier,
		SettlementStatus:       domain.SettlementStatusPending,
		ClientSettlementStatus: domain.ClientSettlementPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err := s.store.InTx(ctx, func(tx repository.StoreTx) error {
		if err := tx.Deliveries().Create(ctx, delivery); err != nil {
			return err
		}
		payment.DeliveryID = delivery.ID
		return tx.Payments().Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return &CreateDeliveryResponse{Delivery: delivery, Payment: payment}, nil
}

// AssignRider dispatches a delivery to a rider. A delivery holds at most
// one rider at a time.
func (s *DeliveryService) AssignRider(ctx context.Context, deliveryID, riderID int64) (*domain.Delivery, error) {
	if deliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}
	if riderID <= 0 {
		return nil, ErrInvalidRiderID
	}

	if _, err := s.riders.GetByID(ctx, riderID); err != nil {
		return nil, err
	}

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if delivery.HasRider() {
		return nil, ErrDeliveryHasRider
	}
	if !domain.CanTransitionDelivery(delivery.State, domain.DeliveryStateAssigned) {
		return nil, ErrInvalidStateTransition
	}

	delivery.RiderID = riderID
	delivery.State = domain.DeliveryStateAssigned

	if err := s.deliveries.Update(ctx, delivery); err != nil {
		return nil, err
	}

	return delivery, nil
}

// UpdateState moves a delivery along its lifecycle. Reaching DELIVERED
// stamps the delivery date, which gates the settlement aggregates that
// depend on the physical hand-off having happened.
func (s *DeliveryService) UpdateState(ctx context.Context, deliveryID int64, state domain.DeliveryState) (*domain.Delivery, error) {
	if deliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionDelivery(delivery.State, state) {
		return nil, ErrInvalidStateTransition
	}

	delivery.State = state
	if state == domain.DeliveryStateDelivered {
		delivery.DeliveryDate = time.Now().UTC()
	}

	if err := s.deliveries.Update(ctx, delivery); err != nil {
		return nil, err
	}

	return delivery, nil
}

// Cancel cancels a delivery from any non-terminal state.
func (s *DeliveryService) Cancel(ctx context.Context, deliveryID int64) (*domain.Delivery, error) {
	return s.UpdateState(ctx, deliveryID, domain.DeliveryStateCancelled)
}

// GetDelivery retrieves a delivery by ID.
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID int64) (*domain.Delivery, error) {
	if deliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}
	return s.deliveries.GetByID(ctx, deliveryID)
}

// ListDeliveries retrieves deliveries matching the filter, newest first.
func (s *DeliveryService) ListDeliveries(ctx context.Context, filter repository.DeliveryFilter) ([]*domain.Delivery, error) {
	return s.deliveries.List(ctx, filter)
}
