package tests

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/service"
)

// ──────────────────────────────────────────────
// DELIVERY LIFECYCLE
// ──────────────────────────────────────────────

var testPolicy = service.SplitPolicy{
	DefaultDeliveryFee: 5000,
	RiderShare:         0.8,
	CoopShare:          0.2,
}

func newDeliveryFixture() (*service.DeliveryService, *MockDeliveryRepository, *MockPaymentRepository, *MockClientRepository, *MockRiderRepository) {
	paymentRepo := NewMockPaymentRepository()
	deliveryRepo := NewMockDeliveryRepository()
	clientRepo := NewMockClientRepository()
	riderRepo := NewMockRiderRepository()
	store := NewMockStore(paymentRepo, deliveryRepo)
	svc := service.NewDeliveryService(store, deliveryRepo, clientRepo, riderRepo, testPolicy)
	return svc, deliveryRepo, paymentRepo, clientRepo, riderRepo
}

func TestCreateDelivery_CreatesPaymentCompanion(t *testing.T) {
	t.Parallel()

	svc, _, paymentRepo, clientRepo, _ := newDeliveryFixture()
	clientRepo.AddClient(&domain.Client{ID: 1, Name: "Ferreteria Lopez", IsActive: true})

	result, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
		ClientID:    1,
		PackageName: "tools",
		TotalAmount: 10000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Delivery.State != domain.DeliveryStatePending {
		t.Errorf("expected PENDING state without rider, got %s", result.Delivery.State)
	}

	p := result.Payment
	if p.DeliveryID != result.Delivery.ID {
		t.Errorf("payment not linked: delivery %d, payment delivery %d", result.Delivery.ID, p.DeliveryID)
	}
	if p.RiderAmount != 8000 || p.CoopAmount != 2000 {
		t.Errorf("expected split (8000, 2000), got (%v, %v)", p.RiderAmount, p.CoopAmount)
	}
	if p.PaymentStatus != domain.PaymentStatusCourier {
		t.Errorf("expected COURIER custody, got %s", p.PaymentStatus)
	}
	if p.SettlementStatus != domain.SettlementStatusPending {
		t.Errorf("expected PENDING rider leg, got %s", p.SettlementStatus)
	}
	if p.ClientSettlementStatus != domain.ClientSettlementPending {
		t.Errorf("expected PENDING client leg, got %s", p.ClientSettlementStatus)
	}
	if paymentRepo.CountPayments() != 1 {
		t.Errorf("expected 1 stored payment, got %d", paymentRepo.CountPayments())
	}
}

func TestCreateDelivery_ZeroAmountFallsBackToPolicyFee(t *testing.T) {
	t.Parallel()

	svc, _, _, clientRepo, _ := newDeliveryFixture()
	clientRepo.AddClient(&domain.Client{ID: 1, IsActive: true})

	result, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
		ClientID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Delivery.TotalAmount != 5000 {
		t.Errorf("expected default fee 5000, got %v", result.Delivery.TotalAmount)
	}
	if result.Payment.RiderAmount != 4000 {
		t.Errorf("expected rider cut 4000, got %v", result.Payment.RiderAmount)
	}
}

func TestCreateDelivery_WithRiderStartsAssigned(t *testing.T) {
	t.Parallel()

	svc, _, _, clientRepo, riderRepo := newDeliveryFixture()
	clientRepo.AddClient(&domain.Client{ID: 1, IsActive: true})
	riderRepo.AddRider(&domain.Rider{ID: 2, Name: "Marco", IsActive: true})

	result, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
		ClientID:    1,
		RiderID:     2,
		TotalAmount: 6000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Delivery.State != domain.DeliveryStateAssigned {
		t.Errorf("expected ASSIGNED, got %s", result.Delivery.State)
	}
	if result.Delivery.RiderID != 2 {
		t.Errorf("expected rider 2, got %d", result.Delivery.RiderID)
	}
}

func TestCreateDelivery_UnknownClientRejected(t *testing.T) {
	t.Parallel()

	svc, _, paymentRepo, _, _ := newDeliveryFixture()

	_, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
		ClientID: 9, TotalAmount: 6000,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if paymentRepo.CountPayments() != 0 {
		t.Error("expected no payment written for a rejected delivery")
	}
}

func TestAssignRider_RejectsSecondRider(t *testing.T) {
	t.Parallel()

	svc, deliveryRepo, _, _, riderRepo := newDeliveryFixture()
	riderRepo.AddRider(&domain.Rider{ID: 2, IsActive: true})
	riderRepo.AddRider(&domain.Rider{ID: 3, IsActive: true})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 1, ClientID: 1, RiderID: 2, State: domain.DeliveryStateAssigned,
	})

	_, err := svc.AssignRider(context.Background(), 1, 3)
	if !errors.Is(err, service.ErrDeliveryHasRider) {
		t.Fatalf("expected ErrDeliveryHasRider, got %v", err)
	}
	if d := deliveryRepo.GetDelivery(1); d.RiderID != 2 {
		t.Errorf("expected rider 2 to stay, got %d", d.RiderID)
	}
}

func TestAssignRider_MovesPendingToAssigned(t *testing.T) {
	t.Parallel()

	svc, deliveryRepo, _, _, riderRepo := newDeliveryFixture()
	riderRepo.AddRider(&domain.Rider{ID: 2, IsActive: true})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 1, ClientID: 1, State: domain.DeliveryStatePending,
	})

	delivery, err := svc.AssignRider(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivery.State != domain.DeliveryStateAssigned || delivery.RiderID != 2 {
		t.Errorf("expected (ASSIGNED, 2), got (%s, %d)", delivery.State, delivery.RiderID)
	}
}

func TestUpdateState_DeliveredStampsDate(t *testing.T) {
	t.Parallel()

	svc, deliveryRepo, _, _, _ := newDeliveryFixture()
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 1, ClientID: 1, RiderID: 2, State: domain.DeliveryStateInProgress,
	})

	delivery, err := svc.UpdateState(context.Background(), 1, domain.DeliveryStateDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivery.State != domain.DeliveryStateDelivered {
		t.Errorf("expected DELIVERED, got %s", delivery.State)
	}
	if delivery.DeliveryDate.IsZero() {
		t.Error("expected delivery date to be stamped")
	}
}

func TestUpdateState_IllegalJumpRejected(t *testing.T) {
	t.Parallel()

	svc, deliveryRepo, _, _, _ := newDeliveryFixture()
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 1, ClientID: 1, State: domain.DeliveryStatePending,
	})

	_, err := svc.UpdateState(context.Background(), 1, domain.DeliveryStateDelivered)
	if !errors.Is(err, service.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if d := deliveryRepo.GetDelivery(1); d.State != domain.DeliveryStatePending {
		t.Errorf("expected state untouched, got %s", d.State)
	}
}

func TestCancel_TerminalStatesRefuse(t *testing.T) {
	t.Parallel()

	svc, deliveryRepo, _, _, _ := newDeliveryFixture()
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 1, ClientID: 1, State: domain.DeliveryStateDelivered,
	})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID: 2, ClientID: 1, State: domain.DeliveryStateInProgress,
	})

	if _, err := svc.Cancel(context.Background(), 1); !errors.Is(err, service.ErrInvalidStateTransition) {
		t.Errorf("expected delivered cancel to fail, got %v", err)
	}

	delivery, err := svc.Cancel(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivery.State != domain.DeliveryStateCancelled {
		t.Errorf("expected CANCELLED, got %s", delivery.State)
	}
}
