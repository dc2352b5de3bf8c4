package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/service"
	"dispatch/internal/settlement"
)

// ──────────────────────────────────────────────
// RIDER BATCH SETTLEMENT
// ──────────────────────────────────────────────

func newSettlementFixture() (*service.SettlementService, *MockPaymentRepository, *MockDeliveryRepository, *MockLockStore, *MockCacheStore) {
	paymentRepo := NewMockPaymentRepository()
	deliveryRepo := NewMockDeliveryRepository()
	store := NewMockStore(paymentRepo, deliveryRepo)
	locks := NewMockLockStore()
	cache := NewMockCacheStore()
	svc := service.NewSettlementService(store, paymentRepo, deliveryRepo, locks, cache)
	return svc, paymentRepo, deliveryRepo, locks, cache
}

func addRiderPayment(repo *MockPaymentRepository, id, riderID int64, settlementStatus domain.SettlementStatus) {
	repo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID:               id,
			DeliveryID:       id,
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusCourier,
			SettlementStatus: settlementStatus,
		},
		DeliveryState: domain.DeliveryStateDelivered,
		ClientID:      1,
		RiderID:       riderID,
	})
}

func TestSettleRiderPayments_SettlesExactlyTheListedSet(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, cache := newSettlementFixture()
	addRiderPayment(paymentRepo, 1, 7, domain.SettlementStatusPending)
	addRiderPayment(paymentRepo, 2, 7, domain.SettlementStatusPending)
	addRiderPayment(paymentRepo, 3, 7, domain.SettlementStatusPending)

	result, err := svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID:    7,
		PaymentIDs: []int64{1, 2},
		Comments:   "weekly cut",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("expected 2 settled, got %d", result.Count)
	}
	if result.BatchID == "" {
		t.Error("expected a batch id")
	}

	for _, id := range []int64{1, 2} {
		p := paymentRepo.GetPayment(id)
		if p.SettlementStatus != domain.SettlementStatusSettled {
			t.Errorf("payment %d: expected SETTLED, got %s", id, p.SettlementStatus)
		}
		if p.Comments != "weekly cut" {
			t.Errorf("payment %d: expected comments to be stamped", id)
		}
	}
	if p := paymentRepo.GetPayment(3); p.SettlementStatus != domain.SettlementStatusPending {
		t.Errorf("unlisted payment was touched: %s", p.SettlementStatus)
	}

	if cache.InvalidateCallCount == 0 {
		t.Error("expected dashboard invalidation after a settlement write")
	}
}

func TestSettleRiderPayments_ForeignPaymentRejectsWholeBatch(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addRiderPayment(paymentRepo, 1, 7, domain.SettlementStatusPending)
	addRiderPayment(paymentRepo, 2, 8, domain.SettlementStatusPending) // belongs to rider 8

	_, err := svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID:    7,
		PaymentIDs: []int64{1, 2},
	})
	if !errors.Is(err, service.ErrPaymentSetMismatch) {
		t.Fatalf("expected ErrPaymentSetMismatch, got %v", err)
	}

	// The batch must leave no partial writes behind.
	if p := paymentRepo.GetPayment(1); p.SettlementStatus != domain.SettlementStatusPending {
		t.Errorf("expected payment 1 untouched, got %s", p.SettlementStatus)
	}
	if paymentRepo.UpdateCallCount != 0 {
		t.Errorf("expected no updates, got %d", paymentRepo.UpdateCallCount)
	}
}

func TestSettleRiderPayments_ResettlingIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addRiderPayment(paymentRepo, 1, 7, domain.SettlementStatusSettled)

	result, err := svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID:    7,
		PaymentIDs: []int64{1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("expected count 1, got %d", result.Count)
	}
	if p := paymentRepo.GetPayment(1); p.SettlementStatus != domain.SettlementStatusSettled {
		t.Errorf("expected SETTLED, got %s", p.SettlementStatus)
	}
}

func TestSettleRiderPayments_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSettlementFixture()

	_, err := svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID: 0, PaymentIDs: []int64{1},
	})
	if !errors.Is(err, service.ErrInvalidRiderID) {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}

	_, err = svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID: 7, PaymentIDs: nil,
	})
	if !errors.Is(err, service.ErrNoPaymentIDs) {
		t.Errorf("expected ErrNoPaymentIDs, got %v", err)
	}
}

func TestSettleRiderPayments_ConcurrentBatchBlocked(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, locks, _ := newSettlementFixture()
	addRiderPayment(paymentRepo, 1, 7, domain.SettlementStatusPending)
	locks.HoldLock("rider:7")

	_, err := svc.SettleRiderPayments(context.Background(), service.SettleRiderPaymentsRequest{
		RiderID:    7,
		PaymentIDs: []int64{1},
	})
	if !errors.Is(err, service.ErrSettlementInProgress) {
		t.Fatalf("expected ErrSettlementInProgress, got %v", err)
	}
	if p := paymentRepo.GetPayment(1); p.SettlementStatus != domain.SettlementStatusPending {
		t.Errorf("expected payment untouched behind the lock, got %s", p.SettlementStatus)
	}
}

// ──────────────────────────────────────────────
// CLIENT RECEIVE AND RECONCILIATION
// ──────────────────────────────────────────────

func addClientPayment(repo *MockPaymentRepository, id, clientID int64, status domain.PaymentStatus) {
	repo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID:               id,
			DeliveryID:       id,
			TotalAmount:      10000,
			RiderAmount:      8000,
			CoopAmount:       1500,
			PaymentStatus:    status,
			SettlementStatus: domain.SettlementStatusCleared,
		},
		DeliveryState: domain.DeliveryStateDelivered,
		ClientID:      clientID,
		RiderID:       1,
	})
}

func TestReceiveClientPayments_CashLandsAtOffice(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	result, err := svc.ReceiveClientPayments(context.Background(), service.ReceiveClientPaymentsRequest{
		ClientID:    3,
		PaymentIDs:  []int64{1},
		PaymentType: domain.PaymentTypeCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("expected count 1, got %d", result.Count)
	}

	p := paymentRepo.GetPayment(1)
	if p.PaymentStatus != domain.PaymentStatusOffice {
		t.Errorf("expected OFFICE custody, got %s", p.PaymentStatus)
	}
	if p.PaymentType != domain.PaymentTypeCash {
		t.Errorf("expected CASH type, got %s", p.PaymentType)
	}
}

func TestReceiveClientPayments_TransferLandsAsReceivedTransfer(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	_, err := svc.ReceiveClientPayments(context.Background(), service.ReceiveClientPaymentsRequest{
		ClientID:         3,
		PaymentIDs:       []int64{1},
		PaymentType:      domain.PaymentTypeTransfer,
		PaymentReference: "TRX-991",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := paymentRepo.GetPayment(1)
	if p.PaymentStatus != domain.PaymentStatusOfficeReceivedTransfer {
		t.Errorf("expected OFFICE_RECEIVED_TRANSFER, got %s", p.PaymentStatus)
	}
	if p.PaymentReference != "TRX-991" {
		t.Errorf("expected reference stamped, got %q", p.PaymentReference)
	}
}

func TestReceiveClientPayments_PendingTypeRejected(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	_, err := svc.ReceiveClientPayments(context.Background(), service.ReceiveClientPaymentsRequest{
		ClientID:    3,
		PaymentIDs:  []int64{1},
		PaymentType: domain.PaymentTypePending,
	})
	if !errors.Is(err, service.ErrInvalidPaymentType) {
		t.Fatalf("expected ErrInvalidPaymentType, got %v", err)
	}
	if paymentRepo.UpdateCallCount != 0 {
		t.Errorf("expected no updates, got %d", paymentRepo.UpdateCallCount)
	}
}

func TestReceiveClientPayments_ForeignPaymentRejectsWholeBatch(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)
	addClientPayment(paymentRepo, 2, 4, domain.PaymentStatusClient)

	_, err := svc.ReceiveClientPayments(context.Background(), service.ReceiveClientPaymentsRequest{
		ClientID:    3,
		PaymentIDs:  []int64{1, 2},
		PaymentType: domain.PaymentTypeCash,
	})
	if !errors.Is(err, service.ErrPaymentSetMismatch) {
		t.Fatalf("expected ErrPaymentSetMismatch, got %v", err)
	}
	if p := paymentRepo.GetPayment(1); p.PaymentStatus != domain.PaymentStatusClient {
		t.Errorf("expected payment 1 untouched, got %s", p.PaymentStatus)
	}
}

func TestUpdateClientSettlement_UnknownIDNamesTheID(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	_, err := svc.UpdateClientSettlement(context.Background(), service.UpdateClientSettlementRequest{
		ClientID:   3,
		PaymentIDs: []int64{1, 99},
		Status:     domain.ClientSettlementSettled,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "payment 99") {
		t.Errorf("expected the error to name payment 99, got %v", err)
	}
}

func TestUpdateClientSettlement_MarksEveryListedPayment(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)
	addClientPayment(paymentRepo, 2, 3, domain.PaymentStatusOffice)

	result, err := svc.UpdateClientSettlement(context.Background(), service.UpdateClientSettlementRequest{
		ClientID:   3,
		PaymentIDs: []int64{1, 2},
		Status:     domain.ClientSettlementSettled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("expected count 2, got %d", result.Count)
	}
	for _, id := range []int64{1, 2} {
		if p := paymentRepo.GetPayment(id); p.ClientSettlementStatus != domain.ClientSettlementSettled {
			t.Errorf("payment %d: expected SETTLED client axis, got %s", id, p.ClientSettlementStatus)
		}
	}
}

// ──────────────────────────────────────────────
// PAYMENT CRUD
// ──────────────────────────────────────────────

func TestCreatePayment_RejectsNegativeSpread(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _, _ := newSettlementFixture()
	deliveryRepo.AddDelivery(&domain.Delivery{ID: 1, ClientID: 1, State: domain.DeliveryStateDelivered})

	_, err := svc.CreatePayment(context.Background(), service.CreatePaymentRequest{
		DeliveryID:    1,
		TotalAmount:   10000,
		RiderAmount:   9000,
		CoopAmount:    2000,
		PaymentType:   domain.PaymentTypeCash,
		PaymentStatus: domain.PaymentStatusCourier,
	})
	if !errors.Is(err, service.ErrNegativeSpread) {
		t.Fatalf("expected ErrNegativeSpread, got %v", err)
	}
}

func TestCreatePayment_RequiresExistingDelivery(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSettlementFixture()

	_, err := svc.CreatePayment(context.Background(), service.CreatePaymentRequest{
		DeliveryID:    42,
		TotalAmount:   10000,
		RiderAmount:   8000,
		CoopAmount:    1000,
		PaymentType:   domain.PaymentTypeCash,
		PaymentStatus: domain.PaymentStatusCourier,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPatchPayment_TouchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _ := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	newStatus := domain.PaymentStatusClientReceivedTransfer
	patched, err := svc.PatchPayment(context.Background(), 1, service.PatchPaymentRequest{
		PaymentStatus: &newStatus,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched.PaymentStatus != newStatus {
		t.Errorf("expected %s, got %s", newStatus, patched.PaymentStatus)
	}
	if patched.SettlementStatus != domain.SettlementStatusCleared {
		t.Errorf("untouched field changed: %s", patched.SettlementStatus)
	}
	if patched.UpdatedAt.IsZero() {
		t.Error("expected updated_at to refresh")
	}
}

func TestDeletePayment_RemovesAndInvalidates(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, cache := newSettlementFixture()
	addClientPayment(paymentRepo, 1, 3, domain.PaymentStatusClient)

	if err := svc.DeletePayment(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paymentRepo.CountPayments() != 0 {
		t.Errorf("expected 0 payments, got %d", paymentRepo.CountPayments())
	}
	if cache.InvalidateCallCount == 0 {
		t.Error("expected dashboard invalidation")
	}
}
