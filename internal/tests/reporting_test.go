package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/service"
	"dispatch/internal/settlement"
)

// ──────────────────────────────────────────────
// DASHBOARD
// ──────────────────────────────────────────────

func newReportingFixture() (*service.ReportingService, *MockPaymentRepository, *MockRiderRepository, *MockClientRepository, *MockDeliveryRepository, *MockCacheStore) {
	paymentRepo := NewMockPaymentRepository()
	riderRepo := NewMockRiderRepository()
	clientRepo := NewMockClientRepository()
	deliveryRepo := NewMockDeliveryRepository()
	cache := NewMockCacheStore()
	svc := service.NewReportingService(paymentRepo, riderRepo, clientRepo, deliveryRepo, cache)
	return svc, paymentRepo, riderRepo, clientRepo, deliveryRepo, cache
}

func TestDashboard_AggregatesTheLedger(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _, _ := newReportingFixture()

	// Office holds 12000 of which the rider's cut is 9000.
	paymentRepo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID: 1, TotalAmount: 12000, RiderAmount: 9000, CoopAmount: 2000,
			PaymentStatus:    domain.PaymentStatusOffice,
			SettlementStatus: domain.SettlementStatusCleared,
		},
		DeliveryState: domain.DeliveryStateDelivered, ClientID: 1, RiderID: 1,
	})
	// Cash still riding with the courier.
	paymentRepo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID: 2, TotalAmount: 5000, RiderAmount: 4000, CoopAmount: 1000,
			PaymentStatus:    domain.PaymentStatusCourier,
			SettlementStatus: domain.SettlementStatusPending,
		},
		DeliveryState: domain.DeliveryStateDelivered, ClientID: 1, RiderID: 1,
	})
	// Funds held by the client.
	paymentRepo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID: 3, TotalAmount: 8000, RiderAmount: 6000, CoopAmount: 1000,
			PaymentStatus:    domain.PaymentStatusClient,
			SettlementStatus: domain.SettlementStatusCleared,
		},
		DeliveryState: domain.DeliveryStateDelivered, ClientID: 2, RiderID: 1,
	})

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rider leg: payments 1 and 3 are payable (past-pending and unsettled),
	// payment 2 is still pending courier cash.
	if dashboard.ToPayRiderCount != 2 {
		t.Errorf("expected 2 payables, got %d", dashboard.ToPayRiderCount)
	}
	if dashboard.ToPayRiderTotal != 5000 { // (12000-9000) + (8000-6000)
		t.Errorf("expected to-pay total 5000, got %v", dashboard.ToPayRiderTotal)
	}
	if dashboard.PendingRiderPayments != 1 || dashboard.PendingRiderAmount != 4000 {
		t.Errorf("pending rider: expected (1, 4000), got (%d, %v)",
			dashboard.PendingRiderPayments, dashboard.PendingRiderAmount)
	}
	if dashboard.PendingClientPayments != 1 || dashboard.PendingClientAmount != 8000 {
		t.Errorf("pending client: expected (1, 8000), got (%d, %v)",
			dashboard.PendingClientPayments, dashboard.PendingClientAmount)
	}
	if dashboard.TotalTransactions != 3 || dashboard.TotalAmount != 25000 {
		t.Errorf("totals: expected (3, 25000), got (%d, %v)",
			dashboard.TotalTransactions, dashboard.TotalAmount)
	}
}

func TestDashboard_EmptyLedgerIsAllZeros(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newReportingFixture()

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dashboard.ToPayRiderCount != 0 || dashboard.ToPayRiderTotal != 0 ||
		dashboard.TotalTransactions != 0 || dashboard.TotalAmount != 0 {
		t.Errorf("expected zeroed dashboard, got %+v", dashboard)
	}
}

func TestDashboard_ServedFromCacheUntilInvalidated(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _, cache := newReportingFixture()

	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Fatalf("expected cache fill, got %d sets", cache.SetCallCount)
	}

	// A new payment appears but the cached payload still answers.
	paymentRepo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID: 1, TotalAmount: 9000, RiderAmount: 7000,
			PaymentStatus:    domain.PaymentStatusOffice,
			SettlementStatus: domain.SettlementStatusCleared,
		},
		DeliveryState: domain.DeliveryStateDelivered, ClientID: 1, RiderID: 1,
	})

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dashboard.TotalTransactions != 0 {
		t.Errorf("expected stale cached payload, got %d transactions", dashboard.TotalTransactions)
	}

	// After invalidation the fresh row shows up.
	_ = cache.InvalidateDashboard(context.Background())
	dashboard, err = svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dashboard.TotalTransactions != 1 {
		t.Errorf("expected fresh payload after invalidation, got %d", dashboard.TotalTransactions)
	}
}

// ──────────────────────────────────────────────
// STATEMENT DETAILS AND ACTIVITY
// ──────────────────────────────────────────────

func TestRiderPaymentDetails_UnknownRiderRejected(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newReportingFixture()

	_, err := svc.RiderPaymentDetails(context.Background(), 42, "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRiderPaymentDetails_FiltersBySettlementStatus(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, riderRepo, _, _, _ := newReportingFixture()
	riderRepo.AddRider(&domain.Rider{ID: 1, Name: "Marco", IsActive: true})
	addRiderPayment(paymentRepo, 1, 1, domain.SettlementStatusPending)
	addRiderPayment(paymentRepo, 2, 1, domain.SettlementStatusSettled)

	details, err := svc.RiderPaymentDetails(context.Background(), 1, domain.SettlementStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(details))
	}
	if details[0].PaymentID != 1 {
		t.Errorf("expected payment 1, got %d", details[0].PaymentID)
	}
}

func TestRiderActivitySummary_CountsAndEarnings(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, riderRepo, _, deliveryRepo, _ := newReportingFixture()
	riderRepo.AddRider(&domain.Rider{ID: 1, Name: "Marco", IsActive: true})
	deliveryRepo.AddDelivery(&domain.Delivery{ID: 1, ClientID: 1, RiderID: 1, State: domain.DeliveryStateDelivered})
	deliveryRepo.AddDelivery(&domain.Delivery{ID: 2, ClientID: 1, RiderID: 1, State: domain.DeliveryStateInProgress})
	addRiderPayment(paymentRepo, 1, 1, domain.SettlementStatusPending)
	addRiderPayment(paymentRepo, 2, 1, domain.SettlementStatusSettled)

	activity, err := svc.RiderActivitySummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activity.TotalDeliveries != 2 || activity.Completed != 1 || activity.InProgress != 1 {
		t.Errorf("counts: expected (2, 1, 1), got (%d, %d, %d)",
			activity.TotalDeliveries, activity.Completed, activity.InProgress)
	}
	if activity.TotalEarnings != 18000 {
		t.Errorf("expected earnings 18000, got %v", activity.TotalEarnings)
	}
	if activity.PendingPayments != 9000 {
		t.Errorf("expected pending 9000, got %v", activity.PendingPayments)
	}
}

// ──────────────────────────────────────────────
// PERIODS
// ──────────────────────────────────────────────

func TestResolvePeriod(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	from, to := service.ResolvePeriod("today", time.Time{}, time.Time{})
	if from.Hour() != 0 || from.Day() != now.Day() {
		t.Errorf("today: expected midnight today, got %v", from)
	}
	if !to.IsZero() {
		t.Errorf("today: expected open end, got %v", to)
	}

	from, _ = service.ResolvePeriod("month", time.Time{}, time.Time{})
	if from.Day() != 1 || from.Month() != now.Month() {
		t.Errorf("month: expected first of month, got %v", from)
	}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	from, to = service.ResolvePeriod("custom", start, end)
	if !from.Equal(start) {
		t.Errorf("custom: expected start preserved, got %v", from)
	}
	if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
		t.Errorf("custom: expected end of day, got %v", to)
	}

	from, to = service.ResolvePeriod("quarter", time.Time{}, time.Time{})
	if !from.IsZero() || !to.IsZero() {
		t.Errorf("unknown period: expected zero range, got (%v, %v)", from, to)
	}
}

func TestPeriodSummary_DefaultsToCurrentMonth(t *testing.T) {
	t.Parallel()

	svc, paymentRepo, _, _, _, _ := newReportingFixture()
	now := time.Now().UTC()
	paymentRepo.AddRow(settlement.Row{
		Payment: domain.Payment{
			ID: 1, TotalAmount: 9000, RiderAmount: 7000, CoopAmount: 1000,
			PaymentStatus:    domain.PaymentStatusOffice,
			PaymentType:      domain.PaymentTypeCash,
			SettlementStatus: domain.SettlementStatusCleared,
			CreatedAt:        now,
		},
		DeliveryState: domain.DeliveryStateDelivered, ClientID: 1, RiderID: 1,
	})

	result, err := svc.PeriodSummary(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.From.Day() != 1 || result.From.Month() != now.Month() {
		t.Errorf("expected first of current month, got %v", result.From)
	}
	if result.Summary.Totals.Count != 1 {
		t.Errorf("expected 1 payment in the period, got %d", result.Summary.Totals.Count)
	}
}
