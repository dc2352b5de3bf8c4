package settlement

import (
	"testing"

	"dispatch/internal/domain"
)

func courierRow(riderID int64, riderAmount float64, settled bool) Row {
	status := domain.SettlementStatusPending
	if settled {
		status = domain.SettlementStatusSettled
	}
	return Row{
		Payment: domain.Payment{
			TotalAmount:      riderAmount + 1000,
			RiderAmount:      riderAmount,
			PaymentStatus:    domain.PaymentStatusCourier,
			SettlementStatus: status,
		},
		DeliveryState: domain.DeliveryStateDelivered,
		ClientID:      1,
		RiderID:       riderID,
		RiderName:     "rider",
	}
}

func TestRiderStatements_OnlyCourierCustodyParticipates(t *testing.T) {
	t.Parallel()

	rows := []Row{
		courierRow(1, 5000, false),
		{
			Payment: domain.Payment{
				RiderAmount:      9000,
				PaymentStatus:    domain.PaymentStatusOffice,
				SettlementStatus: domain.SettlementStatusPending,
			},
			DeliveryState: domain.DeliveryStateDelivered,
			RiderID:       1,
		},
	}

	statements := RiderStatements(rows)
	if len(statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(statements))
	}
	if statements[0].TotalDeliveries != 1 {
		t.Errorf("expected 1 delivery in statement, got %d", statements[0].TotalDeliveries)
	}
	if statements[0].TotalAmount != 5000 {
		t.Errorf("expected total 5000, got %v", statements[0].TotalAmount)
	}
}

func TestRiderStatements_PendingSumsOnlyPendingRows(t *testing.T) {
	t.Parallel()

	rows := []Row{
		courierRow(1, 5000, false),
		courierRow(1, 3000, true),
	}

	statements := RiderStatements(rows)
	if len(statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(statements))
	}
	st := statements[0]
	if st.TotalAmount != 8000 {
		t.Errorf("expected total 8000, got %v", st.TotalAmount)
	}
	if st.PendingAmount != 5000 {
		t.Errorf("expected pending 5000, got %v", st.PendingAmount)
	}
}

func TestRiderStatements_SortedByPendingDescending(t *testing.T) {
	t.Parallel()

	rows := []Row{
		courierRow(1, 2000, false),
		courierRow(2, 9000, false),
		courierRow(3, 5000, false),
	}

	statements := RiderStatements(rows)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(statements))
	}
	if statements[0].RiderID != 2 || statements[1].RiderID != 3 || statements[2].RiderID != 1 {
		t.Errorf("expected order [2 3 1], got [%d %d %d]",
			statements[0].RiderID, statements[1].RiderID, statements[2].RiderID)
	}
}

func TestRiderStatements_UndispatchedRowsIgnored(t *testing.T) {
	t.Parallel()

	rows := []Row{{
		Payment: domain.Payment{
			RiderAmount:      4000,
			PaymentStatus:    domain.PaymentStatusCourier,
			SettlementStatus: domain.SettlementStatusPending,
		},
		DeliveryState: domain.DeliveryStatePending,
		RiderID:       0,
	}}

	if got := RiderStatements(rows); len(got) != 0 {
		t.Errorf("expected no statements for undispatched rows, got %d", len(got))
	}
}

func clientRow(clientID int64, p domain.Payment) Row {
	return Row{
		Payment:       p,
		DeliveryState: domain.DeliveryStateDelivered,
		ClientID:      clientID,
		ClientName:    "client",
		RiderID:       1,
	}
}

func TestClientStatements_NetBalanceAndOpenIDs(t *testing.T) {
	t.Parallel()

	rows := []Row{
		// Office owes the client the 1000 spread.
		clientRow(1, domain.Payment{
			ID:               10,
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusOffice,
			SettlementStatus: domain.SettlementStatusCleared,
		}),
		// Client owes the office 11000 in cuts.
		clientRow(1, domain.Payment{
			ID:               11,
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusClient,
			SettlementStatus: domain.SettlementStatusCleared,
		}),
		// Already settled on the client axis: counted in totals, not open.
		clientRow(1, domain.Payment{
			ID:                     12,
			TotalAmount:            5000,
			RiderAmount:            4000,
			CoopAmount:             1000,
			PaymentStatus:          domain.PaymentStatusOffice,
			SettlementStatus:       domain.SettlementStatusSettled,
			ClientSettlementStatus: domain.ClientSettlementSettled,
		}),
	}

	statements := ClientStatements(rows)
	if len(statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(statements))
	}
	st := statements[0]

	if st.TotalDeliveries != 3 {
		t.Errorf("expected 3 deliveries, got %d", st.TotalDeliveries)
	}
	if st.OfficeOwesClient != 1000 {
		t.Errorf("expected office owes 1000, got %v", st.OfficeOwesClient)
	}
	if st.ClientOwesOffice != 11000 {
		t.Errorf("expected client owes 11000, got %v", st.ClientOwesOffice)
	}
	if st.NetBalance != -10000 {
		t.Errorf("expected net -10000, got %v", st.NetBalance)
	}
	if st.ClientSettlementStatus != domain.ClientSettlementPending {
		t.Errorf("expected pending client settlement, got %s", st.ClientSettlementStatus)
	}

	if len(st.PaymentIDs) != 2 {
		t.Fatalf("expected 2 open payment ids, got %d", len(st.PaymentIDs))
	}
	for _, id := range st.PaymentIDs {
		if id == 12 {
			t.Error("settled payment leaked into the open id list")
		}
	}
}

func TestClientStatements_SortedByNetBalanceDescending(t *testing.T) {
	t.Parallel()

	rows := []Row{
		clientRow(1, domain.Payment{
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusClient,
			SettlementStatus: domain.SettlementStatusCleared,
		}),
		clientRow(2, domain.Payment{
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusOffice,
			SettlementStatus: domain.SettlementStatusCleared,
		}),
	}

	statements := ClientStatements(rows)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(statements))
	}
	// Client 2 is owed the spread (positive); client 1 owes the office.
	if statements[0].ClientID != 2 || statements[1].ClientID != 1 {
		t.Errorf("expected order [2 1], got [%d %d]", statements[0].ClientID, statements[1].ClientID)
	}
}

func TestSummarizePeriod_Breakdowns(t *testing.T) {
	t.Parallel()

	rows := []Row{
		clientRow(1, domain.Payment{
			TotalAmount:      12000,
			RiderAmount:      9000,
			CoopAmount:       2000,
			PaymentStatus:    domain.PaymentStatusOffice,
			PaymentType:      domain.PaymentTypeCash,
			SettlementStatus: domain.SettlementStatusCleared,
		}),
		clientRow(1, domain.Payment{
			TotalAmount:      8000,
			RiderAmount:      6000,
			CoopAmount:       1000,
			PaymentStatus:    domain.PaymentStatusOffice,
			PaymentType:      domain.PaymentTypeTransfer,
			SettlementStatus: domain.SettlementStatusPending,
		}),
	}

	sum := SummarizePeriod(rows)
	if sum.Totals.Count != 2 || sum.Totals.TotalAmount != 20000 {
		t.Errorf("totals: expected (2, 20000), got (%d, %v)", sum.Totals.Count, sum.Totals.TotalAmount)
	}
	if sum.Totals.RiderAmount != 15000 || sum.Totals.CoopAmount != 3000 {
		t.Errorf("splits: expected (15000, 3000), got (%v, %v)", sum.Totals.RiderAmount, sum.Totals.CoopAmount)
	}
	if agg := sum.ByStatus[domain.PaymentStatusOffice]; agg.Count != 2 || agg.Amount != 20000 {
		t.Errorf("by status: expected (2, 20000), got (%d, %v)", agg.Count, agg.Amount)
	}
	if agg := sum.ByType[domain.PaymentTypeCash]; agg.Count != 1 || agg.Amount != 12000 {
		t.Errorf("by type cash: expected (1, 12000), got (%d, %v)", agg.Count, agg.Amount)
	}
}
