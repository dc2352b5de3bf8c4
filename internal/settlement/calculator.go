// Package settlement computes who owes whom across the three-sided ledger:
// money can sit at the rider, the office, or the client, and the aggregates
// here reconcile the three custody axes after cash or transfers change hands.
//
// Every aggregate is a named predicate plus a fold so each money-flow
// direction stays independently testable.
package settlement

import (
	"dispatch/internal/domain"
)

// Row is one payment joined with the delivery and party data the
// calculator needs. Repositories produce these; the calculator never
// touches storage.
type Row struct {
	Payment       domain.Payment
	DeliveryState domain.DeliveryState
	ClientID      int64
	ClientName    string
	ClientPhone   string
	RiderID       int64 // 0 when the delivery was never dispatched
	RiderName     string
	RiderPhone    string
}

// Aggregate is a (count, amount) pair. The zero value is the correct
// result for an empty match set: dashboards must never see an absent field.
type Aggregate struct {
	Count  int
	Amount float64
}

// Fold applies pred to every row and sums amount over the matches.
func Fold(rows []Row, pred func(Row) bool, amount func(*domain.Payment) float64) Aggregate {
	var agg Aggregate
	for i := range rows {
		if pred(rows[i]) {
			agg.Count++
			agg.Amount += amount(&rows[i].Payment)
		}
	}
	return agg
}

// IsRiderPayable selects payments where the office owes the rider the
// portion of the collected total beyond the rider's own cut. A payment
// still sitting as PENDING cash in the courier's hands is excluded: no
// hand-off to the office is underway yet.
func IsRiderPayable(r Row) bool {
	if r.DeliveryState != domain.DeliveryStateDelivered {
		return false
	}
	p := &r.Payment
	if p.SettlementStatus == domain.SettlementStatusSettled {
		return false
	}
	if p.SettlementStatus == domain.SettlementStatusPending &&
		p.PaymentStatus == domain.PaymentStatusCourier {
		return false
	}
	return true
}

// RiderPayableAmount is the overpayment held beyond the rider's cut.
func RiderPayableAmount(p *domain.Payment) float64 {
	return p.TotalAmount - p.RiderAmount
}

// IsClientPulledTransfer selects payments where a client pulled the rider's
// share directly from the rider, pending office accounting. Informational.
func IsClientPulledTransfer(r Row) bool {
	return r.Payment.SettlementStatus == domain.SettlementStatusTransferredToClient &&
		r.Payment.PaymentStatus == domain.PaymentStatusClientReceivedTransfer
}

// isClientSettleBase is the shared filter for the two client-leg aggregates:
// the delivery happened, the client's balance is not settled, and the rider
// leg is past PENDING.
func isClientSettleBase(r Row) bool {
	return r.DeliveryState == domain.DeliveryStateDelivered &&
		r.Payment.ClientSettlementStatus != domain.ClientSettlementSettled &&
		r.Payment.SettlementStatus != domain.SettlementStatusPending
}

// IsClientReceivable selects payments where the client owes the office:
// the client holds the funds, so the rider and coop cuts are due.
func IsClientReceivable(r Row) bool {
	if !isClientSettleBase(r) {
		return false
	}
	s := r.Payment.PaymentStatus
	return s == domain.PaymentStatusClient || s == domain.PaymentStatusClientReceivedTransfer
}

// ClientReceivableAmount is the rider and coop cuts due from the client.
func ClientReceivableAmount(p *domain.Payment) float64 {
	return p.RiderAmount + p.CoopAmount
}

// IsClientPayable selects payments where the office owes the client the
// spread: courier or office custody, client balance unsettled.
func IsClientPayable(r Row) bool {
	if !isClientSettleBase(r) {
		return false
	}
	s := r.Payment.PaymentStatus
	return s == domain.PaymentStatusCourier ||
		s == domain.PaymentStatusOffice ||
		s == domain.PaymentStatusOfficeReceivedTransfer
}

// ClientPayableAmount is the spread the office owes back to the client.
func ClientPayableAmount(p *domain.Payment) float64 {
	return p.TotalAmount - (p.RiderAmount + p.CoopAmount)
}

// IsPendingCourierCash selects payments where the rider still physically
// holds the client's money and no reconciliation has started.
func IsPendingCourierCash(r Row) bool {
	return r.Payment.SettlementStatus == domain.SettlementStatusPending &&
		r.Payment.PaymentStatus == domain.PaymentStatusCourier
}

// IsClientHolding selects payments where the client currently holds the funds.
func IsClientHolding(r Row) bool {
	return r.Payment.PaymentStatus == domain.PaymentStatusClient
}

func riderAmount(p *domain.Payment) float64 { return p.RiderAmount }
func totalAmount(p *domain.Payment) float64 { return p.TotalAmount }

// Summary holds the dashboard aggregates over a payment set.
type Summary struct {
	ToPayRider    Aggregate // office owes rider, beyond the rider's cut
	ClientPulled  Aggregate // rider share pulled back by clients, informational
	PendingRider  Aggregate // rider cuts stuck in courier custody
	PendingClient Aggregate // totals currently held by clients
	ToPayClient   Aggregate // spread the office owes back to clients
	Totals        Aggregate // every payment in the set
}

// NetClientBalance is what the office owes clients minus what clients owe
// the office. Positive means the office owes the clients.
func (s Summary) NetClientBalance(clientReceivable Aggregate) float64 {
	return s.ToPayClient.Amount - clientReceivable.Amount
}

// Summarize folds the full aggregate set in one pass over the rows.
func Summarize(rows []Row) Summary {
	return Summary{
		ToPayRider:    Fold(rows, IsRiderPayable, RiderPayableAmount),
		ClientPulled:  Fold(rows, IsClientPulledTransfer, riderAmount),
		PendingRider:  Fold(rows, IsPendingCourierCash, riderAmount),
		PendingClient: Fold(rows, IsClientHolding, totalAmount),
		ToPayClient:   Fold(rows, IsClientPayable, ClientPayableAmount),
		Totals:        Fold(rows, func(Row) bool { return true }, totalAmount),
	}
}
