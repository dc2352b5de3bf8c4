package settlement

import (
	"sort"

	"dispatch/internal/domain"
)

// RiderStatement is the per-rider view of money still moving through the
// courier leg.
type RiderStatement struct {
	RiderID          int64
	RiderName        string
	RiderPhone       string
	TotalDeliveries  int
	SettlementStatus domain.SettlementStatus
	TotalAmount      float64
	PendingAmount    float64
}

// RiderStatements groups courier-custody payments by rider. Only rows in
// COURIER custody participate, matching the collection view the office
// reconciles against. Sorted by pending amount descending.
func RiderStatements(rows []Row) []RiderStatement {
	byRider := make(map[int64]*RiderStatement)
	for i := range rows {
		r := &rows[i]
		if r.RiderID == 0 || r.Payment.PaymentStatus != domain.PaymentStatusCourier {
			continue
		}
		st, ok := byRider[r.RiderID]
		if !ok {
			st = &RiderStatement{
				RiderID:    r.RiderID,
				RiderName:  r.RiderName,
				RiderPhone: r.RiderPhone,
			}
			byRider[r.RiderID] = st
		}
		st.TotalDeliveries++
		st.TotalAmount += r.Payment.RiderAmount
		if r.Payment.SettlementStatus == domain.SettlementStatusPending {
			st.PendingAmount += r.Payment.RiderAmount
		}
	}

	out := make([]RiderStatement, 0, len(byRider))
	for _, st := range byRider {
		if st.PendingAmount > 0 {
			st.SettlementStatus = domain.SettlementStatusPending
		} else {
			st.SettlementStatus = domain.SettlementStatusSettled
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PendingAmount != out[j].PendingAmount {
			return out[i].PendingAmount > out[j].PendingAmount
		}
		return out[i].RiderID < out[j].RiderID
	})
	return out
}

// ClientStatement is the per-client view of the net balance between the
// office and a client, with the payment ids still open on the client leg
// so a settlement command can target exactly those.
type ClientStatement struct {
	ClientID               int64
	ClientName             string
	ClientPhone            string
	TotalDeliveries        int
	TotalAmount            float64
	CoopAmount             float64
	OfficeOwesClient       float64
	ClientOwesOffice       float64
	NetBalance             float64
	ClientSettlementStatus domain.ClientSettlementStatus
	PaymentIDs             []int64
}

// ClientStatements groups all rows by client and reuses the client-leg
// aggregate predicates per group. Sorted by net balance descending.
func ClientStatements(rows []Row) []ClientStatement {
	grouped := make(map[int64][]Row)
	order := make([]int64, 0)
	for _, r := range rows {
		if _, seen := grouped[r.ClientID]; !seen {
			order = append(order, r.ClientID)
		}
		grouped[r.ClientID] = append(grouped[r.ClientID], r)
	}

	out := make([]ClientStatement, 0, len(order))
	for _, clientID := range order {
		group := grouped[clientID]
		st := ClientStatement{
			ClientID:               clientID,
			ClientName:             group[0].ClientName,
			ClientPhone:            group[0].ClientPhone,
			ClientSettlementStatus: domain.ClientSettlementSettled,
		}
		for i := range group {
			p := &group[i].Payment
			st.TotalDeliveries++
			st.TotalAmount += p.TotalAmount
			st.CoopAmount += p.CoopAmount
			if p.ClientSettlementStatus != domain.ClientSettlementSettled {
				st.ClientSettlementStatus = domain.ClientSettlementPending
			}
			if isClientSettleBase(group[i]) {
				st.PaymentIDs = append(st.PaymentIDs, p.ID)
			}
		}
		st.OfficeOwesClient = Fold(group, IsClientPayable, ClientPayableAmount).Amount
		st.ClientOwesOffice = Fold(group, IsClientReceivable, ClientReceivableAmount).Amount
		st.NetBalance = st.OfficeOwesClient - st.ClientOwesOffice
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetBalance != out[j].NetBalance {
			return out[i].NetBalance > out[j].NetBalance
		}
		return out[i].ClientID < out[j].ClientID
	})
	return out
}

// PeriodTotals is the overall money split in a date range.
type PeriodTotals struct {
	Count       int
	TotalAmount float64
	RiderAmount float64
	CoopAmount  float64
}

// PeriodSummary breaks a payment set down by custody status and by
// collection type, alongside the overall totals.
type PeriodSummary struct {
	Totals   PeriodTotals
	ByStatus map[domain.PaymentStatus]Aggregate
	ByType   map[domain.PaymentType]Aggregate
}

// SummarizePeriod computes the period breakdowns in one pass.
func SummarizePeriod(rows []Row) PeriodSummary {
	sum := PeriodSummary{
		ByStatus: make(map[domain.PaymentStatus]Aggregate),
		ByType:   make(map[domain.PaymentType]Aggregate),
	}
	for i := range rows {
		p := &rows[i].Payment
		sum.Totals.Count++
		sum.Totals.TotalAmount += p.TotalAmount
		sum.Totals.RiderAmount += p.RiderAmount
		sum.Totals.CoopAmount += p.CoopAmount

		byStatus := sum.ByStatus[p.PaymentStatus]
		byStatus.Count++
		byStatus.Amount += p.TotalAmount
		sum.ByStatus[p.PaymentStatus] = byStatus

		byType := sum.ByType[p.PaymentType]
		byType.Count++
		byType.Amount += p.TotalAmount
		sum.ByType[p.PaymentType] = byType
	}
	return sum
}
