package service

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/domain"
	internalRedis "dispatch/internal/redis"
	"dispatch/internal/repository"
	"dispatch/internal/settlement"
)

// DashboardSummary is the office dashboard payload. Field names are part of
// the API contract consumed by the back-office frontend; every numeric field
// defaults to 0 when nothing matches. It carries its JSON tags here because
// the serialized form is what gets cached.
type DashboardSummary struct {
	ToPayRiderTotal          float64 `json:"to_pay_rider_total"`
	ToPayRiderCount          int     `json:"to_pay_rider_count"`
	PendingToRiderFromOffice float64 `json:"pending_to_rider_from_office"`
	PendingToRiderFromClient float64 `json:"pending_to_rider_from_client"`
	PendingRiderPayments     int     `json:"pendingRiderPayments"`
	PendingRiderAmount       float64 `json:"pendingRiderAmount"`
	PendingClientPayments    int     `json:"pendingClientPayments"`
	PendingClientAmount      float64 `json:"pendingClientAmount"`
	PendingOfficeToClient    int     `json:"pendingOfficeToClient"`
	PendingOfficeToClientAmt float64 `json:"pendingOfficeToClientAmount"`
	TotalTransactions        int     `json:"totalTransactions"`
	TotalAmount              float64 `json:"totalAmount"`
}

// StatementFilter restricts statement listings.
type StatementFilter struct {
	SettlementStatus domain.SettlementStatus
	PaymentStatus    domain.PaymentStatus
	From             time.Time
	To               time.Time
}

// RiderPaymentDetail is one payment line in a rider's statement detail.
type RiderPaymentDetail struct {
	PaymentID        int64
	DeliveryID       int64
	Date             time.Time
	TotalAmount      float64
	RiderAmount      float64
	SettlementStatus domain.SettlementStatus
	PaymentType      domain.PaymentType
}

// ClientPaymentDetail is one payment line in a client's statement detail.
type ClientPaymentDetail struct {
	PaymentID     int64
	DeliveryID    int64
	Date          time.Time
	TotalAmount   float64
	PaymentStatus domain.PaymentStatus
	PaymentType   domain.PaymentType
}

// RiderActivity summarizes a rider's deliveries and earnings.
type RiderActivity struct {
	Rider           *domain.Rider
	TotalDeliveries int
	Pending         int
	InProgress      int
	Completed       int
	TotalEarnings   float64
	PendingPayments float64
	Recent          []*domain.Delivery
}

// recentDeliveriesLimit caps the delivery list in a rider activity view.
const recentDeliveriesLimit = 10

// ReportingService answers the read side of the ledger: dashboard,
// statements and period summaries. It re-runs the calculator on demand;
// there is no cached ledger state beyond the short-lived dashboard payload.
type ReportingService struct {
	payments   repository.PaymentRepository
	riders     repository.RiderRepository
	clients    repository.ClientRepository
	deliveries repository.DeliveryRepository
	cache      internalRedis.CacheStoreInterface
}

// NewReportingService creates a new ReportingService. cache may be nil.
func NewReportingService(
	payments repository.PaymentRepository,
	riders repository.RiderRepository,
	clients repository.ClientRepository,
	deliveries repository.DeliveryRepository,
	cache internalRedis.CacheStoreInterface,
) *ReportingService {
	return &ReportingService{
		payments:   payments,
		riders:     riders,
		clients:    clients,
		deliveries: deliveries,
		cache:      cache,
	}
}

// Dashboard computes the office dashboard. The result may lag concurrent
// writers by the cache TTL; settlement commands must never decide from it.
func (s *ReportingService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		if data, err := s.cache.GetDashboard(ctx); err == nil && data != nil {
			var cached DashboardSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	rows, err := s.payments.ListRows(ctx, repository.RowFilter{})
	if err != nil {
		return nil, err
	}

	sum := settlement.Summarize(rows)
	dashboard := &DashboardSummary{
		ToPayRiderTotal:          sum.ToPayRider.Amount,
		ToPayRiderCount:          sum.ToPayRider.Count,
		PendingToRiderFromOffice: sum.ToPayRider.Amount,
		PendingToRiderFromClient: sum.ClientPulled.Amount,
		PendingRiderPayments:     sum.PendingRider.Count,
		PendingRiderAmount:       sum.PendingRider.Amount,
		PendingClientPayments:    sum.PendingClient.Count,
		PendingClientAmount:      sum.PendingClient.Amount,
		PendingOfficeToClient:    sum.ToPayClient.Count,
		PendingOfficeToClientAmt: sum.ToPayClient.Amount,
		TotalTransactions:        sum.Totals.Count,
		TotalAmount:              sum.Totals.Amount,
	}

	if s.cache != nil {
		if data, err := json.Marshal(dashboard); err == nil {
			_ = s.cache.SetDashboard(ctx, data)
		}
	}

	return dashboard, nil
}

// RiderStatements lists per-rider collection statements, largest pending first.
func (s *ReportingService) RiderStatements(ctx context.Context, filter StatementFilter) ([]settlement.RiderStatement, error) {
	rows, err := s.payments.ListRows(ctx, repository.RowFilter{
		SettlementStatus: filter.SettlementStatus,
		From:             filter.From,
		To:               filter.To,
	})
	if err != nil {
		return nil, err
	}
	return settlement.RiderStatements(rows), nil
}

// RiderPaymentDetails lists the individual payments behind one rider's statement.
func (s *ReportingService) RiderPaymentDetails(ctx context.Context, riderID int64, status domain.SettlementStatus) ([]RiderPaymentDetail, error) {
	if riderID <= 0 {
		return nil, ErrInvalidRiderID
	}
	if _, err := s.riders.GetByID(ctx, riderID); err != nil {
		return nil, err
	}

	rows, err := s.payments.ListRows(ctx, repository.RowFilter{
		RiderID:          riderID,
		SettlementStatus: status,
	})
	if err != nil {
		return nil, err
	}

	details := make([]RiderPaymentDetail, 0, len(rows))
	for i := range rows {
		p := &rows[i].Payment
		details = append(details, RiderPaymentDetail{
			PaymentID:        p.ID,
			DeliveryID:       p.DeliveryID,
			Date:             p.CreatedAt,
			TotalAmount:      p.TotalAmount,
			RiderAmount:      p.RiderAmount,
			SettlementStatus: p.SettlementStatus,
			PaymentType:      p.PaymentType,
		})
	}
	return details, nil
}

// ClientStatements lists per-client net balance statements.
func (s *ReportingService) ClientStatements(ctx context.Context, filter StatementFilter) ([]settlement.ClientStatement, error) {
	rows, err := s.payments.ListRows(ctx, repository.RowFilter{
		PaymentStatus: filter.PaymentStatus,
		From:          filter.From,
		To:            filter.To,
	})
	if err != nil {
		return nil, err
	}
	return settlement.ClientStatements(rows), nil
}

// ClientPaymentDetails lists the individual payments behind one client's statement.
func (s *ReportingService) ClientPaymentDetails(ctx context.Context, clientID int64, status domain.PaymentStatus) ([]ClientPaymentDetail, error) {
	if clientID <= 0 {
		return nil, ErrInvalidClientID
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	rows, err := s.payments.ListRows(ctx, repository.RowFilter{
		ClientID:      clientID,
		PaymentStatus: status,
	})
	if err != nil {
		return nil, err
	}

	details := make([]ClientPaymentDetail, 0, len(rows))
	for i := range rows {
		p := &rows[i].Payment
		details = append(details, ClientPaymentDetail{
			PaymentID:     p.ID,
			DeliveryID:    p.DeliveryID,
			Date:          p.CreatedAt,
			TotalAmount:   p.TotalAmount,
			PaymentStatus: p.PaymentStatus,
			PaymentType:   p.PaymentType,
		})
	}
	return details, nil
}

// PeriodSummaryResult is the period breakdown plus the resolved date range.
type PeriodSummaryResult struct {
	From    time.Time
	To      time.Time
	Summary settlement.PeriodSummary
}

// PeriodSummary breaks payments down by status and type over a date range,
// defaulting to the current month.
func (s *ReportingService) PeriodSummary(ctx context.Context, from, to time.Time) (*PeriodSummaryResult, error) {
	now := time.Now().UTC()
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 1, 0).Add(-time.Second)
	}

	rows, err := s.payments.ListRows(ctx, repository.RowFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	return &PeriodSummaryResult{
		From:    from,
		To:      to,
		Summary: settlement.SummarizePeriod(rows),
	}, nil
}

// RiderActivitySummary aggregates one rider's deliveries, earnings and
// pending balance.
func (s *ReportingService) RiderActivitySummary(ctx context.Context, riderID int64) (*RiderActivity, error) {
	if riderID <= 0 {
		return nil, ErrInvalidRiderID
	}

	rider, err := s.riders.GetByID(ctx, riderID)
	if err != nil {
		return nil, err
	}

	deliveries, err := s.deliveries.List(ctx, repository.DeliveryFilter{RiderID: riderID})
	if err != nil {
		return nil, err
	}

	rows, err := s.payments.ListRows(ctx, repository.RowFilter{RiderID: riderID})
	if err != nil {
		return nil, err
	}

	activity := &RiderActivity{Rider: rider}
	for _, d := range deliveries {
		activity.TotalDeliveries++
		switch d.State {
		case domain.DeliveryStatePending:
			activity.Pending++
		case domain.DeliveryStateInProgress:
			activity.InProgress++
		case domain.DeliveryStateDelivered:
			activity.Completed++
		}
	}
	for i := range rows {
		p := &rows[i].Payment
		activity.TotalEarnings += p.RiderAmount
		if p.SettlementStatus == domain.SettlementStatusPending {
			activity.PendingPayments += p.RiderAmount
		}
	}

	recent := deliveries
	if len(recent) > recentDeliveriesLimit {
		recent = recent[:recentDeliveriesLimit]
	}
	activity.Recent = recent

	return activity, nil
}

// ResolvePeriod turns a named period ("today", "week", "month", "custom")
// into a concrete date range. For "custom" the given bounds are used, with
// the end extended to the end of its day.
func ResolvePeriod(period string, start, end time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	switch period {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), time.Time{}
	case "week":
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -daysSinceMonday)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC), time.Time{}
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), time.Time{}
	case "custom":
		if !end.IsZero() {
			end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
		}
		return start, end
	}
	return time.Time{}, time.Time{}
}
