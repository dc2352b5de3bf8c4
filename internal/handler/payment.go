package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// PaymentHandler handles HTTP requests for payments and settlements.
type PaymentHandler struct {
	settlementService *service.SettlementService
	reportingService  *service.ReportingService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(settlementService *service.SettlementService, reportingService *service.ReportingService) *PaymentHandler {
	return &PaymentHandler{
		settlementService: settlementService,
		reportingService:  reportingService,
	}
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID                     int64   `json:"id"`
	DeliveryID             int64   `json:"delivery_id"`
	SettlementStatus       string  `json:"settlement_status"`
	PaymentType            string  `json:"payment_type"`
	PaymentStatus          string  `json:"payment_status"`
	ClientSettlementStatus string  `json:"client_settlement_status"`
	PaymentReference       string  `json:"payment_reference,omitempty"`
	TotalAmount            float64 `json:"total_amount"`
	RiderAmount            float64 `json:"rider_amount"`
	CoopAmount             float64 `json:"coop_amount"`
	Comments               string  `json:"comments,omitempty"`
	CreatedAt              string  `json:"created_at"`
	UpdatedAt              string  `json:"updated_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                     p.ID,
		DeliveryID:             p.DeliveryID,
		SettlementStatus:       string(p.SettlementStatus),
		PaymentType:            string(p.PaymentType),
		PaymentStatus:          string(p.PaymentStatus),
		ClientSettlementStatus: string(p.ClientSettlementStatus),
		PaymentReference:       p.PaymentReference,
		TotalAmount:            p.TotalAmount,
		RiderAmount:            p.RiderAmount,
		CoopAmount:             p.CoopAmount,
		Comments:               p.Comments,
		CreatedAt:              p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              p.UpdatedAt.Format(time.RFC3339),
	}
}

// GetDashboard handles GET /v1/payments/dashboard
func (h *PaymentHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportingService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dashboard)
}

// RiderStatementResponse is one row of the per-rider statement list.
type RiderStatementResponse struct {
	RiderID          int64   `json:"rider_id"`
	RiderName        string  `json:"rider_name"`
	RiderPhone       string  `json:"rider_phone"`
	TotalDeliveries  int     `json:"total_deliveries"`
	SettlementStatus string  `json:"settlement_status"`
	TotalAmount      float64 `json:"total_amount"`
	PendingAmount    float64 `json:"pending_amount"`
}

// GetRiderStatements handles GET /v1/payments/riders-payments
func (h *PaymentHandler) GetRiderStatements(c *gin.Context) {
	filter, err := statementFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	statements, err := h.reportingService.RiderStatements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RiderStatementResponse, 0, len(statements))
	for _, st := range statements {
		response = append(response, RiderStatementResponse{
			RiderID:          st.RiderID,
			RiderName:        st.RiderName,
			RiderPhone:       st.RiderPhone,
			TotalDeliveries:  st.TotalDeliveries,
			SettlementStatus: string(st.SettlementStatus),
			TotalAmount:      st.TotalAmount,
			PendingAmount:    st.PendingAmount,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// RiderPaymentDetailResponse is one payment line of a rider statement.
type RiderPaymentDetailResponse struct {
	PaymentID        int64   `json:"payment_id"`
	DeliveryID       int64   `json:"delivery_id"`
	Date             string  `json:"date"`
	TotalAmount      float64 `json:"total_amount"`
	RiderAmount      float64 `json:"rider_amount"`
	SettlementStatus string  `json:"settlement_status"`
	PaymentType      string  `json:"payment_type"`
}

// GetRiderPaymentDetails handles GET /v1/payments/riders-payments/:id
func (h *PaymentHandler) GetRiderPaymentDetails(c *gin.Context) {
	riderID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rider id"})
		return
	}

	status, err := parseSettlementStatusQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	details, err := h.reportingService.RiderPaymentDetails(c.Request.Context(), riderID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RiderPaymentDetailResponse, 0, len(details))
	for _, d := range details {
		response = append(response, RiderPaymentDetailResponse{
			PaymentID:        d.PaymentID,
			DeliveryID:       d.DeliveryID,
			Date:             d.Date.Format(time.RFC3339),
			TotalAmount:      d.TotalAmount,
			RiderAmount:      d.RiderAmount,
			SettlementStatus: string(d.SettlementStatus),
			PaymentType:      string(d.PaymentType),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// SettlePaymentsRequest is the HTTP request body for settling rider payments.
type SettlePaymentsRequest struct {
	PaymentIDs []int64 `json:"payment_ids"`
	Comments   string  `json:"comments"`
}

// BatchResponse acknowledges a batch settlement command.
type BatchResponse struct {
	BatchID string `json:"batch_id"`
	Count   int    `json:"count"`
}

// SettleRiderPayments handles POST /v1/payments/riders-payments/:id/settle
func (h *PaymentHandler) SettleRiderPayments(c *gin.Context) {
	riderID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rider id"})
		return
	}

	var req SettlePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.settlementService.SettleRiderPayments(c.Request.Context(), service.SettleRiderPaymentsRequest{
		RiderID:    riderID,
		PaymentIDs: req.PaymentIDs,
		Comments:   req.Comments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BatchResponse{BatchID: result.BatchID, Count: result.Count})
}

// ClientStatementResponse is one row of the per-client statement list.
type ClientStatementResponse struct {
	ClientID               int64   `json:"client_id"`
	ClientName             string  `json:"client_name"`
	ClientPhone            string  `json:"client_phone"`
	TotalDeliveries        int     `json:"total_deliveries"`
	TotalAmount            float64 `json:"total_amount"`
	CoopAmount             float64 `json:"coop_amount"`
	OfficeOwesClient       float64 `json:"yo_le_debo_al_cliente"`
	ClientOwesOffice       float64 `json:"cliente_me_debe"`
	NetBalance             float64 `json:"saldo_neto"`
	ClientSettlementStatus string  `json:"client_settlement_status"`
	PaymentIDs             []int64 `json:"payment_ids_list"`
}

// GetClientStatements handles GET /v1/payments/clients-payments
func (h *PaymentHandler) GetClientStatements(c *gin.Context) {
	filter, err := statementFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	statements, err := h.reportingService.ClientStatements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ClientStatementResponse, 0, len(statements))
	for _, st := range statements {
		ids := st.PaymentIDs
		if ids == nil {
			ids = []int64{}
		}
		response = append(response, ClientStatementResponse{
			ClientID:               st.ClientID,
			ClientName:             st.ClientName,
			ClientPhone:            st.ClientPhone,
			TotalDeliveries:        st.TotalDeliveries,
			TotalAmount:            st.TotalAmount,
			CoopAmount:             st.CoopAmount,
			OfficeOwesClient:       st.OfficeOwesClient,
			ClientOwesOffice:       st.ClientOwesOffice,
			NetBalance:             st.NetBalance,
			ClientSettlementStatus: string(st.ClientSettlementStatus),
			PaymentIDs:             ids,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// ClientPaymentDetailResponse is one payment line of a client statement.
type ClientPaymentDetailResponse struct {
	PaymentID     int64   `json:"payment_id"`
	DeliveryID    int64   `json:"delivery_id"`
	Date          string  `json:"date"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
	PaymentType   string  `json:"payment_type"`
}

// GetClientPaymentDetails handles GET /v1/payments/clients-payments/:id
func (h *PaymentHandler) GetClientPaymentDetails(c *gin.Context) {
	clientID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid client id"})
		return
	}

	status, err := parsePaymentStatusQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	details, err := h.reportingService.ClientPaymentDetails(c.Request.Context(), clientID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ClientPaymentDetailResponse, 0, len(details))
	for _, d := range details {
		response = append(response, ClientPaymentDetailResponse{
			PaymentID:     d.PaymentID,
			DeliveryID:    d.DeliveryID,
			Date:          d.Date.Format(time.RFC3339),
			TotalAmount:   d.TotalAmount,
			PaymentStatus: string(d.PaymentStatus),
			PaymentType:   string(d.PaymentType),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// ReceivePaymentsRequest is the HTTP request body for recording money
// received from a client.
type ReceivePaymentsRequest struct {
	PaymentIDs       []int64 `json:"payment_ids"`
	PaymentType      string  `json:"payment_type"`
	PaymentReference string  `json:"payment_reference"`
	Comments         string  `json:"comments"`
}

// ReceiveClientPayments handles POST /v1/payments/clients-payments/:id/receive
func (h *PaymentHandler) ReceiveClientPayments(c *gin.Context) {
	clientID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid client id"})
		return
	}

	var req ReceivePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.settlementService.ReceiveClientPayments(c.Request.Context(), service.ReceiveClientPaymentsRequest{
		ClientID:         clientID,
		PaymentIDs:       req.PaymentIDs,
		PaymentType:      paymentType,
		PaymentReference: req.PaymentReference,
		Comments:         req.Comments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BatchResponse{BatchID: result.BatchID, Count: result.Count})
}

// ClientSettlementRequest is the HTTP request body for moving payments on
// the client reconciliation axis.
type ClientSettlementRequest struct {
	PaymentIDs []int64 `json:"payment_ids"`
	Status     string  `json:"client_settlement_status"`
}

// UpdateClientSettlement handles POST /v1/payments/clients-payments/:id/settlement
func (h *PaymentHandler) UpdateClientSettlement(c *gin.Context) {
	clientID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid client id"})
		return
	}

	var req ClientSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, err := domain.ParseClientSettlementStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.settlementService.UpdateClientSettlement(c.Request.Context(), service.UpdateClientSettlementRequest{
		ClientID:   clientID,
		PaymentIDs: req.PaymentIDs,
		Status:     status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BatchResponse{BatchID: result.BatchID, Count: result.Count})
}

// PeriodSummaryResponse is the HTTP response for the period summary.
type PeriodSummaryResponse struct {
	Period struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"period"`
	Totals struct {
		Count       int     `json:"count"`
		TotalAmount float64 `json:"total_amount"`
		RiderAmount float64 `json:"rider_amount"`
		CoopAmount  float64 `json:"coop_amount"`
	} `json:"totals"`
	ByStatus map[string]AggregateResponse `json:"by_status"`
	ByType   map[string]AggregateResponse `json:"by_type"`
}

// AggregateResponse is a (count, amount) pair.
type AggregateResponse struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// GetSummary handles GET /v1/payments/summary
func (h *PaymentHandler) GetSummary(c *gin.Context) {
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.reportingService.PeriodSummary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	var response PeriodSummaryResponse
	response.Period.StartDate = result.From.Format(time.RFC3339)
	response.Period.EndDate = result.To.Format(time.RFC3339)
	response.Totals.Count = result.Summary.Totals.Count
	response.Totals.TotalAmount = result.Summary.Totals.TotalAmount
	response.Totals.RiderAmount = result.Summary.Totals.RiderAmount
	response.Totals.CoopAmount = result.Summary.Totals.CoopAmount
	response.ByStatus = make(map[string]AggregateResponse, len(result.Summary.ByStatus))
	for status, agg := range result.Summary.ByStatus {
		response.ByStatus[string(status)] = AggregateResponse{Count: agg.Count, Amount: agg.Amount}
	}
	response.ByType = make(map[string]AggregateResponse, len(result.Summary.ByType))
	for paymentType, agg := range result.Summary.ByType {
		response.ByType[string(paymentType)] = AggregateResponse{Count: agg.Count, Amount: agg.Amount}
	}

	respondJSON(c, http.StatusOK, response)
}

// CreatePaymentRequest is the HTTP request body for recording a payment.
type CreatePaymentRequest struct {
	DeliveryID       int64   `json:"delivery_id"`
	TotalAmount      float64 `json:"total_amount"`
	RiderAmount      float64 `json:"rider_amount"`
	CoopAmount       float64 `json:"coop_amount"`
	PaymentType      string  `json:"payment_type"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentReference string  `json:"payment_reference"`
	Comments         string  `json:"comments"`
}

// CreatePayment handles POST /v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	paymentStatus, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	payment, err := h.settlementService.CreatePayment(c.Request.Context(), service.CreatePaymentRequest{
		DeliveryID:       req.DeliveryID,
		TotalAmount:      req.TotalAmount,
		RiderAmount:      req.RiderAmount,
		CoopAmount:       req.CoopAmount,
		PaymentType:      paymentType,
		PaymentStatus:    paymentStatus,
		PaymentReference: req.PaymentReference,
		Comments:         req.Comments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment id"})
		return
	}

	payment, err := h.settlementService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// PatchPaymentRequest is the HTTP request body for a partial payment update.
// Absent fields are untouched.
type PatchPaymentRequest struct {
	SettlementStatus       *string `json:"settlement_status"`
	PaymentStatus          *string `json:"payment_status"`
	PaymentType            *string `json:"payment_type"`
	ClientSettlementStatus *string `json:"client_settlement_status"`
	PaymentReference       *string `json:"payment_reference"`
	Comments               *string `json:"comments"`
}

// PatchPayment handles PATCH /v1/payments/:id
func (h *PaymentHandler) PatchPayment(c *gin.Context) {
	paymentID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment id"})
		return
	}

	var req PatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var patch service.PatchPaymentRequest
	if req.SettlementStatus != nil {
		status, err := domain.ParseSettlementStatus(*req.SettlementStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		patch.SettlementStatus = &status
	}
	if req.PaymentStatus != nil {
		status, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		patch.PaymentStatus = &status
	}
	if req.PaymentType != nil {
		paymentType, err := domain.ParsePaymentType(*req.PaymentType)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		patch.PaymentType = &paymentType
	}
	if req.ClientSettlementStatus != nil {
		status, err := domain.ParseClientSettlementStatus(*req.ClientSettlementStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		patch.ClientSettlementStatus = &status
	}
	patch.PaymentReference = req.PaymentReference
	patch.Comments = req.Comments

	payment, err := h.settlementService.PatchPayment(c.Request.Context(), paymentID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// DeletePayment handles DELETE /v1/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	paymentID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment id"})
		return
	}

	if err := h.settlementService.DeletePayment(c.Request.Context(), paymentID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "payment deleted"})
}

// parseID parses a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// parseQueryID parses a positive int64 query parameter value.
func parseQueryID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// parseDate accepts RFC3339 or plain YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func dateRangeFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

func parseSettlementStatusQuery(c *gin.Context) (domain.SettlementStatus, error) {
	v := c.Query("settlement_status")
	if v == "" {
		return "", nil
	}
	return domain.ParseSettlementStatus(v)
}

func parsePaymentStatusQuery(c *gin.Context) (domain.PaymentStatus, error) {
	v := c.Query("payment_status")
	if v == "" {
		return "", nil
	}
	return domain.ParsePaymentStatus(v)
}

func statementFilterFromQuery(c *gin.Context) (service.StatementFilter, error) {
	var filter service.StatementFilter

	settlementStatus, err := parseSettlementStatusQuery(c)
	if err != nil {
		return filter, err
	}
	paymentStatus, err := parsePaymentStatusQuery(c)
	if err != nil {
		return filter, err
	}
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return filter, err
	}

	filter.SettlementStatus = settlementStatus
	filter.PaymentStatus = paymentStatus
	filter.From = from
	filter.To = to
	return filter, nil
}
