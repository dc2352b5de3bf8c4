package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/service"
)

// DeliveryHandler handles HTTP requests for deliveries.
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// DeliveryResponse is the HTTP response for delivery operations.
type DeliveryResponse struct {
	ID             int64   `json:"id"`
	ClientID       int64   `json:"client_id"`
	RiderID        int64   `json:"rider_id,omitempty"`
	PackageName    string  `json:"package_name"`
	ReceptorName   string  `json:"receptor_name"`
	ReceptorNumber string  `json:"receptor_number"`
	Address        string  `json:"address"`
	State          string  `json:"state"`
	TotalAmount    float64 `json:"total_amount"`
	CreatedAt      string  `json:"created_at"`
	DeliveryDate   string  `json:"delivery_date,omitempty"`
}

func toDeliveryResponse(d *domain.Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:             d.ID,
		ClientID:       d.ClientID,
		RiderID:        d.RiderID,
		PackageName:    d.PackageName,
		ReceptorName:   d.ReceptorName,
		ReceptorNumber: d.ReceptorNumber,
		Address:        d.Address,
		State:          string(d.State),
		TotalAmount:    d.TotalAmount,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
	if !d.DeliveryDate.IsZero() {
		resp.DeliveryDate = d.DeliveryDate.Format(time.RFC3339)
	}
	return resp
}

// CreateDeliveryRequest is the HTTP request body for registering a delivery.
type CreateDeliveryRequest struct {
	ClientID       int64   `json:"client_id"`
	RiderID        int64   `json:"rider_id"`
	PackageName    string  `json:"package_name"`
	ReceptorName   string  `json:"receptor_name"`
	ReceptorNumber string  `json:"receptor_number"`
	Address        string  `json:"address"`
	TotalAmount    float64 `json:"total_amount"`
}

// CreateDeliveryResponse bundles the created delivery with its payment.
type CreateDeliveryResponse struct {
	Delivery DeliveryResponse `json:"delivery"`
	Payment  PaymentResponse  `json:"payment"`
}

// CreateDelivery handles POST /v1/deliveries
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.deliveryService.CreateDelivery(c.Request.Context(), service.CreateDeliveryRequest{
		ClientID:       req.ClientID,
		RiderID:        req.RiderID,
		PackageName:    req.PackageName,
		ReceptorName:   req.ReceptorName,
		ReceptorNumber: req.ReceptorNumber,
		Address:        req.Address,
		TotalAmount:    req.TotalAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateDeliveryResponse{
		Delivery: toDeliveryResponse(result.Delivery),
		Payment:  toPaymentResponse(result.Payment),
	})
}

// ListDeliveries handles GET /v1/deliveries
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	var filter repository.DeliveryFilter

	if v := c.Query("state"); v != "" {
		state, err := domain.ParseDeliveryState(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		filter.State = state
	}
	if v := c.Query("client_id"); v != "" {
		id, err := parseQueryID(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid client_id"})
			return
		}
		filter.ClientID = id
	}
	if v := c.Query("rider_id"); v != "" {
		id, err := parseQueryID(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rider_id"})
			return
		}
		filter.RiderID = id
	}

	if period := c.Query("period"); period != "" {
		from, to, err := dateRangeFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		filter.From, filter.To = service.ResolvePeriod(period, from, to)
	} else {
		from, to, err := dateRangeFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		filter.From, filter.To = from, to
	}

	deliveries, err := h.deliveryService.ListDeliveries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		response = append(response, toDeliveryResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetDelivery handles GET /v1/deliveries/:id
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	deliveryID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid delivery id"})
		return
	}

	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), deliveryID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDeliveryResponse(delivery))
}

// AssignRiderRequest is the HTTP request body for dispatching a delivery.
type AssignRiderRequest struct {
	RiderID int64 `json:"rider_id"`
}

// AssignRider handles POST /v1/deliveries/:id/assign
func (h *DeliveryHandler) AssignRider(c *gin.Context) {
	deliveryID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid delivery id"})
		return
	}

	var req AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	delivery, err := h.deliveryService.AssignRider(c.Request.Context(), deliveryID, req.RiderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDeliveryResponse(delivery))
}

// UpdateStateRequest is the HTTP request body for moving a delivery forward.
type UpdateStateRequest struct {
	State string `json:"state"`
}

// UpdateState handles PATCH /v1/deliveries/:id/state
func (h *DeliveryHandler) UpdateState(c *gin.Context) {
	deliveryID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid delivery id"})
		return
	}

	var req UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	state, err := domain.ParseDeliveryState(req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	delivery, err := h.deliveryService.UpdateState(c.Request.Context(), deliveryID, state)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDeliveryResponse(delivery))
}

// CancelDelivery handles POST /v1/deliveries/:id/cancel
func (h *DeliveryHandler) CancelDelivery(c *gin.Context) {
	deliveryID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid delivery id"})
		return
	}

	delivery, err := h.deliveryService.Cancel(c.Request.Context(), deliveryID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDeliveryResponse(delivery))
}

// ListStates handles GET /v1/deliveries/states
func (h *DeliveryHandler) ListStates(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"states": []string{
		string(domain.DeliveryStatePending),
		string(domain.DeliveryStateAssigned),
		string(domain.DeliveryStateInProgress),
		string(domain.DeliveryStateDelivered),
		string(domain.DeliveryStateCancelled),
	}})
}
