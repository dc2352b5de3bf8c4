package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	clients repository.ClientRepository
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clients repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// ClientResponse is the HTTP response for client operations.
type ClientResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address,omitempty"`
	Bank          string `json:"bank,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	IsActive      bool   `json:"is_active"`
}

func toClientResponse(cl *domain.Client) ClientResponse {
	return ClientResponse{
		ID:            cl.ID,
		Name:          cl.Name,
		Phone:         cl.Phone,
		Address:       cl.Address,
		Bank:          cl.Bank,
		AccountNumber: cl.AccountNumber,
		AccountType:   string(cl.AccountType),
		IsActive:      cl.IsActive,
	}
}

// CreateClientRequest is the HTTP request body for registering a client.
type CreateClientRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Bank          string `json:"bank"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
}

// CreateClient handles POST /v1/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	accountType := domain.AccountType(req.AccountType)
	switch accountType {
	case "", domain.AccountTypeSavings, domain.AccountTypeChecking:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown account type"})
		return
	}

	existing, err := h.clients.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "client with this phone already exists"})
		return
	}

	client := &domain.Client{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Bank:          req.Bank,
		AccountNumber: req.AccountNumber,
		AccountType:   accountType,
		IsActive:      true,
	}
	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toClientResponse(client))
}

// GetClient handles GET /v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid client id"})
		return
	}

	client, err := h.clients.GetByID(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toClientResponse(client))
}

// ListClients handles GET /v1/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	clients, err := h.clients.GetAll(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ClientResponse, 0, len(clients))
	for _, cl := range clients {
		response = append(response, toClientResponse(cl))
	}

	respondJSON(c, http.StatusOK, response)
}

// RiderHandler handles HTTP requests for riders.
type RiderHandler struct {
	riders repository.RiderRepository
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riders repository.RiderRepository) *RiderHandler {
	return &RiderHandler{riders: riders}
}

// RiderResponse is the HTTP response for rider operations.
type RiderResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Plate    string `json:"plate,omitempty"`
	IsActive bool   `json:"is_active"`
}

func toRiderResponse(r *domain.Rider) RiderResponse {
	return RiderResponse{
		ID:       r.ID,
		Name:     r.Name,
		Phone:    r.Phone,
		Plate:    r.Plate,
		IsActive: r.IsActive,
	}
}

// CreateRiderRequest is the HTTP request body for registering a rider.
type CreateRiderRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Plate string `json:"plate"`
}

// CreateRider handles POST /v1/riders
func (h *RiderHandler) CreateRider(c *gin.Context) {
	var req CreateRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	existing, err := h.riders.GetByName(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "rider with this name already exists"})
		return
	}

	rider := &domain.Rider{
		Name:     req.Name,
		Phone:    req.Phone,
		Plate:    req.Plate,
		IsActive: true,
	}
	if err := h.riders.Create(c.Request.Context(), rider); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRiderResponse(rider))
}

// GetRider handles GET /v1/riders/:id
func (h *RiderHandler) GetRider(c *gin.Context) {
	riderID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rider id"})
		return
	}

	rider, err := h.riders.GetByID(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRiderResponse(rider))
}

// ListRiders handles GET /v1/riders
func (h *RiderHandler) ListRiders(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	riders, err := h.riders.GetAll(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RiderResponse, 0, len(riders))
	for _, r := range riders {
		response = append(response, toRiderResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}
