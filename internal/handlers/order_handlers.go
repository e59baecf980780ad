package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type OrderHandlers struct {
	orders   OrderStore
	products ProductStore
	logger   *logrus.Logger
}

func NewOrderHandlers(orders OrderStore, products ProductStore, logger *logrus.Logger) *OrderHandlers {
	return &OrderHandlers{
		orders:   orders,
		products: products,
		logger:   logger,
	}
}

type OrderRequest struct {
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"address"`
	Pincode   string `json:"pincode"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if req.UserID <= 0 || req.ProductID <= 0 || req.Quantity <= 0 || req.Address == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Missing required order fields")
		return
	}

	// Ordering a deleted or unknown product is a 404, not a dangling row.
	if _, err := h.products.GetByID(r.Context(), req.ProductID); err != nil {
		respondDomainError(w, err)
		return
	}

	order := &models.Order{
		Reference: uuid.New().String(),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Address:   req.Address,
		Pincode:   req.Pincode,
		Status:    models.OrderStatusPending,
	}

	if err := h.orders.Create(r.Context(), order); err != nil {
		h.logger.WithError(err).Error("Failed to place order")
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list orders")
		respondDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Order status updated"})
}
