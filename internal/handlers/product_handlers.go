package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/middleware"
	"github.com/ekart/ekart/internal/models"
)

const maxProductImages = 5

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

type ProductHandlers struct {
	products ProductStore
	logger   *logrus.Logger
}

func NewProductHandlers(products ProductStore, logger *logrus.Logger) *ProductHandlers {
	return &ProductHandlers{
		products: products,
		logger:   logger,
	}
}

type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	PhoneNumber string   `json:"phone_number"`
	Arrival     bool     `json:"arrival"`
}

// CreateProduct registers a product owned by the authenticated seller.
// Images arrive as media-host URLs; uploads happen upstream.
func (h *ProductHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" || req.Price <= 0 || req.PhoneNumber == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Missing required fields for adding product")
		return
	}
	if len(req.Images) == 0 {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "At least one image is required")
		return
	}
	if len(req.Images) > maxProductImages {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Too many images")
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		PhoneNumber: req.PhoneNumber,
		Arrival:     req.Arrival,
		SellerID:    seller.ID,
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if product.SellerID != seller.ID {
		respondDomainError(w, models.ErrForbidden)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.PhoneNumber != "" {
		product.PhoneNumber = req.PhoneNumber
	}
	if len(req.Images) > 0 {
		if len(req.Images) > maxProductImages {
			respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Too many images")
			return
		}
		product.Images = req.Images
	}
	product.Arrival = req.Arrival

	if err := h.products.Update(r.Context(), product); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if product.SellerID != seller.ID {
		respondDomainError(w, models.ErrForbidden)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("seller_id"); raw != "" {
		sellerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid seller_id")
			return
		}
		h.respondProducts(w, r, func(ctx context.Context) ([]models.Product, error) {
			return h.products.ListBySeller(ctx, sellerID)
		})
		return
	}

	h.respondProducts(w, r, h.products.List)
}

func (h *ProductHandlers) ListProductsBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathID(w, r, "seller_id")
	if !ok {
		return
	}

	h.respondProducts(w, r, func(ctx context.Context) ([]models.Product, error) {
		return h.products.ListBySeller(ctx, sellerID)
	})
}

func (h *ProductHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandlers) respondProducts(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]models.Product, error)) {
	products, err := list(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondDomainError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	respondWithJSON(w, http.StatusOK, products)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid id")
		return 0, false
	}
	return id, true
}
