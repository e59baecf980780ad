package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/models"
	"github.com/ekart/ekart/internal/service"
)

type BannerHandlers struct {
	bannerService *service.BannerService
	logger        *logrus.Logger
}

func NewBannerHandlers(bannerService *service.BannerService, logger *logrus.Logger) *BannerHandlers {
	return &BannerHandlers{
		bannerService: bannerService,
		logger:        logger,
	}
}

type BannerRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
}

func (h *BannerHandlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 10)

	banners, err := h.bannerService.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list banners")
		respondDomainError(w, err)
		return
	}
	if banners == nil {
		banners = []models.Banner{}
	}

	respondWithJSON(w, http.StatusOK, banners)
}

func (h *BannerHandlers) GetBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	banner, err := h.bannerService.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, banner)
}

func (h *BannerHandlers) CreateBanner(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBanner(w, r)
	if !ok {
		return
	}

	banner := &models.Banner{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
	}

	if err := h.bannerService.Create(r.Context(), banner); err != nil {
		h.logger.WithError(err).Error("Failed to create banner")
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, banner)
}

func (h *BannerHandlers) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	req, ok := decodeBanner(w, r)
	if !ok {
		return
	}

	banner := &models.Banner{
		ID:       id,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
	}

	if err := h.bannerService.Update(r.Context(), banner); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, banner)
}

func (h *BannerHandlers) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.bannerService.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Banner deleted successfully"})
}

func decodeBanner(w http.ResponseWriter, r *http.Request) (*BannerRequest, bool) {
	var req BannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return nil, false
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ImageURL) == "" {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Title and image_url are required")
		return nil, false
	}

	return &req, true
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			return value
		}
	}
	return defaultValue
}
