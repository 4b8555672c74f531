package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
)

// MarketplaceHandler serves /listings and /car-transactions
type MarketplaceHandler struct {
	service service.MarketplaceService
	logger  *slog.Logger
}

func NewMarketplaceHandler(service service.MarketplaceService, logger *slog.Logger) *MarketplaceHandler {
	useJSONFieldNames()
	return &MarketplaceHandler{
		service: service,
		logger:  logger,
	}
}

type CreateListingRequest struct {
	CarID uint `json:"car_id" binding:"required"`
}

type UpdateListingRequest struct {
	ListingStatus models.ListingStatus `json:"listing_status" binding:"required,oneof=available sold"`
}

type PurchaseRequest struct {
	CarID  uint             `json:"car_id" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// ==================== LISTINGS ====================

func (h *MarketplaceHandler) ListListings(c *gin.Context) {
	listings, err := h.service.ListListings()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Listing")
		return
	}

	listing, err := h.service.GetListing(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// CreateListing lists a car for sale on behalf of the caller
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	listing, err := h.service.CreateListing(middleware.ActorFrom(c), req.CarID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *MarketplaceHandler) UpdateListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Listing")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	listing, err := h.service.UpdateListingStatus(middleware.ActorFrom(c), id, req.ListingStatus)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Listing")
		return
	}

	if err := h.service.DeleteListing(middleware.ActorFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully."})
}

// ==================== TRANSACTIONS ====================

func (h *MarketplaceHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.service.ListTransactions(middleware.ActorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *MarketplaceHandler) GetTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Car transaction")
		return
	}

	transaction, err := h.service.GetTransaction(middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// Purchase buys the car's available listing at the asking price
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	transaction, err := h.service.PurchaseCar(middleware.ActorFrom(c), req.CarID, *req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}
