package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
)

const catalogResource = "Make, model, and year combination"

// CatalogHandler serves /makemodelyear. Deletion goes through the
// marketplace service because it must check for dependent cars atomically.
type CatalogHandler struct {
	catalog     service.CatalogService
	marketplace service.MarketplaceService
	logger      *slog.Logger
}

func NewCatalogHandler(catalog service.CatalogService, marketplace service.MarketplaceService, logger *slog.Logger) *CatalogHandler {
	useJSONFieldNames()
	return &CatalogHandler{
		catalog:     catalog,
		marketplace: marketplace,
		logger:      logger,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	entries, err := h.catalog.ListMakeModelYears()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, catalogResource)
		return
	}

	entry, err := h.catalog.GetMakeModelYear(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req service.MakeModelYearInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	entry, err := h.catalog.CreateMakeModelYear(middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, catalogResource)
		return
	}

	var req service.MakeModelYearUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	entry, err := h.catalog.UpdateMakeModelYear(middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, catalogResource)
		return
	}

	if err := h.marketplace.DeleteMakeModelYear(middleware.ActorFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Make, model, and year combination deleted successfully."})
}
