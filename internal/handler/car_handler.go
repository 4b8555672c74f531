package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
)

// CarHandler serves /cars
type CarHandler struct {
	cars        service.CarService
	marketplace service.MarketplaceService
	logger      *slog.Logger
}

func NewCarHandler(cars service.CarService, marketplace service.MarketplaceService, logger *slog.Logger) *CarHandler {
	useJSONFieldNames()
	return &CarHandler{
		cars:        cars,
		marketplace: marketplace,
		logger:      logger,
	}
}

func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.cars.ListCars()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *CarHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Car")
		return
	}

	car, err := h.cars.GetCar(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Create(c *gin.Context) {
	var req service.CarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	car, err := h.cars.CreateCar(middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *CarHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Car")
		return
	}

	var req service.CarUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	car, err := h.cars.UpdateCar(middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, "Car")
		return
	}

	if err := h.marketplace.DeleteCar(middleware.ActorFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully."})
}
