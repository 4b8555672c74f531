package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Catalog     *handler.CatalogHandler
	Cars        *handler.CarHandler
	Marketplace *handler.MarketplaceHandler
}

func SetupRouter(
	prefix string,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter middleware.RateLimiter,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(gin.Recovery(), middleware.RequestID(logger), middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	public := r.Group(prefix)
	{
		public.POST("/register", handlers.Auth.Register)
		public.POST("/login", middleware.LimitLogin(loginLimiter, logger), handlers.Auth.Login)

		public.GET("/makemodelyear", handlers.Catalog.List)
		public.GET("/makemodelyear/:id", handlers.Catalog.Get)
		public.GET("/cars", handlers.Cars.List)
		public.GET("/cars/:id", handlers.Cars.Get)
		public.GET("/listings", handlers.Marketplace.ListListings)
		public.GET("/listings/:id", handlers.Marketplace.GetListing)
	}

	// Protected routes
	protected := r.Group(prefix)
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/logout", handlers.Auth.Logout)

		protected.GET("/users/:id", handlers.Users.GetUser)
		protected.PUT("/users/:id", handlers.Users.UpdateUser)
		protected.PATCH("/users/:id", handlers.Users.UpdateUser)
		protected.DELETE("/users/:id", handlers.Users.DeleteUser)

		protected.POST("/makemodelyear", handlers.Catalog.Create)
		protected.PUT("/makemodelyear/:id", handlers.Catalog.Update)
		protected.PATCH("/makemodelyear/:id", handlers.Catalog.Update)
		protected.DELETE("/makemodelyear/:id", handlers.Catalog.Delete)

		protected.POST("/cars", handlers.Cars.Create)
		protected.PUT("/cars/:id", handlers.Cars.Update)
		protected.PATCH("/cars/:id", handlers.Cars.Update)
		protected.DELETE("/cars/:id", handlers.Cars.Delete)

		protected.POST("/listings", handlers.Marketplace.CreateListing)
		protected.PUT("/listings/:id", handlers.Marketplace.UpdateListing)
		protected.PATCH("/listings/:id", handlers.Marketplace.UpdateListing)
		protected.DELETE("/listings/:id", handlers.Marketplace.DeleteListing)

		protected.GET("/car-transactions", handlers.Marketplace.ListTransactions)
		protected.GET("/car-transactions/:id", handlers.Marketplace.GetTransaction)
		protected.POST("/car-transactions", handlers.Marketplace.Purchase)
	}

	return r
}
