package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"battery-rental-backend/config"
	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/mw"
	"battery-rental-backend/internal/rental"
	"battery-rental-backend/internal/roster"
	"battery-rental-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, rentals *rental.Service, rosterSvc *roster.Service) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, rentals, rosterSvc, &cfg.Auth)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", handler.Login)

		authed := api.Group("")
		authed.Use(mw.Authenticated(cfg.Auth.JWTSecret))
		{
			// Staff workflow: today's session, roster, stock, checkout, return.
			authed.GET("/session/today", handler.TodaysMarket)
			authed.GET("/session/roster", handler.SessionRoster)
			authed.GET("/session/batteries", handler.SessionBatteries)
			authed.GET("/session/rentals", handler.SessionActiveRentals)
			authed.POST("/session/rentals", handler.Checkout)
			authed.POST("/rentals/:id/return", handler.ReturnRental)
			authed.POST("/rentals/:id/lost", handler.MarkRentalLost)

			admin := authed.Group("/admin")
			admin.Use(mw.RequireRole(model.RoleAdmin))
			{
				admin.POST("/staff", handler.CreateStaff)
				admin.GET("/staff", handler.ListStaff)

				admin.POST("/market-definitions", handler.CreateMarketDefinition)
				admin.GET("/market-definitions", handler.ListMarketDefinitions)
				admin.DELETE("/market-definitions/:id", handler.DeleteMarketDefinition)

				admin.POST("/customers", handler.CreateCustomer)
				admin.POST("/customers/bulk", handler.BulkCreateCustomers)
				admin.GET("/customers", handler.ListCustomers)
				admin.GET("/customers/export", handler.ExportCustomers)
				admin.DELETE("/customers/:id", handler.DeleteCustomer)

				admin.POST("/batteries", handler.CreateBatteryRange)
				admin.GET("/batteries", handler.ListBatteries)
				admin.DELETE("/batteries/:serial", handler.DeleteBattery)

				admin.POST("/markets", handler.CreateMarket)
				admin.GET("/markets", handler.ListMarkets)

				// The ledger aggregation is the one expensive read; short
				// cache keeps repeated dashboard polls off the database.
				admin.GET("/reports", caching, handler.Reports)
			}
		}
	}

	return r
}
