package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"battery-rental-backend/config"
	"battery-rental-backend/internal/rental"
	"battery-rental-backend/internal/roster"
	"battery-rental-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	rentals *rental.Service
	roster  *roster.Service
	authCfg *config.AuthConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, rentals *rental.Service, rosterSvc *roster.Service, authCfg *config.AuthConfig) *Handler {
	return &Handler{
		store:   s,
		rentals: rentals,
		roster:  rosterSvc,
		authCfg: authCfg,
	}
}

// fail translates a service or store error into a JSON error response.
// Validation and state-transition rejections map to 400/409, missing
// records to 404, everything else (backing-store failures included) to 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rental.ErrNoCustomer),
		errors.Is(err, rental.ErrNoBatteries),
		errors.Is(err, roster.ErrEmptyName),
		errors.Is(err, roster.ErrEmptyCategory):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, rental.ErrUnavailable),
		errors.Is(err, rental.ErrLost),
		errors.Is(err, rental.ErrNotActive),
		errors.Is(err, gorm.ErrDuplicatedKey):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
