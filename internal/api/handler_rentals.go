package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/mw"
)

// currentMarket resolves today's market session for the authenticated
// staff member, replying for the caller when there is none.
func (h *Handler) currentMarket(c *gin.Context) (*model.Market, bool) {
	claims := mw.CurrentClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	m, err := h.rentals.TodaysMarketFor(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if m == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no market assigned today"})
		return nil, false
	}
	return m, true
}

// TodaysMarket reports the staff member's session for today. No
// assignment is a neutral empty state, not an error.
func (h *Handler) TodaysMarket(c *gin.Context) {
	claims := mw.CurrentClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	m, err := h.rentals.TodaysMarketFor(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	if m == nil {
		c.JSON(http.StatusOK, gin.H{"assigned": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": true, "market": m})
}

// SessionRoster returns the customers visible at today's session.
func (h *Handler) SessionRoster(c *gin.Context) {
	m, ok := h.currentMarket(c)
	if !ok {
		return
	}
	customers, err := h.roster.RosterFor(c.Request.Context(), m)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// SessionBatteries returns the batteries currently available at today's
// session.
func (h *Handler) SessionBatteries(c *gin.Context) {
	m, ok := h.currentMarket(c)
	if !ok {
		return
	}
	batteries, err := h.rentals.AvailableBatteries(c.Request.Context(), m)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, batteries)
}

// SessionActiveRentals returns today's outstanding rentals grouped by
// customer.
func (h *Handler) SessionActiveRentals(c *gin.Context) {
	m, ok := h.currentMarket(c)
	if !ok {
		return
	}
	grouped, err := h.rentals.ActiveRentalsByCustomer(c.Request.Context(), m.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

type checkoutRequest struct {
	CustomerID string   `json:"customer_id" binding:"required"`
	Serials    []string `json:"serials" binding:"required"`
}

// Checkout hands the selected batteries to a customer. Rejected before
// any write when validation fails; a lost race on a serial comes back as
// a conflict with no rows written.
func (h *Handler) Checkout(c *gin.Context) {
	m, ok := h.currentMarket(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := mw.CurrentClaims(c)
	rentals, err := h.rentals.Checkout(c.Request.Context(), m, req.CustomerID, req.Serials, claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rentals)
}

// ReturnRental records a battery handed back.
func (h *Handler) ReturnRental(c *gin.Context) {
	if err := h.rentals.Return(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkRentalLost records a battery as lost, excluding it from the
// session's pool for good.
func (h *Handler) MarkRentalLost(c *gin.Context) {
	if err := h.rentals.MarkLost(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
