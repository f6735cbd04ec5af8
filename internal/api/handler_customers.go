package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCustomerRequest struct {
	Name   string `json:"name" binding:"required"`
	Market string `json:"market" binding:"required"`
}

// CreateCustomer registers a customer in a market category. The serial
// number is assigned by the roster service.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, err := h.roster.Register(c.Request.Context(), req.Name, req.Market)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

type bulkCustomersRequest struct {
	Names  []string `json:"names" binding:"required"`
	Market string   `json:"market" binding:"required"`
}

// BulkCreateCustomers registers one customer per name row. The rows come
// from the spreadsheet import collaborator ("Customer Name" column).
func (h *Handler) BulkCreateCustomers(c *gin.Context) {
	var req bulkCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := h.roster.RegisterBulk(c.Request.Context(), req.Names, req.Market)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": count})
}

// ListCustomers returns every customer in natural serial order.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.roster.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// DeleteCustomer removes a customer without renumbering the category.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCustomers returns a category's roster as plain rows for the
// export collaborator.
func (h *Handler) ExportCustomers(c *gin.Context) {
	market := c.Query("market")
	if market == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market is required"})
		return
	}
	rows, err := h.roster.ExportRows(c.Request.Context(), market)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
