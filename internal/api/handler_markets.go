package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"battery-rental-backend/internal/model"
)

type createMarketDefinitionRequest struct {
	Name string `json:"name" binding:"required"`
	Day  string `json:"day" binding:"required"`
}

// CreateMarketDefinition adds an entry to the market-category registry.
func (h *Handler) CreateMarketDefinition(c *gin.Context) {
	var req createMarketDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def := &model.MarketDefinition{ID: uuid.NewString(), Name: req.Name, Day: req.Day}
	if err := h.store.CreateMarketDefinition(c.Request.Context(), def); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

// ListMarketDefinitions returns the market-category registry.
func (h *Handler) ListMarketDefinitions(c *gin.Context) {
	defs, err := h.store.ListMarketDefinitions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, defs)
}

// DeleteMarketDefinition removes a registry entry.
func (h *Handler) DeleteMarketDefinition(c *gin.Context) {
	if err := h.store.DeleteMarketDefinition(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createMarketRequest struct {
	Name       string `json:"name" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	StaffID    string `json:"staff_id" binding:"required"`
	Prefix     string `json:"prefix" binding:"required"`
	RangeStart int    `json:"range_start" binding:"required"`
	RangeEnd   int    `json:"range_end" binding:"required"`
}

// CreateMarket schedules a market session: one staff member, one date, one
// battery serial range. The unique index on (staff_id, date) rejects
// double-booking a staff member.
func (h *Handler) CreateMarket(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.RangeStart > req.RangeEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range_start must not exceed range_end"})
		return
	}

	m := &model.Market{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Date:       req.Date,
		StaffID:    req.StaffID,
		Prefix:     req.Prefix,
		RangeStart: req.RangeStart,
		RangeEnd:   req.RangeEnd,
	}
	if err := h.store.CreateMarket(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMarkets returns all market sessions, newest date first.
func (h *Handler) ListMarkets(c *gin.Context) {
	markets, err := h.store.ListMarkets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, markets)
}

// marketReport is one line of the admin reports view.
type marketReport struct {
	model.Market
	StaffName  string `json:"staff_name"`
	Given      int64  `json:"given"`
	Returned   int64  `json:"returned"`
	Lost       int64  `json:"lost"`
	TotalStock int    `json:"total_stock"`
	IsCleared  bool   `json:"is_cleared"`
}

// Reports aggregates the rental ledger per market: outstanding and
// returned counts, range size, and whether the session is fully cleared.
func (h *Handler) Reports(c *gin.Context) {
	ctx := c.Request.Context()

	markets, err := h.store.ListMarkets(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	counts, err := h.store.RentalStatusCounts(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	staff, err := h.store.ListStaff(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	countMap := make(map[string]map[model.RentalStatus]int64, len(markets))
	for _, row := range counts {
		if countMap[row.MarketID] == nil {
			countMap[row.MarketID] = make(map[model.RentalStatus]int64)
		}
		countMap[row.MarketID][row.Status] = row.Count
	}
	staffNames := make(map[string]string, len(staff))
	for _, u := range staff {
		staffNames[u.ID] = u.Name
	}

	reports := make([]marketReport, 0, len(markets))
	for _, m := range markets {
		name, ok := staffNames[m.StaffID]
		if !ok {
			name = "Unknown"
		}
		mc := countMap[m.ID]
		given, returned, lost := mc[model.StatusGiven], mc[model.StatusReturned], mc[model.StatusLost]
		reports = append(reports, marketReport{
			Market:     m,
			StaffName:  name,
			Given:      given,
			Returned:   returned,
			Lost:       lost,
			TotalStock: m.RangeEnd - m.RangeStart + 1,
			IsCleared:  given == 0 && returned > 0,
		})
	}
	c.JSON(http.StatusOK, reports)
}
