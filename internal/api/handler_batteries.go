package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/natsort"
)

type createBatteryRangeRequest struct {
	Prefix string             `json:"prefix" binding:"required"`
	Start  int                `json:"start" binding:"required"`
	End    int                `json:"end" binding:"required"`
	Color  model.BatteryColor `json:"color"`
}

// CreateBatteryRange bulk-creates batteries for a serial range. Serials
// already in the pool are skipped.
func (h *Handler) CreateBatteryRange(c *gin.Context) {
	var req createBatteryRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Start > req.End {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not exceed end"})
		return
	}
	color := req.Color
	if color == "" {
		color = model.ColorDefault
	}

	batteries := make([]model.Battery, 0, req.End-req.Start+1)
	for i := req.Start; i <= req.End; i++ {
		batteries = append(batteries, model.Battery{
			Serial: fmt.Sprintf("%s%d", req.Prefix, i),
			Color:  color,
		})
	}
	if err := h.store.CreateBatteries(c.Request.Context(), batteries); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requested": len(batteries)})
}

// ListBatteries returns the global pool in natural serial order.
func (h *Handler) ListBatteries(c *gin.Context) {
	batteries, err := h.store.ListBatteries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	sort.Slice(batteries, func(i, j int) bool {
		return natsort.Less(batteries[i].Serial, batteries[j].Serial)
	})
	c.JSON(http.StatusOK, batteries)
}

// DeleteBattery removes a single battery from the pool.
func (h *Handler) DeleteBattery(c *gin.Context) {
	if err := h.store.DeleteBattery(c.Request.Context(), c.Param("serial")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
