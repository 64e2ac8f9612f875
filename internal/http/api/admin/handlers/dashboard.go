package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
)

// DashboardHandler serves dashboard counters.
type DashboardHandler struct {
	svc *campaign.Service
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc *campaign.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats returns the aggregate serial-number counters.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, errStats := h.svc.Stats(c.Request.Context())
	if errStats != nil {
		httpx.RespondError(c, errStats, "load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
