package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	"github.com/router-for-me/PrizeCheck/internal/models"
)

// PrizeHandler handles admin prize inventory.
type PrizeHandler struct {
	svc *campaign.Service
}

// NewPrizeHandler constructs a PrizeHandler.
func NewPrizeHandler(svc *campaign.Service) *PrizeHandler {
	return &PrizeHandler{svc: svc}
}

// List returns prizes filtered by tier and name.
func (h *PrizeHandler) List(c *gin.Context) {
	rows, errList := h.svc.ListPrizes(c.Request.Context(), campaign.PrizeFilter{
		Tier:  models.PrizeTier(strings.TrimSpace(c.Query("tier"))),
		Query: strings.TrimSpace(c.Query("q")),
	})
	if errList != nil {
		httpx.RespondError(c, errList, "list prizes")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatPrize(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"prizes": out})
}

// Get returns one prize.
func (h *PrizeHandler) Get(c *gin.Context) {
	prize, errGet := h.svc.GetPrize(c.Request.Context(), c.Param("id"))
	if errGet != nil {
		httpx.RespondError(c, errGet, "get prize")
		return
	}
	c.JSON(http.StatusOK, formatPrize(prize))
}

// Create stores a new prize.
func (h *PrizeHandler) Create(c *gin.Context) {
	var body campaign.PrizeInput
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	prize, errCreate := h.svc.CreatePrize(c.Request.Context(), body)
	if errCreate != nil {
		httpx.RespondError(c, errCreate, "create prize")
		return
	}
	c.JSON(http.StatusCreated, formatPrize(prize))
}

// Update applies a partial prize update.
func (h *PrizeHandler) Update(c *gin.Context) {
	var body campaign.PrizePatch
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	prize, errUpdate := h.svc.UpdatePrize(c.Request.Context(), c.Param("id"), body)
	if errUpdate != nil {
		httpx.RespondError(c, errUpdate, "update prize")
		return
	}
	c.JSON(http.StatusOK, formatPrize(prize))
}

// Delete removes a prize and unbinds its serial numbers.
func (h *PrizeHandler) Delete(c *gin.Context) {
	if errDelete := h.svc.DeletePrize(c.Request.Context(), c.Param("id")); errDelete != nil {
		httpx.RespondError(c, errDelete, "delete prize")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
