package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	"github.com/router-for-me/PrizeCheck/internal/models"
)

// PrizeCheckHandler serves the customer "check my prize" flow.
type PrizeCheckHandler struct {
	svc *campaign.Service
}

// NewPrizeCheckHandler constructs a PrizeCheckHandler.
func NewPrizeCheckHandler(svc *campaign.Service) *PrizeCheckHandler {
	return &PrizeCheckHandler{svc: svc}
}

// Check redeems a serial number for the submitting customer.
func (h *PrizeCheckHandler) Check(c *gin.Context) {
	var body campaign.RedeemForm
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	serial, errRedeem := h.svc.Redeem(c.Request.Context(), body)
	if errRedeem != nil {
		httpx.RespondError(c, errRedeem, "check serial number")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"serial_number": serial.SerialNumber,
		"prize":         publicPrize(serial.Prize),
	})
}

// Prize returns the prize currently bound to a serial number.
func (h *PrizeCheckHandler) Prize(c *gin.Context) {
	serial := campaign.NormalizeSerial(c.Param("serial"))
	prize, errLookup := h.svc.PrizeForSerial(c.Request.Context(), serial)
	if errLookup != nil {
		httpx.RespondError(c, errLookup, "lookup prize")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serial_number": serial,
		"prize":         publicPrize(prize),
	})
}

// publicPrize hides stock levels from customers. A nil prize renders as null.
func publicPrize(p *models.Prize) any {
	if p == nil {
		return nil
	}
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"tier":        p.Tier,
	}
}
