package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/models"
)

// formatPrize renders a prize for admin responses.
func formatPrize(p *models.Prize) gin.H {
	return gin.H{
		"id":                 p.ID,
		"name":               p.Name,
		"description":        p.Description,
		"tier":               p.Tier,
		"quantity":           p.Quantity,
		"remaining_quantity": p.RemainingQuantity,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	}
}

// formatSerial renders a serial number with its bound prize name and tier.
func formatSerial(s *models.SerialNumber) gin.H {
	var prizeName, prizeTier string
	if s.Prize != nil {
		prizeName = s.Prize.Name
		prizeTier = string(s.Prize.Tier)
	}
	return gin.H{
		"id":             s.ID,
		"serial_number":  s.SerialNumber,
		"prize_id":       s.PrizeID,
		"prize_name":     prizeName,
		"prize_tier":     prizeTier,
		"batch_id":       s.BatchID,
		"claimed":        s.Claimed,
		"customer_name":  s.CustomerName,
		"customer_phone": s.CustomerPhone,
		"generated_date": s.GeneratedDate,
		"redeem_date":    s.RedeemDate,
		"created_at":     s.CreatedAt,
	}
}

// formatBatch renders a generation batch.
func formatBatch(b *models.SerialBatch) gin.H {
	return gin.H{
		"id":           b.ID,
		"count":        b.Count,
		"prized_count": b.PrizedCount,
		"created_by":   b.CreatedBy,
		"created_at":   b.CreatedAt,
	}
}
