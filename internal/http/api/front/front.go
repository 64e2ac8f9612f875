package front

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	"github.com/router-for-me/PrizeCheck/internal/http/api/front/handlers"
)

// RegisterFrontRoutes registers the public customer routes.
func RegisterFrontRoutes(r *gin.Engine, svc *campaign.Service) {
	if r == nil || svc == nil {
		return
	}

	front := r.Group("/v0/front")
	front.GET("/config", handlers.GetPublicConfig)

	prizeHandler := handlers.NewPrizeCheckHandler(svc)
	front.POST("/check", prizeHandler.Check)
	front.GET("/prize/:serial", prizeHandler.Prize)
}
