package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	internalsettings "github.com/router-for-me/PrizeCheck/internal/settings"
)

// publicConfigResponse is the response payload for public config.
type publicConfigResponse struct {
	SiteName          string `json:"site_name"`
	RedemptionEnabled bool   `json:"redemption_enabled"`
}

// GetPublicConfig returns public configuration for the customer UI.
func GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, publicConfigResponse{
		SiteName:          internalsettings.SiteName(),
		RedemptionEnabled: internalsettings.RedemptionEnabled(),
	})
}
