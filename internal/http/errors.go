package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	log "github.com/sirupsen/logrus"
)

// RespondError maps campaign errors to status codes. Anything unrecognised is logged and
// reported as "<action> failed".
func RespondError(c *gin.Context, err error, action string) {
	var verr *campaign.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": campaign.ErrInvalidInput.Error(), "fields": verr.Fields})
	case errors.Is(err, campaign.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, campaign.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, campaign.ErrSerialUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": campaign.ErrSerialUnavailable.Error()})
	case errors.Is(err, campaign.ErrRedemptionClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": campaign.ErrRedemptionClosed.Error()})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Errorf("%s failed", action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": action + " failed"})
	}
}
