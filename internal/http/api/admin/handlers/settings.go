package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	internalsettings "github.com/router-for-me/PrizeCheck/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettingsHandler reads and writes runtime settings.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// Get returns every setting with defaults applied.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":   internalsettings.Effective(),
		"updated_at": internalsettings.UpdatedAt(),
	})
}

// Update upserts the given settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body map[string]json.RawMessage
	if errBind := c.ShouldBindJSON(&body); errBind != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errSave := internalsettings.Save(c.Request.Context(), h.db, body); errSave != nil {
		if errors.Is(errSave, internalsettings.ErrUnknownKey) || errors.Is(errSave, internalsettings.ErrInvalidValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errSave.Error()})
			return
		}
		log.WithError(errSave).Error("save settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save settings failed"})
		return
	}
	h.Get(c)
}
