package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/config"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"github.com/router-for-me/PrizeCheck/internal/security"
	"github.com/router-for-me/PrizeCheck/internal/session"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler handles admin login, logout and identity endpoints.
type AuthHandler struct {
	db       *gorm.DB         // Database handle for admin lookups.
	jwtCfg   config.JWTConfig // Token signing settings.
	sessions session.Store    // Live admin sessions.
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, sessions session.Store) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg, sessions: sessions}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials, opens a session and returns a token bound to it.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()
	var admin models.Admin
	if errFind := h.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; errFind != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !security.CheckPassword(admin.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !admin.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
		return
	}

	now := time.Now().UTC()
	sess := session.New(admin.ID, admin.Username, now, h.jwtCfg.Expiry)
	if errCreate := h.sessions.Create(ctx, sess); errCreate != nil {
		log.WithError(errCreate).Error("admin login: create session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	token, errToken := security.GenerateAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, sess.ID, sess.IssuedAt, sess.ExpiresAt)
	if errToken != nil {
		_ = h.sessions.Delete(ctx, sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	if errUpdate := h.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", admin.ID).
		Update("last_login_at", now).Error; errUpdate != nil {
		log.WithError(errUpdate).Warn("admin login: update last login failed")
	}
	log.WithField("admin", admin.Username).Info("admin logged in")

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if errDelete := h.sessions.Delete(c.Request.Context(), httpx.SessionID(c)); errDelete != nil {
		log.WithError(errDelete).Error("admin logout: delete session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated admin.
func (h *AuthHandler) Me(c *gin.Context) {
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, httpx.AdminID(c)).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"active":        admin.Active,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
	})
}
