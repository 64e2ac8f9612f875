package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/config"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"github.com/router-for-me/PrizeCheck/internal/security"
	"github.com/router-for-me/PrizeCheck/internal/session"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Context keys set by AdminAuthMiddleware.
const (
	ContextAdminID       = "adminID"
	ContextAdminUsername = "adminUsername"
	ContextSessionID     = "sessionID"
)

// AdminAuthMiddleware validates the bearer JWT, requires its session to be live in store,
// and injects the admin identity into the context.
func AdminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			if errors.Is(errJWT, security.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sess, errSession := store.Get(c.Request.Context(), claims.SessionID())
		if errSession != nil {
			if !errors.Is(errSession, session.ErrNotFound) {
				log.WithError(errSession).Error("admin auth: session lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		if sess.AdminID != claims.AdminID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).
			Select("id", "username", "active").
			First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextAdminUsername, admin.Username)
		c.Set(ContextSessionID, sess.ID)
		c.Next()
	}
}

// AdminID returns the authenticated admin id, or 0.
func AdminID(c *gin.Context) uint64 {
	v, ok := c.Get(ContextAdminID)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}

// AdminUsername returns the authenticated admin username.
func AdminUsername(c *gin.Context) string {
	return c.GetString(ContextAdminUsername)
}

// SessionID returns the session id of the authenticated request.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
