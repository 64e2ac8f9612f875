package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"github.com/router-for-me/PrizeCheck/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler manages staff admin accounts.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// createAdminRequest defines the request body for admin creation.
type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func formatAdmin(admin models.Admin) gin.H {
	return gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"active":        admin.Active,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
		"updated_at":    admin.UpdatedAt,
	}
}

// Create adds an active admin account.
func (h *AdminHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	}
	password := strings.TrimSpace(body.Password)
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing password"})
		return
	}

	ctx := c.Request.Context()
	taken, errTaken := h.usernameTaken(c, username, 0)
	if errTaken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	now := time.Now().UTC()
	admin := models.Admin{
		Username:  username,
		Password:  hash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		log.WithError(errCreate).Error("create admin failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create admin failed"})
		return
	}
	log.WithFields(log.Fields{"admin": admin.Username, "by": httpx.AdminUsername(c)}).Info("admin account created")
	c.JSON(http.StatusCreated, formatAdmin(admin))
}

// List returns admin accounts, optionally filtered by username.
func (h *AdminHandler) List(c *gin.Context) {
	usernameQ := strings.TrimSpace(c.Query("username"))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{})
	if usernameQ != "" {
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), dbutil.ContainsPattern(h.db, usernameQ))
	}

	var rows []models.Admin
	if errFind := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, formatAdmin(row))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Get returns a single admin account by ID.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, formatAdmin(admin))
}

// updateAdminRequest defines the request body for admin updates.
type updateAdminRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"` // Password reset; no old password needed.
	Active   *bool   `json:"active"`
}

// Update renames, resets the password of, or enables/disables an admin account.
// Admins cannot disable themselves.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Username != nil {
		username := strings.TrimSpace(*body.Username)
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username cannot be empty"})
			return
		}
		taken, errTaken := h.usernameTaken(c, username, id)
		if errTaken != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		updates["username"] = username
	}
	if body.Password != nil {
		password := strings.TrimSpace(*body.Password)
		if password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password cannot be empty"})
			return
		}
		hash, errHash := security.HashPassword(password)
		if errHash != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
			return
		}
		updates["password"] = hash
	}
	if body.Active != nil {
		if !*body.Active && id == httpx.AdminID(c) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable your own account"})
			return
		}
		updates["active"] = *body.Active
	}

	ctx := c.Request.Context()
	res := h.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(ctx).First(&admin, id).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, formatAdmin(admin))
}

// Delete removes an admin account. Admins cannot delete themselves.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseAdminID(c)
	if !ok {
		return
	}
	if id == httpx.AdminID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) usernameTaken(c *gin.Context, username string, exceptID uint64) (bool, error) {
	var count int64
	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if errCount := q.Count(&count).Error; errCount != nil {
		return false, errCount
	}
	return count > 0, nil
}

func parseAdminID(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
