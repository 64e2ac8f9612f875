package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is implemented by dependencies that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db     *gorm.DB
	extras map[string]Pinger // Optional named dependencies, e.g. redis.
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *gorm.DB, extras map[string]Pinger) *HealthHandler {
	return &HealthHandler{db: db, extras: extras}
}

// Healthz checks the database and any extra dependencies.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	ok := true
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	checks["database"] = err == nil
	ok = ok && err == nil

	for name, p := range h.extras {
		errPing := p.Ping(ctx)
		checks[name] = errPing == nil
		ok = ok && errPing == nil
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ok": ok, "checks": checks})
}
