package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	"github.com/router-for-me/PrizeCheck/internal/config"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	"github.com/router-for-me/PrizeCheck/internal/http/api/admin/handlers"
	"github.com/router-for-me/PrizeCheck/internal/session"
	"gorm.io/gorm"
)

// Deps bundles what the admin routes need.
type Deps struct {
	DB       *gorm.DB
	JWT      config.JWTConfig
	Sessions session.Store
	Campaign *campaign.Service
	Archiver handlers.CSVArchiver // Optional.
}

// RegisterAdminRoutes registers the login endpoint and the authenticated admin API.
func RegisterAdminRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil || deps.Campaign == nil || deps.Sessions == nil {
		return
	}

	admin := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT, deps.Sessions)
	admin.POST("/login", authHandler.Login)

	authed := admin.Group("")
	authed.Use(httpx.AdminAuthMiddleware(deps.DB, deps.JWT, deps.Sessions))

	authed.POST("/logout", authHandler.Logout)
	authed.GET("/me", authHandler.Me)

	dashboardHandler := handlers.NewDashboardHandler(deps.Campaign)
	authed.GET("/dashboard/stats", dashboardHandler.Stats)

	prizeHandler := handlers.NewPrizeHandler(deps.Campaign)
	authed.GET("/prizes", prizeHandler.List)
	authed.POST("/prizes", prizeHandler.Create)
	authed.GET("/prizes/:id", prizeHandler.Get)
	authed.PUT("/prizes/:id", prizeHandler.Update)
	authed.DELETE("/prizes/:id", prizeHandler.Delete)

	serialHandler := handlers.NewSerialNumberHandler(deps.Campaign, deps.Archiver)
	authed.GET("/serial-numbers", serialHandler.List)
	authed.POST("/serial-numbers/generate", serialHandler.Generate)
	authed.GET("/serial-numbers/export", serialHandler.Export)
	authed.GET("/serial-numbers/:id", serialHandler.Get)
	authed.PUT("/serial-numbers/:id", serialHandler.Update)
	authed.DELETE("/serial-numbers/:id", serialHandler.Delete)
	authed.GET("/serial-batches", serialHandler.Batches)

	adminHandler := handlers.NewAdminHandler(deps.DB)
	authed.GET("/admins", adminHandler.List)
	authed.POST("/admins", adminHandler.Create)
	authed.GET("/admins/:id", adminHandler.Get)
	authed.PUT("/admins/:id", adminHandler.Update)
	authed.DELETE("/admins/:id", adminHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(deps.DB)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings", settingsHandler.Update)
}
