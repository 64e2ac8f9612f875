package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/archive"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	"github.com/router-for-me/PrizeCheck/internal/config"
	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	"github.com/router-for-me/PrizeCheck/internal/http/api/admin"
	"github.com/router-for-me/PrizeCheck/internal/http/api/admin/handlers"
	"github.com/router-for-me/PrizeCheck/internal/http/api/front"
	"github.com/router-for-me/PrizeCheck/internal/logging"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"github.com/router-for-me/PrizeCheck/internal/security"
	internalsettings "github.com/router-for-me/PrizeCheck/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg *config.Config) error {
	conn, err := dbutil.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if errMigrate := dbutil.Migrate(conn.WithContext(ctx)); errMigrate != nil {
		return errMigrate
	}
	log.Info("migrations applied")
	return nil
}

// RunServer boots the HTTP API and blocks until ctx is cancelled or the server fails.
func RunServer(ctx context.Context, cfg *config.Config) error {
	conn, err := dbutil.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := seedAdmin(ctx, conn, cfg.Admin); errSeed != nil {
		return errSeed
	}
	if errRefresh := internalsettings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}
	if cfg.JWT.Generated {
		log.Warn("jwt secret not configured; generated one for this process, sessions will not survive a restart")
	}

	sessions, err := newSessionBackend(cfg)
	if err != nil {
		return err
	}
	defer sessions.close()

	uploader, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	var archiver handlers.CSVArchiver
	if uploader != nil {
		archiver = uploader
		log.Infof("export archive enabled (bucket=%s)", cfg.Archive.Bucket)
	}

	svc := campaign.NewService(conn, campaign.WithRedemptionGate(internalsettings.RedemptionEnabled))
	router := buildRouter(conn, cfg, sessions, svc, archiver)

	scheduler, err := startMaintenance(ctx, conn, sessions.memory, defaultMaintenanceIntervals)
	if err != nil {
		return err
	}
	defer func() {
		if errShutdown := scheduler.Shutdown(); errShutdown != nil {
			log.WithError(errShutdown).Warn("scheduler shutdown failed")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("prizecheck listening on %s", srv.Addr)
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
		close(errCh)
	}()

	select {
	case errServe, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", errServe)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("http shutdown: %w", errShutdown)
	}
	return nil
}

// buildRouter assembles the gin engine with every route group.
func buildRouter(conn *gorm.DB, cfg *config.Config, sessions *sessionBackend, svc *campaign.Service, archiver handlers.CSVArchiver) *gin.Engine {
	engine := gin.New()
	engine.Use(logging.GinLogger(), gin.Recovery())

	health := handlers.NewHealthHandler(conn, sessions.pingers)
	engine.GET("/healthz", health.Healthz)

	admin.RegisterAdminRoutes(engine, admin.Deps{
		DB:       conn,
		JWT:      cfg.JWT,
		Sessions: sessions.store,
		Campaign: svc,
		Archiver: archiver,
	})
	front.RegisterFrontRoutes(engine, svc)
	return engine
}

// seedAdmin creates the configured admin when no account with that username exists.
// Existing accounts keep their password.
func seedAdmin(ctx context.Context, conn *gorm.DB, cfg config.AdminConfig) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return nil
	}

	var existing int64
	if errCount := conn.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", username).Count(&existing).Error; errCount != nil {
		return fmt.Errorf("seed admin: %w", errCount)
	}
	if existing > 0 {
		return nil
	}
	if strings.TrimSpace(cfg.Password) == "" {
		log.Warnf("admin %q does not exist and no password is configured; skipping seed", username)
		return nil
	}

	hash, errHash := security.HashPassword(cfg.Password)
	if errHash != nil {
		return fmt.Errorf("seed admin: %w", errHash)
	}
	now := time.Now().UTC()
	account := models.Admin{
		Username:  username,
		Password:  hash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.WithContext(ctx).Create(&account).Error; errCreate != nil {
		return fmt.Errorf("seed admin: %w", errCreate)
	}
	log.Infof("seeded admin %q", username)
	return nil
}

func closeDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if errClose := sqlDB.Close(); errClose != nil {
		log.WithError(errClose).Warn("close database failed")
	}
}
