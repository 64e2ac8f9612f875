package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/router-for-me/PrizeCheck/internal/app"
	"github.com/router-for-me/PrizeCheck/internal/config"
	"github.com/router-for-me/PrizeCheck/internal/logging"
	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath  string
		migrateOnly bool
	)
	flag.StringVar(&configPath, "config", "", "path to config.yaml (defaults to $"+config.ConfigPathEnv+" or ./config.yaml)")
	flag.BoolVar(&migrateOnly, "migrate", false, "run database migrations and exit")
	flag.Parse()

	// A missing .env is fine.
	_ = godotenv.Load()

	appCfg := config.AppConfig{ConfigPath: config.ResolveConfigPath(configPath)}
	cfg, errLoad := config.Load(appCfg.ConfigPath)
	if errLoad != nil {
		log.Fatalf("load config: %v", errLoad)
	}
	closer, errLog := logging.Setup(cfg.Log)
	if errLog != nil {
		log.Fatalf("setup logging: %v", errLog)
	}
	defer func() { _ = closer.Close() }()
	if !config.ConfigExists(appCfg.ConfigPath) {
		log.Warnf("config file %s not found; running on defaults and environment", appCfg.ConfigPath)
	}
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var errRun error
	if migrateOnly {
		errRun = app.Migrate(ctx, cfg)
	} else {
		errRun = app.RunServer(ctx, cfg)
	}
	if errRun != nil {
		log.Errorf("prizecheck: %v", errRun)
		stop()
		_ = closer.Close()
		os.Exit(1)
	}
}
