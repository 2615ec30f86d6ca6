package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/tiemhang/tiemhang-api/internal/app"
	"github.com/tiemhang/tiemhang-api/internal/cache"
	"github.com/tiemhang/tiemhang-api/internal/config"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.UserJWT.SecretKey) {
			stdLog.Fatalf("JWT secret is weak or still the default, configure a strong random key for production")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.UserJWT.SecretKey) {
		stdLog.Printf("warning: JWT secret is weak or still the default, replace it before going to production")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	defaultAdminUser := os.Getenv("TH_DEFAULT_ADMIN_USERNAME")
	defaultAdminPass := os.Getenv("TH_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && defaultAdminPass == "" {
		stdLog.Printf("warning: TH_DEFAULT_ADMIN_PASSWORD not set, skipped default admin initialization")
	} else if err := models.InitDefaultAdmin(defaultAdminUser, defaultAdminPass); err != nil {
		stdLog.Printf("warning: default admin initialization failed: %v", err)
	}

	if err := cache.InitRedis(&cfg.Redis); err != nil {
		stdLog.Printf("warning: redis init failed, cache disabled: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("app run failed: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println("==============================================")
	fmt.Println("  TiemHang API - storefront order & inventory")
	fmt.Println("==============================================")
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
