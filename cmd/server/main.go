package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/ze-news/internal/app"
	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		logger.Warnw("jwt_secret_weak", "mode", cfg.Server.Mode)
	}

	db, err := app.OpenDatabase(cfg, true)
	if err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	adminEmail := os.Getenv("ZN_DEFAULT_ADMIN_EMAIL")
	adminPass := os.Getenv("ZN_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && adminPass == "" {
		logger.Warnw("default_admin_skipped", "reason", "ZN_DEFAULT_ADMIN_PASSWORD not set")
	} else if err := models.EnsureDefaultAdmin(db, adminEmail, adminPass); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		DB:      db,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
