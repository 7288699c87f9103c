package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
	adminhandlers "github.com/ze-news/internal/http/handlers/admin"
	publichandlers "github.com/ze-news/internal/http/handlers/public"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := c.Cache.Client()
	loginRule := RateLimitRule{
		Prefix:        c.Cache.Key("rate:login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	factCheckRule := RateLimitRule{
		Prefix:        c.Cache.Key("rate:fact_check"),
		WindowSeconds: cfg.Security.FactCheckRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.FactCheckRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(LocaleMiddleware())
	r.Use(SessionMiddleware(c.AuthService))

	// 本地存储时直接暴露上传目录
	if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), constants.StorageDriverLocal) {
		dir := strings.TrimSpace(cfg.Storage.LocalDir)
		if dir == "" {
			dir = "./uploads"
		}
		r.Static("/uploads", dir)
	}

	r.GET("/health", func(ctx *gin.Context) {
		healthCheck(ctx, c)
	})

	privileged := []gin.HandlerFunc{RequirePrivilegedMiddleware(), RequirePolicyMiddleware(c.AuthzService)}
	guard := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(privileged)+1)
		chain = append(chain, privileged...)
		return append(chain, h)
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			me := auth.Group("", RequireAuthenticatedMiddleware())
			{
				me.GET("/me", publicHandler.GetMe)
				me.PUT("/me", publicHandler.UpdateMe)
				me.PUT("/password", publicHandler.ChangePassword)
			}
		}

		// 文章
		api.GET("/articles", publicHandler.ListArticles)
		api.GET("/articles/latest", publicHandler.LatestArticles)
		api.GET("/articles/slug/:slug", publicHandler.GetArticleBySlug)
		api.GET("/articles/:id", publicHandler.GetArticle)
		api.POST("/articles", guard(adminHandler.CreateArticle)...)
		api.PUT("/articles/:id", guard(adminHandler.ReplaceArticle)...)
		api.PATCH("/articles/:id", guard(adminHandler.PatchArticle)...)
		api.DELETE("/articles/:id", guard(adminHandler.DeleteArticle)...)
		api.POST("/articles/:id/duplicate", guard(adminHandler.DuplicateArticle)...)

		// 分类
		api.GET("/categories", publicHandler.ListCategories)
		api.POST("/categories", guard(adminHandler.CreateCategory)...)
		api.PUT("/categories/:id", guard(adminHandler.UpdateCategory)...)
		api.DELETE("/categories/:id", guard(adminHandler.DeleteCategory)...)

		// 课程
		api.GET("/courses", publicHandler.ListCourses)
		api.POST("/courses", guard(adminHandler.CreateCourse)...)
		api.GET("/courses/:id", publicHandler.GetCourse)
		api.PUT("/courses/:id", guard(adminHandler.UpdateCourse)...)
		api.DELETE("/courses/:id", guard(adminHandler.DeleteCourse)...)
		api.GET("/courses/:id/modules", publicHandler.ListModules)
		api.POST("/courses/:id/modules", guard(adminHandler.CreateModule)...)
		api.PUT("/courses/:id/modules/:module_id", guard(adminHandler.UpdateModule)...)
		api.DELETE("/courses/:id/modules/:module_id", guard(adminHandler.DeleteModule)...)
		api.GET("/courses/:id/modules/:module_id/videos", publicHandler.ListVideos)
		api.POST("/courses/:id/modules/:module_id/videos", guard(adminHandler.CreateVideo)...)
		api.PUT("/courses/:id/modules/:module_id/videos/:item_id", guard(adminHandler.UpdateVideo)...)
		api.DELETE("/courses/:id/modules/:module_id/videos/:item_id", guard(adminHandler.DeleteVideo)...)
		api.GET("/courses/:id/modules/:module_id/materials", publicHandler.ListMaterials)
		api.POST("/courses/:id/modules/:module_id/materials", guard(adminHandler.CreateMaterial)...)
		api.PUT("/courses/:id/modules/:module_id/materials/:item_id", guard(adminHandler.UpdateMaterial)...)
		api.DELETE("/courses/:id/modules/:module_id/materials/:item_id", guard(adminHandler.DeleteMaterial)...)

		// 事实核查
		api.GET("/captcha", publicHandler.GetImageCaptcha)
		api.POST("/fact-checks", RateLimitMiddleware(redisClient, factCheckRule, KeyByIP), publicHandler.SubmitFactCheck)
		api.GET("/fact-checks", guard(adminHandler.ListFactChecks)...)
		api.GET("/fact-checks/:id", guard(adminHandler.GetFactCheck)...)
		api.PATCH("/fact-checks/:id", guard(adminHandler.ReviewFactCheck)...)

		// 文件上传
		api.POST("/upload", guard(adminHandler.UploadMedia)...)

		// 账号管理（仅管理员）
		admin := api.Group("/admin", privileged...)
		{
			admin.GET("/profiles", adminHandler.ListProfiles)
			admin.PATCH("/profiles/:id/role", adminHandler.ChangeProfileRole)
		}
	}

	return r
}

func healthCheck(ctx *gin.Context, c *provider.Container) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	result := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(reqCtx) != nil {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
		result["database"] = "unavailable"
	}
	if c.Cache.Enabled() {
		result["redis"] = "ok"
		if err := c.Cache.Ping(reqCtx); err != nil {
			logger.Warnw("health_redis_ping_failed", "error", err)
			status = http.StatusServiceUnavailable
			result["status"] = "degraded"
			result["redis"] = "unavailable"
		}
	}
	ctx.JSON(status, result)
}
