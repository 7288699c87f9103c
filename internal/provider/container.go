package provider

import (
	"fmt"

	"github.com/ze-news/internal/authz"
	"github.com/ze-news/internal/cache"
	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/queue"
	"github.com/ze-news/internal/repository"
	"github.com/ze-news/internal/service"
	"github.com/ze-news/internal/storage"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	ObjectStore storage.ObjectStore

	// Repositories
	ArticleRepo   repository.ArticleRepository
	CategoryRepo  repository.CategoryRepository
	ProfileRepo   repository.ProfileRepository
	FactCheckRepo repository.FactCheckRepository
	CourseRepo    repository.CourseRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	ProfileService        *service.ProfileService
	ArticleService        *service.ArticleService
	CategoryService       *service.CategoryService
	CourseService         *service.CourseService
	FactCheckService      *service.FactCheckService
	SourceSnapshotService *service.SourceSnapshotService
	UploadService         *service.UploadService
	EmailService          *service.EmailService
	CaptchaService        *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("container requires config and db")
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("init queue client: %w", err)
	}
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       cache.New(&cfg.Redis),
		QueueClient: queueClient,
		ObjectStore: store,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	logger.Infow("provider_container_ready",
		"storage_driver", cfg.Storage.Driver,
		"redis_enabled", c.Cache.Enabled(),
		"queue_enabled", queueClient.Enabled(),
	)
	return c, nil
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initRepositories() {
	c.ArticleRepo = repository.NewArticleRepository(c.DB)
	c.CategoryRepo = repository.NewCategoryRepository(c.DB)
	c.ProfileRepo = repository.NewProfileRepository(c.DB)
	c.FactCheckRepo = repository.NewFactCheckRepository(c.DB)
	c.CourseRepo = repository.NewCourseRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	latest := cache.NewLatestArticles(c.Cache)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.ProfileRepo, c.Cache, logger.Component("auth"))
	c.ProfileService = service.NewProfileService(c.ProfileRepo, c.Cache, logger.Component("profile"))
	c.ArticleService = service.NewArticleService(c.ArticleRepo, c.CategoryRepo, latest, logger.Component("article"))
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ArticleRepo, latest)
	c.CourseService = service.NewCourseService(c.CourseRepo, logger.Component("course"))
	c.FactCheckService = service.NewFactCheckService(c.FactCheckRepo, c.ArticleRepo, c.QueueClient, c.Config.FactCheck.SourceSnapshot, logger.Component("fact_check"))
	c.SourceSnapshotService = service.NewSourceSnapshotService(c.FactCheckRepo, c.Config.FactCheck.FetchTimeout(), c.Config.FactCheck.SnapshotExcerptRunes, logger.Component("source_snapshot")).
		WithPrivateNetworks(c.Config.FactCheck.AllowPrivateSources)
	c.UploadService = service.NewUploadService(c.Config.Upload, c.ObjectStore, logger.Component("upload"))
	return nil
}
