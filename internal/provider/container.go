package provider

import (
	"time"

	"github.com/dujiao-next/order-desk/internal/authz"
	"github.com/dujiao-next/order-desk/internal/cache"
	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/queue"
	"github.com/dujiao-next/order-desk/internal/repository"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/mojocn/base64Captcha"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	DraftStore  composer.SlotStore

	// Repositories
	AdminRepo     repository.AdminRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	CouponRepo    repository.CouponRepository
	OrderRepo     repository.OrderRepository
	DraftSlotRepo repository.DraftSlotRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	CatalogService  *service.CatalogService
	DiscountService *service.DiscountService
	OrderService    *service.OrderService
	ComposerService *service.ComposerService
	CaptchaService  *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DraftSlotRepo = repository.NewDraftSlotRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	composerCfg := c.Config.Composer
	c.DraftStore = c.buildDraftStore(composerCfg)

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo, composerCfg.CatalogCacheTTL())
	c.DiscountService = service.NewDiscountService(c.CouponRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.QueueClient, composerCfg.CurrencyCode())
	c.ComposerService = service.NewComposerService(composerCfg, c.DraftStore, c.CatalogService, c.DiscountService, c.OrderService)
	c.CaptchaService = c.buildCaptchaService(c.Config.Security.LoginCaptcha)
}

// buildCaptchaService Redis 可用时共享验证码答案，否则使用进程内存储
func (c *Container) buildCaptchaService(cfg config.CaptchaConfig) *service.CaptchaService {
	var store base64Captcha.Store
	if client := cache.Client(); client != nil {
		ttl := time.Duration(cfg.ExpireSeconds) * time.Second
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		store = cache.NewCaptchaStore(client, cache.Prefix(), ttl)
	}
	return service.NewCaptchaService(cfg, store)
}

// buildDraftStore 按 composer.storage 选择草稿槽位存储；Redis 未启用时回落到数据库
func (c *Container) buildDraftStore(cfg config.ComposerConfig) composer.SlotStore {
	driver := cfg.StorageDriver()
	switch driver {
	case constants.DraftStorageMemory:
		logger.Warnw("provider_draft_store_memory", "note", "drafts are lost on restart")
		return composer.NewMemoryStore()
	case constants.DraftStorageRedis:
		if client := cache.Client(); client != nil {
			return cache.NewDraftSlotStore(client, cache.Prefix())
		}
		logger.Warnw("provider_draft_store_redis_unavailable", "fallback", constants.DraftStorageDatabase)
	}
	return c.DraftSlotRepo
}
