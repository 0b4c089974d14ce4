package router

import (
	"github.com/dujiao-next/order-desk/internal/cache"
	"github.com/dujiao-next/order-desk/internal/config"
	adminhandlers "github.com/dujiao-next/order-desk/internal/http/handlers/admin"
	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	adminLoginRule := RateLimitRule{
		Prefix:        cache.Key("rate", "admin_login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}
	captchaRule := RateLimitRule{
		Prefix:        cache.Key("rate", "login_captcha"),
		WindowSeconds: 60,
		MaxRequests:   30,
	}
	submitRule := RateLimitRule{
		Prefix:        cache.Key("rate", "draft_submit"),
		WindowSeconds: cfg.Security.SubmitRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SubmitRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.SubmitRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		admin.GET("/captcha", RateLimitMiddleware(cache.Client(), captchaRule, KeyByIP), adminHandler.GetLoginCaptcha)
		admin.POST("/login", RateLimitMiddleware(cache.Client(), adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

		authed := admin.Group("")
		authed.Use(JWTAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
		{
			authed.GET("/me", adminHandler.GetCurrentAdmin)
			authed.POST("/logout", adminHandler.AdminLogout)

			// 录单草稿工作区
			drafts := authed.Group("/drafts")
			{
				drafts.GET("", adminHandler.GetDrafts)
				drafts.POST("", adminHandler.CreateDraft)
				drafts.DELETE("/:id", adminHandler.CloseDraft)
				drafts.POST("/:id/activate", adminHandler.ActivateDraft)

				active := drafts.Group("/active")
				active.POST("/items", adminHandler.AddDraftItem)
				active.PUT("/items/:product_id", adminHandler.SetDraftItemQuantity)
				active.DELETE("/items/:product_id", adminHandler.RemoveDraftItem)
				active.POST("/items/:product_id/attributes", adminHandler.ToggleDraftItemAttribute)
				active.PUT("/customer", adminHandler.UpdateDraftCustomer)
				active.PUT("/discount", adminHandler.ApplyDraftDiscount)
				active.DELETE("/discount", adminHandler.ClearDraftDiscount)
				active.PUT("/shipping", adminHandler.SetDraftShipping)
				active.POST("/submit", RateLimitMiddleware(cache.Client(), submitRule, KeyByAdmin), adminHandler.SubmitDraft)
			}

			catalog := authed.Group("/catalog")
			{
				catalog.GET("/categories", adminHandler.GetCatalogCategories)
				catalog.GET("/products", adminHandler.GetCatalogProducts)
				catalog.GET("/products/:id", adminHandler.GetCatalogProduct)
			}

			authed.GET("/orders", adminHandler.GetAdminOrders)
			authed.GET("/orders/:order_no", adminHandler.GetAdminOrder)
		}
	}

	return r
}
