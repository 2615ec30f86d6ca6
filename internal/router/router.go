package router

import (
	"fmt"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/cache"
	"github.com/tiemhang/tiemhang-api/internal/config"
	adminhandlers "github.com/tiemhang/tiemhang-api/internal/http/handlers/admin"
	publichandlers "github.com/tiemhang/tiemhang-api/internal/http/handlers/public"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine and registers all routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "th"
	}
	redisClient := cache.Client()
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
		Message:       "too many order attempts, slow down",
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
		Message:       "too many login attempts, slow down",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.Login)
		}

		catalog := apiV1.Group("")
		{
			catalog.GET("/products", publicHandler.ListProducts)
			catalog.GET("/products/:slug", publicHandler.GetProduct)
			catalog.POST("/products/:slug/resolve-variant", publicHandler.ResolveVariant)
		}

		apiV1.GET("/payments/vnpay/return", publicHandler.VNPayReturn)
		apiV1.GET("/payments/vnpay/ipn", publicHandler.VNPayIPN)

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			user.POST("/orders", RateLimitMiddleware(redisClient, orderRule, KeyByUserOrIP), publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.Login)

			authorized := admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/me", adminHandler.Profile)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
				authorized.POST("/orders/:id/advance", adminHandler.AdvanceOrder)

				authorized.POST("/inventory/stock-in", adminHandler.StockIn)
				authorized.POST("/inventory/adjust", adminHandler.AdjustStock)
				authorized.GET("/inventory/movements", adminHandler.ListMovements)
				authorized.GET("/inventory/alerts", adminHandler.ListAlerts)
				authorized.POST("/inventory/alerts/:id/notified", adminHandler.MarkAlertNotified)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
