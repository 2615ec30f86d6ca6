package provider

import (
	"github.com/tiemhang/tiemhang-api/internal/config"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/payment/vnpay"
	"github.com/tiemhang/tiemhang-api/internal/queue"
	"github.com/tiemhang/tiemhang-api/internal/repository"
	"github.com/tiemhang/tiemhang-api/internal/service"
	"github.com/tiemhang/tiemhang-api/internal/shipping/ghn"
)

// Container wires repositories and services once and hands them to the HTTP
// handlers and the worker.
type Container struct {
	Cfg *config.Config

	QueueClient *queue.Client

	// Repositories
	ProductRepo       repository.ProductRepository
	VariantRepo       repository.ProductVariantRepository
	CartRepo          repository.CartRepository
	OrderRepo         repository.OrderRepository
	StockMovementRepo repository.StockMovementRepository
	StockAlertRepo    repository.StockAlertRepository
	UserRepo          repository.UserRepository
	AdminRepo         repository.AdminRepository

	// Services
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	ProductService      *service.ProductService
	CartService         *service.CartService
	InventoryService    *service.InventoryService
	NotificationService *service.NotificationService
	OrderStatusService  *service.OrderStatusService
	PaymentService      *service.PaymentService
	OrderService        *service.OrderService
}

// NewContainer builds the dependency graph.
func NewContainer(cfg *config.Config, queueClient *queue.Client) *Container {
	c := &Container{Cfg: cfg, QueueClient: queueClient}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StockMovementRepo = repository.NewStockMovementRepository(db)
	c.StockAlertRepo = repository.NewStockAlertRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.AdminRepo = repository.NewAdminRepository(db)
}

func (c *Container) initServices() {
	db := models.DB

	c.AuthService = service.NewAuthService(c.Cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Cfg, c.UserRepo)
	c.NotificationService = service.NewNotificationService(c.QueueClient)

	resolver := service.NewVariantResolver(c.ProductRepo, c.VariantRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, resolver)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.VariantRepo)

	c.InventoryService = service.NewInventoryService(
		db,
		c.ProductRepo,
		c.VariantRepo,
		c.StockMovementRepo,
		c.StockAlertRepo,
		c.NotificationService,
		c.Cfg.Inventory.LowStockThreshold,
	)

	c.OrderStatusService = service.NewOrderStatusService(db, c.OrderRepo, c.InventoryService, c.NotificationService)

	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.OrderStatusService, &vnpay.Config{
		BaseURL:    c.Cfg.Payment.VNPay.BaseURL,
		TmnCode:    c.Cfg.Payment.VNPay.TmnCode,
		HashSecret: c.Cfg.Payment.VNPay.HashSecret,
		ReturnURL:  c.Cfg.Payment.VNPay.ReturnURL,
	})

	shippingClient := ghn.NewClient(ghn.Config{
		BaseURL:        c.Cfg.Shipping.GHN.BaseURL,
		Token:          c.Cfg.Shipping.GHN.Token,
		ShopID:         c.Cfg.Shipping.GHN.ShopID,
		TimeoutSeconds: c.Cfg.Shipping.GHN.TimeoutSeconds,
	})

	c.OrderService = service.NewOrderService(
		db,
		c.OrderRepo,
		c.CartRepo,
		c.ProductRepo,
		c.VariantRepo,
		c.InventoryService,
		c.PaymentService,
		c.NotificationService,
		shippingClient,
		c.QueueClient,
		service.OrderConfig{
			PaymentExpireMinutes: c.Cfg.Order.PaymentExpireMinutes,
			DefaultShippingFee:   c.Cfg.Shipping.GHN.DefaultFee,
			DefaultLeadtimeDays:  c.Cfg.Shipping.GHN.DefaultLeadtimeDays,
		},
	)
}
