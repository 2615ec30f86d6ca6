package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB failed: %v", err)
	}
	// Single connection keeps concurrent test goroutines queued instead of
	// tripping SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockMovement{},
		&models.StockAlert{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newTestInventoryService(db *gorm.DB, threshold int) *InventoryService {
	return NewInventoryService(
		db,
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewStockMovementRepository(db),
		repository.NewStockAlertRepository(db),
		NewNotificationService(nil),
		threshold,
	)
}

type testFixture struct {
	db        *gorm.DB
	orders    repository.OrderRepository
	inventory *InventoryService
	statuses  *OrderStatusService
	payments  *PaymentService
	orderSvc  *OrderService
}

func newTestFixture(t *testing.T, name string, threshold int) *testFixture {
	t.Helper()
	db := newTestDB(t, name)
	orders := repository.NewOrderRepository(db)
	inventory := newTestInventoryService(db, threshold)
	notifications := NewNotificationService(nil)
	statuses := NewOrderStatusService(db, orders, inventory, notifications)
	payments := NewPaymentService(orders, statuses, nil)
	orderSvc := NewOrderService(
		db,
		orders,
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		inventory,
		payments,
		notifications,
		nil,
		nil,
		OrderConfig{PaymentExpireMinutes: 15, DefaultShippingFee: 30000, DefaultLeadtimeDays: 4},
	)
	return &testFixture{
		db:        db,
		orders:    orders,
		inventory: inventory,
		statuses:  statuses,
		payments:  payments,
		orderSvc:  orderSvc,
	}
}

func createTestProduct(t *testing.T, db *gorm.DB, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        "Product " + slug,
		Slug:        slug,
		PriceAmount: models.NewMoneyFromInt(price),
		Stock:       stock,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestVariant(t *testing.T, db *gorm.DB, productID uint, sku string, attrs models.AttributeSet, adjustment int64, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID:       productID,
		SKU:             sku,
		Attributes:      attrs,
		PriceAdjustment: models.NewMoneyFromInt(adjustment),
		Stock:           stock,
		IsActive:        true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func addCartLine(t *testing.T, db *gorm.DB, userID, productID, variantID uint, quantity int) {
	t.Helper()
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}

func countMovements(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.StockMovement{}).Count(&count).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	return count
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return &product
}

func reloadVariant(t *testing.T, db *gorm.DB, id uint) *models.ProductVariant {
	t.Helper()
	var variant models.ProductVariant
	if err := db.First(&variant, id).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	return &variant
}
