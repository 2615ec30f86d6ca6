package main

import (
	"github.com/tiemhang/tiemhang-api/internal/config"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	products := []models.Product{
		{
			Name:        "Áo thun cotton",
			Slug:        "ao-thun-cotton",
			Description: "Áo thun cotton 100%, form regular",
			PriceAmount: models.NewMoneyFromInt(150000),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			}),
			HasVariants:    true,
			AttributeNames: models.StringArray([]string{"size", "color"}),
			WeightGram:     250,
			IsActive:       true,
			SortOrder:      1,
		},
		{
			Name:        "Bình giữ nhiệt 500ml",
			Slug:        "binh-giu-nhiet-500ml",
			Description: "Bình giữ nhiệt inox 304, giữ nóng 12 giờ",
			PriceAmount: models.NewMoneyFromInt(220000),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800",
			}),
			HasVariants: false,
			Stock:       40,
			WeightGram:  350,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Name:        "Túi tote canvas",
			Slug:        "tui-tote-canvas",
			Description: "Túi tote vải canvas dày, in hai mặt",
			PriceAmount: models.NewMoneyFromInt(95000),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1597484662317-9bd7bdda2907?w=800",
			}),
			HasVariants:    true,
			AttributeNames: models.StringArray([]string{"color"}),
			WeightGram:     180,
			IsActive:       true,
			SortOrder:      3,
		},
	}

	for i := range products {
		product := &products[i]
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Slug)
			product.ID = existing.ID
			continue
		}
		if err := models.DB.Create(product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Slug)
	}

	variants := []models.ProductVariant{
		{
			ProductID: products[0].ID,
			SKU:       "AT-CT-S-TRANG",
			Attributes: models.AttributeSet{
				{Name: "size", Value: "S"},
				{Name: "color", Value: "Trắng"},
			},
			Stock:    20,
			IsActive: true,
		},
		{
			ProductID: products[0].ID,
			SKU:       "AT-CT-M-TRANG",
			Attributes: models.AttributeSet{
				{Name: "size", Value: "M"},
				{Name: "color", Value: "Trắng"},
			},
			Stock:    25,
			IsActive: true,
		},
		{
			ProductID: products[0].ID,
			SKU:       "AT-CT-L-DEN",
			Attributes: models.AttributeSet{
				{Name: "size", Value: "L"},
				{Name: "color", Value: "Đen"},
			},
			PriceAdjustment: models.NewMoneyFromInt(10000),
			Stock:           15,
			IsActive:        true,
		},
		{
			ProductID: products[2].ID,
			SKU:       "TT-CV-KEM",
			Attributes: models.AttributeSet{
				{Name: "color", Value: "Kem"},
			},
			Stock:    30,
			IsActive: true,
		},
		{
			ProductID: products[2].ID,
			SKU:       "TT-CV-DEN",
			Attributes: models.AttributeSet{
				{Name: "color", Value: "Đen"},
			},
			PriceAdjustment: models.NewMoneyFromInt(5000),
			Stock:           18,
			IsActive:        true,
		},
	}

	for i := range variants {
		variant := &variants[i]
		if variant.ProductID == 0 {
			continue
		}
		var existing models.ProductVariant
		if err := models.DB.Where("sku = ?", variant.SKU).First(&existing).Error; err == nil {
			stdLog.Printf("Variant already exists: %s", variant.SKU)
			continue
		}
		if err := models.DB.Create(variant).Error; err != nil {
			stdLog.Printf("Failed to create variant %s: %v", variant.SKU, err)
			continue
		}
		stdLog.Printf("Created variant: %s", variant.SKU)
	}

	stdLog.Printf("Seed finished")
}
