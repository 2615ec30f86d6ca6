package service

import (
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"
)

// ProductService serves the public catalog surface.
type ProductService struct {
	products repository.ProductRepository
	variants repository.ProductVariantRepository
	resolver *VariantResolver
}

// NewProductService creates the product service.
func NewProductService(
	products repository.ProductRepository,
	variants repository.ProductVariantRepository,
	resolver *VariantResolver,
) *ProductService {
	return &ProductService{products: products, variants: variants, resolver: resolver}
}

// List fetches active products for the storefront.
func (s *ProductService) List(keyword string, page, pageSize int) ([]models.Product, int64, error) {
	return s.products.List(repository.ProductListFilter{
		Keyword:    keyword,
		OnlyActive: true,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetBySlug fetches one active product with its active variants.
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.products.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// VariantPreview is a resolved selection with its effective price and stock.
type VariantPreview struct {
	Product   *models.Product        `json:"-"`
	Variant   *models.ProductVariant `json:"variant,omitempty"`
	UnitPrice models.Money           `json:"unit_price"`
	Stock     int                    `json:"stock"`
	Warnings  []string               `json:"warnings,omitempty"`
}

// ResolveVariant maps an attribute selection to a concrete line and prices
// one unit of it.
func (s *ProductService) ResolveVariant(productID uint, selection models.AttributeSet) (*VariantPreview, error) {
	resolution, err := s.resolver.Resolve(productID, selection)
	if err != nil {
		return nil, err
	}
	line, warnings, err := priceLine(resolution, 1)
	if err != nil {
		return nil, err
	}

	stock := resolution.Product.Stock
	if resolution.Variant != nil {
		stock = resolution.Variant.Stock
	}
	return &VariantPreview{
		Product:   resolution.Product,
		Variant:   resolution.Variant,
		UnitPrice: line.UnitPrice,
		Stock:     stock,
		Warnings:  warnings,
	}, nil
}

// FilterCandidates exposes incremental variant filtering for the storefront
// picker.
func (s *ProductService) FilterCandidates(productID uint, selection models.AttributeSet) ([]models.ProductVariant, error) {
	return s.resolver.FilterCandidates(productID, selection)
}
