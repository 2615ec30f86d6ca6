package service

import (
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"
)

// VariantResolver matches attribute selections against a product's active
// variants. Resolution is a pure read over the current variant set.
type VariantResolver struct {
	products repository.ProductRepository
	variants repository.ProductVariantRepository
}

// NewVariantResolver creates a resolver.
func NewVariantResolver(products repository.ProductRepository, variants repository.ProductVariantRepository) *VariantResolver {
	return &VariantResolver{products: products, variants: variants}
}

// Resolution is the outcome of a complete selection.
type Resolution struct {
	Product *models.Product
	Variant *models.ProductVariant // nil for simple products
}

// Resolve maps (product, selection) to the base product or exactly one active
// variant. The selection must cover every attribute name declared across the
// product's active variants.
func (r *VariantResolver) Resolve(productID uint, selection models.AttributeSet) (*Resolution, error) {
	product, err := r.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	variants, err := r.variants.ListByProduct(productID, true)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		// No active variants: the product sells directly, no selection needed.
		return &Resolution{Product: product}, nil
	}

	required := declaredAttributeNames(variants)
	normalized := models.NormalizeAttributeSet(selection)
	for _, name := range required {
		if _, ok := normalized.Get(name); !ok {
			return nil, ErrIncompleteSelection
		}
	}

	for i := range variants {
		if variants[i].Attributes.Covers(normalized) && normalized.Covers(variants[i].Attributes) {
			return &Resolution{Product: product, Variant: &variants[i]}, nil
		}
	}
	return nil, ErrVariantNotFound
}

// FilterCandidates returns the active variants compatible with a partial
// selection, for incremental picking in the storefront UI.
func (r *VariantResolver) FilterCandidates(productID uint, selection models.AttributeSet) ([]models.ProductVariant, error) {
	variants, err := r.variants.ListByProduct(productID, true)
	if err != nil {
		return nil, err
	}
	normalized := models.NormalizeAttributeSet(selection)
	matched := make([]models.ProductVariant, 0, len(variants))
	for _, variant := range variants {
		if variant.Attributes.Covers(normalized) {
			matched = append(matched, variant)
		}
	}
	return matched, nil
}

// declaredAttributeNames collects the distinct attribute names used across a
// variant set, preserving first-seen order.
func declaredAttributeNames(variants []models.ProductVariant) []string {
	seen := make(map[string]bool)
	names := make([]string, 0, 4)
	for _, variant := range variants {
		for _, pair := range variant.Attributes {
			key := strings.ToLower(pair.Name)
			if !seen[key] {
				seen[key] = true
				names = append(names, pair.Name)
			}
		}
	}
	return names
}
