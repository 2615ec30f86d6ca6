package service

import (
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"
)

// CartService manages a user's cart lines. Lines are validated on entry but
// order creation re-validates everything again; the cart is never trusted.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	variants repository.ProductVariantRepository
}

// NewCartService creates the cart service.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	variants repository.ProductVariantRepository,
) *CartService {
	return &CartService{carts: carts, products: products, variants: variants}
}

// List fetches the user's cart.
func (s *CartService) List(userID uint) ([]models.CartItem, error) {
	return s.carts.ListByUser(userID)
}

// AddItem puts a line into the cart, merging quantity into an existing line
// for the same (product, variant).
func (s *CartService) AddItem(userID, productID, variantIDValue uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	if variantIDValue > 0 {
		variant, err := s.variants.GetByID(variantIDValue)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.IsActive || variant.ProductID != productID {
			return nil, ErrVariantNotFound
		}
	} else if product.HasVariants {
		return nil, ErrIncompleteSelection
	}

	existing, err := s.carts.GetByUserAndLine(userID, productID, variantIDValue)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		if err := s.carts.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantIDValue,
		Quantity:  quantity,
	}
	if err := s.carts.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes one cart line owned by the user.
func (s *CartService) RemoveItem(userID, itemID uint) error {
	item, err := s.carts.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.UserID != userID {
		return ErrCartItemNotFound
	}
	return s.carts.Delete(itemID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID uint) error {
	return s.carts.DeleteByUser(userID)
}
