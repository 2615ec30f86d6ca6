package service

import (
	"errors"
	"testing"

	"github.com/tiemhang/tiemhang-api/internal/models"
)

func TestPriceLineWithAdjustment(t *testing.T) {
	product := &models.Product{ID: 1, PriceAmount: models.NewMoneyFromInt(150000)}
	variant := &models.ProductVariant{ID: 2, ProductID: 1, PriceAdjustment: models.NewMoneyFromInt(10000)}

	line, warnings, err := priceLine(&Resolution{Product: product, Variant: variant}, 3)
	if err != nil {
		t.Fatalf("price line failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if line.UnitPrice.IntPart() != 160000 {
		t.Fatalf("expected unit price 160000, got %s", line.UnitPrice.String())
	}
	if line.LineTotal.IntPart() != 480000 {
		t.Fatalf("expected line total 480000, got %s", line.LineTotal.String())
	}
}

func TestPriceLineClampsNegativeToZero(t *testing.T) {
	product := &models.Product{ID: 1, PriceAmount: models.NewMoneyFromInt(5000)}
	variant := &models.ProductVariant{ID: 2, ProductID: 1, PriceAdjustment: models.NewMoneyFromInt(-8000)}

	line, warnings, err := priceLine(&Resolution{Product: product, Variant: variant}, 2)
	if err != nil {
		t.Fatalf("price line failed: %v", err)
	}
	if line.UnitPrice.IntPart() != 0 || line.LineTotal.IntPart() != 0 {
		t.Fatalf("expected zero amounts, got unit %s total %s", line.UnitPrice.String(), line.LineTotal.String())
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one clamp warning, got %v", warnings)
	}
}

func TestPriceLineRejectsNonPositiveQuantity(t *testing.T) {
	product := &models.Product{ID: 1, PriceAmount: models.NewMoneyFromInt(5000)}
	for _, quantity := range []int{0, -1} {
		_, _, err := priceLine(&Resolution{Product: product}, quantity)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
		}
	}
}

func TestPriceCartSumsSubtotal(t *testing.T) {
	first := &Resolution{Product: &models.Product{ID: 1, PriceAmount: models.NewMoneyFromInt(150000)}}
	second := &Resolution{Product: &models.Product{ID: 2, PriceAmount: models.NewMoneyFromInt(95000)}}

	cart, err := priceCart([]*Resolution{first, second}, []int{2, 1})
	if err != nil {
		t.Fatalf("price cart failed: %v", err)
	}
	if cart.Subtotal.IntPart() != 395000 {
		t.Fatalf("expected subtotal 395000, got %s", cart.Subtotal.String())
	}
}

func TestOrderTotal(t *testing.T) {
	total := orderTotal(models.NewMoneyFromInt(395000), models.NewMoneyFromInt(30000))
	if total.IntPart() != 425000 {
		t.Fatalf("expected total 425000, got %s", total.String())
	}
}
