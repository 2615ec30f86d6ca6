package service

import (
	"fmt"

	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"

	"github.com/shopspring/decimal"
)

// PricedLine is one resolved, priced cart line.
type PricedLine struct {
	Product   *models.Product
	Variant   *models.ProductVariant // nil for simple products
	Quantity  int
	UnitPrice models.Money
	LineTotal models.Money
}

// PricedCart is a fully priced order candidate.
type PricedCart struct {
	Lines    []PricedLine
	Subtotal models.Money
	Warnings []string
}

// priceLine computes the unit price for one resolution. A variant adjustment
// that pushes the price below zero clamps to zero and reports a
// data-integrity warning instead of failing the order.
func priceLine(resolution *Resolution, quantity int) (PricedLine, []string, error) {
	if quantity <= 0 {
		return PricedLine{}, nil, ErrInvalidQuantity
	}

	var warnings []string
	unit := resolution.Product.PriceAmount.Decimal
	if resolution.Variant != nil {
		unit = unit.Add(resolution.Variant.PriceAdjustment.Decimal)
	}
	if unit.IsNegative() {
		warning := fmt.Sprintf("unit price for product %d clamped to zero", resolution.Product.ID)
		if resolution.Variant != nil {
			warning = fmt.Sprintf("unit price for product %d variant %d clamped to zero", resolution.Product.ID, resolution.Variant.ID)
		}
		logger.Warnw("unit_price_clamped",
			"product_id", resolution.Product.ID,
			"variant_id", variantID(resolution.Variant),
			"raw_price", unit.String())
		warnings = append(warnings, warning)
		unit = decimal.Zero
	}

	unitPrice := models.NewMoneyFromDecimal(unit)
	lineTotal := models.NewMoneyFromDecimal(unitPrice.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
	line := PricedLine{
		Product:   resolution.Product,
		Variant:   resolution.Variant,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: lineTotal,
	}
	return line, warnings, nil
}

// priceCart prices a set of resolved lines and sums the subtotal.
func priceCart(resolutions []*Resolution, quantities []int) (*PricedCart, error) {
	cart := &PricedCart{}
	subtotal := decimal.Zero
	for i, resolution := range resolutions {
		line, warnings, err := priceLine(resolution, quantities[i])
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
		cart.Warnings = append(cart.Warnings, warnings...)
		subtotal = subtotal.Add(line.LineTotal.Decimal)
	}
	cart.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return cart, nil
}

// orderTotal computes subtotal + shipping fee.
func orderTotal(subtotal, shippingFee models.Money) models.Money {
	return models.NewMoneyFromDecimal(subtotal.Decimal.Add(shippingFee.Decimal))
}

func variantID(variant *models.ProductVariant) uint {
	if variant == nil {
		return 0
	}
	return variant.ID
}
