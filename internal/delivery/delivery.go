package delivery

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Rates holds the delivery tariff.
type Rates struct {
	// PerDelivery is charged once per distinct category in the cart.
	PerDelivery pricing.Money `json:"costPerDelivery"`
	// PerProduct is charged once per cart line, regardless of quantity.
	PerProduct pricing.Money `json:"costPerProduct"`
	Fixed      pricing.Money `json:"fixedCost"`
}

// DefaultRates returns the standard tariff: 2.0 per delivery, 1.0 per product, 2.99 fixed.
func DefaultRates() Rates {
	return Rates{
		PerDelivery: pricing.MustParse("2.0"),
		PerProduct:  pricing.MustParse("1.0"),
		Fixed:       pricing.MustParse("2.99"),
	}
}

// Cost computes the delivery fee for the cart lines. A nil slice means the cart
// was not supplied; an empty slice costs nothing, fixed cost included.
func Cost(lines []catalog.CartItem, rates Rates) (pricing.Money, error) {
	if lines == nil {
		return pricing.Zero, common.ArgumentRequired("cart")
	}
	if len(lines) == 0 {
		return pricing.Zero, nil
	}
	categories := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		categories[line.CategoryName()] = struct{}{}
	}
	deliveries := rates.PerDelivery.Mul(decimal.NewFromInt(int64(len(categories))))
	products := rates.PerProduct.Mul(decimal.NewFromInt(int64(len(lines))))
	return deliveries.Add(products).Add(rates.Fixed), nil
}
