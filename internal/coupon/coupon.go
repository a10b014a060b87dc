package coupon

import (
	"fmt"

	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Coupon is a cart-wide discount available once the cart reaches MinAmount.
type Coupon struct {
	MinAmount pricing.Money    `json:"minAmount" yaml:"minAmount"`
	Discount  pricing.Discount `json:"discount" yaml:"discount"`
}

// Eligible reports whether the cart amount meets the coupon's minimum.
func Eligible(c Coupon, cartAmount pricing.Money) bool {
	return c.MinAmount.LessThanOrEqual(cartAmount)
}

// SelectMax returns the largest discount among coupons eligible for cartAmount.
// No eligible coupon yields zero.
func SelectMax(coupons []Coupon, cartAmount pricing.OptionalMoney) (pricing.Money, error) {
	if !cartAmount.Valid {
		return pricing.Zero, common.ArgumentRequired("cartAmount")
	}
	amount := cartAmount.Decimal
	best := pricing.None()
	for i, c := range coupons {
		if !Eligible(c, amount) {
			continue
		}
		discount, err := pricing.Resolve(c.Discount, amount)
		if err != nil {
			return pricing.Zero, fmt.Errorf("coupon %d: %w", i, err)
		}
		if !best.Valid || discount.GreaterThan(best.Decimal) {
			best = pricing.Some(discount)
		}
	}
	return pricing.OrZero(best), nil
}
