package campaign

import (
	"fmt"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Campaign discounts every line of a category (and its descendants) once the
// category holds at least MinQuantity items.
type Campaign struct {
	Category    string           `json:"category" yaml:"category" validate:"required"`
	Discount    pricing.Discount `json:"discount" yaml:"discount"`
	MinQuantity int              `json:"minQuantity" yaml:"minQuantity" validate:"gte=0"`
}

// Qualifies reports whether the campaign targets the category and its threshold is met.
func (c Campaign) Qualifies(category string, quantity int) bool {
	return c.Category == category && c.MinQuantity <= quantity
}

// FindApplicable returns the campaigns that apply to the category or any of its
// ancestors for the given quantity. Own-category matches come first, followed by
// each ancestor's matches nearest-first. Ancestors are evaluated with the same quantity.
func FindApplicable(category string, quantity int, campaigns []Campaign, categories *catalog.Hierarchy) ([]Campaign, error) {
	if category == "" {
		return nil, common.ArgumentRequired("category")
	}
	if quantity <= 0 {
		return nil, common.ArgumentRequired("quantity")
	}
	lineage, err := categories.Lineage(category)
	if err != nil {
		return nil, fmt.Errorf("resolve campaigns for %q: %w", category, err)
	}
	applicable := make([]Campaign, 0)
	for _, name := range lineage {
		for _, c := range campaigns {
			if c.Qualifies(name, quantity) {
				applicable = append(applicable, c)
			}
		}
	}
	return applicable, nil
}

// MaxDiscount resolves every campaign against categoryAmount and returns the largest
// discount. An empty campaign list yields an absent result.
func MaxDiscount(campaigns []Campaign, categoryAmount pricing.OptionalMoney) (pricing.OptionalMoney, error) {
	_, discount, err := Best(campaigns, categoryAmount)
	return discount, err
}

// Best is MaxDiscount that also reports the winning campaign. On ties the first
// maximal campaign wins.
func Best(campaigns []Campaign, categoryAmount pricing.OptionalMoney) (Campaign, pricing.OptionalMoney, error) {
	if !categoryAmount.Valid {
		return Campaign{}, pricing.None(), common.ArgumentRequired("categoryAmount")
	}
	var (
		winner Campaign
		best   = pricing.None()
	)
	for _, c := range campaigns {
		discount, err := pricing.Resolve(c.Discount, categoryAmount.Decimal)
		if err != nil {
			return Campaign{}, pricing.None(), fmt.Errorf("campaign %q: %w", c.Category, err)
		}
		if !best.Valid || discount.GreaterThan(best.Decimal) {
			winner = c
			best = pricing.Some(discount)
		}
	}
	return winner, best, nil
}
