package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Product is an immutable catalog entry. Category holds the category name.
type Product struct {
	Title    string        `json:"title" yaml:"title" validate:"required"`
	Category string        `json:"category" yaml:"category" validate:"required"`
	Price    pricing.Money `json:"price" yaml:"price"`
}

// Category is a node in the category forest. An empty Parent marks a root.
type Category struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// CartItem is a single cart line. The product is shared, not owned.
type CartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// Amount returns quantity × unit price for the line.
func (it CartItem) Amount() pricing.Money {
	if it.Product == nil {
		return pricing.Zero
	}
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// CategoryName returns the category of the line's product, or "" when the product is missing.
func (it CartItem) CategoryName() string {
	if it.Product == nil {
		return ""
	}
	return it.Product.Category
}
