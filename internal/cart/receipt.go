package cart

import "github.com/noah-isme/toko-checkout/internal/pricing"

// ProductLine is one product row of a receipt.
type ProductLine struct {
	Name       string        `json:"name"`
	Quantity   int           `json:"quantity"`
	UnitPrice  pricing.Money `json:"unitPrice"`
	TotalPrice pricing.Money `json:"totalPrice"`
}

// CategoryLines is the receipt section for one category.
type CategoryLines struct {
	Name             string        `json:"name"`
	Products         []ProductLine `json:"products"`
	Quantity         int           `json:"quantity"`
	Amount           pricing.Money `json:"amount"`
	CampaignDiscount pricing.Money `json:"campaignDiscount"`
}

// Receipt is the printable summary of a cart.
type Receipt struct {
	Categories        []CategoryLines `json:"categories"`
	InitialCartAmount pricing.Money   `json:"initialCartAmount"`
	CampaignDiscount  pricing.Money   `json:"campaignDiscount"`
	CouponDiscount    pricing.Money   `json:"couponDiscount"`
	DeliveryCost      pricing.Money   `json:"deliveryCost"`
	TotalDiscount     pricing.Money   `json:"totalDiscount"`
	TotalCartAmount   pricing.Money   `json:"totalCartAmount"`
}
