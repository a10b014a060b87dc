package cart

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/campaign"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/coupon"
	"github.com/noah-isme/toko-checkout/internal/delivery"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Cart is an ordered list of lines. A nil *Cart means no cart was supplied.
type Cart struct {
	Items []catalog.CartItem `json:"items"`
}

// Service prices carts against a fixed set of promotions. It holds no mutable
// state and is safe for concurrent use as long as its slices are not modified.
type Service struct {
	Campaigns  []campaign.Campaign
	Coupons    []coupon.Coupon
	Categories *catalog.Hierarchy
	Rates      delivery.Rates
	Logger     zerolog.Logger
}

type quote struct {
	grouping   Grouping
	perGroup   []pricing.Money
	campaign   pricing.Money
	coupon     pricing.Money
	discounted pricing.Money
}

func checkCart(c *Cart) error {
	if c == nil {
		return common.ArgumentRequired("cart")
	}
	for _, item := range c.Items {
		if item.Product == nil {
			return common.ArgumentRequired("product")
		}
	}
	return nil
}

func (c *Cart) lines() []catalog.CartItem {
	if c.Items == nil {
		return []catalog.CartItem{}
	}
	return c.Items
}

// CampaignDiscount sums, per category, the best campaign discount available for
// that category's subtotal and quantity.
func (s *Service) CampaignDiscount(c *Cart) (pricing.Money, error) {
	if err := checkCart(c); err != nil {
		return pricing.Zero, err
	}
	total, _, err := s.campaignDiscount(GroupByCategory(c.Items))
	return total, err
}

func (s *Service) campaignDiscount(g Grouping) (pricing.Money, []pricing.Money, error) {
	perGroup := make([]pricing.Money, len(g.Groups))
	for i := range perGroup {
		perGroup[i] = pricing.Zero
	}
	if !g.HasTotals() {
		return pricing.Zero, perGroup, nil
	}
	total := pricing.Zero
	for i, group := range g.Groups {
		applicable, err := campaign.FindApplicable(group.Category, group.Quantity, s.Campaigns, s.Categories)
		if err != nil {
			return pricing.Zero, nil, err
		}
		best, err := campaign.MaxDiscount(applicable, pricing.Some(group.Amount))
		if err != nil {
			return pricing.Zero, nil, err
		}
		perGroup[i] = pricing.OrZero(best)
		total = total.Add(perGroup[i])
	}
	return total, perGroup, nil
}

// CouponDiscount returns the best coupon discount for the cart's full amount.
func (s *Service) CouponDiscount(c *Cart) (pricing.Money, error) {
	if err := checkCart(c); err != nil {
		return pricing.Zero, err
	}
	g := GroupByCategory(c.Items)
	return s.couponDiscount(g.TotalQuantity, g.TotalAmount)
}

func (s *Service) couponDiscount(quantity int, amount pricing.Money) (pricing.Money, error) {
	if quantity == 0 || amount.IsZero() {
		return pricing.Zero, nil
	}
	return coupon.SelectMax(s.Coupons, pricing.Some(amount))
}

// TotalAfterDiscounts applies the campaign discount first and then the best
// coupon eligible for the reduced amount.
func (s *Service) TotalAfterDiscounts(c *Cart) (pricing.Money, error) {
	q, err := s.quote(c)
	if err != nil {
		return pricing.Zero, err
	}
	return q.discounted, nil
}

func (s *Service) quote(c *Cart) (quote, error) {
	if err := checkCart(c); err != nil {
		return quote{}, err
	}
	g := GroupByCategory(c.Items)
	campaignTotal, perGroup, err := s.campaignDiscount(g)
	if err != nil {
		return quote{}, err
	}
	afterCampaign := g.TotalAmount.Sub(campaignTotal)
	couponTotal, err := s.couponDiscount(g.TotalQuantity, afterCampaign)
	if err != nil {
		return quote{}, err
	}
	return quote{
		grouping:   g,
		perGroup:   perGroup,
		campaign:   campaignTotal,
		coupon:     couponTotal,
		discounted: afterCampaign.Sub(couponTotal),
	}, nil
}

// DeliveryCost prices delivery for the cart with the service's rates.
func (s *Service) DeliveryCost(c *Cart) (pricing.Money, error) {
	if err := checkCart(c); err != nil {
		return pricing.Zero, err
	}
	return delivery.Cost(c.lines(), s.Rates)
}

// Print builds the receipt for the cart. Any failure aborts the whole receipt.
func (s *Service) Print(c *Cart) (*Receipt, error) {
	q, err := s.quote(c)
	if err != nil {
		return nil, fmt.Errorf("print receipt: %w", err)
	}
	deliveryCost, err := delivery.Cost(c.lines(), s.Rates)
	if err != nil {
		return nil, fmt.Errorf("print receipt: %w", err)
	}

	sections := make([]CategoryLines, 0, len(q.grouping.Groups))
	for i, g := range q.grouping.Groups {
		products := make([]ProductLine, 0, len(g.Lines))
		for _, l := range g.Lines {
			products = append(products, ProductLine{
				Name:       l.Item.Product.Title,
				Quantity:   l.Item.Quantity,
				UnitPrice:  l.Item.Product.Price,
				TotalPrice: l.Amount,
			})
		}
		sections = append(sections, CategoryLines{
			Name:             g.Category,
			Products:         products,
			Quantity:         g.Quantity,
			Amount:           g.Amount,
			CampaignDiscount: q.perGroup[i],
		})
	}

	receipt := &Receipt{
		Categories:        sections,
		InitialCartAmount: q.grouping.TotalAmount,
		CampaignDiscount:  q.campaign,
		CouponDiscount:    q.coupon,
		DeliveryCost:      deliveryCost,
		TotalDiscount:     q.grouping.TotalAmount.Sub(q.discounted),
		TotalCartAmount:   q.discounted.Add(deliveryCost),
	}
	s.Logger.Debug().
		Int("lines", len(c.Items)).
		Str("campaign_discount", q.campaign.String()).
		Str("coupon_discount", q.coupon.String()).
		Str("delivery_cost", deliveryCost.String()).
		Str("total", receipt.TotalCartAmount.String()).
		Msg("receipt printed")
	return receipt, nil
}
