// Package repo keeps the catalog and promotion data served by the checkout API.
package repo

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/toko-checkout/internal/campaign"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/coupon"
	"github.com/noah-isme/toko-checkout/internal/store"
)

// Snapshot is a consistent view of the promotion data. Fingerprint digests
// the full catalog content, so equal fingerprints mean equal prices.
type Snapshot struct {
	Fingerprint string
	Categories *catalog.Hierarchy
	Campaigns  []campaign.Campaign
	Coupons    []coupon.Coupon
}

// Catalog owns the category, product, campaign and coupon collections.
// Every campaign or coupon mutation recomputes the content fingerprint.
type Catalog struct {
	mu          sync.RWMutex
	fingerprint string
	hierarchy  *catalog.Hierarchy
	categories *store.Collection[catalog.Category]
	products   *store.Collection[catalog.Product]
	campaigns  *store.Collection[campaign.Campaign]
	coupons    *store.Collection[coupon.Coupon]
}

// NewCatalog seeds a catalog from fixtures.
func NewCatalog(fx Fixtures) *Catalog {
	c := &Catalog{
		hierarchy:  catalog.NewHierarchy(fx.Categories),
		categories: store.NewCollection(fx.Categories...),
		products:   store.NewCollection(fx.Products...),
		campaigns:  store.NewCollection(fx.Campaigns...),
		coupons:    store.NewCollection(fx.Coupons...),
	}
	c.refreshLocked()
	return c
}

// Snapshot returns the promotion data together with its fingerprint.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Fingerprint: c.fingerprint,
		Categories:  c.hierarchy,
		Campaigns:   c.campaigns.Entities(),
		Coupons:     c.coupons.Entities(),
	}
}

// refreshLocked recomputes the fingerprint; c.mu must be held for writing.
// Content that cannot be encoded gets a fingerprint unique to this state.
func (c *Catalog) refreshLocked() {
	sum, err := common.Digest(
		c.hierarchy.Categories(),
		c.products.Entities(),
		c.campaigns.Entities(),
		c.coupons.Entities(),
	)
	if err != nil {
		sum = "unencodable:" + uuid.NewString()
	}
	c.fingerprint = sum
}

// Categories lists categories in declaration order.
func (c *Catalog) Categories() []catalog.Category {
	return c.categories.Entities()
}

// Products lists products in declaration order.
func (c *Catalog) Products() []catalog.Product {
	return c.products.Entities()
}

// ProductByTitle returns a copy of the product with the given title.
func (c *Catalog) ProductByTitle(title string) (*catalog.Product, bool) {
	recs := c.products.Fetch(func(p catalog.Product) bool { return p.Title == title })
	if len(recs) == 0 {
		return nil, false
	}
	p := recs[0].Entity
	return &p, true
}

// Campaigns lists the stored campaign records.
func (c *Catalog) Campaigns() []store.Record[campaign.Campaign] {
	return c.campaigns.All()
}

// Coupons lists the stored coupon records.
func (c *Catalog) Coupons() []store.Record[coupon.Coupon] {
	return c.coupons.All()
}

// AddCampaign stores a campaign for a known category.
func (c *Catalog) AddCampaign(cp campaign.Campaign) (store.Record[campaign.Campaign], error) {
	if !c.hierarchy.Contains(cp.Category) {
		return store.Record[campaign.Campaign]{}, unknownCategory(cp.Category)
	}
	if err := checkDiscount(cp.Discount); err != nil {
		return store.Record[campaign.Campaign]{}, invalidDiscount(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.campaigns.Save(cp)
	c.refreshLocked()
	return rec, nil
}

// RemoveCampaign deletes a campaign and reports whether it existed.
func (c *Catalog) RemoveCampaign(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.campaigns.Remove(id) {
		return false
	}
	c.refreshLocked()
	return true
}

// AddCoupon stores a coupon.
func (c *Catalog) AddCoupon(cp coupon.Coupon) (store.Record[coupon.Coupon], error) {
	if cp.MinAmount.IsNegative() {
		return store.Record[coupon.Coupon]{}, invalidDiscount(errors.New("negative minimum amount"))
	}
	if err := checkDiscount(cp.Discount); err != nil {
		return store.Record[coupon.Coupon]{}, invalidDiscount(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.coupons.Save(cp)
	c.refreshLocked()
	return rec, nil
}

// RemoveCoupon deletes a coupon and reports whether it existed.
func (c *Catalog) RemoveCoupon(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.coupons.Remove(id) {
		return false
	}
	c.refreshLocked()
	return true
}

func unknownCategory(name string) *common.AppError {
	return &common.AppError{
		Code:       "UNKNOWN_CATEGORY",
		Message:    fmt.Sprintf("unknown category: %q", name),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"category": name},
	}
}

func invalidDiscount(err error) *common.AppError {
	return &common.AppError{
		Code:       "INVALID_DISCOUNT",
		Message:    err.Error(),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}
