package repo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/campaign"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/coupon"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	fx, err := LoadFile("../../fixtures/catalog.yaml", nil)
	require.NoError(t, err)
	return NewCatalog(fx)
}

func TestProductByTitle(t *testing.T) {
	c := testCatalog(t)

	p, ok := c.ProductByTitle("Red Apple")
	require.True(t, ok)
	require.Equal(t, "Apple", p.Category)

	p.Price = pricing.MustParse("999")
	again, _ := c.ProductByTitle("Red Apple")
	require.True(t, again.Price.Equal(pricing.MustParse("2.5")))

	_, ok = c.ProductByTitle("Pineapple")
	require.False(t, ok)
}

func TestSnapshotReflectsMutations(t *testing.T) {
	c := testCatalog(t)
	before := c.Snapshot()
	require.Len(t, before.Fingerprint, 64)
	require.Len(t, before.Campaigns, 4)
	require.True(t, before.Categories.Contains("Apple"))

	rec, err := c.AddCampaign(campaign.Campaign{Category: "Computer", Discount: pricing.RateOf(pricing.MustParse("5")), MinQuantity: 1})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	after := c.Snapshot()
	require.NotEqual(t, before.Fingerprint, after.Fingerprint)
	require.Len(t, after.Campaigns, 5)
	require.Len(t, before.Campaigns, 4)

	require.True(t, c.RemoveCampaign(rec.ID))
	require.False(t, c.RemoveCampaign(rec.ID))
	require.Equal(t, before.Fingerprint, c.Snapshot().Fingerprint, "removing the campaign restores the content")
}

func TestAddCampaignRejectsUnknownCategory(t *testing.T) {
	c := testCatalog(t)
	_, err := c.AddCampaign(campaign.Campaign{Category: "Toys", Discount: pricing.RateOf(pricing.MustParse("5"))})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "UNKNOWN_CATEGORY", appErr.Code)
	require.Equal(t, testCatalog(t).Snapshot().Fingerprint, c.Snapshot().Fingerprint)
}

func TestAddCoupon(t *testing.T) {
	c := testCatalog(t)

	_, err := c.AddCoupon(coupon.Coupon{MinAmount: pricing.MustParse("10"), Discount: pricing.Discount{Kind: 7}})
	require.ErrorIs(t, err, pricing.ErrUnsupportedDiscountKind)

	_, err = c.AddCoupon(coupon.Coupon{MinAmount: pricing.MustParse("-1"), Discount: pricing.AmountOf(pricing.MustParse("1"))})
	require.Error(t, err)

	rec, err := c.AddCoupon(coupon.Coupon{MinAmount: pricing.MustParse("500"), Discount: pricing.AmountOf(pricing.MustParse("50"))})
	require.NoError(t, err)
	require.Len(t, c.Coupons(), 4)
	require.True(t, c.RemoveCoupon(rec.ID))
	require.Len(t, c.Coupons(), 3)
}

func TestConcurrentMutationsKeepSnapshotConsistent(t *testing.T) {
	c := testCatalog(t)
	seen := make(chan string, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.AddCoupon(coupon.Coupon{MinAmount: pricing.MustParse("1"), Discount: pricing.AmountOf(pricing.MustParse("1"))}); err != nil {
				t.Error(err)
			}
			seen <- c.Snapshot().Fingerprint
		}()
	}
	wg.Wait()
	close(seen)
	for fp := range seen {
		require.Len(t, fp, 64)
	}
	snap := c.Snapshot()
	require.Len(t, snap.Coupons, 23)

	fx, err := LoadFile("../../fixtures/catalog.yaml", nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		fx.Coupons = append(fx.Coupons, coupon.Coupon{MinAmount: pricing.MustParse("1"), Discount: pricing.AmountOf(pricing.MustParse("1"))})
	}
	require.Equal(t, NewCatalog(fx).Snapshot().Fingerprint, snap.Fingerprint)
}

func TestFingerprintCoversEveryCollection(t *testing.T) {
	fx, err := LoadFile("../../fixtures/catalog.yaml", nil)
	require.NoError(t, err)
	base := NewCatalog(fx).Snapshot().Fingerprint
	require.Equal(t, base, NewCatalog(fx).Snapshot().Fingerprint, "same content, same fingerprint")

	repriced := fx
	repriced.Products = append([]catalog.Product(nil), fx.Products...)
	repriced.Products[0].Price = pricing.MustParse("9")
	require.NotEqual(t, base, NewCatalog(repriced).Snapshot().Fingerprint)

	reparented := fx
	reparented.Categories = append([]catalog.Category(nil), fx.Categories...)
	reparented.Categories[2].Parent = "Food"
	require.NotEqual(t, base, NewCatalog(reparented).Snapshot().Fingerprint)

	fewer := fx
	fewer.Campaigns = fx.Campaigns[1:]
	require.NotEqual(t, base, NewCatalog(fewer).Snapshot().Fingerprint)
}
